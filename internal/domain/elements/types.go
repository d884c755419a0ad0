package elements

// Kind identifies the protected resource category an element stands for.
type Kind string

const (
	KindUsers    Kind = "users"
	KindProducts Kind = "products"
	KindOrders   Kind = "orders"
	KindStores   Kind = "stores"
)

func (k Kind) Valid() bool {
	switch k {
	case KindUsers, KindProducts, KindOrders, KindStores:
		return true
	}
	return false
}

// Element is a protected resource category that access rules are scoped
// to. Uniqueness is enforced on the human label, matching the lookup the
// API performs.
type Element struct {
	ID      int64  `json:"id"`
	Kind    Kind   `json:"kind"`
	Name    string `json:"name"`
	Comment string `json:"comment,omitempty"`
}
