package auth

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Authenticator interface {
	GenerateAccessToken(userID int64) (string, error)
	GenerateRefreshToken(userID int64) (string, error)
	DecodeToken(token, expectedType string) (*Claims, error)
}
