// Package policy decides who may do what. It layers a static role
// hierarchy over the data-driven access-rule matrix: the hierarchy
// answers role-vs-role questions (who may manage whom, who may mutate
// rules), the matrix answers element-scoped questions (may this role
// read/create/update/delete records of that business element). Both
// layers fail closed.
package policy

import "sentinel/internal/domain/accessrules"

type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

func (o Operation) Valid() bool {
	switch o {
	case OpRead, OpCreate, OpUpdate, OpDelete:
		return true
	}
	return false
}

type Decision struct {
	Allow bool `json:"allow"`
}

var (
	Allow = Decision{Allow: true}
	Deny  = Decision{Allow: false}
)

// Evaluate applies the permission matrix of a single rule. A nil rule
// means no rule exists for the (role, element) pair and always denies.
// Create has no ownership notion; read, update and delete allow when the
// "all" flag is set or when the requester owns the record and the plain
// flag is set.
func Evaluate(rule *accessrules.Rule, op Operation, isOwner bool) Decision {
	if rule == nil {
		return Deny
	}
	switch op {
	case OpCreate:
		return Decision{Allow: rule.Create}
	case OpRead:
		return Decision{Allow: rule.ReadAll || (isOwner && rule.Read)}
	case OpUpdate:
		return Decision{Allow: rule.UpdateAll || (isOwner && rule.Update)}
	case OpDelete:
		return Decision{Allow: rule.DeleteAll || (isOwner && rule.Delete)}
	}
	return Deny
}
