package domain

import dErrors "github.com/Joenyengs/backend/pkg/domain-errors"

// Role is the tag the identity provider attaches to an actor. The core trusts
// it for capability checks and never manages it.
type Role string

const (
	RoleCandidate Role = "candidat"
	RoleEvaluator Role = "evaluateur"
	RoleAdmin     Role = "admin"
	RoleAgent     Role = "agent"
)

var knownRoles = map[Role]bool{
	RoleCandidate: true,
	RoleEvaluator: true,
	RoleAdmin:     true,
	RoleAgent:     true,
}

// ParseRole validates a role tag from a token or header.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !knownRoles[r] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role: "+s)
	}
	return r, nil
}

func (r Role) String() string { return string(r) }
