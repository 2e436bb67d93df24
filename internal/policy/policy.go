// Package policy decides which actor may perform which workflow action. The
// core treats it as an external predicate: handlers ask before calling the
// service, and the service never inspects roles.
package policy

import (
	id "github.com/Joenyengs/backend/pkg/domain"
)

// Action names a capability.
type Action string

const (
	ActionSubmitApplication  Action = "submit_application"
	ActionViewApplication    Action = "view_application"
	ActionListApplications   Action = "list_applications"
	ActionCommentApplication Action = "comment_application"
	ActionViewSummary        Action = "view_summary"
	ActionRecordTreatment    Action = "record_treatment"
	ActionViewTreatments     Action = "view_treatments"
	ActionFileAppeal         Action = "file_appeal"
	ActionViewAppeal         Action = "view_appeal"
	ActionListAppeals        Action = "list_appeals"
	ActionResolveAppeal      Action = "resolve_appeal"
)

// Scope limits a grant.
type Scope int

const (
	// ScopeOwn grants the action only on resources the actor owns.
	ScopeOwn Scope = iota + 1
	ScopeAny
)

// Actor is the authenticated caller.
type Actor struct {
	ID   id.UserID
	Role id.Role
}

// Resource is what the action targets. A zero OwnerID means the action is not
// about a specific owned resource (listing, creation).
type Resource struct {
	OwnerID id.UserID
}

// CapabilityChecker is the predicate handlers consult.
type CapabilityChecker interface {
	HasCapability(actor Actor, action Action, resource Resource) bool
}

// RoleCapabilities is the default grant table.
var RoleCapabilities = map[id.Role]map[Action]Scope{
	id.RoleCandidate: {
		ActionSubmitApplication: ScopeAny,
		ActionViewApplication:   ScopeOwn,
		ActionFileAppeal:        ScopeOwn,
		ActionViewAppeal:        ScopeOwn,
	},
	id.RoleEvaluator: {
		ActionViewApplication:  ScopeAny,
		ActionListApplications: ScopeAny,
		ActionRecordTreatment:  ScopeAny,
		ActionViewTreatments:   ScopeAny,
	},
	id.RoleAdmin: {
		ActionViewApplication:    ScopeAny,
		ActionListApplications:   ScopeAny,
		ActionCommentApplication: ScopeAny,
		ActionViewSummary:        ScopeAny,
		ActionViewTreatments:     ScopeAny,
		ActionViewAppeal:         ScopeAny,
		ActionListAppeals:        ScopeAny,
		ActionResolveAppeal:      ScopeAny,
	},
	id.RoleAgent: {
		ActionViewApplication:  ScopeAny,
		ActionListApplications: ScopeAny,
		ActionViewSummary:      ScopeAny,
	},
}

// RoleChecker grants actions from a role table.
type RoleChecker struct {
	grants map[id.Role]map[Action]Scope
}

// NewRoleChecker uses RoleCapabilities when grants is nil.
func NewRoleChecker(grants map[id.Role]map[Action]Scope) *RoleChecker {
	if grants == nil {
		grants = RoleCapabilities
	}
	return &RoleChecker{grants: grants}
}

func (c *RoleChecker) HasCapability(actor Actor, action Action, resource Resource) bool {
	if actor.ID.IsNil() {
		return false
	}
	scope, ok := c.grants[actor.Role][action]
	if !ok {
		return false
	}
	if scope == ScopeOwn && !resource.OwnerID.IsNil() {
		return resource.OwnerID == actor.ID
	}
	return true
}
