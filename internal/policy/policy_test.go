package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	id "github.com/Joenyengs/backend/pkg/domain"
)

func TestRoleChecker(t *testing.T) {
	checker := NewRoleChecker(nil)
	candidate := Actor{ID: id.UserID(uuid.New()), Role: id.RoleCandidate}
	evaluator := Actor{ID: id.UserID(uuid.New()), Role: id.RoleEvaluator}
	admin := Actor{ID: id.UserID(uuid.New()), Role: id.RoleAdmin}
	own := Resource{OwnerID: candidate.ID}
	foreign := Resource{OwnerID: id.UserID(uuid.New())}

	tests := []struct {
		name     string
		actor    Actor
		action   Action
		resource Resource
		want     bool
	}{
		{"candidate submits", candidate, ActionSubmitApplication, Resource{}, true},
		{"candidate views own application", candidate, ActionViewApplication, own, true},
		{"candidate cannot view another application", candidate, ActionViewApplication, foreign, false},
		{"candidate appeals own application", candidate, ActionFileAppeal, own, true},
		{"candidate cannot appeal for someone else", candidate, ActionFileAppeal, foreign, false},
		{"candidate cannot evaluate", candidate, ActionRecordTreatment, Resource{}, false},
		{"evaluator records treatments", evaluator, ActionRecordTreatment, foreign, true},
		{"evaluator cannot resolve appeals", evaluator, ActionResolveAppeal, Resource{}, false},
		{"admin resolves appeals", admin, ActionResolveAppeal, foreign, true},
		{"admin does not evaluate", admin, ActionRecordTreatment, Resource{}, false},
		{"unknown role has nothing", Actor{ID: admin.ID, Role: "guest"}, ActionViewApplication, Resource{}, false},
		{"anonymous has nothing", Actor{Role: id.RoleAdmin}, ActionViewApplication, Resource{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checker.HasCapability(tt.actor, tt.action, tt.resource))
		})
	}
}
