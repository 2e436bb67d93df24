package audit

import (
	"time"

	id "github.com/Joenyengs/backend/pkg/domain"
)

// EventCategory classifies audit events by retention and routing needs.
type EventCategory string

const (
	// CategoryCompliance covers decisions on a candidate's file. These must be
	// persisted with the change that caused them.
	CategoryCompliance EventCategory = "compliance"
	// CategoryOperations covers routine reviewer activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// ActorID is the user who performed the action.
	ActorID id.UserID
	// Subject is the aggregate the action touched, usually an application ID.
	Subject   string
	Action    string
	Decision  string
	Reason    string
	RequestID string
}

type AuditEvent string

const (
	EventApplicationSubmitted AuditEvent = "application_submitted"
	EventTreatmentRecorded    AuditEvent = "treatment_recorded"
	EventStatusChanged        AuditEvent = "application_status_changed"
	EventAdminCommentUpdated  AuditEvent = "admin_comment_updated"
	EventAppealFiled          AuditEvent = "appeal_filed"
	EventAppealResolved       AuditEvent = "appeal_resolved"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventApplicationSubmitted: CategoryCompliance,
	EventTreatmentRecorded:    CategoryCompliance,
	EventStatusChanged:        CategoryCompliance,
	EventAppealFiled:          CategoryCompliance,
	EventAppealResolved:       CategoryCompliance,
	EventAdminCommentUpdated:  CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
