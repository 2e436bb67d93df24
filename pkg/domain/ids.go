package domain

import (
	"github.com/google/uuid"

	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
)

// Typed identifiers keep application, treatment and appeal IDs from being
// passed where another kind is expected.
type (
	UserID         uuid.UUID
	ApplicationID  uuid.UUID
	TreatmentID    uuid.UUID
	AppealID       uuid.UUID
	AppealActionID uuid.UUID
)

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id ApplicationID) String() string  { return uuid.UUID(id).String() }
func (id TreatmentID) String() string    { return uuid.UUID(id).String() }
func (id AppealID) String() string       { return uuid.UUID(id).String() }
func (id AppealActionID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id ApplicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id TreatmentID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id AppealID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }

func NewApplicationID() ApplicationID   { return ApplicationID(uuid.New()) }
func NewTreatmentID() TreatmentID       { return TreatmentID(uuid.New()) }
func NewAppealID() AppealID             { return AppealID(uuid.New()) }
func NewAppealActionID() AppealActionID { return AppealActionID(uuid.New()) }

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user ID")
	return UserID(u), err
}

func ParseApplicationID(s string) (ApplicationID, error) {
	u, err := parseUUID(s, "application ID")
	return ApplicationID(u), err
}

func ParseTreatmentID(s string) (TreatmentID, error) {
	u, err := parseUUID(s, "treatment ID")
	return TreatmentID(u), err
}

func ParseAppealID(s string) (AppealID, error) {
	u, err := parseUUID(s, "appeal ID")
	return AppealID(u), err
}

// parseUUID rejects empty, malformed and nil UUIDs.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" must not be nil")
	}
	return u, nil
}
