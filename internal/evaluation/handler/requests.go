package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"github.com/Joenyengs/backend/internal/evaluation/models"
	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
	strutil "github.com/Joenyengs/backend/pkg/platform/strings"
)

const birthDateLayout = "2006-01-02"

// SubmitApplicationRequest is the body of POST /applications.
type SubmitApplicationRequest struct {
	BirthDate      string           `json:"birth_date"`
	EducationLevel string           `json:"education_level"`
	Nationality    string           `json:"nationality"`
	OriginRegion   string           `json:"origin_region"`
	Documents      models.Documents `json:"documents"`

	parsedBirthDate *time.Time
}

func (r *SubmitApplicationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.EducationLevel = strings.TrimSpace(r.EducationLevel)
	r.Nationality = strings.TrimSpace(r.Nationality)
	r.OriginRegion = strings.TrimSpace(r.OriginRegion)
	for _, field := range []string{r.EducationLevel, r.Nationality, r.OriginRegion} {
		if !govalidator.StringLength(field, "0", "100") {
			return dErrors.New(dErrors.CodeValidation, "profile fields must be at most 100 characters")
		}
	}

	if b := strings.TrimSpace(r.BirthDate); b != "" {
		t, err := time.Parse(birthDateLayout, b)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "birth_date must be formatted as YYYY-MM-DD")
		}
		r.parsedBirthDate = &t
	}
	return r.Documents.Validate()
}

// Profile returns the validated candidate profile.
func (r *SubmitApplicationRequest) Profile() models.CandidateProfile {
	return models.CandidateProfile{
		BirthDate:      r.parsedBirthDate,
		EducationLevel: r.EducationLevel,
		Nationality:    r.Nationality,
		OriginRegion:   r.OriginRegion,
	}
}

// RecordTreatmentRequest is the body of POST /applications/{id}/treatments.
// Conformity is keyed by document kind; omitted documents count as unmarked.
type RecordTreatmentRequest struct {
	Conformity   map[string]string `json:"conformity"`
	Observations string            `json:"observations"`

	parsedConformity models.Conformity
}

func (r *RecordTreatmentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	raw := make(map[models.DocumentKind]string, len(r.Conformity))
	known := make(map[models.DocumentKind]bool, len(models.DocumentKinds))
	for _, kind := range models.DocumentKinds {
		known[kind] = true
	}
	for key, value := range r.Conformity {
		kind := models.DocumentKind(strings.TrimSpace(key))
		if !known[kind] {
			return dErrors.New(dErrors.CodeValidation, "unknown document: "+key)
		}
		raw[kind] = value
	}
	c, err := models.ParseConformity(raw)
	if err != nil {
		return err
	}
	r.parsedConformity = c
	r.Observations = strings.TrimSpace(r.Observations)
	return nil
}

func (r *RecordTreatmentRequest) ParsedConformity() models.Conformity {
	return r.parsedConformity
}

// FileAppealRequest is the body of POST /applications/{id}/appeal.
type FileAppealRequest struct {
	Motive        string `json:"motive"`
	Justification string `json:"justification"`
	Document      string `json:"document"`
}

func (r *FileAppealRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Motive = strings.TrimSpace(r.Motive)
	r.Justification = strings.TrimSpace(r.Justification)
	r.Document = strings.TrimSpace(r.Document)
	if !govalidator.StringLength(r.Motive, "1", strconv.Itoa(models.MaxMotiveLength)) {
		return dErrors.New(dErrors.CodeValidation, "motive is required and must be at most "+strconv.Itoa(models.MaxMotiveLength)+" characters")
	}
	if !govalidator.StringLength(r.Justification, "1", strconv.Itoa(models.MaxJustificationLength)) {
		return dErrors.New(dErrors.CodeValidation, "justification is required and must be at most "+strconv.Itoa(models.MaxJustificationLength)+" characters")
	}
	if !govalidator.StringLength(r.Document, "0", strconv.Itoa(models.MaxDocumentLength)) {
		return dErrors.New(dErrors.CodeValidation, "document reference is too long")
	}
	return nil
}

// ResolveAppealRequest is the body of POST /appeals/{id}/resolve.
type ResolveAppealRequest struct {
	Comment  string `json:"comment"`
	Overturn bool   `json:"overturn"`
}

func (r *ResolveAppealRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return models.ValidateComment(r.Comment)
}

// UpdateCommentRequest is the body of PUT /applications/{id}/comment.
type UpdateCommentRequest struct {
	Comment string `json:"comment"`
}

func (r *UpdateCommentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return models.ValidateComment(r.Comment)
}

// parseStatuses reads repeated or comma-separated ?status= values.
func parseStatuses(values []string) ([]models.Status, error) {
	var out []models.Status
	for _, part := range strutil.SplitList(values...) {
		st, err := models.ParseStatus(part)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}
