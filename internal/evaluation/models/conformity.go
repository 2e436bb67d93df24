package models

import (
	"strings"

	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
)

// Judgement is an evaluator's assessment of one supporting document.
type Judgement string

const (
	JudgementConforming    Judgement = "conforming"
	JudgementNonConforming Judgement = "non_conforming"
	JudgementFalsified     Judgement = "falsified"
	JudgementOther         Judgement = "other"
)

// ParseJudgement normalizes an evaluator input. An empty value means the
// evaluator left the document unmarked and counts as non-conforming.
func ParseJudgement(s string) (Judgement, error) {
	j := Judgement(strings.ToLower(strings.TrimSpace(s)))
	if j == "" {
		return JudgementNonConforming, nil
	}
	if !j.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid judgement: "+s)
	}
	return j, nil
}

func (j Judgement) IsValid() bool {
	switch j {
	case JudgementConforming, JudgementNonConforming, JudgementFalsified, JudgementOther:
		return true
	}
	return false
}

func (j Judgement) String() string { return string(j) }

// DocumentKind names one of the five supporting documents.
type DocumentKind string

const (
	DocumentCV                 DocumentKind = "cv"
	DocumentCoverLetter        DocumentKind = "cover_letter"
	DocumentDiploma            DocumentKind = "diploma"
	DocumentFitnessCertificate DocumentKind = "fitness_certificate"
	DocumentIdentity           DocumentKind = "identity_document"
)

// DocumentKinds lists the documents in review order.
var DocumentKinds = []DocumentKind{
	DocumentCV,
	DocumentCoverLetter,
	DocumentDiploma,
	DocumentFitnessCertificate,
	DocumentIdentity,
}

// Conformity holds one judgement per supporting document.
type Conformity struct {
	CV                 Judgement `json:"cv"`
	CoverLetter        Judgement `json:"cover_letter"`
	Diploma            Judgement `json:"diploma"`
	FitnessCertificate Judgement `json:"fitness_certificate"`
	IdentityDocument   Judgement `json:"identity_document"`
}

// ParseConformity builds a Conformity from raw per-document values keyed by
// DocumentKind. Missing keys are treated as unmarked.
func ParseConformity(raw map[DocumentKind]string) (Conformity, error) {
	var c Conformity
	for _, kind := range DocumentKinds {
		j, err := ParseJudgement(raw[kind])
		if err != nil {
			return Conformity{}, dErrors.New(dErrors.CodeValidation, string(kind)+": "+dErrors.MessageOf(err))
		}
		*c.field(kind) = j
	}
	return c, nil
}

// Validate checks every judgement after normalizing unmarked ones.
func (c *Conformity) Validate() error {
	for _, kind := range DocumentKinds {
		f := c.field(kind)
		if *f == "" {
			*f = JudgementNonConforming
			continue
		}
		if !f.IsValid() {
			return dErrors.New(dErrors.CodeValidation, string(kind)+": invalid judgement: "+string(*f))
		}
	}
	return nil
}

// Get returns the judgement for a document.
func (c Conformity) Get(kind DocumentKind) Judgement {
	return *c.field(kind)
}

// AllConforming reports whether every document was judged conforming.
func (c Conformity) AllConforming() bool {
	for _, kind := range DocumentKinds {
		if c.Get(kind) != JudgementConforming {
			return false
		}
	}
	return true
}

func (c *Conformity) field(kind DocumentKind) *Judgement {
	switch kind {
	case DocumentCV:
		return &c.CV
	case DocumentCoverLetter:
		return &c.CoverLetter
	case DocumentDiploma:
		return &c.Diploma
	case DocumentFitnessCertificate:
		return &c.FitnessCertificate
	case DocumentIdentity:
		return &c.IdentityDocument
	}
	panic("models: unknown document kind " + string(kind))
}
