package eligibility

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Policy holds the auto-rejection thresholds. A candidate passes the age
// rule only when MinAge < age < MaxAge.
type Policy struct {
	MinAge               int      `yaml:"min_age"`
	MaxAge               int      `yaml:"max_age"`
	RestrictedEducation  []string `yaml:"restricted_education"`
	ReferenceNationality string   `yaml:"reference_nationality"`
}

// DefaultPolicy is the recruitment campaign's standing rule set.
func DefaultPolicy() Policy {
	return Policy{
		MinAge:               18,
		MaxAge:               36,
		RestrictedEducation:  []string{"graduat", "diplome_etat", "licence_bac+3"},
		ReferenceNationality: "RDC",
	}
}

// LoadPolicy reads a YAML policy file. Keys absent from the file keep their
// default values; an empty path returns the defaults.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read eligibility policy: %w", err)
	}
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return Policy{}, fmt.Errorf("parse eligibility policy: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return Policy{}, err
	}
	return policy, nil
}

// Validate rejects inconsistent thresholds.
func (p Policy) Validate() error {
	if p.MinAge < 0 || p.MaxAge <= p.MinAge+1 {
		return fmt.Errorf("eligibility policy: age window (%d, %d) admits nobody", p.MinAge, p.MaxAge)
	}
	if strings.TrimSpace(p.ReferenceNationality) == "" {
		return fmt.Errorf("eligibility policy: reference_nationality is required")
	}
	return nil
}
