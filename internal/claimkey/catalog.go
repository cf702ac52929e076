// Package claimkey infers wording-independent canonical keys for factual
// questions via a deterministic, ordered pattern catalog.
package claimkey

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/factline/factline/internal/model"
)

// Entry is one catalog row: a trigger pattern plus the key template and
// canonical question it produces. More specific entries must be registered
// before generic fallbacks; the matcher takes the first hit.
type Entry struct {
	Name         string `yaml:"name" json:"name"`
	Trigger      string `yaml:"trigger" json:"trigger"` // regular expression over assertion text
	KeyTemplate  string `yaml:"key" json:"key"`         // may contain {product}/{subject} placeholders
	Domain       string `yaml:"domain" json:"domain"`
	Question     string `yaml:"question" json:"question"`
	ExpectedKind string `yaml:"expected_kind" json:"expected_kind"`
	Language     string `yaml:"language,omitempty" json:"language,omitempty"`
}

// Catalog is the ordered list of entries
type Catalog struct {
	Version string  `yaml:"version" json:"version"`
	Entries []Entry `yaml:"entries" json:"entries"`
}

// Load reads a catalog from a YAML file
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	return cat, nil
}

// DefaultCatalog returns the built-in pattern catalog. Ordering matters:
// specific shapes (availability SLA, TLS version) come before the generic
// requirement fallback.
func DefaultCatalog() Catalog {
	return Catalog{
		Version: "builtin-1",
		Entries: []Entry{
			{
				Name:         "availability_sla",
				Trigger:      `(?i)\b(availability|uptime)\b.*\d+([.,]\d+)?\s*(%|percent|prozent)`,
				KeyTemplate:  "sla.availability.{product}",
				Domain:       "sla",
				Question:     "What availability does {product} guarantee?",
				ExpectedKind: string(model.ValuePercent),
			},
			{
				Name:         "support_response_time",
				Trigger:      `(?i)\b(response time|respond within|responds within|reaction time)\b`,
				KeyTemplate:  "support.response_time.{product}",
				Domain:       "support",
				Question:     "Within what time does support respond for {product}?",
				ExpectedKind: string(model.ValueNumber),
			},
			{
				Name:         "tls_min_version",
				Trigger:      `(?i)\btls\s*v?\d+(\.\d+)?\b`,
				KeyTemplate:  "security.tls.min_version",
				Domain:       "security",
				Question:     "What is the minimum required TLS version?",
				ExpectedKind: string(model.ValueVersion),
			},
			{
				Name:         "password_min_length",
				Trigger:      `(?i)\bpasswords?\b.*\b(characters?|length|zeichen)\b`,
				KeyTemplate:  "security.password.min_length",
				Domain:       "security",
				Question:     "What is the minimum password length?",
				ExpectedKind: string(model.ValueNumber),
			},
			{
				Name:         "encryption_required",
				Trigger:      `(?i)\b(encrypt(ed|ion)?|verschlüsselt|verschlüsselung)\b`,
				KeyTemplate:  "security.encryption.{subject}",
				Domain:       "security",
				Question:     "Is {subject} encrypted?",
				ExpectedKind: string(model.ValueBoolean),
			},
			{
				Name:         "backup_frequency",
				Trigger:      `(?i)\bbackups?\b.*\b(hourly|daily|weekly|monthly|frequency|täglich|wöchentlich)\b`,
				KeyTemplate:  "backup.frequency.{product}",
				Domain:       "backup",
				Question:     "How often is {product} backed up?",
				ExpectedKind: string(model.ValueEnum),
			},
			{
				Name:         "backup_required",
				Trigger:      `(?i)\b(backups?|sicherung)\b`,
				KeyTemplate:  "backup.required.{subject}",
				Domain:       "backup",
				Question:     "Is a backup required for {subject}?",
				ExpectedKind: string(model.ValueBoolean),
			},
			{
				Name:         "retention_period",
				Trigger:      `(?i)\b(retention|retained|aufbewahrung|aufbewahrt)\b`,
				KeyTemplate:  "data.retention_period.{subject}",
				Domain:       "data",
				Question:     "How long is {subject} retained?",
				ExpectedKind: string(model.ValueNumber),
			},
			{
				Name:         "recovery_point_objective",
				Trigger:      `(?i)\b(rpo|recovery point objective)\b`,
				KeyTemplate:  "continuity.rpo.{product}",
				Domain:       "continuity",
				Question:     "What is the recovery point objective for {product}?",
				ExpectedKind: string(model.ValueNumber),
			},
			{
				Name:         "recovery_time_objective",
				Trigger:      `(?i)\b(rto|recovery time objective)\b`,
				KeyTemplate:  "continuity.rto.{product}",
				Domain:       "continuity",
				Question:     "What is the recovery time objective for {product}?",
				ExpectedKind: string(model.ValueNumber),
			},
			{
				Name:         "data_residency",
				Trigger:      `(?i)\bdata\b.*\b(stored|hosted|located|residency|processed)\b`,
				KeyTemplate:  "data.residency.{product}",
				Domain:       "data",
				Question:     "Where is {product} data stored?",
				ExpectedKind: string(model.ValueEnum),
			},
			{
				Name:         "maintenance_window",
				Trigger:      `(?i)\b(maintenance window|wartungsfenster)\b`,
				KeyTemplate:  "ops.maintenance_window.{product}",
				Domain:       "ops",
				Question:     "When is the maintenance window for {product}?",
				ExpectedKind: string(model.ValueNone),
			},
			{
				// Generic fallback for prescriptive statements without a
				// more specific shape; keeps them addressable by key
				Name:         "generic_requirement",
				Trigger:      `(?i)\b(must|shall|required|erforderlich|verpflichtend)\b`,
				KeyTemplate:  "requirement.{subject}",
				Domain:       "requirement",
				Question:     "What is required of {subject}?",
				ExpectedKind: string(model.ValueNone),
			},
		},
	}
}
