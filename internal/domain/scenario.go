package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SnapshotDocumentVersion tags the embedded document shape. Bump it when the
// document changes shape and migrate explicitly on read.
const SnapshotDocumentVersion = 1

// SnapshotDocument is the full editable state of a scheme plus its last
// computed results, captured verbatim. It is the wire format consumed by
// report rendering and scenario comparison.
type SnapshotDocument struct {
	Version int `json:"version"`

	SchemeProducts          []SchemeProduct    `json:"scheme_products"`
	SchemeInstallationItems []InstallationItem `json:"scheme_installation_items"`
	SchemeA5UsageEntries    []UsageEntry       `json:"scheme_a5_usage_entries"`
	SchemeCarbonResults     []CarbonResultRow  `json:"scheme_carbon_results"`
	SchemeCarbonSummary     *CarbonSummary     `json:"scheme_carbon_summary,omitempty"`
}

// ScenarioSnapshot is an immutable labeled capture of a scheme's state, used
// to branch a scheme into alternatives for side-by-side comparison. Revision
// increments each time the snapshot is explicitly re-captured.
type ScenarioSnapshot struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SchemeID uuid.UUID `gorm:"type:uuid;not null;index" json:"scheme_id"`

	Label string `gorm:"column:label;not null" json:"label"`
	// Once a user names the snapshot the auto-label logic never touches it
	// again.
	LabelLocked bool `gorm:"column:label_locked;not null;default:false" json:"label_locked"`

	Revision int            `gorm:"column:revision;not null;default:1" json:"revision"`
	Document datatypes.JSON `gorm:"column:document;type:jsonb;not null" json:"document"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ScenarioSnapshot) TableName() string { return "scheme_scenario_snapshot" }

// DecodeDocument parses the embedded document, rejecting versions this build
// does not understand.
func (s *ScenarioSnapshot) DecodeDocument() (*SnapshotDocument, error) {
	var doc SnapshotDocument
	if err := json.Unmarshal(s.Document, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot document: %w", err)
	}
	if doc.Version != SnapshotDocumentVersion {
		return nil, fmt.Errorf("unsupported snapshot document version %d", doc.Version)
	}
	return &doc, nil
}

// EncodeDocument serializes a document for storage.
func EncodeDocument(doc *SnapshotDocument) (datatypes.JSON, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot document: %w", err)
	}
	return datatypes.JSON(raw), nil
}
