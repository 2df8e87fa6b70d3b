package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stridelog/internal/analysis"
	"stridelog/internal/remote"
	"stridelog/internal/store"
)

// ExportVersion marks the export document format.
const ExportVersion = "1"

// ErrBadImport is returned when the payload is neither an export
// document nor a bare record array.
var ErrBadImport = errors.New("unrecognized import format")

// Profile is the account portion of an export.
type Profile struct {
	AccountID    string  `json:"account_id"`
	CoachID      string  `json:"coach_id,omitempty"`
	BodyWeightKg float64 `json:"body_weight_kg,omitempty"`
}

// ExportDocument is the full-backup shape. Import also accepts a bare
// record array for interchange with other tools.
type ExportDocument struct {
	Version    string          `json:"version"`
	ExportedAt string          `json:"exportedAt"`
	Profile    Profile         `json:"profile"`
	Records    []remote.Record `json:"records"`
}

// Export serializes the current record set and profile.
func (t *Tracker) Export() ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	doc := ExportDocument{
		Version:    ExportVersion,
		ExportedAt: t.now().UTC().Format(time.RFC3339),
		Profile: Profile{
			AccountID:    t.accountID,
			CoachID:      t.coachID,
			BodyWeightKg: t.bodyWeightKg,
		},
		Records: make([]remote.Record, len(t.records)),
	}
	for i, r := range t.records {
		doc.Records[i] = remote.FromStore(r)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ParseImport decodes either an export document or a bare record array.
// A single invalid record aborts the whole import; partial application
// would leave the set in a state neither file describes.
func ParseImport(data []byte) ([]store.Record, error) {
	var doc ExportDocument
	if err := json.Unmarshal(data, &doc); err == nil && doc.Version != "" {
		return validateImport(doc.Records)
	}

	var bare []remote.Record
	if err := json.Unmarshal(data, &bare); err == nil {
		return validateImport(bare)
	}

	return nil, ErrBadImport
}

func validateImport(records []remote.Record) ([]store.Record, error) {
	out := make([]store.Record, 0, len(records))
	for i, r := range records {
		if r.ID == 0 {
			return nil, fmt.Errorf("import record %d: missing id", i)
		}
		if _, err := time.Parse(analysis.DateLayout, r.Date); err != nil {
			return nil, fmt.Errorf("import record %d: bad date %q", i, r.Date)
		}
		out = append(out, r.ToStore())
	}
	return out, nil
}
