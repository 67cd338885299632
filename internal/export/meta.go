package export

import (
	"time"

	"github.com/google/uuid"
)

// Meta describes the case around an evaluation. Nothing here feeds the
// calculation; it is carried into reports for traceability.
type Meta struct {
	ReportID    string
	Name        string
	Description string
	Notes       string
	AgeLabel    string // e.g. "28 days"
	Preset      string
	Generated   time.Time
}

// NewMeta returns metadata with a fresh report id and timestamp
func NewMeta(name string) Meta {
	return Meta{
		ReportID:  uuid.NewString(),
		Name:      name,
		Generated: time.Now(),
	}
}

// normalized fills the id and timestamp when the caller left them empty
func (m Meta) normalized() Meta {
	if m.ReportID == "" {
		m.ReportID = uuid.NewString()
	}
	if m.Generated.IsZero() {
		m.Generated = time.Now()
	}
	if m.Name == "" {
		m.Name = "Shotcrete design check"
	}
	return m
}
