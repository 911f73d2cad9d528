package testsession

import (
	"time"

	"github.com/google/uuid"
)

// TestSession maps to the test_sessions table. Month and year are always
// derived from MeasuredAt and kept consistent with it.
type TestSession struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Label      *string   `json:"label,omitempty"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	MeasuredAt time.Time `json:"measured_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// Measurement maps to the measurements table. Within one session each
// indicator appears at most once.
type Measurement struct {
	ID            uuid.UUID `json:"id"`
	TestSessionID uuid.UUID `json:"test_session_id"`
	IndicatorID   int64     `json:"indicator_id"`
	Value         float64   `json:"value"`
	CreatedAt     time.Time `json:"created_at"`
}

// MeasurementInput is one desired measurement as submitted by the caller.
// Value is a pointer so a request that omits it can be told apart from an
// explicit zero.
type MeasurementInput struct {
	IndicatorSlug string   `json:"indicatorSlug"`
	Value         *float64 `json:"value"`
}

// ResolvedMeasurement is a validated input with the slug resolved to its
// canonical indicator id.
type ResolvedMeasurement struct {
	IndicatorID int64
	Value       float64
}

// CreateInput holds the fields for creating a session with its measurements.
type CreateInput struct {
	Label        *string
	MeasuredAt   string // YYYY-MM-DD
	Measurements []MeasurementInput
}

// UpdateInput holds a partial session update. The Present flags record
// whether the corresponding key appeared in the request at all: an absent
// label keeps the stored one while a present null clears it, and an absent
// measurements key leaves the measurement set untouched while a present
// empty list clears it.
type UpdateInput struct {
	Label               *string
	LabelPresent        bool
	MeasuredAt          *string
	Measurements        []MeasurementInput
	MeasurementsPresent bool
}

// MeasurementRow is the denormalized read model: a measurement joined with
// its indicator's catalog metadata and the translation for the requested
// language. Name and reference text are already coalesced to the catalog
// defaults by the query.
type MeasurementRow struct {
	ID                 uuid.UUID
	TestSessionID      uuid.UUID
	IndicatorID        int64
	Value              float64
	CreatedAt          time.Time
	IndicatorSlug      string
	IndicatorName      string
	IndicatorUnit      string
	ReferenceText      *string
	ReferenceMin       *float64
	ReferenceMax       *float64
	ReferenceMaleMin   *float64
	ReferenceMaleMax   *float64
	ReferenceFemaleMin *float64
	ReferenceFemaleMax *float64
}

// RangeBounds is a min/max pair; either side may be open.
type RangeBounds struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// ReferenceRange is the wire shape of an indicator's normal interval; the
// sex-specific sub-ranges appear only when at least one bound of that sex
// is set.
type ReferenceRange struct {
	Min    *float64     `json:"min"`
	Max    *float64     `json:"max"`
	Male   *RangeBounds `json:"male,omitempty"`
	Female *RangeBounds `json:"female,omitempty"`
}

// MeasurementView is a measurement enriched with localized indicator
// metadata, assembled per request and never cached.
type MeasurementView struct {
	ID             uuid.UUID      `json:"id"`
	IndicatorID    int64          `json:"indicatorId"`
	IndicatorSlug  string         `json:"indicatorSlug"`
	IndicatorName  string         `json:"indicatorName"`
	Unit           string         `json:"unit"`
	Value          float64        `json:"value"`
	ReferenceText  *string        `json:"referenceText"`
	ReferenceRange ReferenceRange `json:"referenceRange"`
}

// SessionView is the composed read model returned to callers. MeasuredAt
// is a plain calendar date; CreatedAt is a full instant.
type SessionView struct {
	ID           uuid.UUID          `json:"id"`
	Label        *string            `json:"label"`
	Month        int                `json:"month"`
	Year         int                `json:"year"`
	MeasuredAt   string             `json:"measuredAt"`
	CreatedAt    time.Time          `json:"createdAt"`
	Measurements []*MeasurementView `json:"measurements"`
}
