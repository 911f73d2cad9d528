package testsession

import (
	"context"

	"github.com/google/uuid"
)

// SessionRepository persists test sessions. Every read and delete is scoped
// to the owning user; a mismatch behaves exactly like a missing row.
type SessionRepository interface {
	Insert(ctx context.Context, s *TestSession) error
	Update(ctx context.Context, s *TestSession) error
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, userID, sessionID uuid.UUID) (bool, error)
	GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*TestSession, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*TestSession, int, error)
}

// MeasurementRepository persists measurements and serves the joined read
// model. Ownership is enforced one level up, on the session.
type MeasurementRepository interface {
	// InsertBatch adds the given measurements to a fresh session. An empty
	// batch is a no-op.
	InsertBatch(ctx context.Context, sessionID uuid.UUID, ms []ResolvedMeasurement) error
	// ReplaceSet makes the session's stored measurements equal the given
	// set: rows for absent indicators are deleted, the rest upserted. An
	// empty set clears the session.
	ReplaceSet(ctx context.Context, sessionID uuid.UUID, ms []ResolvedMeasurement) error
	// ListViewsBySession returns joined rows for the given sessions,
	// localized for language, ordered by session then indicator id.
	ListViewsBySession(ctx context.Context, sessionIDs []uuid.UUID, language string) ([]*MeasurementRow, error)
}
