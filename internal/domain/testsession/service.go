package testsession

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// UnitOfWork runs fn inside a database transaction. Repositories pick the
// transaction up from the context.
type UnitOfWork interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	sessions     SessionRepository
	measurements MeasurementRepository
	reconciler   *Reconciler
	uow          UnitOfWork
}

func NewService(sessions SessionRepository, measurements MeasurementRepository, reconciler *Reconciler, uow UnitOfWork) *Service {
	return &Service{
		sessions:     sessions,
		measurements: measurements,
		reconciler:   reconciler,
		uow:          uow,
	}
}

// Create stores a new session with its measurements and returns the
// composed view. Slug resolution happens before the transaction opens, so
// an invalid batch never creates the session.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput, language string) (*SessionView, error) {
	measuredAt, err := parseMeasuredAt(in.MeasuredAt)
	if err != nil {
		return nil, err
	}

	resolved, err := s.reconciler.Resolve(ctx, in.Measurements)
	if err != nil {
		return nil, err
	}

	session := &TestSession{
		UserID:     userID,
		Label:      normalizeLabel(in.Label),
		Month:      int(measuredAt.Month()),
		Year:       measuredAt.Year(),
		MeasuredAt: measuredAt,
	}

	err = s.uow.InTx(ctx, func(ctx context.Context) error {
		if err := s.sessions.Insert(ctx, session); err != nil {
			return fmt.Errorf("insert test session: %w", err)
		}
		if err := s.reconciler.ApplyNew(ctx, session.ID, resolved); err != nil {
			return fmt.Errorf("insert measurements: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.getView(ctx, userID, session.ID, language)
}

// Update applies a partial update. Absent fields keep their stored values;
// a present measurements key, even empty, reconciles the stored set.
func (s *Service) Update(ctx context.Context, userID, sessionID uuid.UUID, in UpdateInput, language string) (*SessionView, error) {
	session, err := s.sessions.GetByID(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if in.LabelPresent {
		session.Label = normalizeLabel(in.Label)
	}
	if in.MeasuredAt != nil && *in.MeasuredAt != "" {
		measuredAt, err := parseMeasuredAt(*in.MeasuredAt)
		if err != nil {
			return nil, err
		}
		session.MeasuredAt = measuredAt
		session.Month = int(measuredAt.Month())
		session.Year = measuredAt.Year()
	}

	var resolved []ResolvedMeasurement
	if in.MeasurementsPresent {
		resolved, err = s.reconciler.Resolve(ctx, in.Measurements)
		if err != nil {
			return nil, err
		}
	}

	err = s.uow.InTx(ctx, func(ctx context.Context) error {
		if err := s.sessions.Update(ctx, session); err != nil {
			return err
		}
		if in.MeasurementsPresent {
			if err := s.reconciler.ApplyExisting(ctx, session.ID, resolved); err != nil {
				return fmt.Errorf("reconcile measurements: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.getView(ctx, userID, session.ID, language)
}

// Get returns the composed view of one session owned by userID.
func (s *Service) Get(ctx context.Context, userID, sessionID uuid.UUID, language string) (*SessionView, error) {
	session, err := s.sessions.GetByID(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	views, err := s.composeViews(ctx, []*TestSession{session}, language)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// List returns a page of the user's sessions, newest measurement date
// first, each with its full measurement views.
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int, language string) ([]*SessionView, int, error) {
	sessions, total, err := s.sessions.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.composeViews(ctx, sessions, language)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Delete removes a session; its measurements go with it via the foreign
// key cascade.
func (s *Service) Delete(ctx context.Context, userID, sessionID uuid.UUID) error {
	deleted, err := s.sessions.Delete(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// getView re-reads a session just written in the same request. A miss here
// means the write and read disagree, which is not retryable.
func (s *Service) getView(ctx context.Context, userID, sessionID uuid.UUID, language string) (*SessionView, error) {
	view, err := s.Get(ctx, userID, sessionID, language)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInconsistentRead
	}
	return view, err
}

// composeViews builds session views with measurements grouped per session,
// preserving the repository's catalog ordering.
func (s *Service) composeViews(ctx context.Context, sessions []*TestSession, language string) ([]*SessionView, error) {
	ids := make([]uuid.UUID, len(sessions))
	for i, sess := range sessions {
		ids[i] = sess.ID
	}

	rows, err := s.measurements.ListViewsBySession(ctx, ids, language)
	if err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID][]*MeasurementView, len(sessions))
	for _, row := range rows {
		grouped[row.TestSessionID] = append(grouped[row.TestSessionID], measurementView(row))
	}

	views := make([]*SessionView, len(sessions))
	for i, sess := range sessions {
		ms := grouped[sess.ID]
		if ms == nil {
			ms = []*MeasurementView{}
		}
		views[i] = &SessionView{
			ID:           sess.ID,
			Label:        sess.Label,
			Month:        sess.Month,
			Year:         sess.Year,
			MeasuredAt:   sess.MeasuredAt.Format("2006-01-02"),
			CreatedAt:    sess.CreatedAt,
			Measurements: ms,
		}
	}
	return views, nil
}

func measurementView(row *MeasurementRow) *MeasurementView {
	name := row.IndicatorName
	if name == "" {
		name = row.IndicatorSlug
	}
	return &MeasurementView{
		ID:            row.ID,
		IndicatorID:   row.IndicatorID,
		IndicatorSlug: row.IndicatorSlug,
		IndicatorName: name,
		Unit:          row.IndicatorUnit,
		Value:         row.Value,
		ReferenceText: row.ReferenceText,
		ReferenceRange: ReferenceRange{
			Min:    row.ReferenceMin,
			Max:    row.ReferenceMax,
			Male:   subRange(row.ReferenceMaleMin, row.ReferenceMaleMax),
			Female: subRange(row.ReferenceFemaleMin, row.ReferenceFemaleMax),
		},
	}
}

// subRange returns nil when both bounds are open so the sex-specific key
// stays out of the JSON entirely.
func subRange(min, max *float64) *RangeBounds {
	if min == nil && max == nil {
		return nil
	}
	return &RangeBounds{Min: min, Max: max}
}
