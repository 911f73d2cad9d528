package testsession

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthtrack/healthtrack/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type sessionRepoPG struct{ pool *pgxpool.Pool }

func NewSessionRepoPG(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepoPG{pool: pool}
}

func (r *sessionRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *sessionRepoPG) Insert(ctx context.Context, s *TestSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO test_sessions (id, user_id, label, month, year, measured_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		s.ID, s.UserID, s.Label, s.Month, s.Year, s.MeasuredAt).Scan(&s.CreatedAt)
}

func (r *sessionRepoPG) Update(ctx context.Context, s *TestSession) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE test_sessions
		SET label = $3, month = $4, year = $5, measured_at = $6
		WHERE user_id = $1 AND id = $2`,
		s.UserID, s.ID, s.Label, s.Month, s.Year, s.MeasuredAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sessionRepoPG) Delete(ctx context.Context, userID, sessionID uuid.UUID) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM test_sessions WHERE user_id = $1 AND id = $2`, userID, sessionID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *sessionRepoPG) GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*TestSession, error) {
	var s TestSession
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, user_id, label, month, year, measured_at, created_at
		FROM test_sessions
		WHERE user_id = $1 AND id = $2`, userID, sessionID).
		Scan(&s.ID, &s.UserID, &s.Label, &s.Month, &s.Year, &s.MeasuredAt, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*TestSession, int, error) {
	q := r.conn(ctx)

	var total int
	if err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM test_sessions WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := q.Query(ctx, `
		SELECT id, user_id, label, month, year, measured_at, created_at
		FROM test_sessions
		WHERE user_id = $1
		ORDER BY measured_at DESC, id DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*TestSession
	for rows.Next() {
		var s TestSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.Label, &s.Month, &s.Year,
			&s.MeasuredAt, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &s)
	}
	return items, total, rows.Err()
}

type measurementRepoPG struct{ pool *pgxpool.Pool }

func NewMeasurementRepoPG(pool *pgxpool.Pool) MeasurementRepository {
	return &measurementRepoPG{pool: pool}
}

func (r *measurementRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *measurementRepoPG) InsertBatch(ctx context.Context, sessionID uuid.UUID, ms []ResolvedMeasurement) error {
	if len(ms) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO measurements (id, test_session_id, indicator_id, value) VALUES `)
	args := make([]interface{}, 0, len(ms)*4)
	for i, m := range ms {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := len(args)
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4)
		args = append(args, uuid.New(), sessionID, m.IndicatorID, m.Value)
	}

	_, err := r.conn(ctx).Exec(ctx, sb.String(), args...)
	return err
}

func (r *measurementRepoPG) ReplaceSet(ctx context.Context, sessionID uuid.UUID, ms []ResolvedMeasurement) error {
	q := r.conn(ctx)

	if len(ms) == 0 {
		_, err := q.Exec(ctx,
			`DELETE FROM measurements WHERE test_session_id = $1`, sessionID)
		return err
	}

	keep := make([]int64, len(ms))
	for i, m := range ms {
		keep[i] = m.IndicatorID
	}
	if _, err := q.Exec(ctx, `
		DELETE FROM measurements
		WHERE test_session_id = $1 AND indicator_id <> ALL($2::bigint[])`,
		sessionID, keep); err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO measurements (id, test_session_id, indicator_id, value) VALUES `)
	args := make([]interface{}, 0, len(ms)*4)
	for i, m := range ms {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := len(args)
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4)
		args = append(args, uuid.New(), sessionID, m.IndicatorID, m.Value)
	}
	sb.WriteString(` ON CONFLICT (test_session_id, indicator_id) DO UPDATE SET value = EXCLUDED.value`)

	_, err := q.Exec(ctx, sb.String(), args...)
	return err
}

func (r *measurementRepoPG) ListViewsBySession(ctx context.Context, sessionIDs []uuid.UUID, language string) ([]*MeasurementRow, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT
			m.id, m.test_session_id, m.indicator_id, m.value, m.created_at,
			i.slug,
			COALESCE(NULLIF(t.translated_name, ''), i.display_name, i.slug),
			i.unit,
			COALESCE(t.translated_reference_text, i.reference_text),
			i.reference_min, i.reference_max,
			i.reference_male_min, i.reference_male_max,
			i.reference_female_min, i.reference_female_max
		FROM measurements m
		JOIN indicators i ON i.id = m.indicator_id
		LEFT JOIN indicator_translations t
			ON t.indicator_id = i.id AND t.language = $1
		WHERE m.test_session_id = ANY($2)
		ORDER BY m.test_session_id, i.id ASC`, language, sessionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*MeasurementRow
	for rows.Next() {
		var mr MeasurementRow
		if err := rows.Scan(&mr.ID, &mr.TestSessionID, &mr.IndicatorID, &mr.Value, &mr.CreatedAt,
			&mr.IndicatorSlug, &mr.IndicatorName, &mr.IndicatorUnit, &mr.ReferenceText,
			&mr.ReferenceMin, &mr.ReferenceMax,
			&mr.ReferenceMaleMin, &mr.ReferenceMaleMax,
			&mr.ReferenceFemaleMin, &mr.ReferenceFemaleMax); err != nil {
			return nil, err
		}
		items = append(items, &mr)
	}
	return items, rows.Err()
}
