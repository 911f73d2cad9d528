package indicator

import (
	"context"
	"errors"

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

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const indicatorCols = `id, category_id, slug, display_name, unit,
	reference_min, reference_max, reference_male_min, reference_male_max,
	reference_female_min, reference_female_max, reference_text`

func (r *repoPG) scanIndicator(row pgx.Row) (*Indicator, error) {
	var i Indicator
	err := row.Scan(&i.ID, &i.CategoryID, &i.Slug, &i.DisplayName, &i.Unit,
		&i.ReferenceMin, &i.ReferenceMax, &i.ReferenceMaleMin, &i.ReferenceMaleMax,
		&i.ReferenceFemaleMin, &i.ReferenceFemaleMax, &i.ReferenceText)
	return &i, err
}

func (r *repoPG) FindBySlug(ctx context.Context, slug string) (*Indicator, error) {
	ind, err := r.scanIndicator(r.conn(ctx).QueryRow(ctx,
		`SELECT `+indicatorCols+` FROM indicators WHERE slug = $1`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ind, nil
}

func (r *repoPG) ListCatalog(ctx context.Context, language string) ([]*CatalogRow, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT
			c.id, c.slug, c.default_color,
			i.id, i.slug, i.display_name, i.unit,
			i.reference_min, i.reference_max,
			i.reference_male_min, i.reference_male_max,
			i.reference_female_min, i.reference_female_max, i.reference_text,
			t.translated_name, t.translated_reference_text
		FROM indicator_categories c
		LEFT JOIN indicators i ON i.category_id = c.id
		LEFT JOIN indicator_translations t
			ON t.indicator_id = i.id AND t.language = $1
		ORDER BY c.id ASC, i.id ASC`, language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*CatalogRow
	for rows.Next() {
		var cr CatalogRow
		if err := rows.Scan(&cr.CategoryID, &cr.CategorySlug, &cr.DefaultColor,
			&cr.IndicatorID, &cr.IndicatorSlug, &cr.IndicatorDisplayName, &cr.IndicatorUnit,
			&cr.ReferenceMin, &cr.ReferenceMax,
			&cr.ReferenceMaleMin, &cr.ReferenceMaleMax,
			&cr.ReferenceFemaleMin, &cr.ReferenceFemaleMax, &cr.ReferenceText,
			&cr.TranslatedName, &cr.TranslatedReferenceText); err != nil {
			return nil, err
		}
		items = append(items, &cr)
	}
	return items, rows.Err()
}
