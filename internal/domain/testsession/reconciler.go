package testsession

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
)

// CatalogGateway resolves an indicator slug to its canonical id. Returns
// ErrUnknownIndicator for a slug with no catalog entry.
type CatalogGateway interface {
	Resolve(ctx context.Context, slug string) (int64, error)
}

// Reconciler validates submitted measurements and drives the stored set to
// match them. Resolution happens before any write so an invalid batch never
// touches the database.
type Reconciler struct {
	catalog      CatalogGateway
	measurements MeasurementRepository
}

func NewReconciler(catalog CatalogGateway, measurements MeasurementRepository) *Reconciler {
	return &Reconciler{catalog: catalog, measurements: measurements}
}

// Resolve validates inputs and maps each slug to its indicator id. Input
// order is preserved. Any failure rejects the whole batch.
func (r *Reconciler) Resolve(ctx context.Context, inputs []MeasurementInput) ([]ResolvedMeasurement, error) {
	resolved := make([]ResolvedMeasurement, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))

	for _, in := range inputs {
		slug := strings.TrimSpace(in.IndicatorSlug)
		if slug == "" {
			return nil, invalidInput("indicatorSlug is required for each measurement")
		}
		if _, dup := seen[slug]; dup {
			return nil, invalidInput("duplicate indicator slug: %s", slug)
		}
		seen[slug] = struct{}{}

		if in.Value == nil || math.IsNaN(*in.Value) || math.IsInf(*in.Value, 0) {
			return nil, invalidInput("invalid value for indicator %s", slug)
		}

		id, err := r.catalog.Resolve(ctx, slug)
		if err != nil {
			if errors.Is(err, ErrUnknownIndicator) {
				return nil, invalidInput("indicator not found: %s", slug)
			}
			return nil, err
		}
		resolved = append(resolved, ResolvedMeasurement{IndicatorID: id, Value: *in.Value})
	}
	return resolved, nil
}

// ApplyNew inserts the resolved set for a freshly created session.
func (r *Reconciler) ApplyNew(ctx context.Context, sessionID uuid.UUID, ms []ResolvedMeasurement) error {
	return r.measurements.InsertBatch(ctx, sessionID, ms)
}

// ApplyExisting reconciles an existing session's stored measurements with
// the resolved set.
func (r *Reconciler) ApplyExisting(ctx context.Context, sessionID uuid.UUID, ms []ResolvedMeasurement) error {
	return r.measurements.ReplaceSet(ctx, sessionID, ms)
}
