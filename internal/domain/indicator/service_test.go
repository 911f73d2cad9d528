package indicator

import (
	"context"
	"errors"
	"testing"
)

type mockRepo struct {
	indicators map[string]*Indicator
	rows       []*CatalogRow
}

func newMockRepo() *mockRepo {
	return &mockRepo{indicators: make(map[string]*Indicator)}
}
func (m *mockRepo) FindBySlug(_ context.Context, slug string) (*Indicator, error) {
	i, ok := m.indicators[slug]
	if !ok { return nil, ErrNotFound }
	return i, nil
}
func (m *mockRepo) ListCatalog(_ context.Context, _ string) ([]*CatalogRow, error) {
	return m.rows, nil
}

func f64(v float64) *float64 { return &v }
func str(s string) *string   { return &s }
func i64(v int64) *int64     { return &v }

func TestResolveSlug(t *testing.T) {
	repo := newMockRepo()
	repo.indicators["bp_sys"] = &Indicator{ID: 7, Slug: "bp_sys"}
	svc := NewService(repo)

	ind, err := svc.ResolveSlug(context.Background(), "bp_sys")
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if ind.ID != 7 { t.Errorf("expected id 7, got %d", ind.ID) }
}

func TestResolveSlug_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.ResolveSlug(context.Background(), "missing"); !errors.Is(err, ErrNotFound) { t.Fatalf("expected ErrNotFound, got %v", err) }
}

func TestCatalog_GroupsByCategoryInOrder(t *testing.T) {
	repo := newMockRepo()
	repo.rows = []*CatalogRow{
		{CategoryID: 1, CategorySlug: "vitals", IndicatorID: i64(1), IndicatorSlug: str("bp_sys"), IndicatorDisplayName: str("Systolic BP"), IndicatorUnit: str("mmHg")},
		{CategoryID: 1, CategorySlug: "vitals", IndicatorID: i64(2), IndicatorSlug: str("bp_dia"), IndicatorDisplayName: str("Diastolic BP"), IndicatorUnit: str("mmHg")},
		{CategoryID: 2, CategorySlug: "lipids", IndicatorID: i64(3), IndicatorSlug: str("hdl"), IndicatorDisplayName: str("HDL"), IndicatorUnit: str("mmol/L")},
	}
	svc := NewService(repo)

	categories, err := svc.Catalog(context.Background(), "vi")
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if len(categories) != 2 { t.Fatalf("expected 2 categories, got %d", len(categories)) }
	if categories[0].Slug != "vitals" || categories[1].Slug != "lipids" { t.Errorf("category order not preserved: %s, %s", categories[0].Slug, categories[1].Slug) }
	if len(categories[0].Indicators) != 2 || len(categories[1].Indicators) != 1 { t.Errorf("indicators misgrouped: %d/%d", len(categories[0].Indicators), len(categories[1].Indicators)) }
}

func TestCatalog_EmptyCategoryKept(t *testing.T) {
	repo := newMockRepo()
	repo.rows = []*CatalogRow{{CategoryID: 1, CategorySlug: "vitals"}}
	svc := NewService(repo)

	categories, err := svc.Catalog(context.Background(), "vi")
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if len(categories) != 1 { t.Fatalf("expected 1 category, got %d", len(categories)) }
	if len(categories[0].Indicators) != 0 { t.Errorf("expected no indicators, got %d", len(categories[0].Indicators)) }
	if categories[0].Indicators == nil { t.Error("indicators should be an empty slice, not nil") }
}

func TestCatalog_NameFallbackChain(t *testing.T) {
	cases := []struct {
		name string
		row  *CatalogRow
		want string
	}{
		{"translated wins", &CatalogRow{CategoryID: 1, CategorySlug: "c", IndicatorID: i64(1), IndicatorSlug: str("bp_sys"), IndicatorDisplayName: str("Systolic BP"), TranslatedName: str("Huyết áp tâm thu")}, "Huyết áp tâm thu"},
		{"display name next", &CatalogRow{CategoryID: 1, CategorySlug: "c", IndicatorID: i64(1), IndicatorSlug: str("bp_sys"), IndicatorDisplayName: str("Systolic BP")}, "Systolic BP"},
		{"empty translation skipped", &CatalogRow{CategoryID: 1, CategorySlug: "c", IndicatorID: i64(1), IndicatorSlug: str("bp_sys"), IndicatorDisplayName: str("Systolic BP"), TranslatedName: str("")}, "Systolic BP"},
		{"slug last", &CatalogRow{CategoryID: 1, CategorySlug: "c", IndicatorID: i64(1), IndicatorSlug: str("bp_sys")}, "bp_sys"},
	}
	for _, tc := range cases {
		repo := newMockRepo()
		repo.rows = []*CatalogRow{tc.row}
		categories, err := NewService(repo).Catalog(context.Background(), "vi")
		if err != nil { t.Fatalf("%s: unexpected error: %v", tc.name, err) }
		if got := categories[0].Indicators[0].Name; got != tc.want { t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got) }
	}
}

func TestCatalog_ReferenceTextFallback(t *testing.T) {
	repo := newMockRepo()
	repo.rows = []*CatalogRow{
		{CategoryID: 1, CategorySlug: "c", IndicatorID: i64(1), IndicatorSlug: str("a"), ReferenceText: str("default"), TranslatedReferenceText: str("translated")},
		{CategoryID: 1, CategorySlug: "c", IndicatorID: i64(2), IndicatorSlug: str("b"), ReferenceText: str("default")},
		{CategoryID: 1, CategorySlug: "c", IndicatorID: i64(3), IndicatorSlug: str("d")},
	}
	categories, err := NewService(repo).Catalog(context.Background(), "vi")
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	inds := categories[0].Indicators
	if inds[0].ReferenceText == nil || *inds[0].ReferenceText != "translated" { t.Errorf("expected translated text, got %v", inds[0].ReferenceText) }
	if inds[1].ReferenceText == nil || *inds[1].ReferenceText != "default" { t.Errorf("expected default text, got %v", inds[1].ReferenceText) }
	if inds[2].ReferenceText != nil { t.Errorf("expected nil reference text, got %v", inds[2].ReferenceText) }
}

func TestNewReferenceRange_HidesEmptySexRanges(t *testing.T) {
	r := NewReferenceRange(f64(1), f64(2), nil, nil, nil, nil)
	if r.Male != nil || r.Female != nil { t.Error("sex ranges should be hidden when both bounds are nil") }

	r = NewReferenceRange(nil, nil, f64(130), nil, f64(120), f64(150))
	if r.Male == nil || r.Male.Min == nil || *r.Male.Min != 130 || r.Male.Max != nil { t.Errorf("unexpected male range: %+v", r.Male) }
	if r.Female == nil || r.Female.Max == nil || *r.Female.Max != 150 { t.Errorf("unexpected female range: %+v", r.Female) }
}
