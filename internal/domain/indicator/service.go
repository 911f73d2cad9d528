package indicator

import (
	"context"
	"errors"
)

// ErrNotFound reports an unknown indicator slug.
var ErrNotFound = errors.New("indicator not found")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ResolveSlug returns the catalog entry for slug, or ErrNotFound.
func (s *Service) ResolveSlug(ctx context.Context, slug string) (*Indicator, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// Catalog returns every category with its indicators localized for the
// given language, in catalog order. Categories without indicators are kept.
func (s *Service) Catalog(ctx context.Context, language string) ([]*CategoryView, error) {
	rows, err := s.repo.ListCatalog(ctx, language)
	if err != nil {
		return nil, err
	}

	var categories []*CategoryView
	index := make(map[int64]*CategoryView)

	for _, row := range rows {
		cat, ok := index[row.CategoryID]
		if !ok {
			cat = &CategoryView{
				ID:         row.CategoryID,
				Slug:       row.CategorySlug,
				Color:      row.DefaultColor,
				Indicators: []*View{},
			}
			index[row.CategoryID] = cat
			categories = append(categories, cat)
		}

		if row.IndicatorID == nil {
			continue
		}

		cat.Indicators = append(cat.Indicators, &View{
			ID:   *row.IndicatorID,
			Slug: derefString(row.IndicatorSlug),
			Name: localizedName(row),
			Unit: derefString(row.IndicatorUnit),
			ReferenceRange: NewReferenceRange(
				row.ReferenceMin, row.ReferenceMax,
				row.ReferenceMaleMin, row.ReferenceMaleMax,
				row.ReferenceFemaleMin, row.ReferenceFemaleMax),
			ReferenceText: localizedReferenceText(row),
		})
	}

	return categories, nil
}

// localizedName picks the display name with the fallback chain
// translated name, catalog display name, slug, empty string.
func localizedName(row *CatalogRow) string {
	if row.TranslatedName != nil && *row.TranslatedName != "" {
		return *row.TranslatedName
	}
	if row.IndicatorDisplayName != nil && *row.IndicatorDisplayName != "" {
		return *row.IndicatorDisplayName
	}
	return derefString(row.IndicatorSlug)
}

// localizedReferenceText prefers the translated text and falls back to the
// catalog default; nil when neither is set.
func localizedReferenceText(row *CatalogRow) *string {
	if row.TranslatedReferenceText != nil {
		return row.TranslatedReferenceText
	}
	return row.ReferenceText
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
