package indicator

// Category maps to the indicator_categories table.
type Category struct {
	ID           int64   `json:"id"`
	Slug         string  `json:"slug"`
	DefaultColor *string `json:"default_color,omitempty"`
}

// Indicator maps to the indicators table. Reference bounds are nullable;
// sex-specific bounds may be set instead of (or alongside) the shared pair.
type Indicator struct {
	ID                 int64    `json:"id"`
	CategoryID         int64    `json:"category_id"`
	Slug               string   `json:"slug"`
	DisplayName        string   `json:"display_name"`
	Unit               string   `json:"unit"`
	ReferenceMin       *float64 `json:"reference_min,omitempty"`
	ReferenceMax       *float64 `json:"reference_max,omitempty"`
	ReferenceMaleMin   *float64 `json:"reference_male_min,omitempty"`
	ReferenceMaleMax   *float64 `json:"reference_male_max,omitempty"`
	ReferenceFemaleMin *float64 `json:"reference_female_min,omitempty"`
	ReferenceFemaleMax *float64 `json:"reference_female_max,omitempty"`
	ReferenceText      *string  `json:"reference_text,omitempty"`
}

// CatalogRow is one row of the catalog join: a category paired with one of
// its indicators (nullable, categories may be empty) and the translation for
// the requested language when one exists.
type CatalogRow struct {
	CategoryID              int64
	CategorySlug            string
	DefaultColor            *string
	IndicatorID             *int64
	IndicatorSlug           *string
	IndicatorDisplayName    *string
	IndicatorUnit           *string
	ReferenceMin            *float64
	ReferenceMax            *float64
	ReferenceMaleMin        *float64
	ReferenceMaleMax        *float64
	ReferenceFemaleMin      *float64
	ReferenceFemaleMax      *float64
	ReferenceText           *string
	TranslatedName          *string
	TranslatedReferenceText *string
}

// RangeBounds is a min/max pair; either side may be open.
type RangeBounds struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// ReferenceRange is the wire shape of an indicator's normal interval. The
// male/female sub-ranges appear only when at least one bound of that sex
// is set.
type ReferenceRange struct {
	Min    *float64     `json:"min"`
	Max    *float64     `json:"max"`
	Male   *RangeBounds `json:"male,omitempty"`
	Female *RangeBounds `json:"female,omitempty"`
}

// View is a localized indicator as exposed by the catalog endpoint.
type View struct {
	ID             int64          `json:"id"`
	Slug           string         `json:"slug"`
	Name           string         `json:"name"`
	Unit           string         `json:"unit"`
	ReferenceRange ReferenceRange `json:"referenceRange"`
	ReferenceText  *string        `json:"referenceText"`
}

// CategoryView groups localized indicators under their category in catalog
// order.
type CategoryView struct {
	ID         int64   `json:"id"`
	Slug       string  `json:"slug"`
	Color      *string `json:"color"`
	Indicators []*View `json:"indicators"`
}

// NewReferenceRange assembles the wire range from raw bounds, hiding a
// sex-specific sub-range when both of its bounds are null.
func NewReferenceRange(min, max, maleMin, maleMax, femaleMin, femaleMax *float64) ReferenceRange {
	r := ReferenceRange{Min: min, Max: max}
	if maleMin != nil || maleMax != nil {
		r.Male = &RangeBounds{Min: maleMin, Max: maleMax}
	}
	if femaleMin != nil || femaleMax != nil {
		r.Female = &RangeBounds{Min: femaleMin, Max: femaleMax}
	}
	return r
}
