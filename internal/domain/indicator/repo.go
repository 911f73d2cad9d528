package indicator

import "context"

type Repository interface {
	FindBySlug(ctx context.Context, slug string) (*Indicator, error)
	ListCatalog(ctx context.Context, language string) ([]*CatalogRow, error)
}
