package main

import (
	"context"
	"errors"
	"testing"

	"github.com/healthtrack/healthtrack/internal/domain/indicator"
	"github.com/healthtrack/healthtrack/internal/domain/testsession"
)

type stubIndicatorRepo struct{ indicators map[string]*indicator.Indicator }

func (s *stubIndicatorRepo) FindBySlug(_ context.Context, slug string) (*indicator.Indicator, error) {
	i, ok := s.indicators[slug]
	if !ok {
		return nil, indicator.ErrNotFound
	}
	return i, nil
}

func (s *stubIndicatorRepo) ListCatalog(_ context.Context, _ string) ([]*indicator.CatalogRow, error) {
	return nil, nil
}

func TestCatalogAdapter_Resolve(t *testing.T) {
	repo := &stubIndicatorRepo{indicators: map[string]*indicator.Indicator{
		"bp_sys": {ID: 42, Slug: "bp_sys"},
	}}
	adapter := NewCatalogAdapter(indicator.NewService(repo))

	id, err := adapter.Resolve(context.Background(), "bp_sys")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Errorf("expected id 42, got %d", id)
	}
}

func TestCatalogAdapter_Resolve_UnknownSlug(t *testing.T) {
	adapter := NewCatalogAdapter(indicator.NewService(&stubIndicatorRepo{}))

	_, err := adapter.Resolve(context.Background(), "missing")
	if !errors.Is(err, testsession.ErrUnknownIndicator) {
		t.Fatalf("expected ErrUnknownIndicator, got %v", err)
	}
}
