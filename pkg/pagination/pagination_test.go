package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(target string) Params {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext_Defaults(t *testing.T) {
	p := paramsFor("/")
	if p.Limit != DefaultLimit || p.Offset != 0 {
		t.Errorf("expected defaults %d/0, got %d/%d", DefaultLimit, p.Limit, p.Offset)
	}
}

func TestFromContext_ExplicitValues(t *testing.T) {
	p := paramsFor("/?limit=5&offset=15")
	if p.Limit != 5 || p.Offset != 15 {
		t.Errorf("expected 5/15, got %d/%d", p.Limit, p.Offset)
	}
}

func TestFromContext_ClampsLimit(t *testing.T) {
	p := paramsFor("/?limit=5000")
	if p.Limit != MaxLimit {
		t.Errorf("expected limit clamped to %d, got %d", MaxLimit, p.Limit)
	}
}

func TestFromContext_RejectsNegative(t *testing.T) {
	p := paramsFor("/?limit=-1&offset=-10")
	if p.Limit != DefaultLimit || p.Offset != 0 {
		t.Errorf("expected defaults for negative input, got %d/%d", p.Limit, p.Offset)
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	r := NewResponse([]int{1, 2}, 10, 2, 0)
	if !r.HasMore {
		t.Error("expected HasMore for partial page")
	}
	r = NewResponse([]int{1, 2}, 2, 2, 0)
	if r.HasMore {
		t.Error("expected HasMore false when everything fits")
	}
}

func TestParams_HasNext(t *testing.T) {
	p := Params{Limit: 10, Offset: 0}
	if !p.HasNext(25) {
		t.Error("expected next page")
	}
	p.Offset = 20
	if p.HasNext(25) {
		t.Error("expected no next page")
	}
	if p.NextOffset() != 30 {
		t.Errorf("expected next offset 30, got %d", p.NextOffset())
	}
}
