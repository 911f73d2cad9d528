package indicator

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc             *Service
	defaultLanguage string
}

func NewHandler(svc *Service, defaultLanguage string) *Handler {
	return &Handler{svc: svc, defaultLanguage: defaultLanguage}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/indicators", h.GetCatalog)
}

func (h *Handler) GetCatalog(c echo.Context) error {
	language := c.QueryParam("language")
	if language == "" {
		language = h.defaultLanguage
	}

	categories, err := h.svc.Catalog(c.Request().Context(), language)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load indicator catalog")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"categories": categories})
}
