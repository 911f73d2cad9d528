package testsession

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/healthtrack/healthtrack/internal/platform/auth"
	"github.com/healthtrack/healthtrack/pkg/pagination"
)

type Handler struct {
	svc             *Service
	defaultLanguage string
}

func NewHandler(svc *Service, defaultLanguage string) *Handler {
	return &Handler{svc: svc, defaultLanguage: defaultLanguage}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/test-sessions", h.List)
	api.POST("/test-sessions", h.Create)
	api.GET("/test-sessions/:id", h.Get)
	api.PUT("/test-sessions/:id", h.Update)
	api.DELETE("/test-sessions/:id", h.Delete)
}

type createRequest struct {
	Label        *string            `json:"label"`
	MeasuredAt   string             `json:"measuredAt"`
	Measurements []MeasurementInput `json:"measurements"`
}

type updateRequest struct {
	Label        *string            `json:"label"`
	MeasuredAt   *string            `json:"measuredAt"`
	Measurements []MeasurementInput `json:"measurements"`
}

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	view, err := h.svc.Create(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), CreateInput{
		Label:        req.Label,
		MeasuredAt:   req.MeasuredAt,
		Measurements: req.Measurements,
	}, h.language(c))
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"session": view})
}

func (h *Handler) Get(c echo.Context) error {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}

	view, err := h.svc.Get(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), sessionID, h.language(c))
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"session": view})
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)

	views, total, err := h.svc.List(c.Request().Context(),
		auth.UserIDFromContext(c.Request().Context()), p.Limit, p.Offset, h.language(c))
	if err != nil {
		return h.mapError(err)
	}
	if views == nil {
		views = []*SessionView{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(views, total, p.Limit, p.Offset))
}

// Update decodes the body twice: once into a key map to learn which fields
// the caller actually sent, once into the typed request for the values.
// An absent label keeps the stored one; a present null clears it. The same
// presence rule drives measurement reconciliation.
func (h *Handler) Update(c echo.Context) error {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	var req updateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	_, labelPresent := keys["label"]
	_, measurementsPresent := keys["measurements"]

	view, err := h.svc.Update(c.Request().Context(),
		auth.UserIDFromContext(c.Request().Context()), sessionID, UpdateInput{
			Label:               req.Label,
			LabelPresent:        labelPresent,
			MeasuredAt:          req.MeasuredAt,
			Measurements:        req.Measurements,
			MeasurementsPresent: measurementsPresent,
		}, h.language(c))
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"session": view})
}

func (h *Handler) Delete(c echo.Context) error {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}

	if err := h.svc.Delete(c.Request().Context(),
		auth.UserIDFromContext(c.Request().Context()), sessionID); err != nil {
		return h.mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) language(c echo.Context) string {
	if lang := c.QueryParam("language"); lang != "" {
		return lang
	}
	return h.defaultLanguage
}

// mapError translates domain errors to HTTP status codes. Storage failures
// stay opaque to the caller.
func (h *Handler) mapError(err error) error {
	var iv *InvalidInputError
	switch {
	case errors.As(err, &iv):
		return echo.NewHTTPError(http.StatusBadRequest, iv.Reason)
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "test session not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
}
