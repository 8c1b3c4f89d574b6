package dashboard

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ehr/recordspanel/internal/domain/record"
	"github.com/ehr/recordspanel/internal/export"
)

type Handler struct {
	store *Store
	form  *Form
}

func NewHandler(store *Store, form *Form) *Handler {
	return &Handler{store: store, form: form}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/dashboard")
	g.GET("", h.View)
	g.POST("/refresh", h.Refresh)
	g.PUT("/draft", h.SetDraft)
	g.POST("/submit", h.Submit)
	g.POST("/records/:id/edit", h.Edit)
	g.POST("/cancel-edit", h.CancelEdit)
	g.DELETE("/records/:id", h.Delete)
	g.GET("/export.xlsx", h.Export)
}

func (h *Handler) View(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Snapshot())
}

func (h *Handler) Refresh(c echo.Context) error {
	if err := h.store.ListAll(c.Request().Context()); err != nil {
		return h.httpError(err)
	}
	return h.View(c)
}

func (h *Handler) SetDraft(c echo.Context) error {
	var d record.Draft
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.SetDraft(d)
	return h.View(c)
}

func (h *Handler) Submit(c echo.Context) error {
	if err := h.form.Submit(c.Request().Context()); err != nil {
		return h.httpError(err)
	}
	return h.View(c)
}

func (h *Handler) Edit(c echo.Context) error {
	if err := h.form.Edit(record.ID(c.Param("id"))); err != nil {
		return h.httpError(err)
	}
	return h.View(c)
}

func (h *Handler) CancelEdit(c echo.Context) error {
	h.form.Cancel()
	return h.View(c)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.store.Delete(c.Request().Context(), record.ID(c.Param("id"))); err != nil {
		return h.httpError(err)
	}
	return h.View(c)
}

func (h *Handler) Export(c echo.Context) error {
	data, err := export.Records(h.store.Records())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="patient_records.xlsx"`)
	return c.Blob(http.StatusOK, export.ContentType, data)
}

// httpError maps store errors to responses. Remote failures and missing
// records carry the current view so the client can render the error state.
func (h *Handler) httpError(err error) error {
	switch {
	case errors.Is(err, ErrBusy), errors.Is(err, ErrNotEditing):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrRecordNotVisible):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, record.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, h.store.Snapshot())
	case IsFailure(err):
		return echo.NewHTTPError(http.StatusBadGateway, h.store.Snapshot())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
