package account

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ehr/recordspanel/internal/platform/remote"
)

// Handler provides HTTP handlers for signup and sign-out.
type Handler struct {
	svc *Service
}

// NewHandler creates a new account handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers signup on the public group and sign-out on the
// authenticated one.
func (h *Handler) RegisterRoutes(public, protected *echo.Group) {
	public.POST("/signup", h.SignUp)
	protected.POST("/signout", h.SignOut)
}

func (h *Handler) SignUp(c echo.Context) error {
	var f SignupForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	reg, err := h.svc.SignUp(c.Request().Context(), f)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, reg)
}

func (h *Handler) SignOut(c echo.Context) error {
	if err := h.svc.SignOut(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrFieldsRequired), errors.Is(err, ErrInvalidEmployeeType):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	if status := remote.StatusOf(err); status >= 400 && status < 500 {
		return echo.NewHTTPError(status, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadGateway, err.Error())
}
