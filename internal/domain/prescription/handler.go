package prescription

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cureconnect/cureconnect/internal/domain/identity"
	"github.com/cureconnect/cureconnect/internal/platform/apperr"
	"github.com/cureconnect/cureconnect/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/prescriptions", h.List)
	api.GET("/prescription/:id", h.Get)

	doctors := api.Group("/prescription", auth.RequireRole(auth.RoleDoctor))
	doctors.POST("/new", h.Create)
}

func (h *Handler) Create(c echo.Context) error {
	doctorID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	p, err := h.svc.Create(c.Request().Context(), doctorID, in)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"success": true, "prescription": p})
}

func (h *Handler) List(c echo.Context) error {
	userID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	list, err := h.svc.List(c.Request().Context(), userID, auth.RoleFromContext(c.Request().Context()))
	if err != nil {
		return apperr.HTTP(err)
	}
	if list == nil {
		list = []*Prescription{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "prescriptions": list})
}

func (h *Handler) Get(c echo.Context) error {
	userID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Prescription not found")
	}
	p, err := h.svc.Get(c.Request().Context(), id, userID, auth.RoleFromContext(c.Request().Context()))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "prescription": p})
}
