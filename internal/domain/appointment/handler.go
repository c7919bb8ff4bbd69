package appointment

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cureconnect/cureconnect/internal/domain/identity"
	"github.com/cureconnect/cureconnect/internal/platform/apperr"
	"github.com/cureconnect/cureconnect/internal/platform/auth"
	"github.com/cureconnect/cureconnect/internal/platform/validation"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/appointment")
	g.POST("/new", h.Create)
	g.GET("/my", h.ListMine)
	g.GET("/slots/:doctorId/:date", h.Slots)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Cancel)

	doctors := g.Group("", auth.RequireRole(auth.RoleDoctor))
	doctors.POST("/followup", h.FollowUp)
	doctors.PUT("/:id/complete", h.Complete)
}

func (h *Handler) Create(c echo.Context) error {
	userID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	var in CreateInput
	if err := validation.BindAndValidate(c, &in); err != nil {
		return err
	}
	a, err := h.svc.Create(c.Request().Context(), userID, in)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"success": true, "appointment": a})
}

func (h *Handler) ListMine(c echo.Context) error {
	userID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	role := auth.RoleFromContext(c.Request().Context())
	list, err := h.svc.ListMine(c.Request().Context(), userID, role, c.QueryParam("filter"), c.QueryParam("status"))
	if err != nil {
		return apperr.HTTP(err)
	}
	if list == nil {
		list = []*Appointment{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":      true,
		"count":        len(list),
		"appointments": list,
	})
}

func (h *Handler) Slots(c echo.Context) error {
	slots, err := h.svc.AvailableSlots(c.Request().Context(), c.Param("doctorId"), c.Param("date"))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":        true,
		"availableSlots": slots.AvailableSlots,
		"doctor":         slots.Doctor,
		"date":           slots.Date,
	})
}

func (h *Handler) Get(c echo.Context) error {
	userID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	a, err := h.svc.Get(c.Request().Context(), id, userID, auth.RoleFromContext(c.Request().Context()))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "appointment": a})
}

func (h *Handler) Cancel(c echo.Context) error {
	userID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Cancel(c.Request().Context(), id, userID); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Appointment cancelled successfully",
	})
}

func (h *Handler) Complete(c echo.Context) error {
	userID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	a, err := h.svc.Complete(c.Request().Context(), id, userID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Appointment marked as completed successfully",
		"appointment": a,
	})
}

func (h *Handler) FollowUp(c echo.Context) error {
	userID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	var in FollowUpInput
	if err := validation.BindAndValidate(c, &in); err != nil {
		return err
	}
	a, err := h.svc.FollowUp(c.Request().Context(), userID, in)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":     true,
		"message":     "Follow-up appointment scheduled successfully",
		"appointment": a,
	})
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, "Appointment not found")
	}
	return id, nil
}
