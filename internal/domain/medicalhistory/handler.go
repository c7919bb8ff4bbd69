package medicalhistory

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
	api.POST("/medical-history", h.Add)
	api.GET("/medical-history/:userId", h.Get)
	api.GET("/patient/:patientId/complete-data", h.CompleteData)
}

func (h *Handler) Add(c echo.Context) error {
	userID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	var in AddInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	history, err := h.svc.Add(c.Request().Context(), userID, in)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":        true,
		"message":        "Medical history added successfully",
		"medicalHistory": history,
	})
}

func (h *Handler) Get(c echo.Context) error {
	viewerID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	subject, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	history, err := h.svc.Get(c.Request().Context(), viewerID, auth.RoleFromContext(c.Request().Context()), subject)
	if err != nil {
		return apperr.HTTP(err)
	}
	if history == nil {
		history = []*Record{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "medicalHistory": history})
}

func (h *Handler) CompleteData(c echo.Context) error {
	viewerID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	}
	data, err := h.svc.CompleteData(c.Request().Context(), viewerID, auth.RoleFromContext(c.Request().Context()), patientID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "data": data})
}
