package identity

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cureconnect/cureconnect/internal/platform/apperr"
	"github.com/cureconnect/cureconnect/internal/platform/auth"
	"github.com/cureconnect/cureconnect/internal/platform/validation"
)

type Handler struct {
	svc          *Service
	cookieSecure bool
}

func NewHandler(svc *Service, cookieSecure bool) *Handler {
	return &Handler{svc: svc, cookieSecure: cookieSecure}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.GET("/logout", h.Logout)
	api.POST("/logout", h.Logout)
	api.GET("/doctors", h.Doctors)
	api.GET("/me", h.Me)

	doctors := api.Group("", auth.RequireRole(auth.RoleDoctor))
	doctors.POST("/notify-doctor-joined", h.NotifyDoctorJoined)
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := validation.BindAndValidate(c, &in); err != nil {
		return err
	}
	sess, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return apperr.HTTP(err)
	}
	return h.SendSession(c, http.StatusCreated, sess)
}

func (h *Handler) Login(c echo.Context) error {
	var in LoginInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	sess, err := h.svc.Login(c.Request().Context(), in)
	if err != nil {
		return apperr.HTTP(err)
	}
	return h.SendSession(c, http.StatusOK, sess)
}

// SendSession sets the session cookie and writes {success, user, token}.
func (h *Handler) SendSession(c echo.Context, status int, sess *Session) error {
	auth.SetSessionCookie(c, sess.Token, time.Until(sess.ExpiresAt), h.cookieSecure)
	return c.JSON(status, map[string]interface{}{
		"success": true,
		"user":    sess.User,
		"token":   sess.Token,
	})
}

func (h *Handler) Logout(c echo.Context) error {
	if err := h.svc.Logout(c.Request().Context(), auth.TokenFromRequest(c.Request())); err != nil {
		return apperr.HTTP(err)
	}
	auth.ClearSessionCookie(c, h.cookieSecure)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged Out",
	})
}

func (h *Handler) Me(c echo.Context) error {
	id, err := CurrentUserID(c)
	if err != nil {
		return err
	}
	u, err := h.svc.Me(c.Request().Context(), id)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "user": u})
}

func (h *Handler) Doctors(c echo.Context) error {
	doctors, err := h.svc.Doctors(c.Request().Context())
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "doctors": doctors})
}

type notifyJoinedRequest struct {
	PatientID string `json:"patientId"`
	RoomID    string `json:"roomId"`
}

func (h *Handler) NotifyDoctorJoined(c echo.Context) error {
	id, err := CurrentUserID(c)
	if err != nil {
		return err
	}
	var req notifyJoinedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	notice, err := h.svc.NotifyDoctorJoined(c.Request().Context(), id, req.PatientID, req.RoomID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Patient notification sent successfully",
		"data":    notice,
	})
}

// CurrentUserID reads the authenticated user id set by the JWT middleware.
func CurrentUserID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Please login to access this feature")
	}
	return id, nil
}
