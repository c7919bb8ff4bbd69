package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cureconnect/cureconnect/internal/domain/identity"
	"github.com/cureconnect/cureconnect/internal/platform/apperr"
	"github.com/cureconnect/cureconnect/internal/platform/auth"
	"github.com/cureconnect/cureconnect/internal/platform/notification"
	"github.com/cureconnect/cureconnect/pkg/pagination"
)

const defaultPageSize = 20

type Handler struct {
	svc           *Service
	accounts      *identity.Service
	notifications *notification.Handler
	cookieSecure  bool
}

// NewHandler wires the admin routes. notifications may be nil.
func NewHandler(svc *Service, accounts *identity.Service, notifications *notification.Handler, cookieSecure bool) *Handler {
	return &Handler{svc: svc, accounts: accounts, notifications: notifications, cookieSecure: cookieSecure}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/admin")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)

	a := g.Group("", auth.RequireRole(auth.RoleAdmin))
	a.GET("/users", h.ListUsers)
	a.GET("/doctors", h.ListDoctors)
	a.GET("/patients", h.searchRole(auth.RolePatient, "patients"))
	a.GET("/pharmacists", h.searchRole(auth.RolePharmacist, "pharmacists"))
	a.PUT("/user/:id/status", h.UpdateAvailability)
	a.PATCH("/user/:id/status", h.SetBlocked)
	a.DELETE("/user/:id", h.DeleteUser)
	a.POST("/users/bulk-delete", h.BulkDelete)
	a.PATCH("/users/bulk-status", h.BulkStatus)
	a.GET("/stats", h.Stats)

	a.GET("/pharmacies", h.ListPharmacies)
	a.PUT("/pharmacy/:id/status", h.SetPharmacyStatus)
	a.GET("/orders", h.ListOrders)
	a.GET("/order/:id", h.GetOrder)
	a.GET("/analytics", h.Analytics)

	if h.notifications != nil {
		h.notifications.RegisterRoutes(a)
	}
}

func parseID(c echo.Context, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, notFound)
	}
	return id, nil
}

func users(list []*identity.User) []*identity.User {
	if list == nil {
		return []*identity.User{}
	}
	return list
}

// -- Admin account --

func (h *Handler) sendSession(c echo.Context, status int, msg string, sess *identity.Session) error {
	auth.SetSessionCookie(c, sess.Token, time.Until(sess.ExpiresAt), h.cookieSecure)
	return c.JSON(status, map[string]interface{}{
		"success": true,
		"message": msg,
		"admin":   sess.User,
		"token":   sess.Token,
	})
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	sess, err := h.accounts.RegisterAdmin(c.Request().Context(), identity.RegisterInput{
		Name:     in.Name,
		Contact:  in.Contact,
		Password: in.Password,
		Role:     auth.RoleAdmin,
	}, in.AdminKey)
	if err != nil {
		return apperr.HTTP(err)
	}
	return h.sendSession(c, http.StatusCreated, "Admin registered successfully", sess)
}

func (h *Handler) Login(c echo.Context) error {
	var in identity.LoginInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	sess, err := h.accounts.LoginAdmin(c.Request().Context(), in)
	if err != nil {
		return apperr.HTTP(err)
	}
	return h.sendSession(c, http.StatusOK, "Admin login successful", sess)
}

// -- Users --

func (h *Handler) ListUsers(c echo.Context) error {
	p := pagination.FromContext(c, defaultPageSize)
	list, total, err := h.svc.Users(c.Request().Context(), c.QueryParam("role"), p.Limit, p.Offset())
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":     true,
		"users":       users(list),
		"totalPages":  p.TotalPages(total),
		"currentPage": p.Page,
		"total":       total,
	})
}

func (h *Handler) ListDoctors(c echo.Context) error {
	list, err := h.svc.Doctors(c.Request().Context())
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(list),
		"doctors": users(list),
	})
}

func (h *Handler) searchRole(role, key string) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := pagination.FromContext(c, defaultPageSize)
		list, total, err := h.svc.SearchRole(c.Request().Context(), role, c.QueryParam("search"), p.Limit, p.Offset())
		if err != nil {
			return apperr.HTTP(err)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":     true,
			key:           users(list),
			"totalPages":  p.TotalPages(total),
			"currentPage": p.Page,
			"total":       total,
		})
	}
}

func (h *Handler) UpdateAvailability(c echo.Context) error {
	id, err := parseID(c, "User not found")
	if err != nil {
		return err
	}
	var body struct {
		Availability string `json:"availability"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	u, err := h.svc.UpdateAvailability(c.Request().Context(), id, body.Availability)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User status updated successfully",
		"user":    u,
	})
}

func (h *Handler) SetBlocked(c echo.Context) error {
	actorID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "User not found")
	if err != nil {
		return err
	}
	var body struct {
		IsBlocked *bool `json:"isBlocked"`
	}
	if err := c.Bind(&body); err != nil || body.IsBlocked == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "isBlocked is required")
	}
	u, err := h.svc.SetBlocked(c.Request().Context(), actorID, id, *body.IsBlocked)
	if err != nil {
		return apperr.HTTP(err)
	}
	verb := "unblocked"
	if u.IsBlocked {
		verb = "blocked"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": u.Role + " " + verb + " successfully",
		"user":    u,
	})
}

func (h *Handler) DeleteUser(c echo.Context) error {
	actorID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "User not found")
	if err != nil {
		return err
	}
	u, err := h.svc.DeleteUser(c.Request().Context(), actorID, id)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     u.Role + " deleted successfully",
		"deletedUser": u,
	})
}

func (h *Handler) BulkDelete(c echo.Context) error {
	actorID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	var in BulkInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	n, err := h.svc.BulkDelete(c.Request().Context(), actorID, in.UserIDs)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      pluralUsers(n) + " deleted successfully",
		"deletedCount": n,
	})
}

func (h *Handler) BulkStatus(c echo.Context) error {
	actorID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	var in BulkInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	n, err := h.svc.BulkSetBlocked(c.Request().Context(), actorID, in)
	if err != nil {
		return apperr.HTTP(err)
	}
	verb := "unblocked"
	if *in.IsBlocked {
		verb = "blocked"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":       true,
		"message":       pluralUsers(n) + " " + verb + " successfully",
		"modifiedCount": n,
	})
}

func pluralUsers(n int) string {
	if n == 1 {
		return "1 user"
	}
	return strconv.Itoa(n) + " users"
}

func (h *Handler) Stats(c echo.Context) error {
	st, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "stats": st})
}

// -- Pharmacies and orders --

func (h *Handler) ListPharmacies(c echo.Context) error {
	list, err := h.svc.Pharmacies(c.Request().Context())
	if err != nil {
		return apperr.HTTP(err)
	}
	if list == nil {
		list = []*Pharmacy{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "pharmacies": list})
}

func (h *Handler) SetPharmacyStatus(c echo.Context) error {
	id, err := parseID(c, "Pharmacy not found")
	if err != nil {
		return err
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	p, err := h.svc.SetPharmacyStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Pharmacy status updated successfully",
		"pharmacy": p,
	})
}

func (h *Handler) ListOrders(c echo.Context) error {
	list, err := h.svc.Orders(c.Request().Context())
	if err != nil {
		return apperr.HTTP(err)
	}
	if list == nil {
		list = []*Order{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "orders": list})
}

func (h *Handler) GetOrder(c echo.Context) error {
	id, err := parseID(c, "Order not found")
	if err != nil {
		return err
	}
	o, err := h.svc.Order(c.Request().Context(), id)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "order": o})
}

func (h *Handler) Analytics(c echo.Context) error {
	a, err := h.svc.Analytics(c.Request().Context())
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "analytics": a})
}
