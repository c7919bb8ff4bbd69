package ticket

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cureconnect/cureconnect/internal/domain/identity"
	"github.com/cureconnect/cureconnect/internal/platform/apperr"
	"github.com/cureconnect/cureconnect/internal/platform/auth"
	"github.com/cureconnect/cureconnect/pkg/pagination"
)

const defaultPageSize = 10

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/ticket")
	g.POST("/create", h.Create)
	g.GET("/my-tickets", h.Mine)
	g.GET("/details/:id", h.Details)

	admin := g.Group("/admin", auth.RequireRole(auth.RoleAdmin))
	admin.GET("/all", h.All)
	admin.GET("/stats", h.Stats)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, "Ticket not found")
	}
	return id, nil
}

func listBody(list []*Ticket, total int, p pagination.Params) map[string]interface{} {
	if list == nil {
		list = []*Ticket{}
	}
	return map[string]interface{}{
		"success":      true,
		"tickets":      list,
		"totalTickets": total,
		"currentPage":  p.Page,
		"totalPages":   p.TotalPages(total),
	}
}

func (h *Handler) Create(c echo.Context) error {
	userID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	t, err := h.svc.Create(c.Request().Context(), userID, in)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Ticket created successfully",
		"ticket":  t,
	})
}

func (h *Handler) Mine(c echo.Context) error {
	userID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c, defaultPageSize)
	list, total, err := h.svc.Mine(c.Request().Context(), userID, c.QueryParam("status"), p.Limit, p.Offset())
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, listBody(list, total, p))
}

func (h *Handler) Details(c echo.Context) error {
	userID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	t, err := h.svc.Details(c.Request().Context(), id, userID, auth.RoleFromContext(c.Request().Context()))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "ticket": t})
}

func (h *Handler) All(c echo.Context) error {
	p := pagination.FromContext(c, defaultPageSize)
	f := Filter{
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	}
	list, total, counts, err := h.svc.All(c.Request().Context(), f, p.Limit, p.Offset())
	if err != nil {
		return apperr.HTTP(err)
	}
	body := listBody(list, total, p)
	body["stats"] = counts
	return c.JSON(http.StatusOK, body)
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":       true,
		"stats":         stats.Totals,
		"categoryStats": stats.CategoryStats,
		"priorityStats": stats.PriorityStats,
	})
}

func (h *Handler) Update(c echo.Context) error {
	adminID, err := identity.CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	t, err := h.svc.Update(c.Request().Context(), id, adminID, in)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Ticket updated successfully",
		"ticket":  t,
	})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Ticket deleted successfully",
	})
}
