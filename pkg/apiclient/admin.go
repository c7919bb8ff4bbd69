package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cureconnect/cureconnect/internal/domain/admin"
	"github.com/cureconnect/cureconnect/internal/domain/identity"
	"github.com/cureconnect/cureconnect/internal/domain/ticket"
	"github.com/cureconnect/cureconnect/internal/platform/notification"
)

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

// -- Admin session --

type adminSessionResponse struct {
	Admin *identity.User `json:"admin"`
	Token string         `json:"token"`
}

// AdminRegister creates the administrator when the server accepts adminKey.
func (c *Client) AdminRegister(ctx context.Context, in admin.RegisterInput) (*identity.User, error) {
	var out adminSessionResponse
	if err := c.do(ctx, http.MethodPost, "/admin/register", nil, in, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return out.Admin, nil
}

func (c *Client) AdminLogin(ctx context.Context, contact, password string) (*identity.User, error) {
	var out adminSessionResponse
	err := c.do(ctx, http.MethodPost, "/admin/login", nil, identity.LoginInput{Contact: contact, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return out.Admin, nil
}

// -- Users --

// UserPage is one page of an admin user listing.
type UserPage struct {
	Users       []*identity.User `json:"users"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
	Total       int              `json:"total"`
}

// Users lists accounts, optionally narrowed to one role.
func (c *Client) Users(ctx context.Context, role string, page, limit int) (*UserPage, error) {
	q := pageQuery(page, limit)
	if role != "" {
		q.Set("role", role)
	}
	var out UserPage
	if err := c.do(ctx, http.MethodGet, "/admin/users", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminDoctors lists every doctor, including blocked ones.
func (c *Client) AdminDoctors(ctx context.Context) ([]*identity.User, error) {
	var out struct {
		Doctors []*identity.User `json:"doctors"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/doctors", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Doctors, nil
}

func (c *Client) Patients(ctx context.Context, search string, page, limit int) (*UserPage, error) {
	return c.searchRole(ctx, "/admin/patients", search, page, limit)
}

func (c *Client) Pharmacists(ctx context.Context, search string, page, limit int) (*UserPage, error) {
	return c.searchRole(ctx, "/admin/pharmacists", search, page, limit)
}

func (c *Client) searchRole(ctx context.Context, path, search string, page, limit int) (*UserPage, error) {
	q := pageQuery(page, limit)
	if search != "" {
		q.Set("search", search)
	}
	var out struct {
		UserPage
		Patients    []*identity.User `json:"patients"`
		Pharmacists []*identity.User `json:"pharmacists"`
	}
	if err := c.do(ctx, http.MethodGet, path, q, nil, &out); err != nil {
		return nil, err
	}
	res := out.UserPage
	res.Users = append(out.Patients, out.Pharmacists...)
	return &res, nil
}

type userResponse struct {
	User *identity.User `json:"user"`
}

func (c *Client) UpdateAvailability(ctx context.Context, userID, availability string) (*identity.User, error) {
	var out userResponse
	body := map[string]string{"availability": availability}
	if err := c.do(ctx, http.MethodPut, "/admin/user/"+url.PathEscape(userID)+"/status", nil, body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) SetBlocked(ctx context.Context, userID string, blocked bool) (*identity.User, error) {
	var out userResponse
	body := map[string]bool{"isBlocked": blocked}
	if err := c.do(ctx, http.MethodPatch, "/admin/user/"+url.PathEscape(userID)+"/status", nil, body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID string) (*identity.User, error) {
	var out struct {
		DeletedUser *identity.User `json:"deletedUser"`
	}
	if err := c.do(ctx, http.MethodDelete, "/admin/user/"+url.PathEscape(userID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.DeletedUser, nil
}

// BulkDelete returns how many users were removed.
func (c *Client) BulkDelete(ctx context.Context, userIDs []string) (int, error) {
	var out struct {
		DeletedCount int `json:"deletedCount"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/users/bulk-delete", nil, admin.BulkInput{UserIDs: userIDs}, &out); err != nil {
		return 0, err
	}
	return out.DeletedCount, nil
}

// BulkSetBlocked returns how many users changed.
func (c *Client) BulkSetBlocked(ctx context.Context, userIDs []string, blocked bool) (int, error) {
	var out struct {
		ModifiedCount int `json:"modifiedCount"`
	}
	in := admin.BulkInput{UserIDs: userIDs, IsBlocked: &blocked}
	if err := c.do(ctx, http.MethodPatch, "/admin/users/bulk-status", nil, in, &out); err != nil {
		return 0, err
	}
	return out.ModifiedCount, nil
}

func (c *Client) DashboardStats(ctx context.Context) (*admin.DashboardStats, error) {
	var out struct {
		Stats *admin.DashboardStats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Stats, nil
}

// -- Pharmacies and orders --

func (c *Client) Pharmacies(ctx context.Context) ([]*admin.Pharmacy, error) {
	var out struct {
		Pharmacies []*admin.Pharmacy `json:"pharmacies"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/pharmacies", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Pharmacies, nil
}

func (c *Client) SetPharmacyStatus(ctx context.Context, id, status string) (*admin.Pharmacy, error) {
	var out struct {
		Pharmacy *admin.Pharmacy `json:"pharmacy"`
	}
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPut, "/admin/pharmacy/"+url.PathEscape(id)+"/status", nil, body, &out); err != nil {
		return nil, err
	}
	return out.Pharmacy, nil
}

func (c *Client) Orders(ctx context.Context) ([]*admin.Order, error) {
	var out struct {
		Orders []*admin.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/orders", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (c *Client) Order(ctx context.Context, id string) (*admin.Order, error) {
	var out struct {
		Order *admin.Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/order/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

func (c *Client) Analytics(ctx context.Context) (*admin.Analytics, error) {
	var out struct {
		Analytics *admin.Analytics `json:"analytics"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/analytics", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Analytics, nil
}

// -- Notifications --

// NotificationStats counts the notifications held by the server.
type NotificationStats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByTemplate map[string]int `json:"by_template"`
}

// Notifications lists recent notifications; zero limit leaves the server
// default.
func (c *Client) Notifications(ctx context.Context, status string, limit int) ([]*notification.Notification, error) {
	q := pageQuery(0, limit)
	if status != "" {
		q.Set("status", status)
	}
	var out struct {
		Notifications []*notification.Notification `json:"notifications"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/notifications", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Notifications, nil
}

func (c *Client) NotificationStats(ctx context.Context) (*NotificationStats, error) {
	var out struct {
		Stats *NotificationStats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/notifications/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Stats, nil
}

func (c *Client) Notification(ctx context.Context, id string) (*notification.Notification, error) {
	var out struct {
		Notification *notification.Notification `json:"notification"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/notifications/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Notification, nil
}

// RetryNotification resends a failed notification. delivered is false when
// the retry itself failed; the returned record then carries the new error.
func (c *Client) RetryNotification(ctx context.Context, id string) (n *notification.Notification, delivered bool, err error) {
	var out struct {
		Success      bool                       `json:"success"`
		Notification *notification.Notification `json:"notification"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/notifications/"+url.PathEscape(id)+"/retry", nil, nil, &out); err != nil {
		return nil, false, err
	}
	return out.Notification, out.Success, nil
}

// -- Tickets --

// AdminTicketPage is one page of GET /ticket/admin/all with counts per
// status across every ticket.
type AdminTicketPage struct {
	TicketPage
	Stats ticket.StatusCounts `json:"stats"`
}

// AdminTickets pages through every ticket. Empty filter fields match all.
func (c *Client) AdminTickets(ctx context.Context, f ticket.Filter, page, limit int) (*AdminTicketPage, error) {
	q := pageQuery(page, limit)
	for k, v := range map[string]string{"status": f.Status, "priority": f.Priority, "category": f.Category, "search": f.Search} {
		if v != "" {
			q.Set(k, v)
		}
	}
	var out AdminTicketPage
	if err := c.do(ctx, http.MethodGet, "/ticket/admin/all", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TicketStats(ctx context.Context) (*ticket.Stats, error) {
	var out ticket.Stats
	if err := c.do(ctx, http.MethodGet, "/ticket/admin/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTicket(ctx context.Context, id string, in ticket.UpdateInput) (*ticket.Ticket, error) {
	var out struct {
		Ticket *ticket.Ticket `json:"ticket"`
	}
	if err := c.do(ctx, http.MethodPut, "/ticket/admin/"+url.PathEscape(id), nil, in, &out); err != nil {
		return nil, err
	}
	return out.Ticket, nil
}

func (c *Client) DeleteTicket(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/ticket/admin/"+url.PathEscape(id), nil, nil, nil)
}
