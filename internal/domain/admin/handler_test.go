package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cureconnect/cureconnect/internal/domain/identity"
	"github.com/cureconnect/cureconnect/internal/platform/auth"
	"github.com/cureconnect/cureconnect/internal/platform/notification"
)

func newTestServer(t *testing.T) (*echo.Echo, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	revocations := auth.NewMemoryRevocationStore(time.Hour)
	t.Cleanup(revocations.Close)
	tokens := auth.NewTokenManager([]byte("admin-test-secret-admin-test-secret"), "cureconnect", time.Hour)
	mgr := notification.NewManager(&notification.MockEmailSender{}, &notification.MockSMSSender{}, nil,
		notification.ManagerOptions{CountryPrefix: "+91", Logger: zerolog.Nop()})
	accounts := identity.NewService(env.users, tokens, revocations, mgr, identity.Options{
		AdminSecret: "let-me-in",
		Logger:      zerolog.Nop(),
	})

	e := echo.New()
	NewHandler(env.svc, accounts, notification.NewHandler(mgr), false).RegisterRoutes(e.Group("/api/v1"))
	return e, env
}

func serve(e *echo.Echo, method, target, body string, u *identity.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if u != nil {
		req = req.WithContext(auth.WithIdentity(req.Context(), u.ID.String(), u.Role))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_RegisterAndLogin(t *testing.T) {
	e, env := newTestServer(t)
	// The fixture admin is replaced by the one registered below.
	delete(env.users.users, env.admin.ID)

	rec := serve(e, http.MethodPost, "/api/v1/admin/register",
		`{"name":"Root","contact":"admin@example.com","password":"password123","adminKey":"wrong"}`, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a bad key, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(e, http.MethodPost, "/api/v1/admin/register",
		`{"name":"Root","contact":"admin@example.com","password":"password123","adminKey":"let-me-in"}`, nil)
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), "Admin registered successfully") {
		t.Fatalf("unexpected register response %d: %s", rec.Code, rec.Body.String())
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie")
	}

	rec = serve(e, http.MethodPost, "/api/v1/admin/register",
		`{"name":"Second","contact":"second@example.com","password":"password123","adminKey":"let-me-in"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for a second admin, got %d", rec.Code)
	}

	rec = serve(e, http.MethodPost, "/api/v1/admin/login", `{"contact":"admin@example.com","password":"password123"}`, nil)
	var body struct {
		Message string         `json:"message"`
		Admin   *identity.User `json:"admin"`
		Token   string         `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if rec.Code != http.StatusOK || body.Message != "Admin login successful" || body.Token == "" || body.Admin.Role != auth.RoleAdmin {
		t.Errorf("unexpected login response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandler_AdminOnly(t *testing.T) {
	e, env := newTestServer(t)
	patient := env.add("Asha", "asha@example.com", auth.RolePatient, time.Hour)

	rec := serve(e, http.MethodGet, "/api/v1/admin/users", "", patient)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a patient, got %d", rec.Code)
	}

	rec = serve(e, http.MethodGet, "/api/v1/admin/users?page=1&limit=10", "", env.admin)
	var body struct {
		Users       []identity.User `json:"users"`
		Total       int             `json:"total"`
		TotalPages  int             `json:"totalPages"`
		CurrentPage int             `json:"currentPage"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if rec.Code != http.StatusOK || body.Total != 1 || body.TotalPages != 1 || body.CurrentPage != 1 {
		t.Errorf("unexpected users page %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandler_UserModeration(t *testing.T) {
	e, env := newTestServer(t)
	patient := env.add("Asha", "asha@example.com", auth.RolePatient, time.Hour)
	doctor := env.add("Dr Mehta", "mehta@example.com", auth.RoleDoctor, time.Hour)

	rec := serve(e, http.MethodPatch, "/api/v1/admin/user/"+patient.ID.String()+"/status", `{"isBlocked":true}`, env.admin)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "patient blocked successfully") {
		t.Errorf("unexpected block response %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(e, http.MethodPatch, "/api/v1/admin/user/"+env.admin.ID.String()+"/status", `{"isBlocked":true}`, env.admin)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for self block, got %d", rec.Code)
	}

	rec = serve(e, http.MethodPut, "/api/v1/admin/user/"+doctor.ID.String()+"/status", `{"availability":"Unavailable"}`, env.admin)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "User status updated successfully") {
		t.Errorf("unexpected availability response %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(e, http.MethodDelete, "/api/v1/admin/user/"+doctor.ID.String(), "", env.admin)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "doctor deleted successfully") {
		t.Errorf("unexpected delete response %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(e, http.MethodDelete, "/api/v1/admin/user/not-a-uuid", "", env.admin)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a bad id, got %d", rec.Code)
	}
}

func TestHandler_Bulk(t *testing.T) {
	e, env := newTestServer(t)
	a := env.add("A", "a@example.com", auth.RolePatient, time.Hour)
	b := env.add("B", "b@example.com", auth.RolePharmacist, time.Hour)

	rec := serve(e, http.MethodPatch, "/api/v1/admin/users/bulk-status",
		`{"userIds":["`+a.ID.String()+`"],"isBlocked":true}`, env.admin)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"modifiedCount":1`) {
		t.Errorf("unexpected bulk-status response %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(e, http.MethodPost, "/api/v1/admin/users/bulk-delete", `{"userIds":[]}`, env.admin)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an empty list, got %d", rec.Code)
	}

	rec = serve(e, http.MethodPost, "/api/v1/admin/users/bulk-delete",
		`{"userIds":["`+a.ID.String()+`","`+b.ID.String()+`"]}`, env.admin)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "2 users deleted successfully") {
		t.Errorf("unexpected bulk-delete response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandler_PharmaciesAndNotifications(t *testing.T) {
	e, env := newTestServer(t)
	p := env.pharmacy("Apollo", PharmacyPending)

	rec := serve(e, http.MethodPut, "/api/v1/admin/pharmacy/"+p.ID.String()+"/status", `{"status":"verified"}`, env.admin)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Pharmacy status updated successfully") {
		t.Errorf("unexpected pharmacy response %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(e, http.MethodPut, "/api/v1/admin/pharmacy/"+p.ID.String()+"/status", `{"status":"bogus"}`, env.admin)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad status, got %d", rec.Code)
	}

	rec = serve(e, http.MethodGet, "/api/v1/admin/orders", "", env.admin)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"orders":[]`) {
		t.Errorf("expected an empty order list, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(e, http.MethodGet, "/api/v1/admin/analytics", "", env.admin)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"verifiedPharmacies":1`) {
		t.Errorf("unexpected analytics %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(e, http.MethodGet, "/api/v1/admin/notifications/stats", "", env.admin)
	if rec.Code != http.StatusOK {
		t.Errorf("expected notifications to be mounted, got %d", rec.Code)
	}
}
