package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cureconnect/cureconnect/internal/config"
	"github.com/cureconnect/cureconnect/internal/platform/auth"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:                     "test",
		JWTSecret:               "server-test-secret-server-test-secret",
		JWTTTLHours:             1,
		CORSOrigins:             []string{"http://localhost:5173"},
		RateLimitRPS:            1000,
		RateLimitBurst:          1000,
		SMSCountryPrefix:        "+91",
		ReminderIntervalSeconds: 60,
		ReminderTimezone:        "Asia/Kolkata",
	}
}

const testUserID = "5f0c1c2e-8a4b-4f4e-9d8a-1b2c3d4e5f60"

type stubAccounts map[string]*auth.Account

func (s stubAccounts) LookupAccount(_ context.Context, userID string) (*auth.Account, error) {
	if a, ok := s[userID]; ok {
		return a, nil
	}
	return nil, auth.ErrAccountNotFound
}

// newTestServer wires the real router without a database. Only routes that
// stop before the repositories are exercised, so session checks read from
// accounts instead of the users table.
func newTestServer(t *testing.T, accounts stubAccounts) (*deps, http.Handler) {
	t.Helper()
	d, err := newDeps(context.Background(), testConfig(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("newDeps: %v", err)
	}
	t.Cleanup(d.Close)
	d.sessions = accounts
	return d, newServer(d)
}

func do(h http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func issue(t *testing.T, d *deps, role string) string {
	t.Helper()
	tok, _, err := d.tokens.Issue(testUserID, role)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return tok
}

func TestNewDeps_BadTimezone(t *testing.T) {
	cfg := testConfig()
	cfg.ReminderTimezone = "Mars/Olympus_Mons"
	if _, err := newDeps(context.Background(), cfg, nil, zerolog.Nop()); err == nil {
		t.Fatal("expected an error for an unknown timezone")
	}
}

func TestServer_Health(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := do(h, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected /health %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}
}

func TestServer_PublicRoute(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := do(h, http.MethodGet, "/api/v1/symptoms/languages", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected languages without a session, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestServer_RequiresSession(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := do(h, http.MethodGet, "/api/v1/appointment/my", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Success || body.Message != "Please login to access this feature" {
		t.Errorf("unexpected error body %+v", body)
	}

	rec = do(h, http.MethodGet, "/api/v1/appointment/my", "", "not-a-jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a garbage token, got %d", rec.Code)
	}
}

func TestServer_BearerSession(t *testing.T) {
	d, h := newTestServer(t, stubAccounts{testUserID: {Role: auth.RolePatient}})
	token := issue(t, d, auth.RolePatient)

	rec := do(h, http.MethodPost, "/api/v1/symptoms/keywords", `{"text":"I have a fever","language":"en-US"}`, token)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"fever"`) {
		t.Errorf("unexpected keywords response %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(h, http.MethodGet, "/api/v1/admin/stats", "", token)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a patient on admin routes, got %d", rec.Code)
	}
}

func TestServer_SessionFollowsAccount(t *testing.T) {
	accounts := stubAccounts{testUserID: {Role: auth.RolePatient}}
	d, h := newTestServer(t, accounts)
	token := issue(t, d, auth.RolePatient)
	body := `{"text":"I have a fever","language":"en-US"}`

	accounts[testUserID].Blocked = true
	rec := do(h, http.MethodPost, "/api/v1/symptoms/keywords", body, token)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a blocked account, got %d", rec.Code)
	}

	delete(accounts, testUserID)
	rec = do(h, http.MethodPost, "/api/v1/symptoms/keywords", body, token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a deleted account, got %d", rec.Code)
	}
}

func TestServer_CredentialRateLimit(t *testing.T) {
	_, h := newTestServer(t, nil)

	// Admin self-registration is disabled in the test config, so every
	// attempt is rejected before touching the database.
	limited := false
	for i := 0; i < 20; i++ {
		rec := do(h, http.MethodPost, "/api/v1/admin/register", `{"adminKey":"guess"}`, "")
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
		if rec.Code != http.StatusForbidden {
			t.Fatalf("attempt %d: expected 403, got %d", i, rec.Code)
		}
	}
	if !limited {
		t.Error("expected credential attempts to be rate limited")
	}

	rec := do(h, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("other routes should not share the credential budget, got %d", rec.Code)
	}
}

func TestMigrationsDir(t *testing.T) {
	cfg := &config.Config{MigrationsDir: "./migrations"}

	cmd := migrateCmd()
	up, _, err := cmd.Find([]string{"up"})
	if err != nil {
		t.Fatalf("find up: %v", err)
	}
	if got := migrationsDir(up, cfg); got != "./migrations" {
		t.Errorf("expected config default, got %q", got)
	}
	if err := up.Flags().Set("dir", "/srv/sql"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if got := migrationsDir(up, cfg); got != "/srv/sql" {
		t.Errorf("expected flag override, got %q", got)
	}
}

func TestStartWorker_StopWaitsForReturn(t *testing.T) {
	var finished atomic.Bool
	started := make(chan struct{})
	stop := startWorker(context.Background(), func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		// Simulate a worker that is mid-query when it is cancelled.
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
	})
	<-started

	stop()
	if !finished.Load() {
		t.Fatal("stop returned before the worker did")
	}
	stop()
}
