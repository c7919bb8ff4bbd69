package prescription

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cureconnect/cureconnect/internal/platform/auth"
)

func request(method, body string, userID uuid.UUID, role string) *http.Request {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req.WithContext(auth.WithIdentity(req.Context(), userID.String(), role))
}

func TestHandler_CreateListGet(t *testing.T) {
	env := newTestEnv(t)
	h := NewHandler(env.svc)
	e := echo.New()

	body := `{"appointmentId":"` + env.appt.ID.String() + `","diagnosis":"Flu","medications":[{"name":"Oseltamivir","dosage":"75mg","frequency":"twice daily"}]}`
	rec := httptest.NewRecorder()
	if err := h.Create(e.NewContext(request(http.MethodPost, body, env.doctor, auth.RoleDoctor), rec)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), `"prescriptionNumber":"RX`) {
		t.Fatalf("unexpected create response %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	if err := h.List(e.NewContext(request(http.MethodGet, "", env.patient, auth.RolePatient), rec)); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Oseltamivir") {
		t.Errorf("expected prescription in list: %s", rec.Body.String())
	}

	c := e.NewContext(request(http.MethodGet, "", uuid.New(), auth.RolePatient), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())
	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_ListEmptyIsArray(t *testing.T) {
	env := newTestEnv(t)
	rec := httptest.NewRecorder()
	if err := NewHandler(env.svc).List(echo.New().NewContext(request(http.MethodGet, "", uuid.New(), auth.RolePatient), rec)); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"prescriptions":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}
