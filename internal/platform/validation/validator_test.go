package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingRequest struct {
	Doctor string `json:"doctor" validate:"required"`
	Day    string `json:"day" validate:"required,date"`
	Time   string `json:"time" validate:"required,clock"`
	Note   string `json:"note" validate:"max=5"`
}

func TestValidate_MessagesUseJSONNames(t *testing.T) {
	v := New()

	cases := []struct {
		req  bookingRequest
		want string
	}{
		{bookingRequest{Day: "2026-01-02", Time: "09:00"}, "doctor is required"},
		{bookingRequest{Doctor: "d", Day: "02/01/2026", Time: "09:00"}, "day must be a date in YYYY-MM-DD format"},
		{bookingRequest{Doctor: "d", Day: "2026-01-02", Time: "9am"}, "time must be a time in HH:MM format"},
		{bookingRequest{Doctor: "d", Day: "2026-01-02", Time: "09:00", Note: "toolong"}, "note must be at most 5 characters"},
	}
	for _, tc := range cases {
		err := v.Validate(&tc.req)
		var he *echo.HTTPError
		require.True(t, errors.As(err, &he), "expected HTTPError for %+v", tc.req)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		assert.Equal(t, tc.want, he.Message)
	}

	assert.NoError(t, v.Validate(&bookingRequest{Doctor: "d", Day: "2026-01-02", Time: "09:30"}))
}

func TestBindAndValidate(t *testing.T) {
	e := echo.New()
	e.Validator = New()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"doctor":"d","day":"2026-01-02","time":"10:00"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	var body bookingRequest
	require.NoError(t, BindAndValidate(c, &body))
	assert.Equal(t, "10:00", body.Time)

	bad := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"doctor":`))
	bad.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c = e.NewContext(bad, httptest.NewRecorder())
	err := BindAndValidate(c, &body)
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, "Invalid request body", he.Message)
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("patient@example.com"))
	assert.False(t, IsEmail("9876543210"))
	assert.False(t, IsEmail(""))
}
