package symptom

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(method, target, body string) *httptest.ResponseRecorder {
	e := echo.New()
	NewHandler(nil).RegisterRoutes(e.Group("/api/v1"))
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Keywords(t *testing.T) {
	rec := serve(http.MethodPost, "/api/v1/symptoms/keywords", `{"text":"I have fever and headache","language":"en-US"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success           bool     `json:"success"`
		ExtractedKeywords []string `json:"extractedKeywords"`
		KeywordCount      int      `json:"keywordCount"`
		Language          string   `json:"language"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, []string{"fever", "headache"}, body.ExtractedKeywords)
	assert.Equal(t, 2, body.KeywordCount)
	assert.Equal(t, "en-US", body.Language)
}

func TestHandler_KeywordsValidation(t *testing.T) {
	rec := serve(http.MethodPost, "/api/v1/symptoms/keywords", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Text is required")

	rec = serve(http.MethodPost, "/api/v1/symptoms/keywords", `{"text":"`+strings.Repeat("a", maxTextLength+1)+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_KeywordsLimitCountsCharacters(t *testing.T) {
	// 2400 characters of Hindi are 6400 bytes of UTF-8.
	hindi := strings.Repeat("बुखार ", 400)
	rec := serve(http.MethodPost, "/api/v1/symptoms/keywords", `{"text":"`+hindi+`","language":"hi-IN"}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(http.MethodPost, "/api/v1/symptoms/keywords", `{"text":"`+strings.Repeat("ब", maxTextLength+1)+`","language":"hi-IN"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Text cannot exceed 5000 characters")
}

func TestHandler_Languages(t *testing.T) {
	rec := serve(http.MethodGet, "/api/v1/symptoms/languages", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Languages []Language `json:"languages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Languages, len(SupportedLanguages))
	assert.Equal(t, "en-US", body.Languages[0].Code)
}
