package symptom

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
)

// maxTextLength bounds the transcript accepted for extraction.
const maxTextLength = 5000

type Handler struct {
	extractor *Extractor
}

// NewHandler serves extraction from x, or from the built-in dictionaries when
// x is nil.
func NewHandler(x *Extractor) *Handler {
	if x == nil {
		x = defaultExtractor
	}
	return &Handler{extractor: x}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/symptoms")
	g.POST("/keywords", h.Keywords)
	g.GET("/languages", h.Languages)
}

type keywordsRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (h *Handler) Keywords(c echo.Context) error {
	var req keywordsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Text is required")
	}
	if utf8.RuneCountInString(req.Text) > maxTextLength {
		return echo.NewHTTPError(http.StatusBadRequest, "Text cannot exceed 5000 characters")
	}
	res := h.extractor.Extract(req.Text, req.Language)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":           true,
		"extractedKeywords": res.ExtractedKeywords,
		"originalText":      res.OriginalText,
		"keywordCount":      res.KeywordCount,
		"language":          res.Language,
	})
}

func (h *Handler) Languages(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":   true,
		"languages": SupportedLanguages,
	})
}
