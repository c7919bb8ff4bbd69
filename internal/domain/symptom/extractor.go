// Package symptom extracts medical keywords from free-text symptom
// descriptions, such as speech transcripts, in several Indian languages.
package symptom

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// DefaultLanguage is used for empty codes and for languages without a
// dictionary of their own.
const DefaultLanguage = "en-US"

// Dictionary groups the terms known for one language.
type Dictionary struct {
	Symptoms    []string
	BodyParts   []string
	Conditions  []string
	Medications []string
}

// Terms returns every term in the dictionary.
func (d Dictionary) Terms() []string {
	out := make([]string, 0, len(d.Symptoms)+len(d.BodyParts)+len(d.Conditions)+len(d.Medications))
	out = append(out, d.Symptoms...)
	out = append(out, d.BodyParts...)
	out = append(out, d.Conditions...)
	return append(out, d.Medications...)
}

// Language is one entry of the speech-input language picker.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// SupportedLanguages lists the languages accepted for symptom input. Those
// without a dictionary are matched against the English terms.
var SupportedLanguages = []Language{
	{Code: "en-US", Name: "English (US)", Flag: "🇺🇸"},
	{Code: "hi-IN", Name: "हिंदी (Hindi)", Flag: "🇮🇳"},
	{Code: "mr-IN", Name: "मराठी (Marathi)", Flag: "🇮🇳"},
	{Code: "kn-IN", Name: "ಕನ್ನಡ (Kannada)", Flag: "🇮🇳"},
	{Code: "ta-IN", Name: "தமிழ் (Tamil)", Flag: "🇮🇳"},
	{Code: "te-IN", Name: "తెలుగు (Telugu)", Flag: "🇮🇳"},
	{Code: "gu-IN", Name: "ગુજરાતી (Gujarati)", Flag: "🇮🇳"},
	{Code: "bn-IN", Name: "বাংলা (Bengali)", Flag: "🇮🇳"},
	{Code: "pa-IN", Name: "ਪੰਜਾਬੀ (Punjabi)", Flag: "🇮🇳"},
	{Code: "ur-IN", Name: "اردو (Urdu)", Flag: "🇮🇳"},
}

// Result is the outcome of one extraction.
type Result struct {
	ExtractedKeywords []string `json:"extractedKeywords"`
	OriginalText      string   `json:"originalText"`
	KeywordCount      int      `json:"keywordCount"`
	Language          string   `json:"language"`
}

type term struct {
	raw    string
	folded string
}

// Extractor matches text against pre-folded dictionaries. It is safe for
// concurrent use.
type Extractor struct {
	terms map[string][]term
}

// NewExtractor folds every dictionary term once.
func NewExtractor(dicts map[string]Dictionary) *Extractor {
	fold := cases.Fold()
	x := &Extractor{terms: make(map[string][]term, len(dicts))}
	for code, d := range dicts {
		seen := make(map[string]bool)
		for _, raw := range d.Terms() {
			if seen[raw] {
				continue
			}
			seen[raw] = true
			x.terms[code] = append(x.terms[code], term{raw: raw, folded: fold.String(norm.NFC.String(raw))})
		}
	}
	return x
}

// dictionaryFor canonicalises code ("hi-in" becomes "hi-IN") and falls back
// to the default dictionary.
func (x *Extractor) dictionaryFor(code string) []term {
	if tag, err := language.Parse(code); err == nil {
		if terms, ok := x.terms[tag.String()]; ok {
			return terms
		}
	}
	return x.terms[DefaultLanguage]
}

// Extract returns the sorted, de-duplicated dictionary terms that occur in
// text as whole terms, ignoring case.
func (x *Extractor) Extract(text, code string) Result {
	if code == "" {
		code = DefaultLanguage
	}
	// Speech engines may emit decomposed nukta forms; compose before folding.
	folded := cases.Fold().String(norm.NFC.String(text))

	found := []string{}
	for _, t := range x.dictionaryFor(code) {
		if containsTerm(folded, t.folded) {
			found = append(found, t.raw)
		}
	}
	sort.Strings(found)
	return Result{
		ExtractedKeywords: found,
		OriginalText:      text,
		KeywordCount:      len(found),
		Language:          code,
	}
}

var defaultExtractor = NewExtractor(dictionaries)

// ExtractMedicalKeywords runs the built-in dictionaries over text.
func ExtractMedicalKeywords(text, code string) Result {
	return defaultExtractor.Extract(text, code)
}

// isTermRune reports whether r continues a term. Joiners count so Indic
// conjuncts are never split.
func isTermRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || r == '\u200c' || r == '\u200d'
}

// containsTerm reports whether needle occurs in haystack with no term rune
// directly before or after it.
func containsTerm(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	for from := 0; from < len(haystack); {
		i := strings.Index(haystack[from:], needle)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(needle)

		before, _ := utf8.DecodeLastRuneInString(haystack[:start])
		after, _ := utf8.DecodeRuneInString(haystack[end:])
		if (start == 0 || !isTermRune(before)) && (end == len(haystack) || !isTermRune(after)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(haystack[start:])
		from = start + size
	}
	return false
}
