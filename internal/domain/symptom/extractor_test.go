package symptom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_English(t *testing.T) {
	res := ExtractMedicalKeywords("I have fever and headache", "en-US")
	assert.Equal(t, []string{"fever", "headache"}, res.ExtractedKeywords)
	assert.Equal(t, 2, res.KeywordCount)
	assert.Equal(t, "I have fever and headache", res.OriginalText)
	assert.Equal(t, "en-US", res.Language)
}

func TestExtract_CaseInsensitiveAndUnique(t *testing.T) {
	res := ExtractMedicalKeywords("FEVER since Monday. Fever again, plus Chest Pain.", "en-US")
	assert.Equal(t, []string{"chest", "chest pain", "fever", "pain"}, res.ExtractedKeywords)
	assert.Equal(t, 4, res.KeywordCount)
}

func TestExtract_WholeTermsOnly(t *testing.T) {
	// "head" must not match inside "headache", nor "red" inside "hundred".
	res := ExtractMedicalKeywords("a hundred headaches", "en-US")
	assert.Empty(t, res.ExtractedKeywords)
	assert.NotNil(t, res.ExtractedKeywords)
	assert.Zero(t, res.KeywordCount)
}

func TestExtract_Hindi(t *testing.T) {
	res := ExtractMedicalKeywords("मुझे बुखार और सिरदर्द है", "hi-IN")
	assert.ElementsMatch(t, []string{"बुखार", "सिरदर्द"}, res.ExtractedKeywords)
	// "सिर" is a prefix of "सिरदर्द" and must not match on its own.
	assert.NotContains(t, res.ExtractedKeywords, "सिर")
}

func TestExtract_DuplicateTermsAcrossKinds(t *testing.T) {
	// "दमा" is listed as both a symptom and a condition.
	res := ExtractMedicalKeywords("मुझे दमा है", "hi-IN")
	assert.Equal(t, []string{"दमा"}, res.ExtractedKeywords)
}

func TestExtract_Kannada(t *testing.T) {
	res := ExtractMedicalKeywords("ನನಗೆ ಜ್ವರ ಮತ್ತು ಕೆಮ್ಮು ಇದೆ", "kn-IN")
	assert.ElementsMatch(t, []string{"ಜ್ವರ", "ಕೆಮ್ಮು"}, res.ExtractedKeywords)
	assert.Equal(t, 2, res.KeywordCount)
}

func TestExtract_Marathi(t *testing.T) {
	res := ExtractMedicalKeywords("मला ताप आणि खोकला आहे", "mr-IN")
	assert.ElementsMatch(t, []string{"ताप", "खोकला"}, res.ExtractedKeywords)
}

func TestExtract_FallbackToEnglish(t *testing.T) {
	for _, code := range []string{"ta-IN", "ur-IN", "xx-YY", "not a tag"} {
		res := ExtractMedicalKeywords("cough and rash", code)
		assert.Equal(t, []string{"cough", "rash"}, res.ExtractedKeywords, code)
		assert.Equal(t, code, res.Language)
	}

	res := ExtractMedicalKeywords("cough", "")
	assert.Equal(t, DefaultLanguage, res.Language)
	assert.Equal(t, []string{"cough"}, res.ExtractedKeywords)
}

func TestExtract_CanonicalisesCode(t *testing.T) {
	res := ExtractMedicalKeywords("बुखार", "hi-in")
	assert.Equal(t, []string{"बुखार"}, res.ExtractedKeywords)
}

func TestNewExtractor_CustomDictionary(t *testing.T) {
	x := NewExtractor(map[string]Dictionary{
		DefaultLanguage: {Symptoms: []string{"Sore Throat"}, Medications: []string{"Sore Throat"}},
	})
	res := x.Extract("my sore throat hurts", "")
	require.Len(t, res.ExtractedKeywords, 1)
	assert.Equal(t, "Sore Throat", res.ExtractedKeywords[0])
}

func TestContainsTerm(t *testing.T) {
	cases := []struct {
		haystack, needle string
		want             bool
	}{
		{"fever", "fever", true},
		{"high fever.", "fever", true},
		{"feverish", "fever", false},
		{"a feverish fever", "fever", true},
		{"back-pain", "pain", true},
		{"pain2", "pain", false},
		{"anything", "", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, containsTerm(tc.haystack, tc.needle), "%q in %q", tc.needle, tc.haystack)
	}
}

func TestSupportedLanguages(t *testing.T) {
	codes := make([]string, 0, len(SupportedLanguages))
	for _, l := range SupportedLanguages {
		codes = append(codes, l.Code)
	}
	assert.Contains(t, codes, DefaultLanguage)
	for code := range dictionaries {
		assert.Contains(t, codes, code)
	}
}
