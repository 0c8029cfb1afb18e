package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanyKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain name",
			input:    "Acme",
			expected: "acme",
		},
		{
			name:     "case and whitespace",
			input:    "  ACME  Widgets ",
			expected: "acme widgets",
		},
		{
			name:     "corporate suffix",
			input:    "Acme Widgets Inc.",
			expected: "acme widgets",
		},
		{
			name:     "stacked suffixes",
			input:    "Acme Co., Ltd.",
			expected: "acme",
		},
		{
			name:     "parenthetical annotation",
			input:    "Acme (formerly Apex)",
			expected: "acme",
		},
		{
			name:     "fullwidth parentheses",
			input:    "Acme（Japan）",
			expected: "acme",
		},
		{
			name:     "suffix word in the middle is kept",
			input:    "Coastal Co Trading",
			expected: "coastal co trading",
		},
		{
			name:     "name that is only a suffix token survives",
			input:    "Ltd",
			expected: "ltd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompanyKey(tt.input))
		})
	}
}

func TestCompanyKey_Equivalence(t *testing.T) {
	// Case, whitespace, suffix tokens, and parenthetical content never
	// separate two names.
	assert.Equal(t, CompanyKey("ABC Co., Ltd. (Taiwan)"), CompanyKey("abc co. (taiwan)"))
	assert.Equal(t, CompanyKey("Acme Corporation"), CompanyKey("ACME corp."))
	assert.NotEqual(t, CompanyKey("Acme Widgets"), CompanyKey("Acme Gadgets"))
}

func TestPersonKey(t *testing.T) {
	assert.Equal(t, "john smith", PersonKey("John Smith Jr."))
	assert.Equal(t, "john smith", PersonKey("  JOHN   SMITH  "))
	assert.Equal(t, PersonKey("Jane Doe, PhD"), PersonKey("jane doe"))
}
