package extractor

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextPages(t *testing.T) {
	pages := SplitTextPages("page one\r\nline two\fpage two\f")
	require.Len(t, pages, 3)
	assert.Equal(t, "page one\nline two", pages[0])
	assert.Equal(t, "page two", pages[1])
	assert.Equal(t, "", pages[2])
}

func TestLoad_TextFile(t *testing.T) {
	doc, err := Load("march.TXT", []byte("Statement of account\f01/03/24 ATM 10.00 90.00"), "secret")
	require.NoError(t, err)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 2, doc.Pages[1].Number)
	assert.Equal(t, "secret", doc.Credential)
	assert.Equal(t, "march.TXT", doc.Name)
	assert.NotEmpty(t, doc.ID)
}

func TestLoad_NotAPDF(t *testing.T) {
	_, err := Load("statement.pdf", []byte("definitely not a pdf"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreadable))
}

func TestExtractPages_CredentialFallbackReportsBoth(t *testing.T) {
	_, err := ExtractPages([]byte("%PDF-1.4\nbroken"), "hunter2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreadable))
	assert.Contains(t, err.Error(), "with credential")
	assert.Contains(t, err.Error(), "without")
}

func TestOnce(t *testing.T) {
	pw := once("abc")
	assert.Equal(t, "abc", pw())
	assert.Equal(t, "", pw())
	assert.Equal(t, "", pw())
}

func TestIsReadableText(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  bool
	}{
		{"empty", nil, false},
		{"short", []string{"bank statement"}, false},
		{"statement", []string{"Account Statement for period 01/01/2024 to 31/01/2024\nOpening balance 1,000.00"}, true},
		{"no common words", []string{strings.Repeat("lorem ipsum dolor sit amet ", 5)}, false},
		{"garbage", []string{strings.Repeat("ÿþýüûúùø", 20) + " bank"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReadableText(tt.pages))
		})
	}
}
