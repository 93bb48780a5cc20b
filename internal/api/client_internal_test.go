package api

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short", "not found", "not found"},
		{"exactly_max", strings.Repeat("a", maxErrorMessage), strings.Repeat("a", maxErrorMessage)},
		{"ascii_over_max", strings.Repeat("a", maxErrorMessage+5), strings.Repeat("a", maxErrorMessage) + "..."},
		{"multibyte_at_max", strings.Repeat("é", maxErrorMessage), strings.Repeat("é", maxErrorMessage)},
		{"multibyte_over_max", "x" + strings.Repeat("ሰ", maxErrorMessage), "x" + strings.Repeat("ሰ", maxErrorMessage-1) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestErrorMessage_TruncatesOnRunes(t *testing.T) {
	body := `{"message":"` + strings.Repeat("ü", maxErrorMessage+1) + `"}`

	got := errorMessage(strings.NewReader(body))

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("ü", maxErrorMessage)+"...", got)
}
