package contactform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"a@b.c", true},
		{"ada@example.com", true},
		{"first.last+tag@sub.example.co.uk", true},
		{"a@b", false},
		{"a b@c.com", false},
		{"@c.com", false},
		{"", false},
		{"a@@b.com", false},
		{"a@b .com", false},
		{"a@b.", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidEmail(tt.email))
		})
	}
}

func TestSanitize(t *testing.T) {
	got := Sanitize("Ada\r\nBcc: evil@x.com")
	assert.NotContains(t, got, "\r")
	assert.NotContains(t, got, "\n")
	assert.Equal(t, "Ada  Bcc: evil@x.com", got)

	assert.Equal(t, "Ada", Sanitize("  Ada \n"))
	assert.Equal(t, "", Sanitize("\r\n"))
}

func TestLength_CountsCharacters(t *testing.T) {
	assert.Equal(t, 2, Length("Zo"))
	assert.Equal(t, 3, Length("Åsa"))
	assert.Equal(t, 100, Length(strings.Repeat("é", 100)))
	assert.Equal(t, 1, Length("\U0001F600"))
}

func TestIsBot(t *testing.T) {
	assert.False(t, IsBot(""))
	assert.False(t, IsBot("   "))
	assert.True(t, IsBot("Acme Inc"))
	assert.True(t, IsBot(" x "))
}
