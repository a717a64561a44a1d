// Package contactform holds the contact form rules shared by the browser-side
// submission controller and the intake endpoint.
package contactform

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field length limits, counted in characters.
const (
	NameMin    = 2
	NameMax    = 100
	MessageMin = 10
	MessageMax = 5000
)

// EmailPattern accepts "local@domain.tld" with no whitespace or extra '@' in
// either part and at least one dot after the '@'. Deliverability is not checked.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// Payload is the JSON body posted to the intake endpoint. All four keys are
// always present on the wire; Company is the hidden honeypot field.
type Payload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Company string `json:"company"`
}

// IsValidEmail reports whether s matches EmailPattern.
func IsValidEmail(s string) bool {
	return EmailPattern.MatchString(s)
}

// Sanitize replaces CR and LF with spaces and trims surrounding whitespace so
// the value is safe to embed in header-like positions of an outgoing email.
func Sanitize(s string) string {
	return strings.TrimSpace(lineBreaks.Replace(s))
}

// Length returns the length of s in characters (runes). Characters outside
// the Basic Multilingual Plane, such as most emoji, count once here where a
// browser's string length counts them twice.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// IsBot reports whether the honeypot value marks the submission as automated.
func IsBot(honeypot string) bool {
	return strings.TrimSpace(honeypot) != ""
}
