package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ContactPath is the public route of the intake endpoint
const ContactPath = "/api/contact"

// RawSubmission is the contact payload after coercing every field to text.
// Nothing about it has been validated yet.
type RawSubmission struct {
	Name    string
	Email   string
	Message string
	Company string // honeypot
}

// ContactSubmission is a validated submission ready for dispatch. It is never
// persisted and is consumed once by the email send.
type ContactSubmission struct {
	Name    string `validate:"min=2,max=100"`
	Email   string `validate:"contact_email"`
	Message string `validate:"min=10,max=5000"`
}

// ContactResponse is the JSON body returned by the intake endpoint:
// {"ok":true} on success, {"error":"..."} otherwise.
type ContactResponse struct {
	OK    bool   `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`
}

// ErrInvalidBody is returned when the request body is missing, unparsable or
// not a JSON object.
var ErrInvalidBody = errors.New("invalid request body")

// objectText is how a nested JSON object reads once coerced to text
const objectText = "[object Object]"

// ParseRawSubmission decodes a single JSON object and coerces name, email,
// message and company to text. Missing or null fields become "", numbers and
// booleans keep their JSON spelling, arrays join their coerced elements with
// "," and objects become "[object Object]". Anything after the object other
// than whitespace makes the body invalid.
func ParseRawSubmission(r io.Reader) (RawSubmission, error) {
	if r == nil {
		return RawSubmission{}, ErrInvalidBody
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	var body any
	if err := dec.Decode(&body); err != nil {
		return RawSubmission{}, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return RawSubmission{}, ErrInvalidBody
	}

	fields, ok := body.(map[string]any)
	if !ok {
		return RawSubmission{}, ErrInvalidBody
	}

	return RawSubmission{
		Name:    coerceText(fields["name"]),
		Email:   coerceText(fields["email"]),
		Message: coerceText(fields["message"]),
		Company: coerceText(fields["company"]),
	}, nil
}

func coerceText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = coerceText(item)
		}
		return strings.Join(parts, ",")
	default:
		return objectText
	}
}
