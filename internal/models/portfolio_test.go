package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDateRange(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected string
	}{
		{name: "open ended", start: "2025-02-01", expected: "Feb 2025 - Present"},
		{name: "same month", start: "2024-10-01", end: "2024-10-28", expected: "Oct 2024"},
		{name: "closed range", start: "2023-06-15", end: "2024-01-10", expected: "Jun 2023 - Jan 2024"},
		{name: "unparsable start", start: "sometime", end: "2024-01-10", expected: "sometime - Jan 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDateRange(tt.start, tt.end))
		})
	}
}
