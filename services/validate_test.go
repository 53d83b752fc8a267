package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCustomValidatorsRegistered(t *testing.T) {
	tests := []struct {
		tag   string
		value string
		ok    bool
	}{
		{"hhmm", "19:00", true},
		{"hhmm", "7:00", false},
		{"isodate", "2024-02-15", true},
		{"isodate", "2024-02-30", false},
		{"phone", "+1 (555) 010-2030", true},
		{"phone", "12345", false},
		{"notblank", "Ann", true},
		{"notblank", "  ", false},
	}
	for _, tt := range tests {
		var err error
		require.NotPanics(t, func() { err = validate.Var(tt.value, tt.tag) }, tt.tag)
		if (err == nil) != tt.ok {
			t.Errorf("validate.Var(%q, %q) err = %v, want ok=%v", tt.value, tt.tag, err, tt.ok)
		}
	}
}
