package errors

import (
	"strings"
	"testing"
)

func TestValidateDatasetName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "wall", false},
		{"valid with underscore", "sm_wall_gap", false},
		{"valid with dash", "paths-dp", false},
		{"valid with dot", "visits.v2", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"slash", "data/wall", true},
		{"backslash", "data\\wall", true},
		{"traversal", "..wall", true},
		{"hidden", ".wall", true},
		{"null byte", "wall\x00", true},
		{"newline", "wall\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatasetName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDatasetName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateDatasetName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "figs", false},
		{"nested", "out/figs", false},
		{"absolute", "/tmp/figs", false},
		{"parent", "../figs", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"null byte", "figs\x00", true},
		{"control char", "figs\x01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
