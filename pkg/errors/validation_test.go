package errors

import (
	"strings"
	"testing"
)

func TestValidateVariableName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"single letter", "X", false},
		{"with digits", "X12", false},
		{"with dash and dot", "gene-a.expr", false},
		{"leading underscore", "_latent", false},

		{"empty", "", true},
		{"too long", "A" + strings.Repeat("a", 200), true},
		{"leading digit", "1x", true},
		{"space", "a b", true},
		{"quote", `a"b`, true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVariableName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVariableName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidModel {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidModel)
			}
		})
	}
}

func TestValidateModelName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "study 1", false},
		{"unicode", "étude", false},

		{"empty", "", true},
		{"control char", "a\x01b", true},
		{"too long", strings.Repeat("m", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModelName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateModelName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCacheURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"redis://localhost:6379/0", false},
		{"rediss://cache.internal:6380", false},
		{"mongodb://localhost:27017/dci", false},
		{"mongodb+srv://cluster.example.net/dci", false},

		{"", true},
		{"http://localhost", true},
		{"localhost:6379", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateCacheURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCacheURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
