package errors

import (
	"strings"
	"testing"
)

func TestValidateFragment(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"simple", "intro", false},
		{"with dash", "part-2", false},
		{"with dots", "a.b.c", false},

		{"too long", strings.Repeat("f", 300), true},
		{"space", "two words", true},
		{"tab", "a\tb", true},
		{"control char", "foo\x01bar", true},
		{"leading dash", "-intro", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFragment(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFragment(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFragment) {
				t.Errorf("ValidateFragment(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidFragment)
			}
		})
	}
}

func TestValidateBlockLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"simple", "appendix", false},
		{"dotted", "annex.a", false},
		{"digits", "note2", false},

		{"leading digit", "2note", true},
		{"space", "side note", true},
		{"too long", "a" + strings.Repeat("b", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBlockLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBlockLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDocumentID(t *testing.T) {
	for _, id := range []int64{1, 42, 1 << 40} {
		if err := ValidateDocumentID(id); err != nil {
			t.Errorf("ValidateDocumentID(%d) error = %v, want nil", id, err)
		}
	}
	for _, id := range []int64{0, -1} {
		if err := ValidateDocumentID(id); err == nil {
			t.Errorf("ValidateDocumentID(%d) error = nil, want error", id)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "docs/intro.json", false},
		{"absolute", "/tmp/events.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
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
