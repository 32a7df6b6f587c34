package utils

import (
	"testing"
)

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		region      string
		expected    string
		shouldError bool
	}{
		{
			name:     "US mobile with country code",
			input:    "+14155551234",
			region:   "US",
			expected: "+14155551234",
		},
		{
			name:     "US mobile without country code",
			input:    "4155551234",
			region:   "US",
			expected: "+14155551234",
		},
		{
			name:     "US mobile with formatting",
			input:    "(415) 555-1234",
			region:   "US",
			expected: "+14155551234",
		},
		{
			name:     "US mobile with leading/trailing spaces",
			input:    "  4155551234  ",
			region:   "US",
			expected: "+14155551234",
		},
		{
			name:     "international format overrides region",
			input:    "+40 721 234 567",
			region:   "US",
			expected: "+40721234567",
		},
		{
			name:        "too short",
			input:       "123",
			region:      "US",
			shouldError: true,
		},
		{
			name:        "letters",
			input:       "not-a-phone",
			region:      "US",
			shouldError: true,
		},
		{
			name:        "empty",
			input:       "",
			region:      "US",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NormalizePhoneNumber(tt.input, tt.region)

			if tt.shouldError {
				if err == nil {
					t.Errorf("expected error for input %q, got result %q", tt.input, result)
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error for input %q: %v", tt.input, err)
				return
			}
			if result != tt.expected {
				t.Errorf("NormalizePhoneNumber(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsValidE164(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"with plus", "+14155551234", true},
		{"without plus", "14155551234", true},
		{"single digit", "7", true},
		{"max length 15 digits", "+123456789012345", true},
		{"16 digits too long", "+1234567890123456", false},
		{"leading zero", "+04155551234", false},
		{"empty", "", false},
		{"bare plus", "+", false},
		{"letters", "+1415call", false},
		{"spaces", "+1 415 555 1234", false},
		{"dashes", "415-555-1234", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidE164(tt.input); got != tt.valid {
				t.Errorf("IsValidE164(%q) = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}
