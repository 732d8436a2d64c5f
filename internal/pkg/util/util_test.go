package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeRedirect(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", "/create"},
		{"relative path", "/listings?page=2", "/listings?page=2"},
		{"absolute url", "https://evil.example.com/x", "/create"},
		{"protocol relative", "//evil.example.com", "/create"},
		{"backslash", `/\evil.example.com`, "/create"},
		{"no leading slash", "listings", "/create"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeRedirect(tt.raw, "/create"))
		})
	}
}

type sample struct {
	Name     string `validate:"required"`
	Category string `validate:"required,oneof=meme utility"`
}

func TestValidateDTO(t *testing.T) {
	assert.NoError(t, ValidateDTO(&sample{Name: "a", Category: "meme"}))

	err := ValidateDTO(&sample{Name: "a", Category: "nft"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "Category")
		assert.Contains(t, err.Error(), "oneof")
	}
}
