// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type passwordPayload struct {
	Password string `validate:"strong_password"`
}

type slugPayload struct {
	Slug string `validate:"slug"`
}

func TestStrongPasswordValidation(t *testing.T) {
	valid := []string{"Abcdef1!", "Sup3r$ecret", "Phantom#2025"}
	for _, p := range valid {
		assert.NoError(t, ValidateStruct(passwordPayload{Password: p}), p)
	}

	invalid := []string{
		"short1!",        // too short
		"alllowercase1!", // no uppercase
		"ALLUPPERCASE1!", // no lowercase
		"NoSpecials123",  // no special character
		"NoNumbers!!ab",  // no digit
	}
	for _, p := range invalid {
		assert.Error(t, ValidateStruct(passwordPayload{Password: p}), p)
	}
}

func TestSlugValidation(t *testing.T) {
	valid := []string{"phantom", "phantom-interactive", "studio-42"}
	for _, s := range valid {
		assert.NoError(t, ValidateStruct(slugPayload{Slug: s}), s)
	}

	invalid := []string{
		"ab",             // too short
		"Phantom",        // uppercase
		"-leading",       // leading hyphen
		"trailing-",      // trailing hyphen
		"double--hyphen", // empty segment
		"has space",
	}
	for _, s := range invalid {
		assert.Error(t, ValidateStruct(slugPayload{Slug: s}), s)
	}
}
