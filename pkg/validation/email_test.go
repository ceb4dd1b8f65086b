package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail_Accepts(t *testing.T) {
	valid := []string{
		"a@b.co",
		"john.doe@example.com",
		"first+tag@sub.domain.io",
		"x@y.z",
	}

	for _, s := range valid {
		assert.True(t, IsValidEmail(s), "expected %q to be valid", s)
	}
}

func TestIsValidEmail_Rejects(t *testing.T) {
	invalid := []string{
		"",
		"plainaddress",
		"no-at.example.com",
		"missing-dot@example",
		"@example.com",
		"user@.com",
		"user@example.",
		"two@@example.com",
		"user@exa@mple.com",
		"has space@example.com",
		"user@exam ple.com",
		" user@example.com",
		"user@example.com\n",
	}

	for _, s := range invalid {
		assert.False(t, IsValidEmail(s), "expected %q to be invalid", s)
	}
}
