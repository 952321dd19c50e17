package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice"))
	assert.NoError(t, ValidateUsername("alice_92"))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername(strings.Repeat("a", 31)))
	assert.Error(t, ValidateUsername("has space"))
	assert.Error(t, ValidateUsername("_leading"))
	assert.Error(t, ValidateUsername("trailing-"))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("a@x.com"))
	assert.NoError(t, ValidateEmail("first.last+tag@example.co.uk"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@x.com"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("password1"))
	assert.Error(t, ValidatePassword("short1"))
	assert.Error(t, ValidatePassword("alllettersonly"))
	assert.Error(t, ValidatePassword("1234567890"))
	assert.Error(t, ValidatePassword(strings.Repeat("a1", 70)))
}
