package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgonRoundTrip(t *testing.T) {
	a := NewArgon()

	encoded, err := a.GenerateFromPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	ok, err := a.VerifyPassword("correct horse battery staple", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.VerifyPassword("wrong password", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgonSaltsDiffer(t *testing.T) {
	a := NewArgon()

	first, err := a.GenerateFromPassword("hunter2hunter2")
	require.NoError(t, err)
	second, err := a.GenerateFromPassword("hunter2hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	a := NewArgon()

	_, err := a.VerifyPassword("anything", "not-a-hash")
	assert.Error(t, err)
}
