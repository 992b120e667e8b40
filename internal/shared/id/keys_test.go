package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLicenseKey_Format(t *testing.T) {
	key, err := NewLicenseKey("G1", 12)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "G1-"))
	assert.Len(t, key, len("G1-")+24)
	assert.True(t, IsLicenseKey(key))
}

func TestNewLicenseKey_Defaults(t *testing.T) {
	key, err := NewLicenseKey("", 0)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, DefaultKeyPrefix+"-"))
	assert.Len(t, key, len(DefaultKeyPrefix)+1+DefaultKeyBytes*2)
}

func TestNewLicenseKey_Distinct(t *testing.T) {
	seen := make(map[string]struct{}, 500)
	for i := 0; i < 500; i++ {
		key, err := NewLicenseKey("G1", 12)
		require.NoError(t, err)
		_, dup := seen[key]
		require.False(t, dup, "duplicate key %s", key)
		seen[key] = struct{}{}
	}
}

func TestIsLicenseKey(t *testing.T) {
	assert.True(t, IsLicenseKey("G1-ABCDEF0123"))
	assert.False(t, IsLicenseKey("G1-abcdef"))
	assert.False(t, IsLicenseKey("G1-ABC"))
	assert.False(t, IsLicenseKey("G1ABCDEF"))
	assert.False(t, IsLicenseKey("-ABCD"))
	assert.False(t, IsLicenseKey(""))
}

func TestNewRequestID(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
