package utilities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnowflakeIDUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := NewSnowflakeID()
		require.NotEmpty(t, id)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestShortSuffix(t *testing.T) {
	s := ShortSuffix(7)
	assert.Len(t, s, 7)
	assert.Len(t, ShortSuffix(0), 27)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_INT", "42")
	t.Setenv("X_BAD_INT", "nope")
	t.Setenv("X_BOOL", "false")
	t.Setenv("X_DUR", "90s")

	assert.Equal(t, 42, EnvInt("X_INT", 1))
	assert.Equal(t, 1, EnvInt("X_BAD_INT", 1))
	assert.False(t, EnvBool("X_BOOL", true))
	assert.True(t, EnvBool("X_MISSING", true))
	assert.Equal(t, "90s", EnvDuration("X_DUR", 0).String())
	assert.Equal(t, "def", EnvString("X_MISSING", "def"))
}
