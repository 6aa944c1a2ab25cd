package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Run("set variables are parsed into their type", func(t *testing.T) {
		t.Setenv("TEST_ENV_STRING", "spark")
		t.Setenv("TEST_ENV_INT", "42")
		t.Setenv("TEST_ENV_BOOL", "true")
		t.Setenv("TEST_ENV_FLOAT", "2.5")

		assert.Equal(t, "spark", GetEnvString("TEST_ENV_STRING", "fallback"))
		assert.Equal(t, 42, GetEnvInt("TEST_ENV_INT", 0))
		assert.Equal(t, true, GetEnvBool("TEST_ENV_BOOL", false))
		assert.Equal(t, 2.5, GetEnvFloat("TEST_ENV_FLOAT", 0))
	})

	t.Run("unset variables yield the default", func(t *testing.T) {
		assert.Equal(t, "fallback", GetEnvString("TEST_ENV_MISSING", "fallback"))
		assert.Equal(t, 7, GetEnvInt("TEST_ENV_MISSING", 7))
	})

	t.Run("unparseable values yield the default", func(t *testing.T) {
		t.Setenv("TEST_ENV_INT", "not-a-number")
		t.Setenv("TEST_ENV_BOOL", "not-a-bool")
		t.Setenv("TEST_ENV_FLOAT", "not-a-float")

		assert.Equal(t, 7, GetEnvInt("TEST_ENV_INT", 7))
		assert.Equal(t, true, GetEnvBool("TEST_ENV_BOOL", true))
		assert.Equal(t, 1.5, GetEnvFloat("TEST_ENV_FLOAT", 1.5))
	})
}
