// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseString(t *testing.T) {
	t.Setenv("XTG_TEST_STR", "from-env")
	assert.Equal(t, "from-env", ParseString("XTG_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", ParseString("XTG_TEST_STR_UNSET", "fallback"))

	t.Setenv("XTG_TEST_EMPTY", "")
	assert.Equal(t, "fallback", ParseString("XTG_TEST_EMPTY", "fallback"))
}

func TestParseInt(t *testing.T) {
	t.Setenv("XTG_TEST_INT", "42")
	assert.Equal(t, 42, ParseInt("XTG_TEST_INT", 7))

	t.Setenv("XTG_TEST_INT_BAD", "not-a-number")
	assert.Equal(t, 7, ParseInt("XTG_TEST_INT_BAD", 7))

	assert.Equal(t, 7, ParseInt("XTG_TEST_INT_UNSET", 7))
}

func TestParseBool(t *testing.T) {
	t.Setenv("XTG_TEST_BOOL", "true")
	assert.True(t, ParseBool("XTG_TEST_BOOL", false))

	t.Setenv("XTG_TEST_BOOL_BAD", "yep")
	assert.True(t, ParseBool("XTG_TEST_BOOL_BAD", true))

	assert.False(t, ParseBool("XTG_TEST_BOOL_UNSET", false))
}

func TestParseDuration(t *testing.T) {
	t.Setenv("XTG_TEST_DUR", "90s")
	assert.Equal(t, 90*time.Second, ParseDuration("XTG_TEST_DUR", time.Minute))

	t.Setenv("XTG_TEST_DUR_BAD", "ninety")
	assert.Equal(t, time.Minute, ParseDuration("XTG_TEST_DUR_BAD", time.Minute))

	// non-positive durations fall back too
	t.Setenv("XTG_TEST_DUR_NEG", "-5s")
	assert.Equal(t, time.Minute, ParseDuration("XTG_TEST_DUR_NEG", time.Minute))
}
