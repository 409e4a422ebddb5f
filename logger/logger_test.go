package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_PrefixRendersOnce(t *testing.T) {
	var out bytes.Buffer
	l := NewLogger()
	l.SetOutput(&out)
	l.SetPrefix("weebcentral")

	l.Log("fetched %d page(s)", 3)

	line := out.String()
	assert.Equal(t, 1, strings.Count(line, "weebcentral"))
	assert.Contains(t, line, "weebcentral: fetched 3 page(s)")
}

func TestLogger_OnLogHookSeesPrefixedLine(t *testing.T) {
	l := NewLogger()
	l.SetPrefix("source")

	var hooked string
	l.SetOnLog(func(format string, a ...any) {
		hooked = format
	})

	l.Log("ready")
	assert.Equal(t, "source: ready", hooked)
}

func TestLogger_NoPrefix(t *testing.T) {
	var out bytes.Buffer
	l := NewLogger()
	l.SetOutput(&out)

	l.Log("plain line")
	require.Contains(t, out.String(), "plain line")
	assert.NotContains(t, out.String(), ": plain line")
}

func TestLogger_GetPrefix(t *testing.T) {
	l := NewLogger()
	assert.Empty(t, l.GetPrefix())

	l.SetPrefix("mal")
	assert.Equal(t, "mal", l.GetPrefix())
}
