package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestVersionCmd(t *testing.T) {
	assert.Equal(t, "dev\n", run(t, "version"))
}

func TestRoutesCmd(t *testing.T) {
	out := run(t, "routes")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1+4+8)

	assert.Contains(t, lines[0], "PATTERN")
	assert.Regexp(t, `^root\s+prefix\s+/login\s+public\s+login$`, lines[1])
	assert.Regexp(t, `^root\s+any\s+\*\s+private\s+shell$`, lines[4])
	assert.Regexp(t, `^content\s+exact\s+/\s+private\s+home$`, lines[5])
}
