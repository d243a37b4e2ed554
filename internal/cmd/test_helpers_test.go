package cmd

import (
	"bytes"
	"strings"
	"testing"
)

// resetFlags restores the package-level flag state so cobra command state
// doesn't leak between tests.
func resetFlags(t *testing.T) {
	t.Helper()
	rootCwd = "."
	rootFile = ""
	rootOutput = ""
	rootTo = "json"
	rootDiff = false
	validateFile = ""
}

// executeCmd executes the root command with the given stdin and args and
// returns the captured stdout.
func executeCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(t)

	buf := new(bytes.Buffer)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))

	err := rootCmd.Execute()
	return buf.String(), err
}
