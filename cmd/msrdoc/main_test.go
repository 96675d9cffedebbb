package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manual = `Table 2-2. IA-32 Architectural MSRs
Register Address: Hex, Decimal Architectural MSR Name
Register Address: 10H, 16 IA32_TIME_STAMP_COUNTER (TSC)
Register Address: C90H+n, 3216+n IA32_L3_QOS_MASK_n
Register Address: 1A0H, 416 IA32_MISC_ENABLE
Register Address: 400H` + "−" + `402H, 1024` + "−" + `1026 IA32_MC0_CTL
Register Address: 10H, 16 IA32_TIME_STAMP_COUNTER (again)
Register Address: 20H` + "−" + `1FH, 32` + "−" + `31 REVERSED
Register Address: 500H, 1280 OUTSIDE_WINDOW
`

func writeManual(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sdm.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the command tree with an isolated home directory.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MSRDOC_SKIP_UPDATE_CHECK", "1")
	t.Setenv("MSRDOC_LOG_LEVEL", "")
	t.Setenv("MSRDOC_THEME", "")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRoot_Extract(t *testing.T) {
	path := writeManual(t, manual)

	stdout, stderr, err := execute(t, path, "0", "7")
	require.NoError(t, err)

	want := strings.Join([]string{
		"0x00000C90  C90+n",
		"0x00000010",
		"0x000001A0",
		"0x00000400",
		"0x00000401",
		"0x00000402",
	}, "\n") + "\n"
	assert.Equal(t, want, stdout)
	assert.Contains(t, stderr, "reversed range")
}

func TestRoot_SingleRow(t *testing.T) {
	lines := make([]string, 12)
	for i := range lines {
		lines[i] = "filler text"
	}
	lines[10] = "Register Address: 1A0H, 416 IA32_MISC_ENABLE"
	path := writeManual(t, strings.Join(lines, "\n")+"\n")

	stdout, _, err := execute(t, path, "0", "20")
	require.NoError(t, err)
	assert.Equal(t, "0x000001A0\n", stdout)
}

func TestRoot_EmptyWindow(t *testing.T) {
	path := writeManual(t, manual)

	stdout, _, err := execute(t, path, "0", "1")
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestRoot_NegativeWindowBounds(t *testing.T) {
	path := writeManual(t, manual)

	stdout, _, err := execute(t, path, "-1", "7")
	require.NoError(t, err)
	assert.Equal(t, "0x00000C90  C90+n\n0x00000010\n0x000001A0\n0x00000400\n0x00000401\n0x00000402\n", stdout)

	// A window ending before line 0 selects nothing.
	stdout, _, err = execute(t, path, "-5", "-1")
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestRoot_FlagsBeforeFilename(t *testing.T) {
	path := writeManual(t, manual)

	stdout, stderr, err := execute(t, "--verbose", path, "-1", "4")
	require.NoError(t, err)
	assert.Equal(t, "0x00000C90  C90+n\n0x00000010\n0x000001A0\n", stdout)
	assert.Contains(t, stderr, "extraction complete")
}

func TestView_PrintNegativeStart(t *testing.T) {
	path := writeManual(t, manual)

	stdout, _, err := execute(t, "view", "--print", path, "-3", "7")
	require.NoError(t, err)
	assert.Contains(t, stdout, "(lines -3-7)")
	assert.Contains(t, stdout, "0x00000400-0x00000402")
}

func TestRoot_InvalidArgs(t *testing.T) {
	path := writeManual(t, manual)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"non-integer start", []string{path, "zero", "5"}, "invalid start line"},
		{"non-integer end", []string{path, "0", "5.5"}, "invalid end line"},
		{"too few args", []string{path, "0"}, "accepts 3 arg(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, stderr, "Error:")
		})
	}
}

func TestRoot_MissingFile(t *testing.T) {
	_, _, err := execute(t, filepath.Join(t.TempDir(), "nope.txt"), "0", "5")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRoot_MalformedRowFails(t *testing.T) {
	path := writeManual(t, "Register Address: 20H-2FH, 32-47 HYPHEN_RANGE\n")

	stdout, _, err := execute(t, path, "0", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 0")
	assert.Empty(t, stdout)
}

func TestView_Print(t *testing.T) {
	path := writeManual(t, manual)

	stdout, _, err := execute(t, "view", "--print", path, "0", "7")
	require.NoError(t, err)
	assert.Contains(t, stdout, "MSR addresses in "+path+" (lines 0-7)")
	assert.Contains(t, stdout, "0x00000400-0x00000402")
	assert.Contains(t, stdout, "0x00000C90+n")
	assert.NotContains(t, stdout, "0x00000500")
}

func TestScanWithProgress(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	a := &app{}
	require.NoError(t, a.setup(newRootCmd(), nil))

	path := writeManual(t, manual)
	missing := filepath.Join(t.TempDir(), "nope.txt")

	for _, progress := range []io.Writer{nil, io.Discard} {
		report, err := a.scanWithProgress(path, 0, 7, progress)
		require.NoError(t, err)
		assert.Equal(t, path, report.Path)
		assert.Equal(t, 5, report.Len())

		_, err = a.scanWithProgress(missing, 0, 7, progress)
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Contains(t, err.Error(), "failed to open file")
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "msrdoc v"+version+"\n", stdout)
}

func TestParseArgs(t *testing.T) {
	path, start, end, err := parseArgs([]string{"f.txt", "-3", "42"})
	require.NoError(t, err)
	assert.Equal(t, "f.txt", path)
	assert.Equal(t, -3, start)
	assert.Equal(t, 42, end)
}
