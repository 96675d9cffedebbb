package updater

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChecker(t *testing.T, latest string) (*Checker, *int) {
	t.Helper()
	calls := 0
	c := NewChecker(7)
	c.cacheDir = t.TempDir()
	c.detect = func(slug string) (string, bool, error) {
		calls++
		assert.Equal(t, repoSlug, slug)
		return latest, true, nil
	}
	return c, &calls
}

func TestCurlFallbackMessage(t *testing.T) {
	msg := CurlFallbackMessage(os.ErrPermission)
	if msg == "" {
		t.Error("CurlFallbackMessage should not return empty string")
	}
	if !strings.Contains(msg, "Self-update failed") {
		t.Errorf("expected message to contain 'Self-update failed', got: %s", msg)
	}
	if !strings.Contains(msg, "curl") {
		t.Errorf("expected message to contain 'curl', got: %s", msg)
	}
	if !strings.Contains(msg, "install.sh") {
		t.Errorf("expected message to contain 'install.sh', got: %s", msg)
	}
}

func TestCheckLatest(t *testing.T) {
	c, _ := newTestChecker(t, "v1.2.0")

	latest, hasUpdate, err := c.CheckLatest("1.1.9")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", latest)
	assert.True(t, hasUpdate)

	_, hasUpdate, err = c.CheckLatest("v1.2.0")
	require.NoError(t, err)
	assert.False(t, hasUpdate)

	_, _, err = c.CheckLatest("dev")
	assert.Error(t, err)
}

func TestCheckLatest_NotFound(t *testing.T) {
	c := NewChecker(7)
	c.detect = func(string) (string, bool, error) { return "", false, nil }

	latest, hasUpdate, err := c.CheckLatest("1.0.0")
	require.NoError(t, err)
	assert.Empty(t, latest)
	assert.False(t, hasUpdate)
}

func TestCheckLatestWithCache(t *testing.T) {
	c, calls := newTestChecker(t, "2.0.0")
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	latest, hasUpdate, err := c.CheckLatestWithCache("1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", latest)
	assert.True(t, hasUpdate)
	assert.Equal(t, 1, *calls)
	assert.FileExists(t, filepath.Join(c.cacheDir, cacheFile))

	// Within the interval the cached answer is returned.
	now = now.Add(6 * 24 * time.Hour)
	_, _, err = c.CheckLatestWithCache("1.0.0")
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)

	// After it, the release is fetched again.
	now = now.Add(2 * 24 * time.Hour)
	_, _, err = c.CheckLatestWithCache("1.0.0")
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)
}

func TestCheckLatestWithCache_DetectError(t *testing.T) {
	c := NewChecker(7)
	c.cacheDir = t.TempDir()
	c.detect = func(string) (string, bool, error) { return "", false, errors.New("rate limited") }

	_, _, err := c.CheckLatestWithCache("1.0.0")
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(c.cacheDir, cacheFile))
}

func TestNewChecker_DefaultInterval(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, NewChecker(0).interval)
	assert.Equal(t, 14*24*time.Hour, NewChecker(14).interval)
}
