// Package updater checks GitHub releases for newer msrdoc builds and replaces
// the running binary on request.
package updater

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"

	"github.com/CaptShanks/msrdoc/internal/config"
)

const (
	repoSlug         = "CaptShanks/msrdoc"
	installScriptURL = "https://raw.githubusercontent.com/CaptShanks/msrdoc/main/install.sh"
	cacheFile        = "update-check"
)

// Checker compares the running version against the latest GitHub release
type Checker struct {
	slug     string
	cacheDir string
	interval time.Duration
	now      func() time.Time
	detect   func(slug string) (string, bool, error)
}

// NewChecker returns a checker caching its result under ~/.msrdoc for
// intervalDays days.
func NewChecker(intervalDays int) *Checker {
	if intervalDays <= 0 {
		intervalDays = 7
	}
	dir := ""
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, config.Dir)
	}
	return &Checker{
		slug:     repoSlug,
		cacheDir: dir,
		interval: time.Duration(intervalDays) * 24 * time.Hour,
		now:      time.Now,
		detect:   detectLatest,
	}
}

func detectLatest(slug string) (string, bool, error) {
	latest, found, err := selfupdate.DetectLatest(slug)
	if err != nil || !found {
		return "", false, err
	}
	return latest.Version.String(), true, nil
}

// CheckLatest fetches the latest release and compares it with currentVersion.
// Returns (latestVersion, hasUpdate, err).
func (c *Checker) CheckLatest(currentVersion string) (latestVersion string, hasUpdate bool, err error) {
	latest, found, err := c.detect(c.slug)
	if err != nil || !found {
		return "", false, err
	}
	latestVersion = normalizeVersion(latest)

	latestSemver, err := semver.Parse(latestVersion)
	if err != nil {
		return latestVersion, false, err
	}
	currentSemver, err := semver.Parse(normalizeVersion(currentVersion))
	if err != nil {
		return latestVersion, false, err
	}
	return latestVersion, latestSemver.GT(currentSemver), nil
}

// updateCache holds cached update check results.
type updateCache struct {
	LastCheckEpoch int64  `json:"last_check_epoch"`
	LatestVersion  string `json:"latest_version,omitempty"`
	HasUpdate      bool   `json:"has_update"`
}

func (c *Checker) cachePath() (string, error) {
	if c.cacheDir == "" {
		return "", fmt.Errorf("no cache directory")
	}
	if err := os.MkdirAll(c.cacheDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(c.cacheDir, cacheFile), nil
}

// CheckLatestWithCache is CheckLatest, answered from the cache while the
// last check is younger than the interval.
func (c *Checker) CheckLatestWithCache(currentVersion string) (latestVersion string, hasUpdate bool, err error) {
	path, err := c.cachePath()
	if err != nil {
		return c.CheckLatest(currentVersion)
	}

	if data, err := os.ReadFile(path); err == nil {
		var cache updateCache
		if json.Unmarshal(data, &cache) == nil {
			age := c.now().Sub(time.Unix(cache.LastCheckEpoch, 0))
			if age < c.interval {
				return cache.LatestVersion, cache.HasUpdate, nil
			}
		}
	}

	latest, hasUpdate, err := c.CheckLatest(currentVersion)
	if err != nil {
		return "", false, err
	}

	cache := updateCache{
		LastCheckEpoch: c.now().Unix(),
		LatestVersion:  latest,
		HasUpdate:      hasUpdate,
	}
	if data, err := json.Marshal(cache); err == nil {
		_ = os.WriteFile(path, data, 0644)
	}
	return latest, hasUpdate, nil
}

// Upgrade replaces the current binary with the latest release and returns
// the new version.
func Upgrade(currentVersion string) (newVersion string, err error) {
	v, err := semver.Parse(normalizeVersion(currentVersion))
	if err != nil {
		return "", fmt.Errorf("invalid version %q: %w", currentVersion, err)
	}

	latest, err := selfupdate.UpdateSelf(v, repoSlug)
	if err != nil {
		return "", err
	}
	return latest.Version.String(), nil
}

// CurlFallbackMessage returns the message to display when self-update fails.
func CurlFallbackMessage(reason error) string {
	return fmt.Sprintf(`Self-update failed: %v
To upgrade manually, run:
  curl -sSfL %s | sh`, reason, installScriptURL)
}

func normalizeVersion(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "v")
}
