package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var partialSuffixes = []string{".crdownload", ".part", ".tmp", ".download"}

// IsPartial reports whether a file name looks like an in-flight download.
func IsPartial(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range partialSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// SnapshotDir records the files already present so WaitDownload can tell a
// fresh download apart from earlier ones.
func SnapshotDir(dir string) map[string]struct{} {
	seen := make(map[string]struct{})
	entries, err := os.ReadDir(dir)
	if err != nil {
		return seen
	}
	for _, e := range entries {
		seen[e.Name()] = struct{}{}
	}
	return seen
}

// WaitDownload polls dir until a file that was not in the before snapshot
// finishes downloading: no partial suffix and a size that stopped growing.
func WaitDownload(dir string, before map[string]struct{}, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	lastSize := int64(-1)
	var candidate string

	for time.Now().Before(deadline) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", err
		}
		candidate = ""
		for _, e := range entries {
			if e.IsDir() || IsPartial(e.Name()) {
				continue
			}
			if _, old := before[e.Name()]; old {
				continue
			}
			candidate = filepath.Join(dir, e.Name())
			break
		}
		if candidate != "" {
			info, err := os.Stat(candidate)
			if err == nil && info.Size() > 0 && info.Size() == lastSize {
				return candidate, nil
			}
			if err == nil {
				lastSize = info.Size()
			}
		} else {
			lastSize = -1
		}
		time.Sleep(250 * time.Millisecond)
	}
	return "", fmt.Errorf("no finished download in %s after %s", dir, timeout)
}
