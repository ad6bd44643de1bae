package project

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
)

const (
	indexFileName = "projects.toml"
	lockFileName  = ".projects.lock"
)

// indexFile tracks known projects under BaseDir so commands can default to
// the last project worked on.
type indexFile struct {
	LastUsed string                `toml:"last_used"`
	Projects map[string]indexEntry `toml:"projects"`
}

type indexEntry struct {
	Title     string `toml:"title"`
	Path      string `toml:"path"`
	UpdatedAt string `toml:"updated_at"`
}

func indexPath() string {
	return filepath.Join(BaseDir(), indexFileName)
}

func loadIndex() indexFile {
	idx := indexFile{Projects: map[string]indexEntry{}}
	data, err := os.ReadFile(indexPath())
	if err != nil {
		return idx
	}
	_ = toml.Unmarshal(data, &idx)
	if idx.Projects == nil {
		idx.Projects = map[string]indexEntry{}
	}
	return idx
}

// rememberProject updates the index under a file lock: two toolbox commands
// running at once must not clobber each other's index writes.
func rememberProject(ctx *Context) error {
	if err := os.MkdirAll(BaseDir(), 0o755); err != nil {
		return err
	}

	lock := flock.New(filepath.Join(BaseDir(), lockFileName))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking project index: %v", err)
	}
	defer func() { _ = lock.Unlock() }()

	idx := loadIndex()
	key := filepath.Base(ctx.Root)
	idx.Projects[key] = indexEntry{
		Title:     ctx.Meta.Title,
		Path:      ctx.Root,
		UpdatedAt: time.Now().Format("2006-01-02 15:04:05"),
	}
	idx.LastUsed = key

	data, err := toml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("encoding project index: %v", err)
	}
	return os.WriteFile(indexPath(), data, 0o644)
}

func lastUsedRoot() (string, error) {
	idx := loadIndex()
	if idx.LastUsed == "" {
		return "", fmt.Errorf("no cached project yet; run 'stagehand sheet init' first")
	}
	entry, ok := idx.Projects[idx.LastUsed]
	if !ok {
		return "", fmt.Errorf("project index is missing its last-used entry")
	}
	if info, err := os.Stat(entry.Path); err != nil || !info.IsDir() {
		return "", fmt.Errorf("last project folder is gone: %s", entry.Path)
	}
	return entry.Path, nil
}

// Known lists the indexed projects, most recently updated last.
func Known() map[string]string {
	idx := loadIndex()
	out := make(map[string]string, len(idx.Projects))
	for key, entry := range idx.Projects {
		out[key] = entry.Path
	}
	return out
}
