package match

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Registry owns the live pool of unclaimed candidate files. A file is
// present in the indices exactly while no row has claimed it: Take removes
// it from both, Add puts it back. Single writer, no locking.
type Registry struct {
	byName map[string][]string
	byStem map[string][]string
}

// NewRegistry builds a registry from every file found under root,
// recursively.
func NewRegistry(root string) (*Registry, error) {
	r := emptyRegistry()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		r.Add(path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// NewRegistryFromPaths builds a registry from an explicit candidate pool.
func NewRegistryFromPaths(paths []string) *Registry {
	r := emptyRegistry()
	for _, p := range paths {
		r.Add(p)
	}
	return r
}

func emptyRegistry() *Registry {
	return &Registry{
		byName: make(map[string][]string),
		byStem: make(map[string][]string),
	}
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Add inserts (or returns) a candidate into both indices.
func (r *Registry) Add(path string) {
	name := filepath.Base(path)
	nameKey := strings.ToLower(name)
	stemKey := strings.ToLower(stem(name))
	r.byName[nameKey] = append(r.byName[nameKey], path)
	r.byStem[stemKey] = append(r.byStem[stemKey], path)
}

// Len reports how many candidates remain unclaimed.
func (r *Registry) Len() int {
	n := 0
	for _, paths := range r.byName {
		n += len(paths)
	}
	return n
}

// Take resolves lookup against the live pool through the fallback cascade:
// exact name, exact stem, then fuzzy token-set over names and stems. The
// returned file leaves both indices. Ties inside one key go to the
// lexicographically smallest path.
func (r *Registry) Take(lookup string, minScore int) (string, bool) {
	candidate := strings.TrimSpace(filepath.Base(lookup))
	if candidate == "" || candidate == "." {
		return "", false
	}

	if path, ok := r.pop(r.byName, strings.ToLower(candidate)); ok {
		return path, true
	}
	if path, ok := r.pop(r.byStem, strings.ToLower(stem(candidate))); ok {
		return path, true
	}
	return r.takeFuzzy(candidate, minScore)
}

func (r *Registry) pop(index map[string][]string, key string) (string, bool) {
	paths := index[key]
	if len(paths) == 0 {
		return "", false
	}
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	path := sorted[0]
	r.remove(path)
	return path, true
}

func (r *Registry) remove(path string) {
	name := filepath.Base(path)
	removeFrom(r.byName, strings.ToLower(name), path)
	removeFrom(r.byStem, strings.ToLower(stem(name)), path)
}

func removeFrom(index map[string][]string, key, path string) {
	paths := index[key]
	for i, p := range paths {
		if p == path {
			paths = append(paths[:i], paths[i+1:]...)
			break
		}
	}
	if len(paths) == 0 {
		delete(index, key)
	} else {
		index[key] = paths
	}
}

func (r *Registry) takeFuzzy(candidate string, minScore int) (string, bool) {
	if key, ok := bestKey(Normalize(candidate), r.byName, minScore); ok {
		return r.pop(r.byName, key)
	}
	if key, ok := bestKey(Normalize(stem(candidate)), r.byStem, minScore); ok {
		return r.pop(r.byStem, key)
	}
	return "", false
}

// bestKey scans keys in sorted order with a strictly-greater comparison, so
// an equal top score always resolves to the lexicographically first key.
func bestKey(query string, index map[string][]string, minScore int) (string, bool) {
	if query == "" || len(index) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := ""
	bestScore := -1
	for _, k := range keys {
		score := fuzzy.TokenSetRatio(query, Normalize(k))
		if score > bestScore {
			best = k
			bestScore = score
		}
	}
	if bestScore < minScore {
		return "", false
	}
	return best, true
}
