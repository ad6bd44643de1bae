package wizard

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// State persists the last-used field values per step, so the editor does
// not retype the same sheet name ten times a day.
type State struct {
	mu     sync.Mutex
	path   string
	Fields map[string]map[string]string `toml:"fields"`
}

// LoadState reads the saved state; a missing or corrupt file yields an
// empty state at that path.
func LoadState(path string) *State {
	s := &State{path: path, Fields: make(map[string]map[string]string)}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var onDisk struct {
		Fields map[string]map[string]string `toml:"fields"`
	}
	if err := toml.Unmarshal(data, &onDisk); err == nil && onDisk.Fields != nil {
		s.Fields = onDisk.Fields
	}
	return s
}

// Get merges saved values over a step's declared defaults.
func (s *State) Get(step Step) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make(map[string]string, len(step.Fields))
	for _, f := range step.Fields {
		values[f.Name] = f.Default
	}
	for name, value := range s.Fields[step.ID] {
		values[name] = value
	}
	return values
}

// Put records the values used for a run and saves them.
func (s *State) Put(stepID string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.Fields[stepID]
	if saved == nil {
		saved = make(map[string]string)
		s.Fields[stepID] = saved
	}
	for name, value := range fields {
		saved[name] = value
	}

	data, err := toml.Marshal(struct {
		Fields map[string]map[string]string `toml:"fields"`
	}{Fields: s.Fields})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
