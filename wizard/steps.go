// Package wizard exposes the toolbox over a small local web UI so the
// editor can click through the pipeline instead of memorizing commands.
package wizard

import "context"

// RunFunc executes one step. Log lines land in the job record so the UI
// can tail them.
type RunFunc func(ctx context.Context, fields map[string]string, log func(line string)) error

// Field is one input the UI renders for a step.
type Field struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Default string `json:"default"`
}

// Step is one pipeline stage the wizard can run.
type Step struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Fields      []Field `json:"fields"`
	Run         RunFunc `json:"-"`
}

// Steps is an ordered step list with id lookup.
type Steps struct {
	order []Step
	byID  map[string]int
}

func NewSteps(steps ...Step) *Steps {
	s := &Steps{byID: make(map[string]int, len(steps))}
	for _, step := range steps {
		s.byID[step.ID] = len(s.order)
		s.order = append(s.order, step)
	}
	return s
}

func (s *Steps) All() []Step { return s.order }

func (s *Steps) Get(id string) (Step, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Step{}, false
	}
	return s.order[i], true
}
