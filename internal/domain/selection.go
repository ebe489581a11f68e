package domain

import (
	"fmt"
	"maps"
	"slices"
)

// Mode is the current node-click interaction mode
type Mode string

const (
	ModeNone   Mode = "none"
	ModeSource Mode = "source"
	ModeStart  Mode = "start"
	ModeGoal   Mode = "goal"
)

// ParseMode converts a string to a Mode. The empty string means ModeNone.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeNone:
		return ModeNone, nil
	case ModeSource, ModeStart, ModeGoal:
		return Mode(s), nil
	}
	return ModeNone, fmt.Errorf("%w: unknown selection mode %q", ErrInvalidInput, s)
}

// ClickOutcome describes what a node click changed
type ClickOutcome struct {
	Mode Mode `json:"mode"`
	// Committed is true when the start node or goal set changed.
	// Committed changes are history boundaries; source selection is not.
	Committed bool `json:"committed"`
	// Selected is true when the click added the node (source, start or goal)
	// and false when it removed it or did nothing.
	Selected bool `json:"selected"`
}

// Selection tracks the interaction mode, the start node, the goal set and the
// transient source node used while authoring an edge.
type Selection struct {
	mode   Mode
	start  string
	goals  map[string]struct{}
	source string
}

// NewSelection creates a selection in ModeNone with nothing chosen
func NewSelection() *Selection {
	return &Selection{
		mode:  ModeNone,
		goals: make(map[string]struct{}),
	}
}

// Mode returns the active interaction mode
func (s *Selection) Mode() Mode { return s.mode }

// Start returns the start node id, or "" when none is chosen
func (s *Selection) Start() string { return s.start }

// Source returns the selected source node id, or ""
func (s *Selection) Source() string { return s.source }

// IsGoal reports whether id is in the goal set
func (s *Selection) IsGoal(id string) bool {
	_, ok := s.goals[id]
	return ok
}

// Goals returns the goal set in mint order
func (s *Selection) Goals() []string {
	goals := slices.Collect(maps.Keys(s.goals))
	SortIDs(goals)
	if goals == nil {
		goals = []string{}
	}
	return goals
}

// ToggleMode activates mode, or returns to ModeNone if mode is already active.
// Entering any mode other than ModeSource drops the selected source node.
func (s *Selection) ToggleMode(mode Mode) {
	if s.mode == mode {
		s.mode = ModeNone
	} else {
		s.mode = mode
	}
	if mode != ModeSource {
		s.source = ""
	}
}

// Click routes a node click according to the active mode
func (s *Selection) Click(id string) ClickOutcome {
	out := ClickOutcome{Mode: s.mode}

	switch s.mode {
	case ModeSource:
		if s.source == id {
			s.source = ""
		} else {
			s.source = id
			out.Selected = true
		}
	case ModeStart:
		if s.start == id {
			s.start = ""
		} else {
			s.start = id
			out.Selected = true
		}
		out.Committed = true
	case ModeGoal:
		if _, ok := s.goals[id]; ok {
			delete(s.goals, id)
		} else {
			s.goals[id] = struct{}{}
			out.Selected = true
		}
		out.Committed = true
	}

	return out
}

// ConsumeSource returns the selected source node and clears it
func (s *Selection) ConsumeSource() string {
	id := s.source
	s.source = ""
	return id
}

// Reset clears everything and returns to ModeNone
func (s *Selection) Reset() {
	s.mode = ModeNone
	s.start = ""
	s.goals = make(map[string]struct{})
	s.source = ""
}

// Restore adopts the start node and goal set of another selection while
// keeping the current interaction mode. The transient source is dropped.
func (s *Selection) Restore(from *Selection) {
	s.start = from.start
	s.goals = maps.Clone(from.goals)
	s.source = ""
}
