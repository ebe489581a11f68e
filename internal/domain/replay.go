package domain

// Replay steps through an immutable search trace. The cursor ranges over
// 0..len(steps); the value len(steps) means the replay is finished.
type Replay struct {
	result SearchResult
	cursor int
}

// ReplayState is a read-only view of a replay for presentation
type ReplayState struct {
	Cursor   int         `json:"cursor"`
	Total    int         `json:"total"`
	Finished bool        `json:"finished"`
	Step     *SearchStep `json:"step,omitempty"`
	Path     []PathNode  `json:"path"`
	Cost     float64     `json:"cost"`
}

// NewReplay starts a replay at step 0
func NewReplay(result SearchResult) *Replay {
	return &Replay{result: result}
}

// Advance moves forward one step; it does nothing once finished
func (r *Replay) Advance() {
	if r.cursor < len(r.result.Steps) {
		r.cursor++
	}
}

// Retreat moves back one step; it does nothing at step 0
func (r *Replay) Retreat() {
	if r.cursor > 0 {
		r.cursor--
	}
}

// Reset returns to step 0
func (r *Replay) Reset() {
	r.cursor = 0
}

// Cursor returns the current step index
func (r *Replay) Cursor() int { return r.cursor }

// Len returns the number of steps in the trace
func (r *Replay) Len() int { return len(r.result.Steps) }

// Finished reports whether the cursor is past the last step
func (r *Replay) Finished() bool {
	return r.cursor == len(r.result.Steps)
}

// Current returns the step at the cursor. ok is false once finished.
func (r *Replay) Current() (SearchStep, bool) {
	if r.Finished() {
		return SearchStep{}, false
	}
	return r.result.Steps[r.cursor], true
}

// Result returns the search result being replayed
func (r *Replay) Result() SearchResult {
	return r.result
}

// State returns a presentation snapshot of the replay
func (r *Replay) State() ReplayState {
	st := ReplayState{
		Cursor:   r.cursor,
		Total:    len(r.result.Steps),
		Finished: r.Finished(),
		Path:     r.result.Path,
		Cost:     r.result.Cost,
	}
	if step, ok := r.Current(); ok {
		st.Step = &step
	}
	if st.Path == nil {
		st.Path = []PathNode{}
	}
	return st
}
