package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"ucsboard/internal/codec"
	"ucsboard/internal/domain"
	"ucsboard/internal/logging"
	"ucsboard/internal/metrics"
	"ucsboard/internal/repository"

	"go.uber.org/zap"
)

// SearchClient runs a uniform-cost search on the external search service
type SearchClient interface {
	Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error)
}

// AddEdgeInput is a request to author one directed edge.
// SourceID is optional; when empty the pending source selection is used.
type AddEdgeInput struct {
	Source   string
	Target   string
	Cost     float64
	SourceID string
}

// HistoryState summarizes the undo/redo stack
type HistoryState struct {
	Cursor  int  `json:"cursor"`
	Length  int  `json:"length"`
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

// WorkspaceState is a point-in-time copy of everything the workspace holds
type WorkspaceState struct {
	Record    domain.Record       `json:"record"`
	Mode      domain.Mode         `json:"mode"`
	Source    string              `json:"source,omitempty"`
	History   HistoryState        `json:"history"`
	Replay    *domain.ReplayState `json:"replay,omitempty"`
	Searching bool                `json:"searching"`
}

// SearchOutcome is the result of a successful search call.
// Found is false when the service reported no reachable goal.
type SearchOutcome struct {
	Found  bool                `json:"found"`
	Replay *domain.ReplayState `json:"replay,omitempty"`
}

// Workspace is the authoring and replay engine. It owns the live graph, the
// selection, the history stack and the current replay.
type Workspace struct {
	mu        sync.Mutex
	graph     *domain.Graph
	sel       *domain.Selection
	history   *domain.History
	replay    *domain.Replay
	searching bool

	store    repository.Store
	search   SearchClient
	eventBus *EventBus
	logger   *zap.Logger
	metrics  *metrics.Collector
}

// NewWorkspace creates an empty workspace. Any collaborator may be nil:
// without a store, saved-tree operations fail with ErrPrecondition; without a
// search client, Search fails with ErrSearchService.
func NewWorkspace(store repository.Store, search SearchClient, eventBus *EventBus, logger *zap.Logger, m *metrics.Collector) *Workspace {
	w := &Workspace{
		graph:    domain.NewGraph(),
		sel:      domain.NewSelection(),
		history:  domain.NewHistory(),
		store:    store,
		search:   search,
		eventBus: eventBus,
		logger:   logging.OrNop(logger),
		metrics:  m,
	}
	// the empty workspace is the first undo boundary
	w.snapshot()
	return w
}

// State returns a copy of the workspace state
func (w *Workspace) State() WorkspaceState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *Workspace) stateLocked() WorkspaceState {
	st := WorkspaceState{
		Record:    domain.NewRecord(w.graph, w.sel),
		Mode:      w.sel.Mode(),
		Source:    w.sel.Source(),
		History:   w.historyStateLocked(),
		Searching: w.searching,
	}
	if w.replay != nil {
		rs := w.replay.State()
		st.Replay = &rs
	}
	return st
}

func (w *Workspace) historyStateLocked() HistoryState {
	return HistoryState{
		Cursor:  w.history.Cursor(),
		Length:  w.history.Len(),
		CanUndo: w.history.CanUndo(),
		CanRedo: w.history.CanRedo(),
	}
}

// AddEdge authors an edge and consumes the pending source selection.
// Invalid input leaves the workspace unchanged.
func (w *Workspace) AddEdge(in AddEdgeInput) (domain.EdgeResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	sourceID := in.SourceID
	if sourceID == "" {
		sourceID = w.sel.Source()
	}

	res, err := w.graph.AddEdge(in.Source, in.Target, in.Cost, sourceID)
	if err != nil {
		w.logger.Debug("edge rejected", zap.String("source", in.Source), zap.String("target", in.Target), zap.Error(err))
		return domain.EdgeResult{}, err
	}

	w.sel.ConsumeSource()
	w.snapshot()

	w.metrics.EdgeAdded()
	w.metrics.Mutation("add_edge", w.graph.Len())
	w.logger.Info("edge added",
		zap.String("source_id", res.SourceID),
		zap.String("target_id", res.TargetID),
		zap.Float64("cost", res.Cost),
	)

	w.eventBus.Publish(Event{Type: EventGraphUpdated, Payload: res})

	return res, nil
}

// Clear empties the graph, the start and goal selection and the replay.
// The interaction mode is kept. Clear is undoable.
func (w *Workspace) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.graph.Clear()
	w.sel.Restore(domain.NewSelection())
	w.replay = nil
	w.snapshot()

	w.metrics.Mutation("clear", 0)
	w.logger.Info("workspace cleared")

	w.eventBus.Publish(Event{
		Type:    EventGraphUpdated,
		Payload: map[string]string{"action": "cleared"},
	})
}

// ToggleMode activates mode, or returns to none if it is already active
func (w *Workspace) ToggleMode(mode domain.Mode) domain.Mode {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.sel.ToggleMode(mode)
	w.eventBus.Publish(Event{
		Type:    EventSelectionChanged,
		Payload: map[string]string{"mode": string(w.sel.Mode())},
	})
	return w.sel.Mode()
}

// ClickNode routes a node click through the selection. Changes to the start
// node or the goal set are snapshotted.
func (w *Workspace) ClickNode(id string) (domain.ClickOutcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.graph.Has(id) {
		return domain.ClickOutcome{}, fmt.Errorf("%w: node %q", domain.ErrNotFound, id)
	}

	out := w.sel.Click(id)
	if out.Committed {
		w.snapshot()
		w.metrics.Mutation("select_"+string(out.Mode), w.graph.Len())
	}

	w.eventBus.Publish(Event{
		Type: EventSelectionChanged,
		Payload: map[string]any{
			"node_id":   id,
			"mode":      out.Mode,
			"selected":  out.Selected,
			"committed": out.Committed,
		},
	})
	return out, nil
}

// Undo restores the previous history entry. It reports whether anything moved.
func (w *Workspace) Undo() bool {
	return w.moveHistory("undo", w.history.PeekUndo, w.history.Undo)
}

// Redo restores the next history entry. It reports whether anything moved.
func (w *Workspace) Redo() bool {
	return w.moveHistory("redo", w.history.PeekRedo, w.history.Redo)
}

// moveHistory decodes the neighbouring entry first and only moves the cursor
// once it is known to restore cleanly.
func (w *Workspace) moveHistory(direction string, peek, move func() (domain.Record, bool)) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	rec, ok := peek()
	if !ok {
		return false
	}

	g, sel, err := rec.Decode()
	if err != nil {
		w.logger.Error("history entry failed to decode", zap.String("direction", direction), zap.Error(err))
		return false
	}
	move()
	w.graph = g
	w.sel.Restore(sel)

	w.metrics.HistoryMoved(direction)
	w.metrics.Mutation(direction, w.graph.Len())
	w.logger.Debug("history moved", zap.String("direction", direction), zap.Int("cursor", w.history.Cursor()))

	w.eventBus.Publish(Event{Type: EventHistoryMoved, Payload: w.historyStateLocked()})
	return true
}

// History returns the undo/redo stack summary
func (w *Workspace) History() HistoryState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.historyStateLocked()
}

// Tree projects the graph into a rooted tree decorated with the selection.
// It returns nil for an empty graph.
func (w *Workspace) Tree() *domain.TreeNode {
	w.mu.Lock()
	defer w.mu.Unlock()

	t := domain.Project(w.graph)
	if t != nil {
		domain.Decorate(t, w.sel)
	}
	return t
}

// Search sends the current graph, start node and goals to the search service
// and installs a replay over the first result. The workspace lock is released
// while the call is in flight; a second search during that time fails with
// ErrSearchInProgress. On failure the workspace is left as it was.
func (w *Workspace) Search(ctx context.Context) (SearchOutcome, error) {
	w.mu.Lock()
	if w.searching {
		w.mu.Unlock()
		return SearchOutcome{}, domain.ErrSearchInProgress
	}
	req, err := domain.NewSearchRequest(domain.NewRecord(w.graph, w.sel))
	if err != nil {
		w.mu.Unlock()
		return SearchOutcome{}, err
	}
	if w.search == nil {
		w.mu.Unlock()
		return SearchOutcome{}, fmt.Errorf("%w: no search service configured", domain.ErrSearchService)
	}
	w.searching = true
	w.mu.Unlock()

	start := time.Now()
	resp, err := w.search.Search(ctx, req)
	elapsed := time.Since(start)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.searching = false

	if err != nil {
		if !errors.Is(err, domain.ErrSearchService) {
			err = fmt.Errorf("%w: %v", domain.ErrSearchService, err)
		}
		w.metrics.SearchObserved("failed", elapsed)
		w.logger.Warn("search failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		w.eventBus.Publish(Event{
			Type:    EventSearchFailed,
			Payload: map[string]string{"error": err.Error()},
		})
		return SearchOutcome{}, err
	}

	if len(resp.Results) == 0 {
		w.replay = nil
		w.metrics.SearchObserved("empty", elapsed)
		w.logger.Info("search found no path", zap.Duration("elapsed", elapsed))
		w.eventBus.Publish(Event{Type: EventSearchCompleted, Payload: SearchOutcome{}})
		return SearchOutcome{}, nil
	}

	w.replay = domain.NewReplay(resp.Results[0])
	rs := w.replay.State()
	out := SearchOutcome{Found: true, Replay: &rs}

	w.metrics.SearchObserved("found", elapsed)
	w.logger.Info("search completed",
		zap.Duration("elapsed", elapsed),
		zap.Float64("cost", resp.Results[0].Cost),
		zap.Int("steps", w.replay.Len()),
	)
	w.eventBus.Publish(Event{Type: EventSearchCompleted, Payload: out})

	return out, nil
}

// Replay returns the current replay state
func (w *Workspace) Replay() (domain.ReplayState, error) {
	return w.moveReplay("", nil)
}

// ReplayAdvance moves the replay forward one step
func (w *Workspace) ReplayAdvance() (domain.ReplayState, error) {
	return w.moveReplay("advance", (*domain.Replay).Advance)
}

// ReplayRetreat moves the replay back one step
func (w *Workspace) ReplayRetreat() (domain.ReplayState, error) {
	return w.moveReplay("retreat", (*domain.Replay).Retreat)
}

// ReplayReset returns the replay to step 0
func (w *Workspace) ReplayReset() (domain.ReplayState, error) {
	return w.moveReplay("reset", (*domain.Replay).Reset)
}

func (w *Workspace) moveReplay(action string, move func(*domain.Replay)) (domain.ReplayState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.replay == nil {
		return domain.ReplayState{}, fmt.Errorf("%w: no search result to replay", domain.ErrPrecondition)
	}
	if move == nil {
		return w.replay.State(), nil
	}

	move(w.replay)
	st := w.replay.State()
	w.eventBus.Publish(Event{
		Type:    EventReplayMoved,
		Payload: map[string]any{"action": action, "cursor": st.Cursor, "finished": st.Finished},
	})
	return st, nil
}

// Export returns the workspace as a record
func (w *Workspace) Export() domain.Record {
	w.mu.Lock()
	defer w.mu.Unlock()
	return domain.NewRecord(w.graph, w.sel)
}

// Import replaces the workspace with rec. The record is adopted completely or
// not at all. The selection mode, pending source and replay are cleared and
// the import becomes an undo boundary.
func (w *Workspace) Import(rec domain.Record) error {
	g, sel, err := rec.Decode()
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.graph = g
	w.sel = sel
	w.replay = nil
	w.snapshot()

	w.metrics.Mutation("import", w.graph.Len())
	w.logger.Info("record imported", zap.Int("nodes", w.graph.Len()), zap.Int("counter", w.graph.Counter()))

	w.eventBus.Publish(Event{
		Type:    EventGraphUpdated,
		Payload: map[string]any{"action": "imported", "nodes": w.graph.Len()},
	})
	return nil
}

// ImportData parses a record in the given format and imports it
func (w *Workspace) ImportData(format string, r io.Reader) error {
	imp, err := codec.ImporterFor(format)
	if err != nil {
		return err
	}

	rec, err := imp.Parse(r)
	if err == nil {
		err = w.Import(*rec)
	}
	w.metrics.Import(imp.Format(), err)
	if err != nil {
		return fmt.Errorf("import %s: %w", imp.Format(), err)
	}
	return nil
}

// ExportData writes the workspace record in the given format
func (w *Workspace) ExportData(format string, out io.Writer) error {
	exp, err := codec.ExporterFor(format)
	if err != nil {
		return err
	}
	rec := w.Export()
	return exp.Export(&rec, out)
}

// SaveTree stores the current record under name
func (w *Workspace) SaveTree(ctx context.Context, name string) (repository.TreeInfo, error) {
	if w.store == nil {
		return repository.TreeInfo{}, errNoStore
	}

	info, err := w.store.Save(ctx, name, w.Export())
	w.metrics.TreeOperation("save", err)
	if err != nil {
		return repository.TreeInfo{}, err
	}

	w.logger.Info("tree saved", zap.String("name", info.Name), zap.Int("nodes", info.NodeCount))
	w.eventBus.Publish(Event{Type: EventTreeSaved, Payload: info})
	return info, nil
}

// LoadTree imports the record saved under name
func (w *Workspace) LoadTree(ctx context.Context, name string) error {
	if w.store == nil {
		return errNoStore
	}

	rec, err := w.store.Load(ctx, name)
	if err == nil {
		err = w.Import(rec)
	}
	w.metrics.TreeOperation("load", err)
	return err
}

// ListTrees returns the saved trees
func (w *Workspace) ListTrees(ctx context.Context) ([]repository.TreeInfo, error) {
	if w.store == nil {
		return nil, errNoStore
	}
	return w.store.List(ctx)
}

// DeleteTree removes the tree saved under name
func (w *Workspace) DeleteTree(ctx context.Context, name string) error {
	if w.store == nil {
		return errNoStore
	}

	err := w.store.Delete(ctx, name)
	w.metrics.TreeOperation("delete", err)
	if err != nil {
		return err
	}

	w.logger.Info("tree deleted", zap.String("name", name))
	w.eventBus.Publish(Event{
		Type:    EventTreeDeleted,
		Payload: map[string]string{"name": name},
	})
	return nil
}

var errNoStore = fmt.Errorf("%w: no tree store configured", domain.ErrPrecondition)

// snapshot pushes the live state onto the history stack. Callers hold w.mu.
func (w *Workspace) snapshot() {
	w.history.Snapshot(domain.NewRecord(w.graph, w.sel))
}
