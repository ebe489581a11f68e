// Package service implements the workspace engine for ucsboard.
//
// The Workspace composes the domain components (graph model, history,
// selection, replay) and owns the policy that ties them together: which
// operations are committed mutations, when a history snapshot is taken, and
// what happens to the selection and the replay when the graph changes.
//
// # Collaborators
//
// The Workspace reaches the outside world only through injected ports:
//
//   - repository.Store persists named records (saved trees)
//   - SearchClient runs the uniform-cost search on a remote service
//   - EventBus fans out change notifications to the SSE hub
//
// # Event System
//
// Every committed change publishes an Event. Publishing never blocks: a slow
// subscriber misses events rather than stalling the engine.
//
// # Concurrency
//
// All methods are safe for concurrent use. State changes are serialized by a
// mutex; a search releases the mutex while the remote call is in flight and
// refuses to start while another search is pending.
package service
