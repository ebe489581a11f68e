// Package domain defines the core types of the graph authoring and replay engine.
//
// The package has no I/O and no dependencies beyond the standard library. Every
// type here is owned by a single caller at a time; synchronization is the job of
// the service layer.
//
// # Graph Model
//
// Graph owns Node records and the counter used to mint identifiers of the form
// node_<n>. AddEdge reuses a source node (by explicit id or by label) and always
// mints a fresh target, so equal labels can appear as distinct leaves.
//
// # History
//
// History is a linear undo/redo stack of Record snapshots. Records are deep
// copies: mutating the live graph never changes a stored entry.
//
// # Tree Projection
//
// Project turns the general directed graph (possibly cyclic or disconnected)
// into a single rooted tree for display. Cycles are cut per branch.
//
// # Selection
//
// Selection is the interaction state machine: which mode a node click is
// routed to, the start node, the goal set, and the source node of the next edge.
//
// # Replay
//
// Replay walks a search trace produced by the external search service one step
// at a time.
//
// # Mint order
//
// Go maps have no order, so every deterministic choice (label resolution, root
// tie-break, child order, goal order) uses CompareIDs.
package domain
