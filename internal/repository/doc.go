// Package repository defines the persistence port for saved trees.
//
// A saved tree is a named workspace record: the node mapping, the identifier
// counter, the start node and the goal nodes. The Store interface is the only
// thing the service layer knows about; the sqlite subpackage implements it.
//
// # SQLite Implementation
//
// Records are stored as JSON alongside a blake2b checksum of that JSON. Load
// verifies the checksum and validates the record before returning it, so a
// corrupted row surfaces as domain.ErrMalformedRecord rather than as a broken
// workspace.
//
// # Schema Migration
//
// The sqlite repository creates its schema on startup.
package repository
