package repository

import (
	"context"
	"time"

	"ucsboard/internal/domain"
)

// TreeInfo describes a saved tree without its contents
type TreeInfo struct {
	Name      string    `json:"name"`
	NodeCount int       `json:"node_count"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists named workspace records.
// Load and Delete return an error wrapping domain.ErrNotFound for unknown names.
type Store interface {
	// Save creates or overwrites the record stored under name
	Save(ctx context.Context, name string, rec domain.Record) (TreeInfo, error)
	Load(ctx context.Context, name string) (domain.Record, error)
	List(ctx context.Context) ([]TreeInfo, error)
	Delete(ctx context.Context, name string) error

	// Close releases resources
	Close() error
}
