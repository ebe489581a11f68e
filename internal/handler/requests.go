package handler

import (
	"ucsboard/internal/domain"
	"ucsboard/internal/service"
)

// AddEdgeRequest is the body of POST /api/edges
type AddEdgeRequest struct {
	Source   string   `json:"source" validate:"required,max=256"`
	Target   string   `json:"target" validate:"required,max=256"`
	Cost     *float64 `json:"cost" validate:"required,gte=0"`
	SourceID string   `json:"source_id,omitempty" validate:"omitempty,max=64"`
}

func (r AddEdgeRequest) input() service.AddEdgeInput {
	return service.AddEdgeInput{
		Source:   r.Source,
		Target:   r.Target,
		Cost:     *r.Cost,
		SourceID: r.SourceID,
	}
}

// ModeRequest is the body of PUT /api/selection/mode
type ModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=none source start goal"`
}

// ModeResponse reports the active selection mode after a toggle
type ModeResponse struct {
	Mode domain.Mode `json:"mode"`
}

// HistoryResponse is returned by undo and redo
type HistoryResponse struct {
	Moved   bool                 `json:"moved"`
	History service.HistoryState `json:"history"`
}

// TreeResponse wraps the projected tree. Root is null for an empty graph.
type TreeResponse struct {
	Root  *domain.TreeNode `json:"root"`
	Nodes int              `json:"nodes"`
}

// TreeListResponse lists saved trees
type TreeListResponse struct {
	Trees []TreeSummary `json:"trees"`
}

// TreeSummary describes one saved tree
type TreeSummary struct {
	Name      string `json:"name"`
	NodeCount int    `json:"node_count"`
	Checksum  string `json:"checksum"`
	UpdatedAt string `json:"updated_at"`
}
