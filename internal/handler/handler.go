package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ucsboard/internal/codec"
	"ucsboard/internal/domain"
	"ucsboard/internal/logging"
	"ucsboard/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// maxImportBytes bounds the size of an imported record
const maxImportBytes = 10 << 20

// WorkspaceHandler handles workspace API requests
type WorkspaceHandler struct {
	ws       *service.Workspace
	logger   *zap.Logger
	validate *validator.Validate
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(ws *service.Workspace, logger *zap.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		ws:       ws,
		logger:   logging.OrNop(logger),
		validate: validator.New(),
	}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// GetWorkspace returns the full workspace state
func (h *WorkspaceHandler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.ws.State(), http.StatusOK)
}

// ClearWorkspace empties the graph and selection
func (h *WorkspaceHandler) ClearWorkspace(w http.ResponseWriter, r *http.Request) {
	h.ws.Clear()
	h.writeJSON(w, h.ws.State(), http.StatusOK)
}

// AddEdge authors a directed edge
func (h *WorkspaceHandler) AddEdge(w http.ResponseWriter, r *http.Request) {
	var req AddEdgeRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.ws.AddEdge(req.input())
	if err != nil {
		h.writeDomainError(w, "Failed to add edge", err)
		return
	}

	h.writeJSON(w, res, http.StatusCreated)
}

// SetMode toggles the node-click interaction mode
func (h *WorkspaceHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req ModeRequest
	if !h.decode(w, r, &req) {
		return
	}

	mode, err := domain.ParseMode(req.Mode)
	if err != nil {
		h.writeDomainError(w, "Invalid mode", err)
		return
	}

	h.writeJSON(w, ModeResponse{Mode: h.ws.ToggleMode(mode)}, http.StatusOK)
}

// ClickNode applies a node click in the active mode
func (h *WorkspaceHandler) ClickNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	out, err := h.ws.ClickNode(id)
	if err != nil {
		h.writeDomainError(w, "Failed to select node", err)
		return
	}

	h.writeJSON(w, out, http.StatusOK)
}

// Undo steps back one history entry
func (h *WorkspaceHandler) Undo(w http.ResponseWriter, r *http.Request) {
	moved := h.ws.Undo()
	h.writeJSON(w, HistoryResponse{Moved: moved, History: h.ws.History()}, http.StatusOK)
}

// Redo steps forward one history entry
func (h *WorkspaceHandler) Redo(w http.ResponseWriter, r *http.Request) {
	moved := h.ws.Redo()
	h.writeJSON(w, HistoryResponse{Moved: moved, History: h.ws.History()}, http.StatusOK)
}

// GetTree returns the tree projection of the graph
func (h *WorkspaceHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	root := h.ws.Tree()
	h.writeJSON(w, TreeResponse{Root: root, Nodes: root.Size()}, http.StatusOK)
}

// Search runs a uniform-cost search on the external service
func (h *WorkspaceHandler) Search(w http.ResponseWriter, r *http.Request) {
	out, err := h.ws.Search(r.Context())
	if err != nil {
		h.writeDomainError(w, "Search failed", err)
		return
	}

	h.writeJSON(w, out, http.StatusOK)
}

// GetReplay returns the current replay step
func (h *WorkspaceHandler) GetReplay(w http.ResponseWriter, r *http.Request) {
	h.replay(w, h.ws.Replay)
}

// ReplayAdvance moves the replay forward
func (h *WorkspaceHandler) ReplayAdvance(w http.ResponseWriter, r *http.Request) {
	h.replay(w, h.ws.ReplayAdvance)
}

// ReplayRetreat moves the replay back
func (h *WorkspaceHandler) ReplayRetreat(w http.ResponseWriter, r *http.Request) {
	h.replay(w, h.ws.ReplayRetreat)
}

// ReplayReset rewinds the replay to the first step
func (h *WorkspaceHandler) ReplayReset(w http.ResponseWriter, r *http.Request) {
	h.replay(w, h.ws.ReplayReset)
}

func (h *WorkspaceHandler) replay(w http.ResponseWriter, move func() (domain.ReplayState, error)) {
	st, err := move()
	if err != nil {
		h.writeDomainError(w, "Replay unavailable", err)
		return
	}
	h.writeJSON(w, st, http.StatusOK)
}

// Export downloads the workspace record
func (h *WorkspaceHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	exp, err := codec.ExporterFor(format)
	if err != nil {
		h.writeDomainError(w, "Unsupported format", err)
		return
	}

	var buf bytes.Buffer
	if err := h.ws.ExportData(exp.Format(), &buf); err != nil {
		h.writeDomainError(w, "Failed to export", err)
		return
	}

	switch exp.Format() {
	case "yaml":
		w.Header().Set("Content-Type", "application/x-yaml")
	default:
		w.Header().Set("Content-Type", "application/json")
	}
	filename := fmt.Sprintf("ucsboard-%s.%s", time.Now().Format("20060102-150405"), exp.Format())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Import replaces the workspace with an uploaded record
func (h *WorkspaceHandler) Import(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)

	if err := h.ws.ImportData(format, body); err != nil {
		h.writeDomainError(w, "Failed to import", err)
		return
	}

	h.writeJSON(w, h.ws.State(), http.StatusOK)
}

// ListTrees lists saved trees
func (h *WorkspaceHandler) ListTrees(w http.ResponseWriter, r *http.Request) {
	infos, err := h.ws.ListTrees(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to list trees", err)
		return
	}

	resp := TreeListResponse{Trees: make([]TreeSummary, 0, len(infos))}
	for _, info := range infos {
		resp.Trees = append(resp.Trees, TreeSummary{
			Name:      info.Name,
			NodeCount: info.NodeCount,
			Checksum:  info.Checksum,
			UpdatedAt: info.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	h.writeJSON(w, resp, http.StatusOK)
}

// SaveTree stores the current workspace under a name
func (h *WorkspaceHandler) SaveTree(w http.ResponseWriter, r *http.Request) {
	info, err := h.ws.SaveTree(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeDomainError(w, "Failed to save tree", err)
		return
	}
	h.writeJSON(w, info, http.StatusOK)
}

// LoadTree replaces the workspace with a saved tree
func (h *WorkspaceHandler) LoadTree(w http.ResponseWriter, r *http.Request) {
	if err := h.ws.LoadTree(r.Context(), chi.URLParam(r, "name")); err != nil {
		h.writeDomainError(w, "Failed to load tree", err)
		return
	}
	h.writeJSON(w, h.ws.State(), http.StatusOK)
}

// DeleteTree removes a saved tree
func (h *WorkspaceHandler) DeleteTree(w http.ResponseWriter, r *http.Request) {
	if err := h.ws.DeleteTree(r.Context(), chi.URLParam(r, "name")); err != nil {
		h.writeDomainError(w, "Failed to delete tree", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health reports liveness
func (h *WorkspaceHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// decode reads and validates a JSON body. It writes the error response and
// returns false on failure.
func (h *WorkspaceHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.writeError(w, "Validation failed", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// statusFor maps a domain error to an HTTP status code
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrMalformedRecord):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPrecondition), errors.Is(err, domain.ErrSearchInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSearchService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *WorkspaceHandler) writeDomainError(w http.ResponseWriter, message string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(message, zap.Error(err))
	}
	h.writeError(w, message, err.Error(), status)
}

func (h *WorkspaceHandler) writeJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (h *WorkspaceHandler) writeError(w http.ResponseWriter, message, details string, status int) {
	h.writeJSON(w, ErrorResponse{Error: message, Details: details}, status)
}
