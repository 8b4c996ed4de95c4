package http

import (
	"net/http"

	applog "daftar/internal/log"
)

type pathRequest struct {
	Path string `json:"path"`
}

// handleBackup copies the database file to the requested destination.
func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.Path == "" {
		unprocessable(w, "path must not be empty")
		return
	}

	if err := s.ledger.Backup(r.Context(), req.Path); err != nil {
		writeError(w, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Backup written",
		applog.FieldOperation, applog.OpBackup,
		applog.FieldPath, req.Path)

	w.WriteHeader(http.StatusNoContent)
}

// handleRestore replaces the live database with the file at the given path.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.Path == "" {
		unprocessable(w, "path must not be empty")
		return
	}

	if err := s.ledger.Restore(r.Context(), req.Path); err != nil {
		writeError(w, err)
		return
	}

	applog.FromContext(r.Context()).WarnContext(r.Context(), "Database restored",
		applog.FieldOperation, applog.OpRestore,
		applog.FieldPath, req.Path)

	w.WriteHeader(http.StatusNoContent)
}

// handleClear wipes transactions, goals, and reminders. The credential
// survives so the next login still verifies against the stored digest.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.ClearAll(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	applog.FromContext(r.Context()).WarnContext(r.Context(), "All ledger data cleared",
		applog.FieldOperation, applog.OpDelete)

	w.WriteHeader(http.StatusNoContent)
}
