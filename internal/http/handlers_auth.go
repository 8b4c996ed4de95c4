package http

import (
	"net/http"
	"sync/atomic"

	"daftar/internal/auth"
	applog "daftar/internal/log"
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Granted  bool `json:"granted"`
	NewlySet bool `json:"newly_set"`
}

type changePasswordRequest struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// handleLogin verifies the credential, or stores it when none exists yet.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.Password == "" {
		unprocessable(w, "password must not be empty")
		return
	}

	outcome, err := s.gate.BootstrapOrVerify(r.Context(), req.Password)
	if err != nil {
		atomic.AddInt64(&s.metrics.deniedCredentials, 1)
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Credential denied",
			applog.FieldOperation, "login")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Granted:  true,
		NewlySet: outcome == auth.NewlySet,
	})
}

// handleChangePassword swaps the credential after verifying the old one.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.New == "" {
		unprocessable(w, "new password must not be empty")
		return
	}

	if err := s.gate.Change(r.Context(), req.Old, req.New); err != nil {
		atomic.AddInt64(&s.metrics.deniedCredentials, 1)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
