package http

import (
	"net/http"

	"daftar/internal/analytics"
	"daftar/internal/core"
	applog "daftar/internal/log"
)

type createGoalRequest struct {
	Target      string `json:"target"`
	Description string `json:"description"`
	Deadline    string `json:"deadline,omitempty"`
}

type goalDTO struct {
	ID          int64    `json:"id"`
	Target      moneyDTO `json:"target"`
	Current     moneyDTO `json:"current"`
	Description string   `json:"description"`
	Deadline    string   `json:"deadline,omitempty"`
	Progress    float64  `json:"progress"`
}

func (s *Server) goalDTO(g core.Goal) goalDTO {
	dto := goalDTO{
		ID:          g.ID,
		Target:      s.money(g.Target),
		Current:     s.money(g.Current),
		Description: g.Description,
		Progress:    analytics.GoalProgress(g),
	}
	if !g.Deadline.IsEmpty() {
		dto.Deadline = g.Deadline.String()
	}
	return dto
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	target, err := core.ParseAmount(req.Target)
	if err != nil {
		writeError(w, err)
		return
	}

	var deadline core.Date
	if req.Deadline != "" {
		deadline, err = core.ParseDate(req.Deadline)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	id, err := s.ledger.CreateGoal(r.Context(), target, sanitizeInput(req.Description), deadline)
	if err != nil {
		writeError(w, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Goal created",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldGoalID, id)

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.ledger.ListGoals(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	dtos := make([]goalDTO, 0, len(goals))
	for _, g := range goals {
		dtos = append(dtos, s.goalDTO(g))
	}
	writeJSON(w, http.StatusOK, map[string]any{"goals": dtos})
}

func (s *Server) handleActiveGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := s.ledger.ActiveGoal(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.goalDTO(goal))
}
