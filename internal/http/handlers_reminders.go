package http

import (
	"net/http"
	"time"

	"daftar/internal/core"
	applog "daftar/internal/log"
)

type createReminderRequest struct {
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

type reminderDTO struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Completed   bool   `json:"completed"`
}

func toReminderDTO(rem core.Reminder) reminderDTO {
	return reminderDTO{
		ID:          rem.ID,
		Description: rem.Description,
		DueDate:     rem.DueDate.String(),
		Completed:   rem.Completed,
	}
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var req createReminderRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	id, err := s.ledger.CreateReminder(r.Context(), sanitizeInput(req.Description), req.DueDate)
	if err != nil {
		writeError(w, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Reminder created",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldReminderID, id)

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := s.ledger.ListReminders(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	dtos := make([]reminderDTO, 0, len(reminders))
	for _, rem := range reminders {
		dtos = append(dtos, toReminderDTO(rem))
	}
	writeJSON(w, http.StatusOK, map[string]any{"reminders": dtos})
}

func (s *Server) handleDueReminders(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	due, err := s.ledger.DueToday(r.Context(), core.NewDate(now.Year(), int(now.Month()), now.Day()))
	if err != nil {
		writeError(w, err)
		return
	}

	dtos := make([]reminderDTO, 0, len(due))
	for _, rem := range due {
		dtos = append(dtos, toReminderDTO(rem))
	}
	writeJSON(w, http.StatusOK, map[string]any{"reminders": dtos})
}

func (s *Server) handleCompleteReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := s.ledger.CompleteReminder(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := s.ledger.DeleteReminder(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
