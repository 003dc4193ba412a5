package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"caixa/internal/core"
	"caixa/internal/storage"
)

func (s *Server) handleListIncome(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.IncomeFilter{
		StartDate: q.Get("data_inicio"),
		EndDate:   q.Get("data_fim"),
		Month:     q.Get("mes"),
	}
	// A week selector resolves to its date range; the table itself only
	// carries calendar dates.
	if filter.StartDate == "" && filter.Month == "" {
		if week := q.Get("semana"); week != "" {
			period := core.ResolvePeriod(core.PeriodQuery{Week: week}, time.Now())
			filter.StartDate = period.Start
			filter.EndDate = period.End
		}
	}

	entries, err := s.reader.ListIncome(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "List income failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao buscar arrecadações")
		return
	}
	writeJSON(w, r, http.StatusOK, entries)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var payload incomePayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, r, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	entry, err := payload.toEntry()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	created, err := s.writer.CreateIncome(r.Context(), entry)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create income failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao registrar arrecadação")
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{ID: created.ID, Message: "Arrecadação registrada com sucesso"})
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "ID inválido")
		return
	}
	var payload incomePayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, r, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	entry, err := payload.toEntry()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	if _, err := s.writer.UpdateIncome(r.Context(), id, entry); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Arrecadação não encontrada")
			return
		}
		slog.ErrorContext(r.Context(), "Update income failed", "id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao atualizar arrecadação")
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Arrecadação atualizada com sucesso"})
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "ID inválido")
		return
	}
	if err := s.writer.DeleteIncome(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Arrecadação não encontrada")
			return
		}
		slog.ErrorContext(r.Context(), "Delete income failed", "id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao excluir arrecadação")
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Arrecadação excluída com sucesso"})
}
