package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"caixa/internal/core"
	"caixa/internal/storage"
)

func (s *Server) handleListFixedBills(w http.ResponseWriter, r *http.Request) {
	bills, err := s.reader.ListFixedBills(r.Context(), storage.FixedFilter{
		Month: r.URL.Query().Get("mes"),
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "List fixed bills failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao buscar contas fixas")
		return
	}
	writeJSON(w, r, http.StatusOK, bills)
}

func (s *Server) handleCreateFixedBill(w http.ResponseWriter, r *http.Request) {
	var payload fixedBillPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, r, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	bill, err := payload.toBill()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	created, err := s.writer.CreateFixedBill(r.Context(), bill)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create fixed bill failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao criar conta fixa")
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{ID: created.ID, Message: "Conta fixa criada com sucesso"})
}

func (s *Server) handleUpdateFixedBill(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "ID inválido")
		return
	}
	var payload fixedBillPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, r, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	bill, err := payload.toBill()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	if _, err := s.writer.UpdateFixedBill(r.Context(), id, bill); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Conta fixa não encontrada")
			return
		}
		slog.ErrorContext(r.Context(), "Update fixed bill failed", "id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao atualizar conta fixa")
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Conta fixa atualizada com sucesso"})
}

func (s *Server) handleDeleteFixedBill(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "ID inválido")
		return
	}
	if err := s.writer.DeleteFixedBill(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Conta fixa não encontrada")
			return
		}
		slog.ErrorContext(r.Context(), "Delete fixed bill failed", "id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao excluir conta fixa")
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Conta fixa excluída com sucesso"})
}

func (s *Server) handleListWeeklyBills(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bills, err := s.reader.ListWeeklyBills(r.Context(), storage.WeeklyFilter{
		Week: q.Get("semana"),
		Name: q.Get("nome"),
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "List weekly bills failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao buscar contas semanais")
		return
	}
	writeJSON(w, r, http.StatusOK, bills)
}

func (s *Server) handleCreateWeeklyBill(w http.ResponseWriter, r *http.Request) {
	var payload weeklyBillPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, r, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	bill, err := payload.toBill()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	created, err := s.writer.CreateWeeklyBill(r.Context(), bill)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create weekly bill failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao criar conta semanal")
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{ID: created.ID, Message: "Conta semanal criada com sucesso"})
}

func (s *Server) handleUpdateWeeklyBill(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "ID inválido")
		return
	}
	var payload weeklyBillPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, r, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	bill, err := payload.toBill()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	if _, err := s.writer.UpdateWeeklyBill(r.Context(), id, bill); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Conta semanal não encontrada")
			return
		}
		slog.ErrorContext(r.Context(), "Update weekly bill failed", "id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao atualizar conta semanal")
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Conta semanal atualizada com sucesso"})
}

func (s *Server) handleDeleteWeeklyBill(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "ID inválido")
		return
	}
	if err := s.writer.DeleteWeeklyBill(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Conta semanal não encontrada")
			return
		}
		slog.ErrorContext(r.Context(), "Delete weekly bill failed", "id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao excluir conta semanal")
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Conta semanal excluída com sucesso"})
}

func (s *Server) handleListDailyBills(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.DailyFilter{
		StartDate: q.Get("data_inicio"),
		EndDate:   q.Get("data_fim"),
		Month:     q.Get("mes"),
		Day:       q.Get("dia"),
	}
	if filter.StartDate == "" && filter.Month == "" && filter.Day == "" {
		if week := q.Get("semana"); week != "" {
			period := core.ResolvePeriod(core.PeriodQuery{Week: week}, time.Now())
			filter.StartDate = period.Start
			filter.EndDate = period.End
		}
	}

	bills, err := s.reader.ListDailyBills(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "List daily bills failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao buscar contas diárias")
		return
	}
	writeJSON(w, r, http.StatusOK, bills)
}

func (s *Server) handleCreateDailyBill(w http.ResponseWriter, r *http.Request) {
	var payload dailyBillPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, r, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	bill, err := payload.toBill()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	created, err := s.writer.CreateDailyBill(r.Context(), bill)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create daily bill failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao criar conta diária")
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{ID: created.ID, Message: "Conta diária criada com sucesso"})
}

func (s *Server) handleUpdateDailyBill(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "ID inválido")
		return
	}
	var payload dailyBillPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, r, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	bill, err := payload.toBill()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	if _, err := s.writer.UpdateDailyBill(r.Context(), id, bill); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Conta diária não encontrada")
			return
		}
		slog.ErrorContext(r.Context(), "Update daily bill failed", "id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao atualizar conta diária")
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Conta diária atualizada com sucesso"})
}

func (s *Server) handleDeleteDailyBill(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "ID inválido")
		return
	}
	if err := s.writer.DeleteDailyBill(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Conta diária não encontrada")
			return
		}
		slog.ErrorContext(r.Context(), "Delete daily bill failed", "id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao excluir conta diária")
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Conta diária excluída com sucesso"})
}
