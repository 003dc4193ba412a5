package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"caixa/internal/core"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	month := r.URL.Query().Get("mes")
	if month != "" && !core.ValidMonthRef(month) {
		writeError(w, r, http.StatusBadRequest, "Mês inválido, use o formato YYYY-MM")
		return
	}

	key := month
	if key == "" {
		key = core.MonthTag(now)
	}
	if cached, ok := s.dashCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Dashboard cache hit", "month", key)
		writeJSON(w, r, http.StatusOK, cached)
		return
	}

	dash, err := s.overviews.Build(r.Context(), month, now)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard build failed", "month", key, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao montar dashboard")
		return
	}
	s.dashCache.Set(key, dash)
	writeJSON(w, r, http.StatusOK, dash)
}

func (s *Server) handleCompareMonths(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month1, month2 := q.Get("mes1"), q.Get("mes2")
	if month1 == "" || month2 == "" {
		writeError(w, r, http.StatusBadRequest, "Dois meses devem ser fornecidos")
		return
	}
	if !core.ValidMonthRef(month1) || !core.ValidMonthRef(month2) {
		writeError(w, r, http.StatusBadRequest, "Mês inválido, use o formato YYYY-MM")
		return
	}

	cmp, err := s.overviews.CompareMonths(r.Context(), month1, month2)
	if err != nil {
		slog.ErrorContext(r.Context(), "Month comparison failed",
			"mes1", month1, "mes2", month2, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao comparar meses")
		return
	}
	writeJSON(w, r, http.StatusOK, cmp)
}

const defaultLogLimit = 100

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "Limite inválido")
			return
		}
		limit = n
	}

	logs, err := s.reader.ListLogs(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "List logs failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao buscar logs")
		return
	}
	writeJSON(w, r, http.StatusOK, logs)
}
