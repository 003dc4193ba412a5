package http

import (
	"log/slog"
	"net/http"
	"time"

	"caixa/internal/services"
)

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	group := q.Get("agrupar_similares")

	report, err := s.reports.Build(r.Context(), services.ReportQuery{
		Name:         q.Get("nome"),
		Description:  q.Get("descricao"),
		Category:     q.Get("categoria"),
		StartDate:    q.Get("data_inicio"),
		EndDate:      q.Get("data_fim"),
		Month:        q.Get("mes"),
		Week:         q.Get("semana"),
		GroupSimilar: group == "true" || group == "1",
	}, time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Report build failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Erro ao gerar relatório completo")
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}
