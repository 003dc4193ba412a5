package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// writeJSON serializes v as the response body. Encoding failures are logged
// but cannot be reported to the client: the header is already gone.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Response encoding failed",
			"url", r.URL.Path, "error", err)
	}
}

// writeError sends the {"error": ...} body every endpoint uses for failures.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

type messageResponse struct {
	ID      int64  `json:"id,omitempty"`
	Message string `json:"message"`
}

// parseID extracts the {id} path segment as a positive integer.
func parseID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// clientIP extracts the client address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if i := strings.IndexByte(ip, ','); i >= 0 {
			ip = ip[:i]
		}
		return strings.TrimSpace(ip)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// sanitizeInput trims whitespace and strips control characters except tab,
// newline and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// sanitizeOptional applies sanitizeInput to a nullable field, collapsing a
// blank result to nil.
func sanitizeOptional(p *string) *string {
	if p == nil {
		return nil
	}
	clean := sanitizeInput(*p)
	if clean == "" {
		return nil
	}
	return &clean
}
