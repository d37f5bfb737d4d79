package stub

import "net/http"

// handleHealth answers GET /healthz. Metrics are served on /metrics.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
