package handler

import "net/http"

// Root handles GET / as a liveness banner for humans poking the service.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Transactional CRUD Backend Ready"})
}

type storeDiagResponse struct {
	Backend          string   `json:"backend"`
	Driver           string   `json:"driver"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// StoreDiagnostics handles GET /test, reporting store connectivity: which
// driver is active, whether a ping succeeds, and the visible collections.
func (h *Handler) StoreDiagnostics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := storeDiagResponse{
		Backend: "running",
		Driver:  h.diag.Driver(),
	}

	if err := h.diag.Ping(ctx); err != nil {
		resp.ConnectionStatus = "not connected"
		resp.Error = err.Error()
		writeJSON(w, http.StatusOK, resp)
		return
	}
	resp.ConnectionStatus = "connected"

	names, err := h.diag.Collections(ctx)
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Collections = names
	}
	writeJSON(w, http.StatusOK, resp)
}
