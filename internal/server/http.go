package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

/* ------------------------------- HTTP ------------------------------- */

// Handler routes the websocket bridge and the status endpoints.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(a, w, r)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthDTO{
			Status:      "ok",
			Connections: a.Connections(),
			Journal:     a.journal != nil,
		})
	})
	mux.HandleFunc("/pursuits", a.handlePursuits)
	return mux
}

func (a *App) handlePursuits(w http.ResponseWriter, r *http.Request) {
	if a.journal == nil {
		http.Error(w, "journal disabled", http.StatusNotFound)
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		limit = min(n, 500)
	}
	rows, err := a.journal.Recent(r.Context(), limit)
	if err != nil {
		a.log.Error("journal query failed", "err", err)
		http.Error(w, "journal query failed", http.StatusInternalServerError)
		return
	}
	out := make([]pursuitDTO, 0, len(rows))
	for _, p := range rows {
		out = append(out, pursuitDTO{
			ID:         p.ID,
			Session:    uint32(p.Session),
			Started:    p.Started,
			Ended:      p.Ended,
			Escalation: p.Escalation,
			MaxLevel:   int(p.MaxLevel),
			Vehicles:   p.Vehicles,
			RecordedAt: p.RecordedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
