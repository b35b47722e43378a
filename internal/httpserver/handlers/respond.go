package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/refdeck/refdeck/internal/httpserver/deps"
	"github.com/refdeck/refdeck/internal/logger"
)

type okResponse struct {
	OK bool `json:"ok"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeOutcome maps the mutation service's boolean contract onto HTTP:
// the body always carries the boolean, the status only summarizes it.
func writeOutcome(w http.ResponseWriter, ok bool, successStatus int) {
	if ok {
		writeJSON(w, successStatus, okResponse{OK: true})
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, okResponse{OK: false})
}

func decodeBody(w http.ResponseWriter, r *http.Request, d deps.Deps, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		d.Logger.Warn("failed to decode request body",
			logger.String("path", r.URL.Path), logger.Error(err))
		writeJSON(w, http.StatusBadRequest, okResponse{OK: false})
		return false
	}
	return true
}
