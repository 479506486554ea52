package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
)

type errorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.InvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
