package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/threadtree/pkg/errors"
)

type errorBody struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError classifies err and writes it as a JSON error response.
// Uncoded errors are reported as INTERNAL_ERROR.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	err = errors.FromTree(err)
	writeJSON(w, errors.HTTPStatus(err), errorResponse{Error: errorBody{
		Code:      errors.GetCode(err),
		Message:   errors.UserMessage(err),
		RequestID: RequestIDFromContext(r.Context()),
	}})
}
