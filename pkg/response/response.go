package response

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the normalized failure envelope returned for any upstream or
// local error.
type ErrorBody struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// Data wraps v in the upstream-style {"data": ...} envelope.
func Data(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusOK, map[string]interface{}{"data": v})
}

// Raw writes an upstream body verbatim.
func Raw(w http.ResponseWriter, statusCode int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body)
}

func Error(w http.ResponseWriter, statusCode int, message string, details interface{}) {
	JSON(w, statusCode, ErrorBody{
		Error:   message,
		Details: details,
	})
}
