package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"agentplug/internal/api"
	"agentplug/internal/runner"
	"agentplug/pkg/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Debug("Server", "Failed to write response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, api.ErrorResponse{Error: message})
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case api.IsPathTraversal(err):
		return http.StatusForbidden
	case api.IsNotFound(err):
		return http.StatusNotFound
	case api.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status for err. Handler errors keep their own
// status and body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var handlerErr *runner.HandlerError
	if errors.As(err, &handlerErr) {
		status := handlerErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(handlerErr.Body)
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.Error("Server", err, "%s %s failed (request %s)", r.Method, r.URL.Path, r.Header.Get(requestIDHeader))
	}
	writeJSONError(w, status, err.Error())
}
