package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the body every non-2xx endpoint returns.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSONResponse writes a JSON response with the given status code and data
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes an error response with the given status code and message
func WriteErrorResponse(w http.ResponseWriter, statusCode int, err, message string) {
	response := ErrorResponse{
		Error:   err,
		Message: message,
	}
	WriteJSONResponse(w, statusCode, response)
}

// WriteNotFoundResponse writes the standard 404 body for a missing resource.
func WriteNotFoundResponse(w http.ResponseWriter, resource string) {
	WriteErrorResponse(
		w,
		http.StatusNotFound,
		fmt.Sprintf("%s not found", resource),
		fmt.Sprintf("The requested %s could not be found", resource),
	)
}
