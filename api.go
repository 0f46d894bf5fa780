package tablegate

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform JSON wrapper returned by every endpoint.
// Success responses carry data and/or a message; failures carry an error
// string. The success flag is always present.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// WriteData writes a success envelope carrying a payload.
func WriteData(w http.ResponseWriter, status int, data any) {
	respond(w, status, Envelope{Success: true, Data: data})
}

// WriteDataMessage writes a success envelope with a payload and a message.
func WriteDataMessage(w http.ResponseWriter, status int, data any, msg string) {
	respond(w, status, Envelope{Success: true, Data: data, Message: msg})
}

// WriteRecords writes a success envelope with a list payload and its count.
// An empty list is still a success; data stays a JSON array, never null.
func WriteRecords(w http.ResponseWriter, records []Record) {
	n := len(records)
	respond(w, http.StatusOK, Envelope{Success: true, Data: records, Count: &n})
}

// WriteMessage writes a success envelope with a message and no payload.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	respond(w, status, Envelope{Success: true, Message: msg})
}

// WriteError writes a failure envelope, classifying the error to a status.
func WriteError(w http.ResponseWriter, err error) {
	respond(w, statusFor(err), Envelope{Success: false, Error: err.Error()})
}
