// internal/app/system/respond/respond.go
package respond

import (
	"encoding/json"
	"net/http"
)

// Payload is the JSON envelope every API response uses.
//
// Count and Tokens are pointers so a legitimate zero is still sent.
type Payload struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Tokens  *int64 `json:"tokens,omitempty"`
	Data    any    `json:"data,omitempty"`

	// Set only on an insufficient-tokens failure.
	CurrentTokens *int64 `json:"currentTokens,omitempty"`
	Required      *int64 `json:"required,omitempty"`
}

// JSON writes p with the given status.
func JSON(w http.ResponseWriter, status int, p Payload) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(p)
}

// OK writes a 200 success envelope.
func OK(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, Payload{Success: true, Message: message, Data: data})
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusCreated, Payload{Success: true, Message: message, Data: data})
}

// List writes a 200 envelope carrying rows and their count. A nil slice is
// sent as [] so clients can always iterate data.
func List[T any](w http.ResponseWriter, rows []T) {
	if rows == nil {
		rows = []T{}
	}
	n := len(rows)
	JSON(w, http.StatusOK, Payload{Success: true, Count: &n, Data: rows})
}

// Fail writes a failure envelope with msg as the error text.
func Fail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Payload{Success: false, Error: msg})
}

// Int64 is a small helper for the pointer fields.
func Int64(v int64) *int64 { return &v }
