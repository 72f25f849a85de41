package domain

import "encoding/json"

// Envelope is the response shape of every local route.
type Envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data,omitempty"`
	Error      string          `json:"error,omitempty"`
	Message    string          `json:"message,omitempty"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

// Pagination is the canonical pagination block. Keys the upstream did not
// send stay nil and are omitted.
type Pagination struct {
	Page       *int `json:"page,omitempty"`
	TotalPages *int `json:"totalPages,omitempty"`
	Total      *int `json:"total,omitempty"`
	Limit      *int `json:"limit,omitempty"`
}

// Fail builds a failure envelope.
func Fail(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}
