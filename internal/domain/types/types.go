// Package types contains common types used across the application
package types

// Message is the body of a successful roster mutation.
type Message struct {
	Message string `json:"message"`
}

// Problem is the body of a rejected request.
type Problem struct {
	Detail string `json:"detail"`
}

// Health is the body of GET /healthz.
type Health struct {
	Status string `json:"status"`
}
