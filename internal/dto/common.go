package dto

import "github.com/go-playground/validator/v10"

// Validate checks request DTOs against their struct tags. Shared across
// handlers; validator instances cache struct metadata and are safe for
// concurrent use.
var Validate = validator.New()

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
