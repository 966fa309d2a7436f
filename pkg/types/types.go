package types

import (
	"github.com/google/uuid"
)

// NewID generates a unique identifier for runs and navigation updates.
func NewID() string {
	return uuid.NewString()
}

// Common response types

type ErrorResponse struct {
	Error string `json:"error"`
}

// Auth types

type AuthRequest struct {
	Secret string `json:"secret" binding:"required"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}
