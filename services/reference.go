package services

import "github.com/google/uuid"

// NewOrderReference returns a fresh order reference shared by every order of one checkout
func NewOrderReference() string {
	return uuid.NewString()
}
