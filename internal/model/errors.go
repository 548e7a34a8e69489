package model

import "errors"

// Common errors used across the application
var (
	// Encounter errors
	ErrEncounterNotFound = errors.New("encounter not found")
	ErrInvalidEncounter  = errors.New("invalid encounter")

	// Entity errors
	ErrEntityNotFound = errors.New("entity not found")
)
