package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyHistory = errors.New("history is empty")
	ErrUnordered    = errors.New("observations are not in chronological order")
	ErrInvalidPrice = errors.New("invalid clearing price")
)

// ValidateHistory checks the contract every consumer of a history relies on:
// at least one observation, non-decreasing timestamps and finite,
// non-negative prices. Errors name the offending row (1-based).
func ValidateHistory(history []Observation) error {
	if len(history) == 0 {
		return ErrEmptyHistory
	}
	for i, o := range history {
		if math.IsNaN(o.MCPKWh) || math.IsInf(o.MCPKWh, 0) || o.MCPKWh < 0 {
			return fmt.Errorf("row %d: %w: %v", i+1, ErrInvalidPrice, o.MCPKWh)
		}
		if i > 0 && o.Time.Before(history[i-1].Time) {
			return fmt.Errorf("row %d (%s %s): %w", i+1, o.Date, o.TimeBlock, ErrUnordered)
		}
	}
	return nil
}
