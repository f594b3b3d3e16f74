package server

import (
	"github.com/finadvisor/retirement-forecast/internal/calculation"
	"github.com/finadvisor/retirement-forecast/internal/domain"
)

// CalculationRequest is the body of every calculation endpoint.
type CalculationRequest struct {
	Inputs     domain.UserInputs             `json:"inputs"`
	MonteCarlo *calculation.MonteCarloConfig `json:"monte_carlo,omitempty"`
}

type CalculationResponse struct {
	CalculationMetadata CalculationMetadata `json:"calculation_metadata"`
	CalculationResult   any                 `json:"calculation_result"`
}

type CalculationMetadata struct {
	CalculationID          string `json:"calculation_id"`
	CalculationType        string `json:"calculation_type"`
	CalculationStartedAt   string `json:"calculation_started_at"`
	CalculationCompletedAt string `json:"calculation_completed_at"`
	CalculationDurationMs  int64  `json:"calculation_duration_ms"`
	CalculationOutcome     string `json:"calculation_outcome"`
}

// ProjectionResult pairs the stable metrics map with the full breakdown.
type ProjectionResult struct {
	Metrics    map[string]float64 `json:"metrics"`
	Projection *domain.Projection `json:"projection"`
}

type ExplanationResult struct {
	Explanation string `json:"explanation"`
}

// ErrorResponse is returned with every non-2xx status. Failed calculations
// also carry their metadata with a FAILURE outcome.
type ErrorResponse struct {
	Status              int                  `json:"status"`
	Message             string               `json:"message"`
	CalculationMetadata *CalculationMetadata `json:"calculation_metadata,omitempty"`
}

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)
