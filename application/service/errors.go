// Package service provides the application services that orchestrate
// generation, embedding, retrieval and grounded question answering.
package service

import (
	"fmt"

	"github.com/minddeck/minddeck/infrastructure/provider"
)

// GenerationError indicates a provider call succeeded at the transport
// level but produced an unusable response, or failed outright. Raw
// carries the offending completion text for diagnosis when parsing was
// the problem.
type GenerationError struct {
	Provider provider.Name
	Raw      string
	Err      error
}

// Error implements error.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (provider %s): %v", e.Provider, e.Err)
}

// Unwrap returns the wrapped error.
func (e *GenerationError) Unwrap() error { return e.Err }
