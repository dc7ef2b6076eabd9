package interfaces

import (
	"context"

	"github.com/m-mizutani/bosun/pkg/domain/model"
)

// ReleaseUseCase drives one complete release invocation.
type ReleaseUseCase interface {
	// Run executes the full pipeline for the given configuration.
	Run(ctx context.Context, cfg model.ReleaseConfig) error
}
