package ports

import (
	"context"

	"gorefract/internal/estimator"
)

// BaselineEstimator is the prediction contract of the fitted acuity model.
// Implementations are deterministic and read-only after load: given a decimal
// acuity in (0,1] they return a continuous prescription estimate in diopters.
type BaselineEstimator interface {
	// Predict returns the baseline prescription for a decimal acuity.
	// Returns a MODEL_UNAVAILABLE error when no fitted model is loaded.
	Predict(decimalAcuity float64) (float64, error)
}

// ModelStore persists fitted model artifacts between training runs and
// process starts.
type ModelStore interface {
	// Save persists the artifact under the given eye key ("RE" or "LE").
	Save(ctx context.Context, eye string, artifact *estimator.ModelArtifact) error

	// Load retrieves the artifact for an eye. A missing or corrupt artifact
	// is a MODEL_UNAVAILABLE error, never a substituted default.
	Load(ctx context.Context, eye string) (*estimator.ModelArtifact, error)
}
