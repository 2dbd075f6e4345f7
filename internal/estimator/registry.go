package estimator

import (
	"sync/atomic"

	"gorefract/internal/errors"
)

// ModelPair holds the fitted models for both eyes. Swapped as a unit so a
// reload never exposes one retrained eye alongside a stale one.
type ModelPair struct {
	RightEye *LinearModel
	LeftEye  *LinearModel
}

// Registry owns the currently loaded model pair. Reads are lock-free;
// Swap replaces the whole pair atomically under a single-writer discipline
// (the training command is the only writer).
type Registry struct {
	current atomic.Pointer[ModelPair]
}

// NewRegistry creates an empty registry. Predictions fail with
// MODEL_UNAVAILABLE until Swap installs a fitted pair.
func NewRegistry() *Registry {
	return &Registry{}
}

// Swap atomically installs a new model pair. Both models must be present.
func (r *Registry) Swap(pair *ModelPair) error {
	if pair == nil || pair.RightEye == nil || pair.LeftEye == nil {
		return errors.ModelUnavailable("model pair is incomplete: both eyes must be fitted")
	}
	r.current.Store(pair)
	return nil
}

// RightEye returns the fitted right-eye estimator.
func (r *Registry) RightEye() (*LinearModel, error) {
	pair := r.current.Load()
	if pair == nil {
		return nil, errors.ModelUnavailable("baseline models not loaded: train the models first")
	}
	return pair.RightEye, nil
}

// LeftEye returns the fitted left-eye estimator.
func (r *Registry) LeftEye() (*LinearModel, error) {
	pair := r.current.Load()
	if pair == nil {
		return nil, errors.ModelUnavailable("baseline models not loaded: train the models first")
	}
	return pair.LeftEye, nil
}

// Loaded reports whether a model pair is installed.
func (r *Registry) Loaded() bool {
	return r.current.Load() != nil
}

// EyeEstimator resolves one eye's model from the registry at call time, so
// a swapped-in retrained pair is picked up by in-flight predictors without
// reconstruction.
type EyeEstimator struct {
	registry *Registry
	right    bool
}

// RightEstimator returns a live estimator view of the right-eye model.
func (r *Registry) RightEstimator() *EyeEstimator {
	return &EyeEstimator{registry: r, right: true}
}

// LeftEstimator returns a live estimator view of the left-eye model.
func (r *Registry) LeftEstimator() *EyeEstimator {
	return &EyeEstimator{registry: r, right: false}
}

// Predict returns the baseline prescription for a decimal acuity, failing
// with MODEL_UNAVAILABLE when no pair is loaded.
func (e *EyeEstimator) Predict(decimalAcuity float64) (float64, error) {
	var model *LinearModel
	var err error
	if e.right {
		model, err = e.registry.RightEye()
	} else {
		model, err = e.registry.LeftEye()
	}
	if err != nil {
		return 0, err
	}
	return model.Predict(decimalAcuity)
}
