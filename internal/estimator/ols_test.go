package estimator

import (
	"testing"

	"gorefract/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitOLSRecoversLine(t *testing.T) {
	// Exact line: prescription = 1.5 - 4*acuity
	acuities := []float64{0.1, 0.25, 0.5, 0.67, 0.8, 1.0}
	prescriptions := make([]float64, len(acuities))
	for i, x := range acuities {
		prescriptions[i] = 1.5 - 4*x
	}

	model, err := FitOLS("RE", acuities, prescriptions)
	require.NoError(t, err)

	artifact := model.Artifact()
	assert.InDelta(t, 1.5, artifact.Intercept, 1e-9)
	assert.InDelta(t, -4.0, artifact.Slope, 1e-9)
	assert.Equal(t, len(acuities), artifact.SampleCount)
	assert.InDelta(t, 0, artifact.Diagnostics.RMSE, 1e-9)
	assert.InDelta(t, 0, artifact.Diagnostics.MAE, 1e-9)
	assert.InDelta(t, 1.0, artifact.Diagnostics.RSquared, 1e-9)

	prediction, err := model.Predict(0.5)
	require.NoError(t, err)
	assert.InDelta(t, -0.5, prediction, 1e-9)
}

func TestFitOLSRejectsBadSamples(t *testing.T) {
	_, err := FitOLS("RE", []float64{0.5}, []float64{1.0})
	assert.Error(t, err, "single sample must not fit")

	_, err = FitOLS("RE", []float64{0.5, 0.6}, []float64{1.0})
	assert.Error(t, err, "mismatched lengths must not fit")

	_, err = FitOLS("RE", []float64{0.5, 0.5, 0.5}, []float64{1.0, 2.0, 3.0})
	assert.Error(t, err, "zero-variance acuity must not fit")
}

func TestRegistryUnavailableUntilSwap(t *testing.T) {
	registry := NewRegistry()
	assert.False(t, registry.Loaded())

	_, err := registry.RightEstimator().Predict(0.5)
	require.Error(t, err)
	assert.Equal(t, errors.CodeModelUnavailable, errors.GetCode(err))

	_, err = registry.LeftEye()
	require.Error(t, err)
	assert.Equal(t, errors.CodeModelUnavailable, errors.GetCode(err))
}

func TestRegistrySwapInstallsPair(t *testing.T) {
	registry := NewRegistry()

	err := registry.Swap(&ModelPair{RightEye: nil, LeftEye: nil})
	require.Error(t, err, "incomplete pair must be rejected")

	right := NewLinearModel(ModelArtifact{Eye: "RE", Intercept: 1, Slope: -2})
	left := NewLinearModel(ModelArtifact{Eye: "LE", Intercept: 2, Slope: -3})
	require.NoError(t, registry.Swap(&ModelPair{RightEye: right, LeftEye: left}))
	assert.True(t, registry.Loaded())

	prediction, err := registry.RightEstimator().Predict(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, prediction, 1e-9)

	prediction, err = registry.LeftEstimator().Predict(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, prediction, 1e-9)

	// A swapped-in pair is picked up by estimators created earlier
	view := registry.RightEstimator()
	retrained := NewLinearModel(ModelArtifact{Eye: "RE", Intercept: 0, Slope: 1})
	require.NoError(t, registry.Swap(&ModelPair{RightEye: retrained, LeftEye: left}))

	prediction, err = view.Predict(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, prediction, 1e-9)
}
