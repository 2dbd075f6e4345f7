package estimator

import (
	"math"
	"time"

	"gorefract/internal/errors"

	montstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// ModelArtifact is the persisted form of a fitted baseline model: the OLS
// coefficients plus fit diagnostics. Immutable after training.
type ModelArtifact struct {
	Eye         string      `json:"eye"`
	Intercept   float64     `json:"intercept"`
	Slope       float64     `json:"slope"`
	SampleCount int         `json:"sample_count"`
	Diagnostics Diagnostics `json:"diagnostics"`
	TrainedAt   time.Time   `json:"trained_at"`
}

// Diagnostics summarizes fit quality on the training sample.
type Diagnostics struct {
	RMSE     float64 `json:"rmse"`
	MAE      float64 `json:"mae"`
	RSquared float64 `json:"r_squared"`
}

// LinearModel is a fitted univariate regression mapping decimal acuity to a
// baseline prescription. Satisfies the BaselineEstimator port.
type LinearModel struct {
	artifact ModelArtifact
}

// NewLinearModel wraps a trained artifact as a usable estimator.
func NewLinearModel(artifact ModelArtifact) *LinearModel {
	return &LinearModel{artifact: artifact}
}

// Predict returns the baseline prescription estimate for a decimal acuity.
func (m *LinearModel) Predict(decimalAcuity float64) (float64, error) {
	return m.artifact.Intercept + m.artifact.Slope*decimalAcuity, nil
}

// Artifact returns a copy of the fitted parameters.
func (m *LinearModel) Artifact() ModelArtifact {
	return m.artifact
}

// FitOLS fits an ordinary least squares line through (acuity, prescription)
// samples for one eye. Requires at least two samples with distinct acuities.
func FitOLS(eye string, acuities, prescriptions []float64) (*LinearModel, error) {
	if len(acuities) != len(prescriptions) {
		return nil, errors.InternalError("acuity and prescription sample counts differ")
	}
	if len(acuities) < 2 {
		return nil, errors.New(errors.CodeInternalError, "need at least two samples to fit a baseline model")
	}

	alpha, beta := stat.LinearRegression(acuities, prescriptions, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return nil, errors.New(errors.CodeInternalError, "degenerate training sample: acuity values have no variance")
	}

	artifact := ModelArtifact{
		Eye:         eye,
		Intercept:   alpha,
		Slope:       beta,
		SampleCount: len(acuities),
		Diagnostics: computeDiagnostics(alpha, beta, acuities, prescriptions),
		TrainedAt:   time.Now().UTC(),
	}
	return NewLinearModel(artifact), nil
}

// computeDiagnostics evaluates the fitted line against its training sample.
func computeDiagnostics(alpha, beta float64, acuities, prescriptions []float64) Diagnostics {
	residuals := make([]float64, len(acuities))
	absResiduals := make([]float64, len(acuities))
	squared := make([]float64, len(acuities))
	for i, x := range acuities {
		r := prescriptions[i] - (alpha + beta*x)
		residuals[i] = r
		absResiduals[i] = math.Abs(r)
		squared[i] = r * r
	}

	meanSquared, _ := montstats.Mean(squared)
	mae, _ := montstats.Mean(absResiduals)

	rSquared := stat.RSquaredFrom(predictAll(alpha, beta, acuities), prescriptions, nil)

	return Diagnostics{
		RMSE:     math.Sqrt(meanSquared),
		MAE:      mae,
		RSquared: rSquared,
	}
}

func predictAll(alpha, beta float64, acuities []float64) []float64 {
	estimates := make([]float64, len(acuities))
	for i, x := range acuities {
		estimates[i] = alpha + beta*x
	}
	return estimates
}
