package prescription

import (
	"math"
)

// GridStep is the quarter-diopter grid every emitted prescription snaps to.
const GridStep = 0.25

// Confidence labels agreement between the baseline model and the
// duochrome-implied estimate.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Disagreement thresholds in diopters separating the confidence labels.
// Clinical judgment values; kept as named constants so callers can surface
// them in configuration.
const (
	HighConfidenceThreshold   = 0.5
	MediumConfidenceThreshold = 1.0
)

// Quantize snaps a raw diopter value to the nearest quarter diopter.
// Ties round to even (banker's rounding of x*4), matching the legacy
// behavior this engine was calibrated against.
func Quantize(x float64) float64 {
	return math.RoundToEven(x*4) / 4
}

// ConfidenceFor labels the disagreement between two implied prescription
// estimates: under 0.5 D apart is High, under 1.0 D is Medium, else Low.
func ConfidenceFor(baseline, duochromeImplied float64) Confidence {
	difference := math.Abs(baseline - duochromeImplied)
	switch {
	case difference < HighConfidenceThreshold:
		return ConfidenceHigh
	case difference < MediumConfidenceThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// EyeResult is the per-eye output of a combined prediction. Constructed once
// per call and never mutated.
type EyeResult struct {
	Prescription        float64    `json:"prescription"`
	BaselinePrediction  float64    `json:"baseline_prediction"`
	DuochromeAdjustment float64    `json:"duochrome_adjustment"`
	Confidence          Confidence `json:"confidence"`
	SnellenBand         string     `json:"snellen_band"`
	LogMAR              float64    `json:"logmar"`
}

// Weights is the normalized (snellen, duochrome) weight pair used to blend
// the two estimates. Always sums to 1.
type Weights struct {
	Snellen   float64 `json:"snellen"`
	Duochrome float64 `json:"duochrome"`
}

// Default blending weights, favoring the regression baseline over the
// duochrome refinement.
const (
	DefaultSnellenWeight   = 0.7
	DefaultDuochromeWeight = 0.3
)

// NormalizeWeights divides both weights by their sum so they total 1,
// accepting unnormalized input like (1, 1). A degenerate pair with no
// positive total cannot be normalized and falls back to the defaults.
func NormalizeWeights(snellen, duochrome float64) Weights {
	total := snellen + duochrome
	if total <= 0 {
		return Weights{
			Snellen:   DefaultSnellenWeight,
			Duochrome: DefaultDuochromeWeight,
		}
	}
	return Weights{
		Snellen:   snellen / total,
		Duochrome: duochrome / total,
	}
}

// Combine blends a baseline estimate with the duochrome-implied estimate
// using the weighted form w_s*baseline + w_d*(baseline+adjustment). The form
// is kept as written rather than simplified to baseline + w_d*adjustment so
// quantization order stays faithful: rounding happens on this raw value,
// never on intermediates.
func (w Weights) Combine(baseline, adjustment float64) float64 {
	raw := w.Snellen*baseline + w.Duochrome*(baseline+adjustment)
	return Quantize(raw)
}
