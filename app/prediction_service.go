package app

import (
	"strconv"
	"strings"

	"gorefract/domain/acuity"
	"gorefract/domain/duochrome"
	"gorefract/domain/prescription"
	"gorefract/internal/errors"
	"gorefract/ports"
)

// CombinedPredictor blends the fitted baseline model with the rule-based
// duochrome adjustment into a single calibrated prescription per eye.
// Stateless per call: the only fields are the fixed normalized weights and
// the injected read-only estimators, so concurrent predictions need no
// coordination.
type CombinedPredictor struct {
	weights  prescription.Weights
	rightEye ports.BaselineEstimator
	leftEye  ports.BaselineEstimator
}

// NewCombinedPredictor creates a predictor with the given blending weights.
// Weights are normalized to sum to 1 immediately, so (1, 1) behaves exactly
// like (0.5, 0.5).
func NewCombinedPredictor(snellenWeight, duochromeWeight float64, rightEye, leftEye ports.BaselineEstimator) *CombinedPredictor {
	return &CombinedPredictor{
		weights:  prescription.NormalizeWeights(snellenWeight, duochromeWeight),
		rightEye: rightEye,
		leftEye:  leftEye,
	}
}

// Weights returns the normalized weight pair in use.
func (p *CombinedPredictor) Weights() prescription.Weights {
	return p.weights
}

// EyeInput is the validated per-eye input produced by PrepareInput.
type EyeInput struct {
	SnellenNumerator   float64            `json:"snellen_numerator"`
	SnellenDenominator float64            `json:"snellen_denominator"`
	DecimalAcuity      float64            `json:"decimal_acuity"`
	Duochrome          duochrome.Response `json:"duochrome"`
}

// PredictionInput is a fully validated prediction request for both eyes.
// Only PrepareInput constructs these; external input must pass through that
// gate before reaching Predict.
type PredictionInput struct {
	RightEye EyeInput `json:"right_eye"`
	LeftEye  EyeInput `json:"left_eye"`
}

// CombinedPrediction is the engine's per-eye output for one request.
type CombinedPrediction struct {
	RightEye prescription.EyeResult `json:"right_eye"`
	LeftEye  prescription.EyeResult `json:"left_eye"`
}

// PrepareInput parses and validates raw clinical input for both eyes. All
// validation happens here, before any model call: a malformed Snellen
// fraction fails with INVALID_SNELLEN_FORMAT, a duochrome record with no
// clarity selection with MISSING_DUOCHROME_SELECTION, and one with multiple
// selections with INVALID_DUOCHROME_INPUT. The whole request is rejected on
// the first failure.
func (p *CombinedPredictor) PrepareInput(snellenRE, snellenLE string, duoRE, duoLE duochrome.Response) (*PredictionInput, error) {
	right, err := prepareEye("right", snellenRE, duoRE)
	if err != nil {
		return nil, err
	}
	left, err := prepareEye("left", snellenLE, duoLE)
	if err != nil {
		return nil, err
	}
	return &PredictionInput{RightEye: *right, LeftEye: *left}, nil
}

func prepareEye(eye, snellen string, duo duochrome.Response) (*EyeInput, error) {
	numerator, denominator, err := parseSnellenFraction(snellen)
	if err != nil {
		return nil, err
	}

	switch count := duo.SelectionCount(); {
	case count == 0:
		return nil, errors.MissingDuochromeSelection(eye)
	case count > 1:
		return nil, errors.InvalidDuochromeInput("duochrome clarity options are mutually exclusive for " + eye + " eye")
	}

	decimal, err := acuity.ToDecimal(snellen)
	if err != nil {
		return nil, errors.InvalidSnellenFormat(snellen)
	}

	return &EyeInput{
		SnellenNumerator:   numerator,
		SnellenDenominator: denominator,
		DecimalAcuity:      decimal,
		Duochrome:          duo,
	}, nil
}

// parseSnellenFraction extracts numerator and denominator from an "N/D"
// string. Shorthand tokens are not accepted here: the prediction gate needs
// the fraction itself for the LogMAR output.
func parseSnellenFraction(value string) (float64, float64, error) {
	trimmed := strings.TrimSpace(value)
	if !strings.Contains(trimmed, "/") {
		return 0, 0, errors.InvalidSnellenFormat(value)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	numerator, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, errors.InvalidSnellenFormat(value)
	}
	denominator, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, errors.InvalidSnellenFormat(value)
	}
	if numerator <= 0 || denominator <= 0 {
		return 0, 0, errors.InvalidSnellenFormat(value)
	}
	return numerator, denominator, nil
}

// Predict computes the combined prescription for both eyes independently.
// Per eye: baseline from the fitted model, adjustment from the duochrome
// rules, then the weighted blend quantized to the quarter-diopter grid.
// Confidence reflects how far the two models' implied estimates disagree.
func (p *CombinedPredictor) Predict(input *PredictionInput) (*CombinedPrediction, error) {
	if input == nil {
		return nil, errors.InternalError("prediction input is nil")
	}

	right, err := p.predictEye(p.rightEye, input.RightEye)
	if err != nil {
		return nil, err
	}
	left, err := p.predictEye(p.leftEye, input.LeftEye)
	if err != nil {
		return nil, err
	}

	return &CombinedPrediction{RightEye: *right, LeftEye: *left}, nil
}

func (p *CombinedPredictor) predictEye(est ports.BaselineEstimator, in EyeInput) (*prescription.EyeResult, error) {
	raw, err := est.Predict(in.DecimalAcuity)
	if err != nil {
		return nil, err
	}
	// The baseline is itself a prescription estimate, so it lands on the
	// quarter-diopter grid before blending.
	baseline := prescription.Quantize(raw)

	adjustment, err := duochrome.PredictAdjustment(in.Duochrome)
	if err != nil {
		return nil, err
	}

	combined := p.weights.Combine(baseline, adjustment)
	confidence := prescription.ConfidenceFor(baseline, baseline+adjustment)

	return &prescription.EyeResult{
		Prescription:        combined,
		BaselinePrediction:  baseline,
		DuochromeAdjustment: adjustment,
		Confidence:          confidence,
		SnellenBand:         acuity.ToSnellenBand(in.DecimalAcuity),
		LogMAR:              duochrome.LogMAR(in.SnellenNumerator, in.SnellenDenominator, in.Duochrome.LettersCorrect),
	}, nil
}
