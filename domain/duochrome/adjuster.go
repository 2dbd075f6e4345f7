package duochrome

import (
	"math"

	"gorefract/domain/prescription"
	"gorefract/internal/errors"
)

// BaseStep is the fixed duochrome interval in diopters. One full-intensity
// response moves the sphere estimate by at most this much before scaling.
const BaseStep = 0.25

// DefaultIntensityFactor is applied when the reported intensity level falls
// outside the 1-5 ordinal scale. Lenient by inherited behavior; see DESIGN.md.
const DefaultIntensityFactor = 0.5

// intensityFactors maps the ordinal 1-5 intensity level to a scaling factor.
var intensityFactors = map[int]float64{
	1: 0.25,
	2: 0.5,
	3: 0.75,
	4: 1.0,
	5: 1.25,
}

// Response holds one eye's duochrome test result. Exactly one of the three
// clarity flags must be set.
type Response struct {
	RedClearer     bool `json:"red_clearer"`
	GreenClearer   bool `json:"green_clearer"`
	EqualClarity   bool `json:"equal_clarity"`
	IntensityLevel int  `json:"intensity_level"`
	LettersCorrect int  `json:"letters_correct"`
}

// SelectionCount returns how many of the three clarity flags are set.
func (r Response) SelectionCount() int {
	count := 0
	if r.RedClearer {
		count++
	}
	if r.GreenClearer {
		count++
	}
	if r.EqualClarity {
		count++
	}
	return count
}

// Validate enforces the one-of-three clarity invariant without computing
// anything. Missing selection and multiple selections are distinct errors so
// callers can message them differently.
func (r Response) Validate() error {
	switch count := r.SelectionCount(); {
	case count == 0:
		return errors.InvalidDuochromeInput("no duochrome clarity option selected")
	case count > 1:
		return errors.InvalidDuochromeInput("duochrome clarity options are mutually exclusive")
	}
	return nil
}

// InterpretDirection converts the clarity flags to an adjustment direction:
// equal clarity means the eye sits on the duochrome crossover (0), red
// clearer means myopic overcorrection (-1, more minus), green clearer means
// more plus is needed (+1).
func InterpretDirection(redClearer, greenClearer, equalClarity bool) (int, error) {
	if equalClarity {
		return 0, nil
	}
	if redClearer {
		return -1, nil
	}
	if greenClearer {
		return 1, nil
	}
	return 0, errors.InvalidDuochromeInput("at least one of red clearer, green clearer or equal clarity must be set")
}

// IntensityFactor converts the reported intensity level to a scaling factor.
// Levels outside 1-5 fall back to DefaultIntensityFactor rather than failing.
func IntensityFactor(level int) float64 {
	if factor, ok := intensityFactors[level]; ok {
		return factor
	}
	return DefaultIntensityFactor
}

// PredictAdjustment computes the signed diopter adjustment implied by a
// duochrome response: direction x intensity x base step, quantized to the
// quarter-diopter grid.
func PredictAdjustment(resp Response) (float64, error) {
	direction, err := InterpretDirection(resp.RedClearer, resp.GreenClearer, resp.EqualClarity)
	if err != nil {
		return 0, err
	}

	adjustment := float64(direction) * IntensityFactor(resp.IntensityLevel) * BaseStep
	return prescription.Quantize(adjustment), nil
}

// LogMAR computes the LogMAR acuity refined by the letters-correct count:
// log10(D/N) - 0.02 per letter, rounded to two decimal places. Informational
// output only; it does not feed the adjustment.
func LogMAR(numerator, denominator float64, lettersCorrect int) float64 {
	logmar := math.Log10(denominator/numerator) - float64(lettersCorrect)*0.02
	return math.Round(logmar*100) / 100
}
