package acuity

import (
	"strconv"
	"strings"

	"gorefract/internal/errors"
)

// Clinical shorthand tokens mapped to fixed decimal acuity constants.
// NPL/PL/CF/HM are the standard low-vision notations; Pass/Fail come from
// screening datasets where the examiner records only whether the 6/12 line
// was read.
var shorthand = map[string]float64{
	"NPL":  0.0, // no perception of light
	"PL":   0.05,
	"CF":   0.1, // counting fingers
	"HM":   0.2, // hand movement
	"Pass": 1.0,
	"Fail": 0.5,
}

// snellenBand is one row of the descending band table.
type snellenBand struct {
	threshold float64
	label     string
}

// Inclusive lower bounds, highest band wins.
var bands = []snellenBand{
	{1.0, "6/6"},
	{0.8, "6/7.5"},
	{0.67, "6/9"},
	{0.5, "6/12"},
	{0.33, "6/18"},
	{0.25, "6/24"},
	{0.1, "6/60"},
}

// ToDecimal converts a Snellen fraction or clinical shorthand token to a
// decimal acuity value. Known tokens map to fixed constants; anything else
// must parse as "N/D" with D > 0.
func ToDecimal(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)

	if decimal, ok := shorthand[trimmed]; ok {
		return decimal, nil
	}

	if !strings.Contains(trimmed, "/") {
		return 0, errors.InvalidAcuityFormat(value)
	}

	parts := strings.SplitN(trimmed, "/", 2)
	numerator, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, errors.InvalidAcuityFormat(value)
	}
	denominator, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, errors.InvalidAcuityFormat(value)
	}
	if denominator <= 0 {
		return 0, errors.InvalidAcuityFormat(value)
	}

	return numerator / denominator, nil
}

// ToSnellenBand maps a continuous decimal acuity to one of eight discrete
// Snellen bands. Band lower bounds are inclusive; the first matching band
// from the top wins, so 0.5 is "6/12", not "6/18".
func ToSnellenBand(decimal float64) string {
	for _, band := range bands {
		if decimal >= band.threshold {
			return band.label
		}
	}
	return "<6/60"
}
