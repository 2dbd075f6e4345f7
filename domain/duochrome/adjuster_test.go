package duochrome

import (
	"math"
	"testing"

	"gorefract/internal/errors"
)

func TestInterpretDirection(t *testing.T) {
	tests := []struct {
		name      string
		red       bool
		green     bool
		equal     bool
		expected  int
		expectErr bool
	}{
		{"equal clarity", false, false, true, 0, false},
		{"red clearer", true, false, false, -1, false},
		{"green clearer", false, true, false, 1, false},
		{"nothing selected", false, false, false, 0, true},
	}

	for _, test := range tests {
		direction, err := InterpretDirection(test.red, test.green, test.equal)
		if test.expectErr {
			if err == nil {
				t.Errorf("%s: expected error, got direction %d", test.name, direction)
			} else if errors.GetCode(err) != errors.CodeInvalidDuochromeInput {
				t.Errorf("%s: error code = %s, expected %s", test.name, errors.GetCode(err), errors.CodeInvalidDuochromeInput)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if direction != test.expected {
			t.Errorf("%s: direction = %d, expected %d", test.name, direction, test.expected)
		}
	}
}

func TestIntensityFactor(t *testing.T) {
	tests := []struct {
		level    int
		expected float64
	}{
		{1, 0.25},
		{2, 0.5},
		{3, 0.75},
		{4, 1.0},
		{5, 1.25},
		// Out-of-range levels fall back leniently
		{0, 0.5},
		{6, 0.5},
		{-3, 0.5},
	}

	for _, test := range tests {
		if factor := IntensityFactor(test.level); factor != test.expected {
			t.Errorf("IntensityFactor(%d) = %v, expected %v", test.level, factor, test.expected)
		}
	}
}

func TestPredictAdjustment(t *testing.T) {
	tests := []struct {
		name     string
		resp     Response
		expected float64
	}{
		{"red at level 3", Response{RedClearer: true, IntensityLevel: 3}, -0.25},
		{"green at level 4", Response{GreenClearer: true, IntensityLevel: 4}, 0.25},
		{"green at level 5", Response{GreenClearer: true, IntensityLevel: 5}, 0.25},
		// 0.5 * 0.25 = 0.125 D; *4 = 0.5 rounds to even, so the grid snaps it to zero
		{"green at level 2", Response{GreenClearer: true, IntensityLevel: 2}, 0.0},
		{"red at level 1", Response{RedClearer: true, IntensityLevel: 1}, 0.0},
		{"equal clarity", Response{EqualClarity: true, IntensityLevel: 5}, 0.0},
		{"unknown level uses fallback", Response{RedClearer: true, IntensityLevel: 9}, 0.0},
	}

	for _, test := range tests {
		adjustment, err := PredictAdjustment(test.resp)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if adjustment != test.expected {
			t.Errorf("%s: adjustment = %v, expected %v", test.name, adjustment, test.expected)
		}
	}
}

func TestPredictAdjustmentAlwaysOnGrid(t *testing.T) {
	for level := 1; level <= 5; level++ {
		for _, resp := range []Response{
			{RedClearer: true, IntensityLevel: level},
			{GreenClearer: true, IntensityLevel: level},
			{EqualClarity: true, IntensityLevel: level},
		} {
			adjustment, err := PredictAdjustment(resp)
			if err != nil {
				t.Fatalf("level %d: unexpected error: %v", level, err)
			}
			if adjustment < -1.25 || adjustment > 1.25 {
				t.Errorf("level %d: adjustment %v outside [-1.25, 1.25]", level, adjustment)
			}
			if remainder := math.Mod(adjustment*4, 1); remainder != 0 {
				t.Errorf("level %d: adjustment %v not on the 0.25 D grid", level, adjustment)
			}
		}
	}
}

func TestPredictAdjustmentRejectsEmptyResponse(t *testing.T) {
	_, err := PredictAdjustment(Response{IntensityLevel: 3})
	if err == nil {
		t.Fatal("expected error for response without clarity selection")
	}
	if errors.GetCode(err) != errors.CodeInvalidDuochromeInput {
		t.Errorf("error code = %s, expected %s", errors.GetCode(err), errors.CodeInvalidDuochromeInput)
	}
}

func TestResponseValidate(t *testing.T) {
	tests := []struct {
		name      string
		resp      Response
		expectErr bool
	}{
		{"single selection", Response{RedClearer: true}, false},
		{"none", Response{}, true},
		{"two selections", Response{RedClearer: true, GreenClearer: true}, true},
		{"all three", Response{RedClearer: true, GreenClearer: true, EqualClarity: true}, true},
	}

	for _, test := range tests {
		err := test.resp.Validate()
		if test.expectErr && err == nil {
			t.Errorf("%s: expected validation error", test.name)
		}
		if !test.expectErr && err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
		}
	}
}

func TestLogMAR(t *testing.T) {
	tests := []struct {
		name        string
		numerator   float64
		denominator float64
		letters     int
		expected    float64
	}{
		{"6/6", 6, 6, 0, 0.0},
		{"6/12", 6, 12, 0, 0.3},
		{"6/60", 6, 60, 0, 1.0},
		{"6/9 with one letter", 6, 9, 1, 0.16},
		{"6/12 with five letters", 6, 12, 5, 0.2},
	}

	for _, test := range tests {
		logmar := LogMAR(test.numerator, test.denominator, test.letters)
		if math.Abs(logmar-test.expected) > 1e-9 {
			t.Errorf("%s: LogMAR = %v, expected %v", test.name, logmar, test.expected)
		}
	}
}
