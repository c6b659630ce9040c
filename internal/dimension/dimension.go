package dimension

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Conversion constants: 1 inch = 25.4 mm = 2.54 cm; 1 m = 39.3701 in.
const (
	mmPerInch      = 25.4
	cmPerInch      = 2.54
	inchesPerMeter = 39.3701
)

var (
	feetRe = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*(?:ft|feet|')`)
	inchRe = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*(?:in|inch|inches|")`)
	unitRe = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*(mm|millimeters?|cm|centimeters?|m|meters?|in|inch|inches)?$`)
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Parse converts a free-text dimension into canonical inches rounded to two
// decimal places. Empty input is not an error; it yields a nil value meaning
// the dimension is unset. Accepted forms: bare number (inches), "NNin"/`NN"`,
// "NNft"/"NN'" optionally combined with an inches term, or a bare number with
// a metric suffix (mm, cm, m).
func Parse(input string) (*float64, error) {
	raw := strings.ToLower(strings.TrimSpace(input))
	if raw == "" {
		return nil, nil
	}
	compact := strings.ReplaceAll(raw, ",", "")

	feetMatch := feetRe.FindStringSubmatch(compact)
	inchMatch := inchRe.FindStringSubmatch(compact)

	if feetMatch != nil || inchMatch != nil {
		var feet, inches float64
		if feetMatch != nil {
			feet, _ = strconv.ParseFloat(feetMatch[1], 64)
		}
		if inchMatch != nil {
			inches, _ = strconv.ParseFloat(inchMatch[1], 64)
		}
		if !isValid(feet) || !isValid(inches) {
			return nil, fmt.Errorf("invalid dimension: %s", input)
		}
		v := round2(feet*12 + inches)
		return &v, nil
	}

	unitMatch := unitRe.FindStringSubmatch(compact)
	if unitMatch == nil {
		return nil, fmt.Errorf("invalid dimension: %s", input)
	}

	value, _ := strconv.ParseFloat(unitMatch[1], 64)
	if !isValid(value) {
		return nil, fmt.Errorf("invalid dimension: %s", input)
	}

	inches := value
	switch unit := unitMatch[2]; {
	case strings.HasPrefix(unit, "mm") || strings.HasPrefix(unit, "millimeter"):
		inches = value / mmPerInch
	case strings.HasPrefix(unit, "cm") || strings.HasPrefix(unit, "centimeter"):
		inches = value / cmPerInch
	case unit == "m" || strings.HasPrefix(unit, "meter"):
		inches = value * inchesPerMeter
	}

	v := round2(inches)
	return &v, nil
}

// Validate checks a numeric-typed dimension that bypasses the text grammar.
func Validate(v float64) error {
	if !isValid(v) {
		return fmt.Errorf("invalid dimension: %v", v)
	}
	return nil
}

func isValid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// FormatInches renders one axis for display: "-" for unset, an integer
// followed by " in" when the rounded value has no fractional part, otherwise
// two decimal places.
func FormatInches(v *float64) string {
	if v == nil {
		return "-"
	}
	rounded := round2(*v)
	if rounded == math.Trunc(rounded) {
		return fmt.Sprintf("%d in", int64(rounded))
	}
	return fmt.Sprintf("%.2f in", rounded)
}

// FormatCaseDimensions composes the 3-axis display string, or the "Not set"
// sentinel when no axis is set.
func FormatCaseDimensions(lengthIn, widthIn, heightIn *float64) string {
	if lengthIn == nil && widthIn == nil && heightIn == nil {
		return "Not set"
	}
	return fmt.Sprintf("%s x %s x %s", FormatInches(lengthIn), FormatInches(widthIn), FormatInches(heightIn))
}
