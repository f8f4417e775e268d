package domain

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders a shift-count cell for a message body.
// Values that parse as whole numbers lose their decimal point ("3.0" → "3"),
// other numbers render in plain decimal form ("2.5" → "2.5"), NaN and
// infinities render as "nan", "inf" and "-inf", and anything else is
// returned unchanged along with a *NumericCoercionError.
func FormatNumber(field, value string) (string, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return value, &NumericCoercionError{Field: field, Value: value}
	}
	switch {
	case math.IsNaN(f):
		return "nan", nil
	case math.IsInf(f, 1):
		return "inf", nil
	case math.IsInf(f, -1):
		return "-inf", nil
	case f == 0:
		// Drops the sign of -0.
		return "0", nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}
