package catalog

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// Number is a JSON scalar that vendor feeds deliver inconsistently: either
// a plain number (134999) or a numeric string with thousands separators
// ("132,499"). Missing, null, and non-numeric values unmarshal to an
// invalid Number rather than an error; callers decide how to treat them.
type Number struct {
	value float64
	valid bool
}

// NewNumber returns a valid Number holding v
func NewNumber(v float64) Number {
	return Number{value: v, valid: true}
}

// Float returns the numeric value and whether it is present and finite
func (n Number) Float() (float64, bool) {
	return n.value, n.valid
}

// IsValid reports whether the value parsed to a finite number
func (n Number) IsValid() bool {
	return n.valid
}

// UnmarshalJSON accepts numbers, separator-bearing numeric strings, and
// null. Anything unparseable yields an invalid Number, not an error:
// a malformed vendor field must never fail the whole product record.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}

	s := string(bytes.TrimSpace(data))
	if s == "" || s == "null" {
		return nil
	}

	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) >= 2 {
		s = s[1 : len(s)-1]
	}

	// Thousands separators ("1,32,499" and "132,499" both occur in feeds)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// ParseFloat also accepts "Inf" and "NaN"; a feed value like that is
	// garbage, not a price, and must stay invalid.
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}

	n.value = v
	n.valid = true
	return nil
}

// MarshalJSON renders a valid Number as a plain JSON number and an
// invalid one as null
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.value, 'f', -1, 64)), nil
}

// String formats the value without trailing zeros, or "" when invalid
func (n Number) String() string {
	if !n.valid {
		return ""
	}
	return strconv.FormatFloat(n.value, 'f', -1, 64)
}
