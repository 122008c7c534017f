package ownmap

import (
	"fmt"
	"strconv"
)

// PropertyString returns the property as text, the way it is compared against style category values.
// ok is false if the feature doesn't have the property, or it is null.
func (f *Feature) PropertyString(key string) (value string, ok bool) {
	raw, ok := f.Properties[key]
	if !ok || raw == nil {
		return "", false
	}

	switch v := raw.(type) {
	case string:
		return v, true
	case float64:
		// JSON numbers are decoded to float64; 3 must compare equal to "3"
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

// PropertyFloat returns the property as a number, if it is one (or a string holding one).
func (f *Feature) PropertyFloat(key string) (float64, bool) {
	raw, ok := f.Properties[key]
	if !ok || raw == nil {
		return 0, false
	}

	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return val, true
	default:
		return 0, false
	}
}
