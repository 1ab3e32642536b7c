package markers

import (
	"math"
	"strconv"
	"strings"
)

// Grid bounds applied to the width property.
const (
	MinWidth = 1
	MaxWidth = 12
)

// Bool coerces a boolean-class attribute. A bare attribute means true,
// "true"/"false" are parsed, and anything else yields nil. Absent attributes
// never default to false.
func Bool(attr Attribute, present bool) *bool {
	if !present {
		return nil
	}
	switch attr.Kind {
	case ValueNone:
		return ptr(true)
	case ValueString, ValueLiteral:
		value := strings.TrimSpace(attr.Value)
		switch {
		case value == "":
			// HTML tokenizers report `required=""` and bare `required` the same way.
			return ptr(true)
		case strings.EqualFold(value, "true"):
			return ptr(true)
		case strings.EqualFold(value, "false"):
			return ptr(false)
		}
	}
	return nil
}

// Number coerces a numeric-class attribute. Unparsable or non-finite values
// yield nil.
func Number(attr Attribute, present bool) *float64 {
	if !present || !attr.Static() {
		return nil
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(attr.Value), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	return &value
}

// Width coerces the width property: a number inside the inclusive grid
// range. Out-of-range values are rejected, not clamped.
func Width(attr Attribute, present bool) *float64 {
	value := Number(attr, present)
	if value == nil || *value < MinWidth || *value > MaxWidth {
		return nil
	}
	return value
}

// String passes static values through verbatim. Bare attributes and dynamic
// expressions yield nil.
func String(attr Attribute, present bool) *string {
	if !present || !attr.Static() {
		return nil
	}
	value := attr.Value
	return &value
}

func ptr[T any](v T) *T {
	return &v
}
