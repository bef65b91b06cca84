// Package comparator decides whether an actual output satisfies an expected output
// under one of the validation modes. Every function here is pure and total.
package comparator

import (
	"gitlab.com/answer-validator.net/internal/domain"
)

// Comparator compares one actual value against the expected value.
// The set of implementations is closed; use For to obtain one.
type Comparator interface {
	Mode() domain.ValidationMode
	Compare(actual, expected domain.Value, cfg domain.ValidationConfig) bool
	sealed()
}

var (
	_ Comparator = exactMatch{}
	_ Comparator = numericTolerance{}
	_ Comparator = regexMatch{}
	_ Comparator = jsonDeepEqual{}
	_ Comparator = arrayUnordered{}
	_ Comparator = customFunction{}
)

// For returns the comparator for mode, or nil and false for an unknown mode.
func For(mode domain.ValidationMode) (Comparator, bool) {
	switch mode {
	case domain.ModeExactMatch:
		return exactMatch{}, true
	case domain.ModeNumericTolerance:
		return numericTolerance{}, true
	case domain.ModeRegexMatch:
		return regexMatch{}, true
	case domain.ModeJSONDeepEqual:
		return jsonDeepEqual{}, true
	case domain.ModeArrayUnordered:
		return arrayUnordered{}, true
	case domain.ModeCustomFunction:
		return customFunction{}, true
	default:
		return nil, false
	}
}

// Compare runs the comparator for mode. It never panics: an unknown mode or
// any failure inside a comparator counts as a mismatch.
func Compare(mode domain.ValidationMode, actual, expected domain.Value, cfg domain.ValidationConfig) (ok bool) {
	c, found := For(mode)
	if !found {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return c.Compare(actual, expected, cfg)
}
