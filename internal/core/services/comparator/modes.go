package comparator

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"gitlab.com/answer-validator.net/internal/domain"
)

type exactMatch struct{}

func (exactMatch) sealed()                     {}
func (exactMatch) Mode() domain.ValidationMode { return domain.ModeExactMatch }

func (exactMatch) Compare(actual, expected domain.Value, cfg domain.ValidationConfig) bool {
	return normalizeText(actual.String(), cfg) == normalizeText(expected.String(), cfg)
}

func normalizeText(s string, cfg domain.ValidationConfig) string {
	if cfg.IgnoreWhitespace {
		s = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, s)
	}
	if cfg.IgnoreCase {
		s = strings.ToLower(s)
	}
	return s
}

type numericTolerance struct{}

func (numericTolerance) sealed()                     {}
func (numericTolerance) Mode() domain.ValidationMode { return domain.ModeNumericTolerance }

func (numericTolerance) Compare(actual, expected domain.Value, cfg domain.ValidationConfig) bool {
	a, e := actual.Number(), expected.Number()
	if math.IsNaN(a) || math.IsNaN(e) {
		return false
	}
	if math.IsInf(a, 0) || math.IsInf(e, 0) {
		return a == e
	}
	return math.Abs(a-e) <= cfg.EffectiveTolerance()
}

type regexMatch struct{}

func (regexMatch) sealed()                     {}
func (regexMatch) Mode() domain.ValidationMode { return domain.ModeRegexMatch }

func (regexMatch) Compare(actual, expected domain.Value, cfg domain.ValidationConfig) bool {
	pattern := cfg.RegexPattern
	if pattern == "" {
		pattern = expected.String()
	}
	if cfg.IgnoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(actual.String())
}

type jsonDeepEqual struct{}

func (jsonDeepEqual) sealed()                     {}
func (jsonDeepEqual) Mode() domain.ValidationMode { return domain.ModeJSONDeepEqual }

func (jsonDeepEqual) Compare(actual, expected domain.Value, _ domain.ValidationConfig) bool {
	a, ok := decodeJSONString(actual)
	if !ok {
		return false
	}
	e, ok := decodeJSONString(expected)
	if !ok {
		return false
	}
	return a.Canonical() == e.Canonical()
}

// decodeJSONString parses string values holding JSON documents. It reports
// false when a string is not valid JSON.
func decodeJSONString(v domain.Value) (domain.Value, bool) {
	s, ok := v.AsString()
	if !ok {
		return v, true
	}
	parsed, err := domain.ParseJSON([]byte(s))
	if err != nil {
		return domain.Value{}, false
	}
	return parsed, true
}

type arrayUnordered struct{}

func (arrayUnordered) sealed()                     {}
func (arrayUnordered) Mode() domain.ValidationMode { return domain.ModeArrayUnordered }

func (arrayUnordered) Compare(actual, expected domain.Value, _ domain.ValidationConfig) bool {
	a, ok := asArray(actual)
	if !ok {
		return false
	}
	e, ok := asArray(expected)
	if !ok {
		return false
	}
	if len(a) != len(e) {
		return false
	}
	a, e = sortedCopy(a), sortedCopy(e)
	for i := range a {
		if a[i].Canonical() != e[i].Canonical() {
			return false
		}
	}
	return true
}

func asArray(v domain.Value) ([]domain.Value, bool) {
	if items, ok := v.AsArray(); ok {
		return items, true
	}
	if _, ok := v.AsString(); ok {
		parsed, ok := decodeJSONString(v)
		if !ok {
			return nil, false
		}
		return parsed.AsArray()
	}
	return nil, false
}

func sortedCopy(items []domain.Value) []domain.Value {
	out := make([]domain.Value, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

// less is a total order: null < bool < number < string < array < object,
// then by value within a kind, containers by canonical text.
func less(a, b domain.Value) bool {
	if a.Kind() != b.Kind() {
		return a.Kind() < b.Kind()
	}
	switch a.Kind() {
	case domain.KindBool:
		ab, _ := a.AsBool()
		bb, _ := b.AsBool()
		return !ab && bb
	case domain.KindNumber:
		an, _ := a.AsNumber()
		bn, _ := b.AsNumber()
		return an < bn
	case domain.KindString:
		as, _ := a.AsString()
		bs, _ := b.AsString()
		return as < bs
	case domain.KindArray, domain.KindObject:
		return a.Canonical() < b.Canonical()
	default:
		return false
	}
}

// customFunction never runs validator code in-process. It grades like exact_match.
type customFunction struct{}

func (customFunction) sealed()                     {}
func (customFunction) Mode() domain.ValidationMode { return domain.ModeCustomFunction }

func (customFunction) Compare(actual, expected domain.Value, cfg domain.ValidationConfig) bool {
	return exactMatch{}.Compare(actual, expected, cfg)
}
