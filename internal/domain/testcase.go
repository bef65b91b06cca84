package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ValidationMode selects how actual output is compared with the expected output
type ValidationMode string

const (
	ModeExactMatch       ValidationMode = "exact_match"
	ModeNumericTolerance ValidationMode = "numeric_tolerance"
	ModeRegexMatch       ValidationMode = "regex_match"
	ModeCustomFunction   ValidationMode = "custom_function"
	ModeJSONDeepEqual    ValidationMode = "json_deep_equal"
	ModeArrayUnordered   ValidationMode = "array_unordered"
)

var validationModes = map[ValidationMode]struct{}{
	ModeExactMatch:       {},
	ModeNumericTolerance: {},
	ModeRegexMatch:       {},
	ModeCustomFunction:   {},
	ModeJSONDeepEqual:    {},
	ModeArrayUnordered:   {},
}

func (m ValidationMode) IsValid() bool {
	_, ok := validationModes[m]
	return ok
}

// TestCaseKind is informational only, it never changes grading
type TestCaseKind string

const (
	KindBasic       TestCaseKind = "basic"
	KindEdgeCase    TestCaseKind = "edge_case"
	KindPerformance TestCaseKind = "performance"
	KindHidden      TestCaseKind = "hidden"
	KindSample      TestCaseKind = "sample"
)

func (k TestCaseKind) IsValid() bool {
	switch k {
	case KindBasic, KindEdgeCase, KindPerformance, KindHidden, KindSample:
		return true
	}
	return false
}

const (
	DefaultTolerance     = 1e-9
	DefaultTimeoutMs     = 5000
	DefaultMemoryLimitMB = 128
)

// ValidationConfig holds per test case comparison and resource settings
type ValidationConfig struct {
	Tolerance        *float64 `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	IgnoreCase       bool     `json:"ignoreCase" yaml:"ignoreCase"`
	IgnoreWhitespace bool     `json:"ignoreWhitespace" yaml:"ignoreWhitespace"`
	RegexPattern     string   `json:"regexPattern,omitempty" yaml:"regexPattern,omitempty"`
	TimeoutMs        int      `json:"timeoutMs" yaml:"timeoutMs"`
	MemoryLimitMB    int      `json:"memoryLimitMB" yaml:"memoryLimitMB"`
}

// EffectiveTolerance returns the configured tolerance or DefaultTolerance
func (c ValidationConfig) EffectiveTolerance() float64 {
	if c.Tolerance == nil {
		return DefaultTolerance
	}
	return *c.Tolerance
}

// WithDefaults fills unset limits. Negative values are kept so Validate can reject them.
func (c ValidationConfig) WithDefaults() ValidationConfig {
	if c.TimeoutMs == 0 {
		c.TimeoutMs = DefaultTimeoutMs
	}
	if c.MemoryLimitMB == 0 {
		c.MemoryLimitMB = DefaultMemoryLimitMB
	}
	return c
}

// Value stores the config as a jsonb column
func (c ValidationConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *ValidationConfig) Scan(src any) error {
	var data []byte
	switch t := src.(type) {
	case nil:
		*c = ValidationConfig{}
		return nil
	case []byte:
		data = t
	case string:
		data = []byte(t)
	default:
		return fmt.Errorf("cannot scan %T into ValidationConfig", src)
	}
	return json.Unmarshal(data, c)
}

// TestCase is one graded scenario of a puzzle
type TestCase struct {
	ID             uuid.UUID        `db:"id" json:"id" yaml:"id"`
	PuzzleID       uuid.UUID        `db:"puzzle_id" json:"puzzleId" yaml:"puzzleId"`
	Name           string           `db:"name" json:"name" yaml:"name"`
	Description    string           `db:"description" json:"description" yaml:"description"`
	Kind           TestCaseKind     `db:"kind" json:"kind" yaml:"kind"`
	Mode           ValidationMode   `db:"validation_mode" json:"validationMode" yaml:"validationMode"`
	Input          Value            `db:"input" json:"input" yaml:"input"`
	ExpectedOutput Value            `db:"expected_output" json:"expectedOutput" yaml:"expectedOutput"`
	Config         ValidationConfig `db:"validation_config" json:"validationConfig" yaml:"validationConfig"`
	Weight         float64          `db:"weight" json:"weight" yaml:"weight"`
	IsActive       bool             `db:"is_active" json:"isActive" yaml:"isActive"`
	IsHidden       bool             `db:"is_hidden" json:"isHidden" yaml:"isHidden"`
	IsSample       bool             `db:"is_sample" json:"isSample" yaml:"isSample"`
	ExecutionOrder int              `db:"execution_order" json:"executionOrder" yaml:"executionOrder"`
	CreatedAt      time.Time        `db:"created_at" json:"createdAt" yaml:"createdAt"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updatedAt" yaml:"updatedAt"`
}

// Validate checks the invariants a test case must hold before it is stored or graded.
// Callers wrap the result with errs.ErrInvalidTestCase.
func (tc *TestCase) Validate() error {
	if math.IsNaN(tc.Weight) || math.IsInf(tc.Weight, 0) {
		return fmt.Errorf("weight must be finite, got %v", tc.Weight)
	}
	if tc.Weight < 0 {
		return fmt.Errorf("weight must not be negative, got %v", tc.Weight)
	}
	if !tc.Mode.IsValid() {
		return fmt.Errorf("unknown validation mode %q", tc.Mode)
	}
	if tc.Kind != "" && !tc.Kind.IsValid() {
		return fmt.Errorf("unknown test case kind %q", tc.Kind)
	}
	if tc.Config.TimeoutMs < 1 {
		return fmt.Errorf("timeoutMs must be at least 1, got %d", tc.Config.TimeoutMs)
	}
	if tc.Config.MemoryLimitMB < 1 {
		return fmt.Errorf("memoryLimitMB must be at least 1, got %d", tc.Config.MemoryLimitMB)
	}
	if tol := tc.Config.Tolerance; tol != nil && (*tol < 0 || math.IsNaN(*tol)) {
		return fmt.Errorf("tolerance must not be negative, got %v", *tol)
	}
	if tc.Mode == ModeRegexMatch && tc.Config.RegexPattern != "" {
		if _, err := regexp.Compile(tc.Config.RegexPattern); err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
	}
	return nil
}

// SortTestCases orders test cases by execution order, then creation time, then id.
func SortTestCases(tcs []*TestCase) {
	sort.SliceStable(tcs, func(i, j int) bool {
		a, b := tcs[i], tcs[j]
		if a.ExecutionOrder != b.ExecutionOrder {
			return a.ExecutionOrder < b.ExecutionOrder
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}

type TestCaseTable struct {
	ID               string
	PuzzleID         string
	Name             string
	Description      string
	Kind             string
	ValidationMode   string
	Input            string
	ExpectedOutput   string
	ValidationConfig string
	Weight           string
	IsActive         string
	IsHidden         string
	IsSample         string
	ExecutionOrder   string
	CreatedAt        string
	UpdatedAt        string
}

func GetTestCaseTable() TestCaseTable {
	return TestCaseTable{
		ID:               "id",
		PuzzleID:         "puzzle_id",
		Name:             "name",
		Description:      "description",
		Kind:             "kind",
		ValidationMode:   "validation_mode",
		Input:            "input",
		ExpectedOutput:   "expected_output",
		ValidationConfig: "validation_config",
		Weight:           "weight",
		IsActive:         "is_active",
		IsHidden:         "is_hidden",
		IsSample:         "is_sample",
		ExecutionOrder:   "execution_order",
		CreatedAt:        "created_at",
		UpdatedAt:        "updated_at",
	}
}

func (TestCaseTable) TableName() string {
	return "test_cases"
}

// Columns lists every column in struct order
func (t TestCaseTable) Columns() []string {
	return []string{
		t.ID, t.PuzzleID, t.Name, t.Description, t.Kind, t.ValidationMode, t.Input,
		t.ExpectedOutput, t.ValidationConfig, t.Weight, t.IsActive, t.IsHidden, t.IsSample,
		t.ExecutionOrder, t.CreatedAt, t.UpdatedAt,
	}
}
