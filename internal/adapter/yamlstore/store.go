// package yamlstore loads puzzle test cases from YAML fixture files
package yamlstore

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"gitlab.com/answer-validator.net/internal/adapter/memory"
	"gitlab.com/answer-validator.net/internal/domain"
)

// Fixtures is the root of a fixture file
type Fixtures struct {
	Puzzles []PuzzleFixture `yaml:"puzzles"`
}

type PuzzleFixture struct {
	PuzzleID  uuid.UUID         `yaml:"puzzleId"`
	TestCases []TestCaseFixture `yaml:"testCases"`
}

// TestCaseFixture mirrors domain.TestCase. Unset fields get defaults:
// a name-derived id, exact_match, weight 1, active, and the list position as execution order.
type TestCaseFixture struct {
	ID             *uuid.UUID              `yaml:"id"`
	Name           string                  `yaml:"name"`
	Description    string                  `yaml:"description"`
	Kind           domain.TestCaseKind     `yaml:"kind"`
	Mode           domain.ValidationMode   `yaml:"validationMode"`
	Input          domain.Value            `yaml:"input"`
	ExpectedOutput domain.Value            `yaml:"expectedOutput"`
	Config         domain.ValidationConfig `yaml:"validationConfig"`
	Weight         *float64                `yaml:"weight"`
	IsActive       *bool                   `yaml:"isActive"`
	IsHidden       bool                    `yaml:"isHidden"`
	IsSample       bool                    `yaml:"isSample"`
	ExecutionOrder *int                    `yaml:"executionOrder"`
}

func (f TestCaseFixture) toTestCase(puzzleID uuid.UUID, index int) *domain.TestCase {
	tc := &domain.TestCase{
		PuzzleID:       puzzleID,
		Name:           f.Name,
		Description:    f.Description,
		Kind:           f.Kind,
		Mode:           f.Mode,
		Input:          f.Input,
		ExpectedOutput: f.ExpectedOutput,
		Config:         f.Config.WithDefaults(),
		Weight:         1,
		IsActive:       true,
		IsHidden:       f.IsHidden,
		IsSample:       f.IsSample,
		ExecutionOrder: index,
	}
	if f.ID != nil {
		tc.ID = *f.ID
	} else {
		tc.ID = uuid.NewSHA1(puzzleID, []byte(fmt.Sprintf("%d:%s", index, f.Name)))
	}
	if tc.Kind == "" {
		tc.Kind = domain.KindBasic
	}
	if tc.Mode == "" {
		tc.Mode = domain.ModeExactMatch
	}
	if f.Weight != nil {
		tc.Weight = *f.Weight
	}
	if f.IsActive != nil {
		tc.IsActive = *f.IsActive
	}
	if f.ExecutionOrder != nil {
		tc.ExecutionOrder = *f.ExecutionOrder
	}
	return tc
}

// TestCases flattens every puzzle in file order
func (f *Fixtures) TestCases() []*domain.TestCase {
	out := make([]*domain.TestCase, 0)
	for _, p := range f.Puzzles {
		for i, tcf := range p.TestCases {
			out = append(out, tcf.toTestCase(p.PuzzleID, i))
		}
	}
	return out
}

// Problem is a fixture that would be rejected by a store
type Problem struct {
	PuzzleID uuid.UUID
	Index    int
	Name     string
	Err      error
}

func (p Problem) String() string {
	return fmt.Sprintf("puzzle %s test case #%d (%s): %v", p.PuzzleID, p.Index, p.Name, p.Err)
}

// Lint validates every test case and reports duplicate ids
func (f *Fixtures) Lint() []Problem {
	var problems []Problem
	seen := make(map[uuid.UUID]bool)
	for _, p := range f.Puzzles {
		if p.PuzzleID == uuid.Nil {
			problems = append(problems, Problem{Index: -1, Err: fmt.Errorf("missing puzzleId")})
		}
		for i, tcf := range p.TestCases {
			tc := tcf.toTestCase(p.PuzzleID, i)
			if err := tc.Validate(); err != nil {
				problems = append(problems, Problem{PuzzleID: p.PuzzleID, Index: i, Name: tc.Name, Err: err})
			}
			if seen[tc.ID] {
				problems = append(problems, Problem{PuzzleID: p.PuzzleID, Index: i, Name: tc.Name, Err: fmt.Errorf("duplicate id %s", tc.ID)})
			}
			seen[tc.ID] = true
		}
	}
	return problems
}

func Parse(data []byte) (*Fixtures, error) {
	var fixtures Fixtures
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &fixtures, nil
}

func LoadFS(fsys fs.FS, name string) (*Fixtures, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures %q: %w", name, err)
	}
	return Parse(data)
}

func Load(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures %q: %w", path, err)
	}
	return Parse(data)
}

// Store serves fixture test cases through the TestCaseStore port.
// Invalid fixtures are kept so grading reports them as ERROR outcomes.
type Store struct {
	*memory.TestCaseStore
}

func NewStore(f *Fixtures) *Store {
	return &Store{TestCaseStore: memory.NewTestCaseStore(f.TestCases()...)}
}

// Open loads a fixture file into a Store
func Open(path string) (*Store, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewStore(f), nil
}
