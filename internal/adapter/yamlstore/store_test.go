package yamlstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/answer-validator.net/internal/core/ports/secondary"
	"gitlab.com/answer-validator.net/internal/domain"
)

var fixturePuzzle = uuid.MustParse("6f1c2a52-8f0e-4a8b-9a43-3d3b8e1f0a11")

func TestLoadFS_Defaults(t *testing.T) {
	f, err := LoadFS(os.DirFS("testdata"), "fixtures.yaml")
	require.NoError(t, err)

	tcs := f.TestCases()
	require.Len(t, tcs, 5)

	first := tcs[0]
	assert.Equal(t, fixturePuzzle, first.PuzzleID)
	assert.Equal(t, domain.ModeExactMatch, first.Mode)
	assert.Equal(t, domain.KindBasic, first.Kind)
	assert.Equal(t, 1.0, first.Weight)
	assert.True(t, first.IsActive)
	assert.Equal(t, 0, first.ExecutionOrder)
	assert.Equal(t, domain.DefaultTimeoutMs, first.Config.TimeoutMs)
	assert.Equal(t, `{"a":1,"b":2}`, first.Input.Canonical())

	assert.Equal(t, 1e-6, tcs[1].Config.EffectiveTolerance())

	hidden := tcs[2]
	assert.Equal(t, uuid.MustParse("0b7f9a3e-52a4-4c55-8a9f-1e2d3c4b5a60"), hidden.ID)
	assert.Equal(t, 2.0, hidden.Weight)
	assert.True(t, hidden.IsHidden)

	assert.False(t, tcs[4].IsActive)
	assert.True(t, tcs[4].ExpectedOutput.IsNull())
}

func TestTestCases_StableIDs(t *testing.T) {
	f, err := LoadFS(os.DirFS("testdata"), "fixtures.yaml")
	require.NoError(t, err)

	a, b := f.TestCases(), f.TestCases()
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
	}
	assert.NotEqual(t, a[0].ID, a[1].ID)
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	store, err := Open("testdata/fixtures.yaml")
	require.NoError(t, err)

	active, err := store.ActiveTestCases(ctx, fixturePuzzle)
	require.NoError(t, err)
	assert.Len(t, active, 4)

	samples, err := store.ListTestCases(ctx, fixturePuzzle, secondary.TestCaseFilter{Visibility: secondary.VisibilitySample})
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "example", samples[0].Name)
}

func TestLint(t *testing.T) {
	f, err := Parse([]byte(`
puzzles:
  - puzzleId: 6f1c2a52-8f0e-4a8b-9a43-3d3b8e1f0a11
    testCases:
      - id: 0b7f9a3e-52a4-4c55-8a9f-1e2d3c4b5a60
        name: ok
        expectedOutput: 1
      - id: 0b7f9a3e-52a4-4c55-8a9f-1e2d3c4b5a60
        name: dup
        expectedOutput: 1
      - name: bad weight
        weight: -1
        expectedOutput: 1
      - name: bad mode
        validationMode: fuzzy
        expectedOutput: 1
  - testCases: []
`))
	require.NoError(t, err)

	problems := f.Lint()
	require.Len(t, problems, 4)
	assert.Equal(t, "dup", problems[0].Name)
	assert.Equal(t, "bad weight", problems[1].Name)
	assert.Equal(t, "bad mode", problems[2].Name)
	assert.Contains(t, problems[3].String(), "missing puzzleId")
}

func TestLint_Clean(t *testing.T) {
	f, err := LoadFS(os.DirFS("testdata"), "fixtures.yaml")
	require.NoError(t, err)
	assert.Empty(t, f.Lint())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("puzzles: ["))
	assert.Error(t, err)
}
