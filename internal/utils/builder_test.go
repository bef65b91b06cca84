package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSelect(t *testing.T) {
	query, args := NewQueryBuilder("public").
		Select("id", "score").
		From("validation_results").
		Where("puzzle_id = ?", "p").
		AndGroup(func(qb QueryBuilder) {
			qb.Where("status = ?", "PASSED").Or("score > ?", 0.5)
		}).
		OrderBy("created_at", false).
		Limit(10).
		Build()

	assert.Equal(t,
		"SELECT id, score FROM public.validation_results WHERE puzzle_id = ? AND (status = ? OR score > ?) ORDER BY created_at DESC LIMIT ?",
		query)
	assert.Equal(t, []interface{}{"p", "PASSED", 0.5, 10}, args)
}

func TestBuildSelect_EmptyGroupSkipped(t *testing.T) {
	query, args := NewQueryBuilder("").
		Select("id").
		From("test_cases").
		AndGroup(func(qb QueryBuilder) {}).
		Build()

	assert.Equal(t, "SELECT id FROM test_cases", query)
	assert.Empty(t, args)
}

func TestBuildInsert(t *testing.T) {
	query, args := NewQueryBuilder("public").
		Insert("id", "score").
		Into("validation_results").
		Values(1, 0.5).
		Values(2, 1.0).
		OnConflict("id").
		DoNothing().
		Build()

	assert.Equal(t, "INSERT INTO public.validation_results (id, score) VALUES (?, ?), (?, ?) ON CONFLICT (id) DO NOTHING", query)
	assert.Equal(t, []interface{}{1, 0.5, 2, 1.0}, args)
}

func TestBuildInsert_Upsert(t *testing.T) {
	query, _ := NewQueryBuilder("public").
		Insert("id", "name").
		Into("test_cases").
		Values(1, "a").
		OnConflict("id").
		SetExclude("name").
		Build()

	assert.Equal(t, "INSERT INTO public.test_cases (id, name) VALUES (?, ?) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name", query)
}

func TestBuildInsert_RowMismatch(t *testing.T) {
	query, args := NewQueryBuilder("public").Insert("a", "b").Into("t").Values(1).Build()
	assert.Empty(t, query)
	assert.Nil(t, args)
}
