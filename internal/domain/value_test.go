package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValue_Canonical(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "null", in: nil, want: "null"},
		{name: "integer float", in: 1.0, want: "1"},
		{name: "int", in: 42, want: "42"},
		{name: "fraction", in: 0.1, want: "0.1"},
		{name: "negative", in: -2.5, want: "-2.5"},
		{name: "negative zero", in: math.Copysign(0, -1), want: "0"},
		{name: "large", in: 1e22, want: "1e+22"},
		{name: "string", in: "a\"b", want: `"a\"b"`},
		{name: "bool", in: true, want: "true"},
		{name: "sorted keys", in: map[string]any{"b": 1, "a": []any{2, "x"}}, want: `{"a":[2,"x"],"b":1}`},
		{name: "yaml map", in: map[any]any{"k": nil}, want: `{"k":null}`},
		{name: "typed slice", in: []string{"x", "y"}, want: `["x","y"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := FromAny(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Canonical())
		})
	}
}

func TestValue_FromAnyUnsupported(t *testing.T) {
	_, err := FromAny(struct{}{})
	assert.Error(t, err)

	_, err = FromAny([]any{1, make(chan int)})
	assert.Error(t, err)
}

func TestValue_StringCoercion(t *testing.T) {
	assert.Equal(t, "null", Null().String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "3", Number(3).String())
	assert.Equal(t, "3.25", Number(3.25).String())
	assert.Equal(t, "NaN", Number(math.NaN()).String())
	assert.Equal(t, "hello", String("hello").String())
	assert.Equal(t, `[1,"a"]`, Array(Number(1), String("a")).String())
	assert.Equal(t, `{"x":true}`, Object(map[string]Value{"x": Bool(true)}).String())
}

func TestValue_NumberCoercion(t *testing.T) {
	assert.Equal(t, 2.5, Number(2.5).Number())
	assert.Equal(t, 7.0, String("  7 ").Number())
	assert.True(t, math.IsNaN(String("seven").Number()))
	assert.True(t, math.IsNaN(String("").Number()))
	assert.True(t, math.IsNaN(Bool(true).Number()))
	assert.True(t, math.IsNaN(Null().Number()))
	assert.True(t, math.IsNaN(Array().Number()))
}

func TestValue_JSON(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`{"b":[1,2.50,null],"a":"s"}`), &v))
	assert.Equal(t, KindObject, v.Kind())
	assert.Equal(t, `{"a":"s","b":[1,2.5,null]}`, v.Canonical())

	out, err := json.Marshal(struct {
		V Value `json:"v"`
	}{V: v})
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":{"a":"s","b":[1,2.5,null]}}`, string(out))

	_, err = json.Marshal(Number(math.Inf(1)))
	assert.Error(t, err)

	_, err = ParseJSON([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestValue_YAML(t *testing.T) {
	var doc struct {
		V Value `yaml:"v"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("v:\n  list: [3, 1]\n  name: x\n"), &doc))
	assert.Equal(t, `{"list":[3,1],"name":"x"}`, doc.V.Canonical())
}

func TestValue_SQL(t *testing.T) {
	v := Array(Number(1), String("a"))
	dv, err := v.Value()
	require.NoError(t, err)

	var back Value
	require.NoError(t, back.Scan(dv))
	assert.True(t, v.Equal(back))

	require.NoError(t, back.Scan(nil))
	assert.True(t, back.IsNull())

	assert.Error(t, back.Scan(12))
}

func TestValue_Accessors(t *testing.T) {
	obj := MustFromAny(map[string]any{"answer": "42"})
	f, ok := obj.Field("answer")
	require.True(t, ok)
	s, ok := f.AsString()
	assert.True(t, ok)
	assert.Equal(t, "42", s)

	_, ok = String("x").Field("answer")
	assert.False(t, ok)

	assert.Equal(t, 1, obj.Len())
	assert.Equal(t, 0, Number(1).Len())

	n, ok := Number(5).AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 5.0, n)

	assert.Equal(t, map[string]any{"answer": "42"}, obj.Interface())
}
