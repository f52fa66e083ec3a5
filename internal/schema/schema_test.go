package schema

import (
	"math"
	"testing"

	"github.com/mcncl/jsontab/internal/analyzer"
	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func describeJSON(t *testing.T, input string) *Schema {
	t.Helper()
	v, err := analyzer.ParseBytes([]byte(input), config.NewParseConfig(), nil)
	require.NoError(t, err)
	return Describe(v)
}

func TestDescribe_Vectors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		itemType []string
	}{
		{"integers", `[1,2,3]`, []string{"integer"}},
		{"integers with missing", `[1,null,3]`, []string{"integer", "null"}},
		{"reals", `[1.5,2]`, []string{"number"}},
		{"reals with NaN", `[1.5,"NaN"]`, []string{"number", "null"}},
		{"strings", `["a","b"]`, []string{"string"}},
		{"logicals", `[true,null]`, []string{"boolean", "null"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := describeJSON(t, tt.input)
			assert.Equal(t, Draft, s.Schema)
			assert.Equal(t, "array", s.Type.Primary())
			require.NotNil(t, s.Items)
			assert.Equal(t, tt.itemType, s.Items.Type.Types)
		})
	}
}

func TestDescribe_Table(t *testing.T) {
	s := describeJSON(t, `[{"id":1,"name":"a","tags":[1]},{"id":2,"tags":[2,3]}]`)

	assert.Equal(t, "array", s.Type.Primary())
	row := s.Items
	require.NotNil(t, row)
	assert.Equal(t, "object", row.Type.Primary())
	assert.Equal(t, []string{"id", "tags"}, row.Required)

	assert.Equal(t, []string{"integer"}, row.Properties["id"].Type.Types)
	assert.True(t, row.Properties["name"].Type.IsNullable())

	tags := row.Properties["tags"]
	assert.Equal(t, "array", tags.Type.Primary())
	assert.Equal(t, "integer", tags.Items.Type.Primary())
}

func TestDescribe_MixedListColumn(t *testing.T) {
	s := describeJSON(t, `[{"a":1},{"a":"x"},{"b":true}]`)
	row := s.Items
	assert.Equal(t, &Schema{}, row.Properties["a"])
	assert.NotContains(t, row.Required, "a")
}

func TestDescribe_Objects(t *testing.T) {
	s := describeJSON(t, `{"name":"x","meta":{"n":null,"ok":true}}`)
	assert.Equal(t, "object", s.Type.Primary())
	assert.Equal(t, []string{"name", "meta"}, s.Required)

	meta := s.Properties["meta"]
	assert.Equal(t, []string{"ok"}, meta.Required)
	assert.Equal(t, "null", meta.Properties["n"].Type.Primary())
}

func TestDescribe_UnnamedList(t *testing.T) {
	s := describeJSON(t, `[1,"a",null]`)
	require.Len(t, s.PrefixItems, 3)
	assert.Equal(t, 3, *s.MinItems)
	assert.Equal(t, 3, *s.MaxItems)
	assert.Equal(t, "null", s.PrefixItems[2].Type.Primary())
}

func TestDescribe_Matrix(t *testing.T) {
	s := describeJSON(t, `[[1,2,3],[4,5,6]]`)
	assert.Equal(t, 2, *s.MaxItems)
	inner := s.Items
	assert.Equal(t, 3, *inner.MinItems)
	assert.Equal(t, "integer", inner.Items.Type.Primary())

	cube := Describe(&models.Array{Data: &models.RealVector{Data: make([]float64, 12)}, Dim: []int{2, 3, 2}})
	assert.Equal(t, 2, *cube.MaxItems)
	assert.Equal(t, 2, *cube.Items.MaxItems)
	assert.Equal(t, 3, *cube.Items.Items.MaxItems)
	assert.Equal(t, "number", cube.Items.Items.Items.Type.Primary())
}

func TestDescribe_TaggedVectors(t *testing.T) {
	f := Describe(&models.Factor{Codes: []int32{1, 2}, Levels: []string{"lo", "hi"}})
	assert.Equal(t, []string{"lo", "hi"}, f.Items.Enum)

	d := Describe(&models.DateVector{Days: []float64{0, math.NaN()}})
	assert.Equal(t, "date", d.Items.Format)
	assert.Equal(t, []string{"string", "null"}, d.Items.Type.Types)

	r := Describe(&models.RawVector{Data: []byte{1}})
	assert.Equal(t, 255.0, *r.Items.Maximum)

	env := Describe(&models.Env{Vars: map[string]models.Value{"b": models.Null{}, "a": models.Null{}}})
	assert.Equal(t, []string{"a", "b"}, env.Required)
}

func TestSchema_MarshalRoundTrip(t *testing.T) {
	s := describeJSON(t, `[{"id":1,"score":null},{"id":2,"score":0.5}]`)

	out, err := s.Marshal(false)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "array",
		"items": {
			"type": "object",
			"properties": {
				"id": {"type": "integer"},
				"score": {"type": ["number", "null"]}
			},
			"required": ["id"]
		}
	}`, string(out))

	back, err := ParseBytes(out)
	require.NoError(t, err)
	assert.Equal(t, s, back)

	pretty, err := s.Marshal(true)
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  \"type\": \"array\"")
}

func TestParseBytes_Errors(t *testing.T) {
	_, err := ParseBytes([]byte(`{invalid}`))
	assert.Error(t, err)

	_, err = ParseBytes([]byte(`{"type": 5}`))
	assert.Error(t, err)
}
