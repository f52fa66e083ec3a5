package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mcncl/jsontab/internal/analyzer"
	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/formatter"
	"github.com/mcncl/jsontab/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, input string, pc config.ParseConfig, sc config.SerializeConfig) (models.Value, string, models.Value) {
	t.Helper()
	first, err := analyzer.ParseBytes([]byte(input), pc, nil)
	require.NoError(t, err)

	out, err := Serialize(first, sc, nil)
	require.NoError(t, err)

	second, err := analyzer.ParseBytes(out, pc, nil)
	require.NoError(t, err)
	return first, string(out), second
}

func TestIntegration_HomogeneousArrays(t *testing.T) {
	tests := []string{
		`[1,2,3]`,
		`[-1,0,2147483647]`,
		`[1.5,-2.25,1e-9]`,
		`["a","b","ünïcode"]`,
		`[true,false,true]`,
		`[[1,2],[3,4],[5,6]]`,
		`[["a","b","c"]]`,
		`[[[1,2],[3,4]],[[5,6],[7,8]]]`,
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			first, out, second := roundTrip(t, input, config.NewParseConfig(), config.NewSerializeConfig())
			assert.JSONEq(t, input, out)
			assert.True(t, models.Equal(first, second), "values differ after round trip: %s", cmp.Diff(first, second))
		})
	}
}

func TestIntegration_MatrixRoundTrip(t *testing.T) {
	input := `[[1,2,3],[4,5,6]]`
	first, out, _ := roundTrip(t, input, config.NewParseConfig(), config.NewSerializeConfig())

	m, ok := first.(*models.Array)
	require.True(t, ok)
	assert.Equal(t, []int{2, 3}, m.Dim)
	assert.Equal(t, input, out)
}

func TestIntegration_Idempotence(t *testing.T) {
	inputs := []string{
		`[{"a":1,"b":"x"},{"a":2}]`,
		`[{"a":1},{"a":2.5},{"a":"x"}]`,
		`{"name":"jsontab","tags":["a","b"],"meta":{"ok":true,"n":null}}`,
		`{"x":[1,2,3],"y":["p","q","r"]}`,
		`[1,"NaN",null,"Inf"]`,
		`[[1,"a"],[2,"b"]]`,
		`[{"id":1,"nested":{"deep":[1,2]}},{"id":2,"nested":{"deep":[]}}]`,
	}

	sc := config.NewSerializeConfig()
	sc.NumSpecials = config.EmitString

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, _, second := roundTrip(t, input, config.NewParseConfig(), sc)
			assert.True(t, models.Equal(first, second), "values differ after round trip: %s", cmp.Diff(first, second))
		})
	}
}

func TestIntegration_ColumnsLayoutReadsBackAsTable(t *testing.T) {
	sc := config.NewSerializeConfig()
	sc.Table = config.TableByColumns

	first, out, second := roundTrip(t, `[{"x":1,"y":"a"},{"x":2,"y":"b"}]`, config.NewParseConfig(), sc)
	assert.Equal(t, `{"x":[1,2],"y":["a","b"]}`, out)
	assert.True(t, models.Equal(first, second))
}

func TestIntegration_AutoUnboxedRecords(t *testing.T) {
	sc := config.NewSerializeConfig()
	sc.AutoUnbox = true

	input := `{"name":"x","count":3,"ratio":0.5,"flags":[true,false]}`
	_, out, _ := roundTrip(t, input, config.NewParseConfig(), sc)
	assert.Equal(t, input, out)
}

func TestIntegration_GoldenSamples(t *testing.T) {
	dir := filepath.Join("..", "..", "testdata", "samples")
	golden := func(name string) string {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		return string(data)
	}

	v, err := analyzer.ParseFile(filepath.Join(dir, "users.json"), config.NewParseConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, golden("users.txt"), formatter.Describe(v))

	sc := config.NewSerializeConfig()
	sc.AutoUnbox = true
	out, err := Serialize(v, sc, nil)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(golden("users.out.json")), string(out))
}
