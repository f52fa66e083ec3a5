package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/logging"
	"github.com/mcncl/jsontab/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DefaultValues(t *testing.T) {
	pc := NewParseConfig()

	assert.Equal(t, Int64AsString, pc.Int64)
	assert.Equal(t, SpecialsAsSentinel, pc.StrSpecials)
	assert.Equal(t, SpecialsAsSentinel, pc.NumSpecials)
	assert.False(t, pc.PromoteNumToString)
	assert.True(t, pc.ObjOfArrsToTable)
	assert.True(t, pc.ArrOfObjsToTable)
	assert.False(t, pc.Length1ArrayAsIs)
	assert.Equal(t, models.Null{}, pc.MissingListElem)
	assert.Equal(t, DefaultMaxColumns, pc.MaxColumns)
	assert.Equal(t, DefaultMaxDepth, pc.MaxDepth)

	sc := NewSerializeConfig()
	assert.Equal(t, TableByRows, sc.Table)
	assert.Equal(t, FactorAsString, sc.Factor)
	assert.False(t, sc.AutoUnbox)
	assert.Equal(t, -1, sc.Digits)
	assert.Equal(t, NameRepairNone, sc.NameRepair)
	assert.Equal(t, EmitNull, sc.StrSpecials)
	assert.Equal(t, EmitNull, sc.NumSpecials)
	assert.False(t, sc.FastNumerics)
	assert.False(t, sc.JSONVerbatim)
	assert.False(t, sc.Pretty)
}

func TestParseOptions(t *testing.T) {
	rec := logging.NewRecorder(nil)
	cfg, err := ParseOptions(NewParseConfig(), map[string]any{
		"int64":                "bit64",
		"strSpecials":          "string",
		"num_specials":         "string",
		"PromoteNumToString":   true,
		"arr_of_objs_to_table": false,
		"length1_array_asis":   true,
		"missing_list_elem":    "none",
		"read_flags":           []any{"stop_when_done"},
		"max_columns":          4,
		"max_depth":            float64(16),
	}, rec)
	require.NoError(t, err)

	assert.Equal(t, Int64AsNative, cfg.Int64)
	assert.Equal(t, SpecialsAsString, cfg.StrSpecials)
	assert.Equal(t, SpecialsAsString, cfg.NumSpecials)
	assert.True(t, cfg.PromoteNumToString)
	assert.False(t, cfg.ArrOfObjsToTable)
	assert.True(t, cfg.ObjOfArrsToTable)
	assert.True(t, cfg.Length1ArrayAsIs)
	assert.Equal(t, &models.StringVector{Data: []models.String{models.Str("none")}}, cfg.MissingListElem)
	assert.Equal(t, ReadFlagStopWhenDone, cfg.ReadFlags)
	assert.Equal(t, 4, cfg.MaxColumns)
	assert.Equal(t, 16, cfg.MaxDepth)
	assert.Empty(t, rec.Warnings())
}

func TestParseOptions_UnknownKeyWarns(t *testing.T) {
	rec := logging.NewRecorder(nil)
	cfg, err := ParseOptions(NewParseConfig(), map[string]any{"colour": "blue", "int64": "double"}, rec)
	require.NoError(t, err)

	assert.Equal(t, Int64AsDouble, cfg.Int64)
	assert.Equal(t, []string{"Unknown option ignored"}, rec.Warnings())
	assert.Equal(t, "colour", rec.Entries()[0].Fields["option"])
}

func TestParseOptions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opts map[string]any
	}{
		{name: "bad int64 mode", opts: map[string]any{"int64": "huge"}},
		{name: "int64 not a string", opts: map[string]any{"int64": 64}},
		{name: "bool expected", opts: map[string]any{"obj_of_arrs_to_table": 3}},
		{name: "negative max_columns", opts: map[string]any{"max_columns": -1}},
		{name: "unknown read flag", opts: map[string]any{"read_flags": "allow_comments"}},
		{name: "unsupported missing element", opts: map[string]any{"missing_list_elem": []int{1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := NewParseConfig()
			cfg, err := ParseOptions(base, tt.opts, nil)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
			assert.ErrorIs(t, err, errors.ErrInvalidOption)
			assert.Equal(t, base, cfg)
		})
	}
}

func TestSerializeOptions(t *testing.T) {
	cfg, err := SerializeOptions(NewSerializeConfig(), map[string]any{
		"dataframe":     "columns",
		"factor":        "integer",
		"auto_unbox":    true,
		"digits":        3,
		"name_repair":   "minimal",
		"str_specials":  "string",
		"num_specials":  "string",
		"fast_numerics": true,
		"json_verbatim": true,
		"pretty":        "yes",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, SerializeConfig{
		Table:        TableByColumns,
		Factor:       FactorAsInteger,
		AutoUnbox:    true,
		Digits:       3,
		NameRepair:   NameRepairMinimal,
		StrSpecials:  EmitString,
		NumSpecials:  EmitString,
		FastNumerics: true,
		JSONVerbatim: true,
		Pretty:       true,
	}, cfg)
}

func TestSerializeOptions_Digits(t *testing.T) {
	cfg, err := SerializeOptions(NewSerializeConfig(), map[string]any{"digits": -7}, nil)
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.Digits)

	_, err = SerializeOptions(NewSerializeConfig(), map[string]any{"digits": 20}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidOption)

	_, err = SerializeOptions(NewSerializeConfig(), map[string]any{"digits": 2.5}, nil)
	require.Error(t, err)
}

func TestValueOf(t *testing.T) {
	v, err := ValueOf(nil)
	require.NoError(t, err)
	assert.Equal(t, models.Null{}, v)

	v, err = ValueOf(true)
	require.NoError(t, err)
	assert.Equal(t, &models.LogicalVector{Data: []models.Logical{models.True}}, v)

	v, err = ValueOf(7)
	require.NoError(t, err)
	assert.Equal(t, &models.IntegerVector{Data: []int32{7}}, v)

	v, err = ValueOf(int64(1) << 40)
	require.NoError(t, err)
	assert.Equal(t, &models.RealVector{Data: []float64{1 << 40}}, v)
}

func TestLoad_FromYAML(t *testing.T) {
	yamlContent := `
parse:
  int64: double
  max_columns: 10
  unknown_thing: 1
serialize:
  auto_unbox: true
  digits: 2
  dataframe: columns
`
	tmpFile, err := os.CreateTemp("", "config_test_*.yml")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	_, err = tmpFile.WriteString(yamlContent)
	require.NoError(t, err)
	_ = tmpFile.Close()

	rec := logging.NewRecorder(nil)
	pc, sc, err := Load(tmpFile.Name(), rec)
	require.NoError(t, err)

	assert.Equal(t, Int64AsDouble, pc.Int64)
	assert.Equal(t, 10, pc.MaxColumns)
	assert.True(t, sc.AutoUnbox)
	assert.Equal(t, 2, sc.Digits)
	assert.Equal(t, TableByColumns, sc.Table)
	assert.Equal(t, []string{"Unknown option ignored"}, rec.Warnings())
}

func TestLoad_Errors(t *testing.T) {
	_, _, err := Load("/nonexistent/path/jsontab.yml", nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	assert.Contains(t, err.Error(), "failed to read config file")

	tmpDir := t.TempDir()
	bad := filepath.Join(tmpDir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("parse: [unclosed"), 0644))
	_, _, err = Load(bad, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")

	pc, sc, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, NewParseConfig(), pc)
	assert.Equal(t, NewSerializeConfig(), sc)
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "subdir", "nested")
	require.NoError(t, os.MkdirAll(subDir, 0755))

	configPath := filepath.Join(tmpDir, ".jsontab.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("parse: {}\n"), 0644))

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()

	require.NoError(t, os.Chdir(subDir))

	found := FindConfigFile()
	assert.NotEmpty(t, found)
	assert.Equal(t, ".jsontab.yml", filepath.Base(found))
}
