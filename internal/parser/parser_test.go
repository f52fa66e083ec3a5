package parser

import (
	stderrors "errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/logging"
	"github.com/mcncl/jsontab/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SimpleObject(t *testing.T) {
	doc, err := Parse(strings.NewReader(`{"name": "John Doe", "age": 30, "isStudent": false, "city": null}`), 0)
	require.NoError(t, err)

	root := doc.Root
	require.Equal(t, models.NodeObject, root.Type())
	require.Equal(t, 4, root.Len())

	var keys []string
	for _, m := range root.Members() {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"name", "age", "isStudent", "city"}, keys)

	name, ok := root.Get("name")
	require.True(t, ok)
	assert.Equal(t, "John Doe", name.Str())

	age, _ := root.Get("age")
	assert.Equal(t, models.SubtypeUint, age.Subtype())
	assert.Equal(t, uint64(30), age.Uint())

	student, _ := root.Get("isStudent")
	assert.Equal(t, models.NodeBool, student.Type())
	assert.False(t, student.Bool())

	city, _ := root.Get("city")
	assert.True(t, city.IsNull())

	_, ok = root.Get("missing")
	assert.False(t, ok)
}

func TestParse_DuplicateKeys(t *testing.T) {
	doc, err := ParseString(`{"a": 1, "b": 2, "a": 3}`, 0)
	require.NoError(t, err)

	members := doc.Root.Members()
	require.Len(t, members, 3)
	assert.Equal(t, "a", members[2].Key)

	a, ok := doc.Root.Get("a")
	require.True(t, ok)
	assert.Equal(t, uint64(3), a.Uint())
}

func TestParse_NumberSubtypes(t *testing.T) {
	doc, err := ParseString(`[1, -2, 3.5, 1e3, 18446744073709551615, 18446744073709551616, -9223372036854775809, -0]`, 0)
	require.NoError(t, err)

	elems := doc.Root.Elems()
	require.Len(t, elems, 8)

	tests := []struct {
		sub  models.NumberSubtype
		want float64
	}{
		{models.SubtypeUint, 1},
		{models.SubtypeSint, -2},
		{models.SubtypeReal, 3.5},
		{models.SubtypeReal, 1000},
		{models.SubtypeUint, math.MaxUint64},
		{models.SubtypeReal, 18446744073709551616},
		{models.SubtypeReal, -9223372036854775809},
		{models.SubtypeSint, 0},
	}
	for i, tt := range tests {
		assert.Equal(t, models.NodeNumber, elems[i].Type(), "element %d", i)
		assert.Equal(t, tt.sub, elems[i].Subtype(), "element %d", i)
		assert.Equal(t, tt.want, elems[i].Float(), "element %d", i)
	}
	assert.Equal(t, uint64(math.MaxUint64), elems[4].Uint())
}

func TestParse_StringsAndNesting(t *testing.T) {
	doc, err := ParseString(`{"s": "café\n\"q\"", "nested": [[1, 2], {"k": [true, null]}]}`, 0)
	require.NoError(t, err)

	s, _ := doc.Root.Get("s")
	assert.Equal(t, "café\n\"q\"", s.Str())
	assert.True(t, s.Equals("café\n\"q\""))

	nested, _ := doc.Root.Get("nested")
	require.Equal(t, models.NodeArray, nested.Type())
	require.Equal(t, 2, nested.Len())
	assert.Equal(t, models.NodeArray, nested.Index(0).Type())
	assert.Equal(t, 2, nested.Index(0).Len())

	k, ok := nested.Index(1).Get("k")
	require.True(t, ok)
	assert.True(t, k.Index(0).Bool())
	assert.True(t, k.Index(1).IsNull())
}

func TestParse_ScalarRoots(t *testing.T) {
	doc, err := ParseString(` "hello" `, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.Root.Str())

	doc, err = ParseString(`null`, 0)
	require.NoError(t, err)
	assert.True(t, doc.Root.IsNull())

	doc, err = ParseString(`-12`, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(-12), doc.Root.Sint())
}

func TestParse_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := ParseString(input, 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrEmptyInput)
		assert.True(t, errors.IsType(err, errors.ErrorTypeInput))
	}
}

func TestParse_Malformed(t *testing.T) {
	input := `{"a": [1, 2, x]}`
	_, err := ParseString(input, 0)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParsing))

	var re *ReadError
	require.True(t, stderrors.As(err, &re))
	assert.Equal(t, strings.Index(input, "x"), re.Offset)
	assert.NotZero(t, re.Code)
	assert.Equal(t, input, re.Context)
	assert.Equal(t, strings.Repeat(" ", re.Offset)+"^", re.Caret)

	msg := re.Error()
	assert.True(t, strings.HasPrefix(msg, "Error parsing JSON: "))
	assert.Contains(t, msg, "at position: 13")
	assert.True(t, strings.HasSuffix(msg, "\n"+input+"\n"+re.Caret))
}

func TestParse_InvalidUTF8(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
	}{
		{"stray byte in string", "[\"bad\xffutf\"]", 5},
		{"truncated sequence", "{\"k\": \"\xe2\x82\"}", 7},
		{"bad key", "{\"\xc3\": 1}", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input, 0)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeParsing))

			var re *ReadError
			require.True(t, stderrors.As(err, &re))
			assert.Equal(t, tt.offset, re.Offset)
			assert.Equal(t, codeInvalidUTF8, re.Code)
			assert.Contains(t, re.Error(), "invalid UTF-8")
			assert.False(t, Validate([]byte(tt.input), 0, false, nil))
		})
	}

	doc, err := ParseString(`["naïve", "日本"]`, 0)
	require.NoError(t, err)
	assert.Equal(t, "日本", doc.Root.Index(1).Str())

	_, err = ParseString("[1] \xff", config.ReadFlagStopWhenDone)
	require.NoError(t, err)
}

func TestReadError_ContextWindow(t *testing.T) {
	data := []byte(strings.Repeat("a", 50) + "\n" + strings.Repeat("b", 50))
	re := newReadError(data, 50, 4, "unexpected character")

	assert.Equal(t, strings.Repeat("a", 20)+" "+strings.Repeat("b", 19), re.Context)
	assert.Equal(t, strings.Repeat(" ", 20)+"^", re.Caret)

	re = newReadError([]byte("[1,"), 3, 3, "unexpected end of data")
	assert.Equal(t, "[1,", re.Context)
	assert.Equal(t, "   ^", re.Caret)
}

func TestParse_TrailingContent(t *testing.T) {
	_, err := ParseString(`[1] [2]`, 0)
	require.Error(t, err)

	doc, err := ParseString(`[1] [2]`, config.ReadFlagStopWhenDone)
	require.NoError(t, err)
	require.Equal(t, 1, doc.Root.Len())
	assert.Equal(t, uint64(1), doc.Root.Index(0).Uint())

	_, err = ParseString(`[1, 2`, config.ReadFlagStopWhenDone)
	require.Error(t, err)
}

func TestParseFile(t *testing.T) {
	tmpDir := t.TempDir()

	good := filepath.Join(tmpDir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`[1, 2, 3]`), 0644))
	doc, err := ParseFile(good, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Root.Len())

	empty := filepath.Join(tmpDir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = ParseFile(empty, 0)
	assert.ErrorIs(t, err, errors.ErrFileEmpty)

	_, err = ParseFile(filepath.Join(tmpDir, "missing.json"), 0)
	assert.ErrorIs(t, err, errors.ErrFileNotFound)

	_, err = ParseFile("  ", 0)
	assert.ErrorIs(t, err, errors.ErrInvalidFilePath)

	bad := filepath.Join(tmpDir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"a": }`), 0644))
	_, err = ParseFile(bad, 0)
	require.Error(t, err)
	var re *ReadError
	require.True(t, stderrors.As(err, &re))
	assert.Equal(t, bad, re.File)
	assert.Contains(t, re.Error(), "Error parsing JSON file '"+bad+"'")
}

func TestValidate(t *testing.T) {
	rec := logging.NewRecorder(nil)

	assert.True(t, Validate([]byte(`{"a": [1, 2.5, "x", null, true]}`), 0, true, rec))
	assert.Empty(t, rec.Warnings())

	assert.False(t, Validate([]byte(`{"a": }`), 0, false, rec))
	assert.Empty(t, rec.Warnings())

	assert.False(t, Validate([]byte(`{"a": }`), 0, true, rec))
	warnings := rec.Warnings()
	require.Len(t, warnings, 1)
	assert.True(t, strings.HasPrefix(warnings[0], "Error parsing JSON: "))
}

func TestValidateFile(t *testing.T) {
	tmpDir := t.TempDir()
	good := filepath.Join(tmpDir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"ok": true}`), 0644))
	bad := filepath.Join(tmpDir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"ok": tru}`), 0644))

	rec := logging.NewRecorder(nil)
	assert.True(t, ValidateFile(good, 0, true, rec))
	assert.False(t, ValidateFile(bad, 0, true, rec))
	assert.False(t, ValidateFile(filepath.Join(tmpDir, "nope.json"), 0, true, rec))
	assert.Len(t, rec.Warnings(), 2)
}
