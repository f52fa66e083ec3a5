// Package schema describes the JSON layout of typed values as JSON Schema.
package schema

import (
	"fmt"
	"math"
	"reflect"
	"slices"

	gojson "github.com/goccy/go-json"
	"github.com/mcncl/jsontab/internal/models"
)

// Draft is the JSON Schema dialect of generated documents.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// timestampPattern matches the text form written for timestamps.
const timestampPattern = `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`

// SchemaType handles JSON Schema type field which can be string or array of strings
type SchemaType struct {
	Types []string
}

// MarshalJSON writes a single type as a string and several as an array
func (st SchemaType) MarshalJSON() ([]byte, error) {
	if len(st.Types) == 1 {
		return gojson.Marshal(st.Types[0])
	}
	return gojson.Marshal(st.Types)
}

// UnmarshalJSON handles both string and array forms of type
func (st *SchemaType) UnmarshalJSON(data []byte) error {
	var s string
	if err := gojson.Unmarshal(data, &s); err == nil {
		st.Types = []string{s}
		return nil
	}

	var arr []string
	if err := gojson.Unmarshal(data, &arr); err == nil {
		st.Types = arr
		return nil
	}

	return fmt.Errorf("type must be string or array of strings")
}

// Primary returns the primary (first) type, or empty string if none
func (st SchemaType) Primary() string {
	if len(st.Types) > 0 {
		return st.Types[0]
	}
	return ""
}

// IsNullable returns true if "null" is one of the allowed types
func (st SchemaType) IsNullable() bool {
	return slices.Contains(st.Types, "null")
}

func typeOf(types ...string) *SchemaType {
	return &SchemaType{Types: types}
}

// Schema represents a JSON Schema document
type Schema struct {
	Schema string      `json:"$schema,omitempty"`
	Type   *SchemaType `json:"type,omitempty"`

	// Object properties
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`

	// Array items
	Items       *Schema   `json:"items,omitempty"`
	PrefixItems []*Schema `json:"prefixItems,omitempty"`
	MinItems    *int      `json:"minItems,omitempty"`
	MaxItems    *int      `json:"maxItems,omitempty"`

	// String constraints
	Pattern string `json:"pattern,omitempty"`
	Format  string `json:"format,omitempty"`

	// Numeric constraints
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	Enum []string `json:"enum,omitempty"`
}

// ParseBytes parses JSON Schema from bytes
func ParseBytes(data []byte) (*Schema, error) {
	var schema Schema
	if err := gojson.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse JSON Schema: %w", err)
	}
	return &schema, nil
}

// Marshal renders the schema as JSON text
func (s *Schema) Marshal(pretty bool) ([]byte, error) {
	if pretty {
		return gojson.MarshalIndent(s, "", "  ")
	}
	return gojson.Marshal(s)
}

// Describe returns the schema of the JSON that v serializes to with default
// options: vectors are arrays, tables are arrays of row objects and named
// lists are objects. Cells that can be missing allow null.
func Describe(v models.Value) *Schema {
	s := describe(v)
	s.Schema = Draft
	return s
}

func describe(v models.Value) *Schema {
	switch x := v.(type) {
	case nil, models.Null, *models.Null:
		return &Schema{Type: typeOf("null")}
	case *models.Table:
		return &Schema{Type: typeOf("array"), Items: rowSchema(x)}
	case *models.List:
		if x.Named() {
			s := &Schema{Type: typeOf("object"), Properties: make(map[string]*Schema, len(x.Elems))}
			for i, e := range x.Elems {
				s.Properties[x.Names[i]] = describe(e)
				if models.TypeOf(e) != models.TypeNull {
					s.Required = append(s.Required, x.Names[i])
				}
			}
			return s
		}
		n := len(x.Elems)
		s := &Schema{Type: typeOf("array"), MinItems: &n, MaxItems: &n}
		for _, e := range x.Elems {
			s.PrefixItems = append(s.PrefixItems, describe(e))
		}
		return s
	case *models.Env:
		s := &Schema{Type: typeOf("object"), Properties: make(map[string]*Schema, len(x.Vars))}
		for _, k := range x.Keys() {
			s.Properties[k] = describe(x.Vars[k])
			s.Required = append(s.Required, k)
		}
		return s
	case *models.Array:
		return arraySchema(x)
	case models.Vector:
		return &Schema{Type: typeOf("array"), Items: cellSchema(x, hasMissing(x))}
	}
	return &Schema{}
}

// rowSchema describes one row object of t.
func rowSchema(t *models.Table) *Schema {
	s := &Schema{Type: typeOf("object"), Properties: make(map[string]*Schema, len(t.Columns))}
	for c, col := range t.Columns {
		name := fmt.Sprintf("V%d", c+1)
		if c < len(t.Names) {
			name = t.Names[c]
		}
		var prop *Schema
		required := true
		switch x := col.(type) {
		case models.Vector:
			required = !hasMissing(x)
			prop = cellSchema(x, !required)
		case *models.Table:
			prop = rowSchema(x)
		case *models.List:
			prop = commonSchema(x.Elems)
			for _, e := range x.Elems {
				if models.TypeOf(e) == models.TypeNull {
					required = false
				}
			}
		default:
			prop = &Schema{}
		}
		s.Properties[name] = prop
		if required {
			s.Required = append(s.Required, name)
		}
	}
	return s
}

// commonSchema returns the schema shared by every value, or an empty schema
// accepting anything when they differ.
func commonSchema(vals []models.Value) *Schema {
	var common *Schema
	for _, v := range vals {
		if models.TypeOf(v) == models.TypeNull {
			continue
		}
		s := describe(v)
		if common == nil {
			common = s
		} else if !reflect.DeepEqual(common, s) {
			return &Schema{}
		}
	}
	if common == nil {
		return &Schema{Type: typeOf("null")}
	}
	return common
}

func arraySchema(a *models.Array) *Schema {
	s := cellSchema(a.Data, hasMissing(a.Data))
	if a.Rank() < 2 || a.Rank() > 3 {
		return &Schema{Type: typeOf("array"), Items: s}
	}
	// innermost dimension first: columns, then rows, then layers
	for _, d := range []int{1, 0, 2}[:a.Rank()] {
		n := a.Dim[d]
		s = &Schema{Type: typeOf("array"), Items: s, MinItems: &n, MaxItems: &n}
	}
	return s
}

func cellSchema(v models.Vector, nullable bool) *Schema {
	var s *Schema
	switch x := v.(type) {
	case *models.LogicalVector:
		s = &Schema{Type: typeOf("boolean")}
	case *models.IntegerVector, *models.Int64Vector:
		s = &Schema{Type: typeOf("integer")}
	case *models.RealVector:
		s = &Schema{Type: typeOf("number")}
	case *models.StringVector:
		s = &Schema{Type: typeOf("string")}
	case *models.RawVector:
		lo, hi := 0.0, 255.0
		s = &Schema{Type: typeOf("integer"), Minimum: &lo, Maximum: &hi}
	case *models.Factor:
		s = &Schema{Type: typeOf("string"), Enum: slices.Clone(x.Levels)}
	case *models.DateVector:
		s = &Schema{Type: typeOf("string"), Format: "date"}
	case *models.TimestampVector:
		s = &Schema{Type: typeOf("string"), Pattern: timestampPattern}
	default:
		return &Schema{}
	}
	if nullable {
		s.Type.Types = append(s.Type.Types, "null")
	}
	return s
}

// hasMissing reports whether any cell of v serializes to null.
func hasMissing(v models.Vector) bool {
	switch x := v.(type) {
	case *models.LogicalVector:
		return slices.Contains(x.Data, models.NALogical)
	case *models.IntegerVector:
		return slices.Contains(x.Data, models.NAInteger)
	case *models.Int64Vector:
		return slices.Contains(x.Data, models.NAInt64)
	case *models.RealVector:
		return slices.ContainsFunc(x.Data, nonFinite)
	case *models.StringVector:
		return slices.ContainsFunc(x.Data, func(s models.String) bool { return s.NA })
	case *models.Factor:
		return slices.ContainsFunc(x.Codes, func(c int32) bool { return c == models.NAInteger || c < 1 || int(c) > len(x.Levels) })
	case *models.DateVector:
		return slices.ContainsFunc(x.Days, nonFinite)
	case *models.TimestampVector:
		return slices.ContainsFunc(x.Seconds, nonFinite)
	}
	return false
}

func nonFinite(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}
