package models

import "sort"

// Type identifies the runtime shape of a typed value.
type Type uint8

const (
	TypeNull Type = iota
	TypeLogical
	TypeInteger
	TypeReal
	TypeInt64
	TypeString
	TypeRaw
	TypeFactor
	TypeDate
	TypeTimestamp
	TypeList
	TypeTable
	TypeArray
	TypeEnv
)

var typeNames = map[Type]string{
	TypeNull:      "NULL",
	TypeLogical:   "logi",
	TypeInteger:   "int",
	TypeReal:      "num",
	TypeInt64:     "int64",
	TypeString:    "chr",
	TypeRaw:       "raw",
	TypeFactor:    "Factor",
	TypeDate:      "Date",
	TypeTimestamp: "POSIXct",
	TypeList:      "List",
	TypeTable:     "Table",
	TypeArray:     "Array",
	TypeEnv:       "Env",
}

// String returns the short name used in summaries
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Value is any typed value produced by parsing or accepted by serialization.
// A nil Value is treated as Null.
type Value interface {
	Type() Type
}

// Vector is an atomic value: a flat sequence of cells of one kind.
type Vector interface {
	Value
	Len() int
	// IsAsIs reports whether the vector is tagged to never be unboxed to a scalar.
	IsAsIs() bool
}

// Null is the absence of a value.
type Null struct{}

func (Null) Type() Type { return TypeNull }

// LogicalVector holds tri-state booleans.
type LogicalVector struct {
	Data []Logical
	AsIs bool
}

func (v *LogicalVector) Type() Type   { return TypeLogical }
func (v *LogicalVector) Len() int     { return len(v.Data) }
func (v *LogicalVector) IsAsIs() bool { return v.AsIs }

// IntegerVector holds 32-bit integers; NAInteger marks missing cells.
type IntegerVector struct {
	Data []int32
	AsIs bool
}

func (v *IntegerVector) Type() Type   { return TypeInteger }
func (v *IntegerVector) Len() int     { return len(v.Data) }
func (v *IntegerVector) IsAsIs() bool { return v.AsIs }

// RealVector holds doubles; NAReal() marks missing cells.
type RealVector struct {
	Data []float64
	AsIs bool
}

func (v *RealVector) Type() Type   { return TypeReal }
func (v *RealVector) Len() int     { return len(v.Data) }
func (v *RealVector) IsAsIs() bool { return v.AsIs }

// Int64Vector holds 64-bit integers; NAInt64 marks missing cells.
type Int64Vector struct {
	Data []int64
	AsIs bool
}

func (v *Int64Vector) Type() Type   { return TypeInt64 }
func (v *Int64Vector) Len() int     { return len(v.Data) }
func (v *Int64Vector) IsAsIs() bool { return v.AsIs }

// StringVector holds strings. Verbatim marks cells that already contain
// rendered JSON text.
type StringVector struct {
	Data     []String
	AsIs     bool
	Verbatim bool
}

func (v *StringVector) Type() Type   { return TypeString }
func (v *StringVector) Len() int     { return len(v.Data) }
func (v *StringVector) IsAsIs() bool { return v.AsIs }

// RawVector holds opaque bytes.
type RawVector struct {
	Data []byte
	AsIs bool
}

func (v *RawVector) Type() Type   { return TypeRaw }
func (v *RawVector) Len() int     { return len(v.Data) }
func (v *RawVector) IsAsIs() bool { return v.AsIs }

// Factor is a categorical vector: 1-based codes into Levels, NAInteger for missing.
type Factor struct {
	Codes  []int32
	Levels []string
	AsIs   bool
}

func (v *Factor) Type() Type   { return TypeFactor }
func (v *Factor) Len() int     { return len(v.Codes) }
func (v *Factor) IsAsIs() bool { return v.AsIs }

// DateVector holds days since 1970-01-01.
type DateVector struct {
	Days []float64
	AsIs bool
}

func (v *DateVector) Type() Type   { return TypeDate }
func (v *DateVector) Len() int     { return len(v.Days) }
func (v *DateVector) IsAsIs() bool { return v.AsIs }

// TimestampVector holds seconds since 1970-01-01 00:00:00 UTC.
type TimestampVector struct {
	Seconds []float64
	AsIs    bool
}

func (v *TimestampVector) Type() Type   { return TypeTimestamp }
func (v *TimestampVector) Len() int     { return len(v.Seconds) }
func (v *TimestampVector) IsAsIs() bool { return v.AsIs }

// List is a heterogeneous container. Names is nil for an unnamed list and
// otherwise has one entry per element.
type List struct {
	Elems []Value
	Names []string
	AsIs  bool
}

func (v *List) Type() Type { return TypeList }

// Len returns the number of elements
func (v *List) Len() int { return len(v.Elems) }

// Named reports whether the list carries names
func (v *List) Named() bool { return v.Names != nil }

// Table is a column-oriented collection of equal-length columns. Columns are
// atomic vectors, lists, or nested tables. Names may be nil for an unnamed table.
type Table struct {
	Names   []string
	Columns []Value
	NRow    int
}

func (v *Table) Type() Type { return TypeTable }

// NCol returns the number of columns
func (v *Table) NCol() int { return len(v.Columns) }

// Column returns the column called name
func (v *Table) Column(name string) (Value, bool) {
	for i, n := range v.Names {
		if n == name {
			return v.Columns[i], true
		}
	}
	return nil, false
}

// Array is an atomic vector with dimensions, stored column-major. A rank 2
// array is a matrix with Dim = [nrow, ncol].
type Array struct {
	Data Vector
	Dim  []int
}

func (v *Array) Type() Type { return TypeArray }

// Rank returns the number of dimensions
func (v *Array) Rank() int { return len(v.Dim) }

// Env is a map-like scope of named bindings.
type Env struct {
	Vars map[string]Value
}

func (v *Env) Type() Type { return TypeEnv }

// Keys returns the binding names in sorted order.
func (v *Env) Keys() []string {
	keys := make([]string, 0, len(v.Vars))
	for k := range v.Vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TypeOf returns the type of v, mapping a nil Value to TypeNull.
func TypeOf(v Value) Type {
	if v == nil {
		return TypeNull
	}
	return v.Type()
}

// Length returns the number of elements of v: cells for vectors, elements for
// lists, columns for tables, cells for arrays, bindings for envs and zero for Null.
func Length(v Value) int {
	switch x := v.(type) {
	case nil, Null, *Null:
		return 0
	case Vector:
		return x.Len()
	case *List:
		return len(x.Elems)
	case *Table:
		return len(x.Columns)
	case *Array:
		return x.Data.Len()
	case *Env:
		return len(x.Vars)
	default:
		return 0
	}
}

// NewMatrix wraps column-major data as an nrow x ncol matrix.
func NewMatrix(data Vector, nrow, ncol int) *Array {
	return &Array{Data: data, Dim: []int{nrow, ncol}}
}
