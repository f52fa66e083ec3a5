package models

import (
	"math"
	"slices"
)

// Equal reports whether two typed values are structurally equal. NA equals NA
// and NaN equals NaN, but NA and NaN differ. Names, dimensions, levels and
// tags take part in the comparison.
func Equal(a, b Value) bool {
	ta, tb := TypeOf(a), TypeOf(b)
	if ta != tb {
		return false
	}
	switch x := a.(type) {
	case nil, Null, *Null:
		return true
	case *LogicalVector:
		y := b.(*LogicalVector)
		return x.AsIs == y.AsIs && slices.Equal(x.Data, y.Data)
	case *IntegerVector:
		y := b.(*IntegerVector)
		return x.AsIs == y.AsIs && slices.Equal(x.Data, y.Data)
	case *RealVector:
		y := b.(*RealVector)
		return x.AsIs == y.AsIs && realsEqual(x.Data, y.Data)
	case *Int64Vector:
		y := b.(*Int64Vector)
		return x.AsIs == y.AsIs && slices.Equal(x.Data, y.Data)
	case *StringVector:
		y := b.(*StringVector)
		return x.AsIs == y.AsIs && x.Verbatim == y.Verbatim && slices.Equal(x.Data, y.Data)
	case *RawVector:
		y := b.(*RawVector)
		return x.AsIs == y.AsIs && slices.Equal(x.Data, y.Data)
	case *Factor:
		y := b.(*Factor)
		return x.AsIs == y.AsIs && slices.Equal(x.Codes, y.Codes) && slices.Equal(x.Levels, y.Levels)
	case *DateVector:
		y := b.(*DateVector)
		return x.AsIs == y.AsIs && realsEqual(x.Days, y.Days)
	case *TimestampVector:
		y := b.(*TimestampVector)
		return x.AsIs == y.AsIs && realsEqual(x.Seconds, y.Seconds)
	case *List:
		y := b.(*List)
		if x.AsIs != y.AsIs || x.Named() != y.Named() || !slices.Equal(x.Names, y.Names) {
			return false
		}
		return valuesEqual(x.Elems, y.Elems)
	case *Table:
		y := b.(*Table)
		if x.NRow != y.NRow || !slices.Equal(x.Names, y.Names) {
			return false
		}
		return valuesEqual(x.Columns, y.Columns)
	case *Array:
		y := b.(*Array)
		return slices.Equal(x.Dim, y.Dim) && Equal(x.Data, y.Data)
	case *Env:
		y := b.(*Env)
		if len(x.Vars) != len(y.Vars) {
			return false
		}
		for k, xv := range x.Vars {
			yv, ok := y.Vars[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func valuesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func realsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		switch {
		case IsNAReal(x) || IsNAReal(y):
			if IsNAReal(x) != IsNAReal(y) {
				return false
			}
		case math.IsNaN(x) || math.IsNaN(y):
			if math.IsNaN(x) != math.IsNaN(y) {
				return false
			}
		case x != y:
			return false
		}
	}
	return true
}
