package export

import (
	"fmt"
	"math"

	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/models"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ToCty converts v to a cty value. Atomic vectors become lists of a primitive
// type with typed nulls for missing cells, named lists and envs become
// objects, unnamed lists become tuples, and tables become a list of row
// objects when every row has the same type, else a tuple.
func ToCty(v models.Value) (cty.Value, error) {
	switch x := v.(type) {
	case nil, models.Null, *models.Null:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case *models.List:
		vals, err := ctyValues(x.Elems)
		if err != nil {
			return cty.NilVal, err
		}
		if !x.Named() {
			return cty.TupleVal(vals), nil
		}
		attrs := make(map[string]cty.Value, len(vals))
		for i, name := range x.Names {
			attrs[name] = vals[i]
		}
		return cty.ObjectVal(attrs), nil
	case *models.Env:
		attrs := make(map[string]cty.Value, len(x.Vars))
		for k, e := range x.Vars {
			cv, err := ToCty(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("in binding '%s': %w", k, err)
			}
			attrs[k] = cv
		}
		return cty.ObjectVal(attrs), nil
	case *models.Table:
		rows := make([]cty.Value, x.NRow)
		for i := range rows {
			row, err := ctyRow(x, i)
			if err != nil {
				return cty.NilVal, err
			}
			rows[i] = row
		}
		return listOrTuple(rows), nil
	case *models.Array:
		return ctyArray(x)
	case models.Vector:
		et := ctyElemType(x)
		if x.Len() == 0 {
			return cty.ListValEmpty(et), nil
		}
		cells := make([]cty.Value, x.Len())
		for i := range cells {
			cells[i] = ctyCell(x, i)
		}
		return cty.ListVal(cells), nil
	}
	return cty.NilVal, errors.NewSerializeError(fmt.Sprintf("cannot convert value of type %T to cty", v), nil)
}

// MarshalCty renders ToCty(v) in the cty JSON encoding, which carries the type
// alongside the value.
func MarshalCty(v models.Value) ([]byte, error) {
	cv, err := ToCty(v)
	if err != nil {
		return nil, err
	}
	b, err := ctyjson.MarshalType(cv.Type())
	if err != nil {
		return nil, errors.NewSerializeError("failed to encode cty type", err)
	}
	val, err := ctyjson.Marshal(cv, cv.Type())
	if err != nil {
		return nil, errors.NewSerializeError("failed to encode cty value", err)
	}
	out := make([]byte, 0, len(b)+len(val)+20)
	out = append(out, `{"value":`...)
	out = append(out, val...)
	out = append(out, `,"type":`...)
	out = append(out, b...)
	out = append(out, '}')
	return out, nil
}

func ctyValues(vals []models.Value) ([]cty.Value, error) {
	out := make([]cty.Value, len(vals))
	for i, v := range vals {
		cv, err := ToCty(v)
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}
	return out, nil
}

// listOrTuple returns a list when every value has the same type.
func listOrTuple(vals []cty.Value) cty.Value {
	if len(vals) == 0 {
		return cty.EmptyTupleVal
	}
	for _, v := range vals[1:] {
		if !v.Type().Equals(vals[0].Type()) {
			return cty.TupleVal(vals)
		}
	}
	return cty.ListVal(vals)
}

func ctyRow(t *models.Table, i int) (cty.Value, error) {
	cells := make([]cty.Value, len(t.Columns))
	for c, col := range t.Columns {
		var err error
		switch x := col.(type) {
		case models.Vector:
			if i >= x.Len() {
				return cty.NilVal, errors.NewSerializeError(fmt.Sprintf("column %d has %d rows, want %d", c+1, x.Len(), t.NRow), errors.ErrRaggedTable)
			}
			cells[c] = ctyCell(x, i)
		case *models.List:
			if i >= len(x.Elems) {
				return cty.NilVal, errors.NewSerializeError(fmt.Sprintf("column %d has %d rows, want %d", c+1, len(x.Elems), t.NRow), errors.ErrRaggedTable)
			}
			cells[c], err = ToCty(x.Elems[i])
		case *models.Table:
			cells[c], err = ctyRow(x, i)
		default:
			cells[c], err = ToCty(col)
		}
		if err != nil {
			return cty.NilVal, err
		}
	}
	if t.Names == nil {
		return cty.TupleVal(cells), nil
	}
	attrs := make(map[string]cty.Value, len(cells))
	for c, name := range t.Names {
		attrs[name] = cells[c]
	}
	return cty.ObjectVal(attrs), nil
}

// ctyArray nests cells the way arrays are written as JSON: rows of columns,
// with layers outermost for rank 3.
func ctyArray(a *models.Array) (cty.Value, error) {
	switch a.Rank() {
	case 0, 1:
		return ToCty(a.Data)
	case 2:
		return ctyLayer(a.Data, a.Dim[0], a.Dim[1], 0)
	case 3:
		layers := make([]cty.Value, a.Dim[2])
		size := a.Dim[0] * a.Dim[1]
		for k := range layers {
			m, err := ctyLayer(a.Data, a.Dim[0], a.Dim[1], k*size)
			if err != nil {
				return cty.NilVal, err
			}
			layers[k] = m
		}
		if len(layers) == 0 {
			return cty.ListValEmpty(cty.List(cty.List(ctyElemType(a.Data)))), nil
		}
		return cty.ListVal(layers), nil
	}
	return cty.NilVal, errors.NewSerializeError(fmt.Sprintf("cannot convert array of rank %d", a.Rank()), errors.ErrUnsupportedRank)
}

func ctyLayer(data models.Vector, nrow, ncol, offset int) (cty.Value, error) {
	if offset+nrow*ncol > data.Len() {
		return cty.NilVal, errors.NewSerializeError(
			fmt.Sprintf("array of %d cells is too short for its dimensions", data.Len()),
			errors.ErrUnsupportedRank,
		)
	}
	et := ctyElemType(data)
	if nrow == 0 {
		return cty.ListValEmpty(cty.List(et)), nil
	}
	rows := make([]cty.Value, nrow)
	for i := range rows {
		if ncol == 0 {
			rows[i] = cty.ListValEmpty(et)
			continue
		}
		cells := make([]cty.Value, ncol)
		for j := range cells {
			cells[j] = ctyCell(data, offset+j*nrow+i)
		}
		rows[i] = cty.ListVal(cells)
	}
	return cty.ListVal(rows), nil
}

func ctyElemType(v models.Vector) cty.Type {
	switch v.(type) {
	case *models.LogicalVector:
		return cty.Bool
	case *models.IntegerVector, *models.Int64Vector, *models.RealVector, *models.RawVector:
		return cty.Number
	default:
		return cty.String
	}
}

// ctyCell converts cell i of v. Missing cells and NaN become typed nulls.
func ctyCell(v models.Vector, i int) cty.Value {
	switch x := v.(type) {
	case *models.LogicalVector:
		switch x.Data[i] {
		case models.True:
			return cty.True
		case models.False:
			return cty.False
		}
		return cty.NullVal(cty.Bool)
	case *models.IntegerVector:
		if x.Data[i] == models.NAInteger {
			return cty.NullVal(cty.Number)
		}
		return cty.NumberIntVal(int64(x.Data[i]))
	case *models.Int64Vector:
		if x.Data[i] == models.NAInt64 {
			return cty.NullVal(cty.Number)
		}
		return cty.NumberIntVal(x.Data[i])
	case *models.RealVector:
		f := x.Data[i]
		switch {
		case math.IsNaN(f):
			return cty.NullVal(cty.Number)
		case math.IsInf(f, 1):
			return cty.PositiveInfinity
		case math.IsInf(f, -1):
			return cty.NegativeInfinity
		}
		return cty.NumberFloatVal(f)
	case *models.RawVector:
		return cty.NumberUIntVal(uint64(x.Data[i]))
	case *models.StringVector:
		if x.Data[i].NA {
			return cty.NullVal(cty.String)
		}
		return cty.StringVal(x.Data[i].Val)
	case *models.Factor:
		code := x.Codes[i]
		if code < 1 || int(code) > len(x.Levels) {
			return cty.NullVal(cty.String)
		}
		return cty.StringVal(x.Levels[code-1])
	case *models.DateVector:
		if s, ok := models.DateString(x.Days[i]); ok {
			return cty.StringVal(s)
		}
	case *models.TimestampVector:
		if s, ok := models.TimestampString(x.Seconds[i]); ok {
			return cty.StringVal(s)
		}
	}
	return cty.NullVal(ctyElemType(v))
}
