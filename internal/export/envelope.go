// Package export converts typed values to binary and foreign representations.
package export

import (
	"fmt"
	"math"
	"slices"

	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/models"
)

// Envelope is a tagged, codec-friendly mirror of a typed value. Exactly one
// payload slice is set for an atomic value; containers carry their children
// in Elems. Binary codecs may canonicalize NaN payloads, so missing real and
// string cells are also listed by index in NA.
type Envelope struct {
	Type     models.Type `msgpack:"t" cbor:"t"`
	Named    bool        `msgpack:"named,omitempty" cbor:"named,omitempty"`
	Names    []string    `msgpack:"names,omitempty" cbor:"names,omitempty"`
	Dim      []int       `msgpack:"dim,omitempty" cbor:"dim,omitempty"`
	Levels   []string    `msgpack:"levels,omitempty" cbor:"levels,omitempty"`
	AsIs     bool        `msgpack:"asis,omitempty" cbor:"asis,omitempty"`
	Verbatim bool        `msgpack:"verbatim,omitempty" cbor:"verbatim,omitempty"`
	NRow     int         `msgpack:"nrow,omitempty" cbor:"nrow,omitempty"`

	Logicals []models.Logical `msgpack:"lgl,omitempty" cbor:"lgl,omitempty"`
	Ints     []int32          `msgpack:"int,omitempty" cbor:"int,omitempty"`
	Int64s   []int64          `msgpack:"i64,omitempty" cbor:"i64,omitempty"`
	Reals    []float64        `msgpack:"dbl,omitempty" cbor:"dbl,omitempty"`
	Strings  []string         `msgpack:"chr,omitempty" cbor:"chr,omitempty"`
	Bytes    []byte           `msgpack:"raw,omitempty" cbor:"raw,omitempty"`
	NA       []int            `msgpack:"na,omitempty" cbor:"na,omitempty"`

	Elems []*Envelope `msgpack:"elems,omitempty" cbor:"elems,omitempty"`
}

// ToEnvelope mirrors v as an Envelope.
func ToEnvelope(v models.Value) (*Envelope, error) {
	switch x := v.(type) {
	case nil, models.Null, *models.Null:
		return &Envelope{Type: models.TypeNull}, nil
	case *models.LogicalVector:
		return &Envelope{Type: x.Type(), AsIs: x.AsIs, Logicals: x.Data}, nil
	case *models.IntegerVector:
		return &Envelope{Type: x.Type(), AsIs: x.AsIs, Ints: x.Data}, nil
	case *models.Int64Vector:
		return &Envelope{Type: x.Type(), AsIs: x.AsIs, Int64s: x.Data}, nil
	case *models.RealVector:
		return &Envelope{Type: x.Type(), AsIs: x.AsIs, Reals: x.Data, NA: naReals(x.Data)}, nil
	case *models.DateVector:
		return &Envelope{Type: x.Type(), AsIs: x.AsIs, Reals: x.Days, NA: naReals(x.Days)}, nil
	case *models.TimestampVector:
		return &Envelope{Type: x.Type(), AsIs: x.AsIs, Reals: x.Seconds, NA: naReals(x.Seconds)}, nil
	case *models.StringVector:
		e := &Envelope{Type: x.Type(), AsIs: x.AsIs, Verbatim: x.Verbatim, Strings: make([]string, len(x.Data))}
		for i, s := range x.Data {
			if s.NA {
				e.NA = append(e.NA, i)
				continue
			}
			e.Strings[i] = s.Val
		}
		return e, nil
	case *models.RawVector:
		return &Envelope{Type: x.Type(), AsIs: x.AsIs, Bytes: x.Data}, nil
	case *models.Factor:
		return &Envelope{Type: x.Type(), AsIs: x.AsIs, Ints: x.Codes, Levels: x.Levels}, nil
	case *models.List:
		elems, err := envelopes(x.Elems)
		if err != nil {
			return nil, err
		}
		return &Envelope{Type: x.Type(), AsIs: x.AsIs, Named: x.Named(), Names: x.Names, Elems: elems}, nil
	case *models.Table:
		cols, err := envelopes(x.Columns)
		if err != nil {
			return nil, err
		}
		return &Envelope{Type: x.Type(), Named: x.Names != nil, Names: x.Names, NRow: x.NRow, Elems: cols}, nil
	case *models.Array:
		data, err := ToEnvelope(x.Data)
		if err != nil {
			return nil, err
		}
		return &Envelope{Type: x.Type(), Dim: x.Dim, Elems: []*Envelope{data}}, nil
	case *models.Env:
		keys := x.Keys()
		vals := make([]models.Value, len(keys))
		for i, k := range keys {
			vals[i] = x.Vars[k]
		}
		elems, err := envelopes(vals)
		if err != nil {
			return nil, err
		}
		return &Envelope{Type: x.Type(), Named: true, Names: keys, Elems: elems}, nil
	}
	return nil, errors.NewSerializeError(fmt.Sprintf("cannot export value of type %T", v), nil)
}

func envelopes(vals []models.Value) ([]*Envelope, error) {
	out := make([]*Envelope, len(vals))
	for i, v := range vals {
		e, err := ToEnvelope(v)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func naReals(data []float64) []int {
	var na []int
	for i, f := range data {
		if models.IsNAReal(f) {
			na = append(na, i)
		}
	}
	return na
}

// FromEnvelope rebuilds the typed value mirrored by e.
func FromEnvelope(e *Envelope) (models.Value, error) {
	if e == nil {
		return models.Null{}, nil
	}
	switch e.Type {
	case models.TypeNull:
		return models.Null{}, nil
	case models.TypeLogical:
		return &models.LogicalVector{Data: nonNil(e.Logicals), AsIs: e.AsIs}, nil
	case models.TypeInteger:
		return &models.IntegerVector{Data: nonNil(e.Ints), AsIs: e.AsIs}, nil
	case models.TypeInt64:
		return &models.Int64Vector{Data: nonNil(e.Int64s), AsIs: e.AsIs}, nil
	case models.TypeReal:
		return &models.RealVector{Data: e.reals(), AsIs: e.AsIs}, nil
	case models.TypeDate:
		return &models.DateVector{Days: e.reals(), AsIs: e.AsIs}, nil
	case models.TypeTimestamp:
		return &models.TimestampVector{Seconds: e.reals(), AsIs: e.AsIs}, nil
	case models.TypeString:
		data := make([]models.String, len(e.Strings))
		for i, s := range e.Strings {
			data[i] = models.Str(s)
		}
		for _, i := range e.NA {
			if i < 0 || i >= len(data) {
				return nil, corrupt("missing-cell index %d out of range", i)
			}
			data[i] = models.NAString
		}
		return &models.StringVector{Data: data, AsIs: e.AsIs, Verbatim: e.Verbatim}, nil
	case models.TypeRaw:
		return &models.RawVector{Data: nonNil(e.Bytes), AsIs: e.AsIs}, nil
	case models.TypeFactor:
		return &models.Factor{Codes: nonNil(e.Ints), Levels: nonNil(e.Levels), AsIs: e.AsIs}, nil
	case models.TypeList:
		elems, err := fromEnvelopes(e.Elems)
		if err != nil {
			return nil, err
		}
		l := &models.List{Elems: elems, AsIs: e.AsIs}
		if e.Named {
			if len(e.Names) != len(elems) {
				return nil, corrupt("list has %d names for %d elements", len(e.Names), len(elems))
			}
			l.Names = nonNil(e.Names)
		}
		return l, nil
	case models.TypeTable:
		cols, err := fromEnvelopes(e.Elems)
		if err != nil {
			return nil, err
		}
		t := &models.Table{Columns: cols, NRow: e.NRow}
		if e.Named {
			t.Names = nonNil(e.Names)
		}
		return t, nil
	case models.TypeArray:
		if len(e.Elems) != 1 {
			return nil, corrupt("array carries %d data elements", len(e.Elems))
		}
		data, err := FromEnvelope(e.Elems[0])
		if err != nil {
			return nil, err
		}
		vec, ok := data.(models.Vector)
		if !ok {
			return nil, corrupt("array data is %s, not a vector", models.TypeOf(data))
		}
		return &models.Array{Data: vec, Dim: nonNil(e.Dim)}, nil
	case models.TypeEnv:
		if len(e.Names) != len(e.Elems) {
			return nil, corrupt("env has %d names for %d bindings", len(e.Names), len(e.Elems))
		}
		vals, err := fromEnvelopes(e.Elems)
		if err != nil {
			return nil, err
		}
		env := &models.Env{Vars: make(map[string]models.Value, len(vals))}
		for i, k := range e.Names {
			env.Vars[k] = vals[i]
		}
		return env, nil
	}
	return nil, corrupt("unknown type tag %d", e.Type)
}

func fromEnvelopes(es []*Envelope) ([]models.Value, error) {
	out := make([]models.Value, len(es))
	for i, e := range es {
		v, err := FromEnvelope(e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// reals restores the missing marker at every NA index. Other NaN cells stay
// ordinary NaN.
func (e *Envelope) reals() []float64 {
	data := slices.Clone(nonNil(e.Reals))
	for i, f := range data {
		if math.IsNaN(f) {
			data[i] = math.NaN()
		}
	}
	for _, i := range e.NA {
		if i >= 0 && i < len(data) {
			data[i] = models.NAReal()
		}
	}
	return data
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func corrupt(format string, args ...any) error {
	return errors.NewParsingError("corrupt export envelope", fmt.Errorf(format, args...))
}
