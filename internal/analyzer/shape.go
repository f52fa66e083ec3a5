package analyzer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/logging"
	"github.com/mcncl/jsontab/internal/models"
)

// infer builds the typed value for n. depth counts the containers entered so far.
func (a *Analyzer) infer(n *models.Node, depth int) (models.Value, error) {
	switch n.Type() {
	case models.NodeArray:
		if err := a.enter(depth); err != nil {
			return nil, err
		}
		return a.inferArray(n.Elems(), depth+1)
	case models.NodeObject:
		if err := a.enter(depth); err != nil {
			return nil, err
		}
		return a.inferObject(n.Members(), depth+1)
	default:
		return a.scalar(n)
	}
}

func (a *Analyzer) enter(depth int) error {
	if a.cfg.MaxDepth > 0 && depth >= a.cfg.MaxDepth {
		return errors.NewLimitError(
			fmt.Sprintf("input nests deeper than %d levels", a.cfg.MaxDepth),
			errors.ErrMaxDepth,
		)
	}
	return nil
}

// scalar converts a lone JSON scalar, as found at the root or inside a
// heterogeneous list, into a length-1 vector.
func (a *Analyzer) scalar(n *models.Node) (models.Value, error) {
	switch n.Type() {
	case models.NodeNull:
		return models.Null{}, nil
	case models.NodeBool:
		return &models.LogicalVector{Data: []models.Logical{models.LogicalOf(n.Bool())}}, nil
	case models.NodeString:
		return &models.StringVector{Data: []models.String{models.Str(n.Str())}}, nil
	case models.NodeNumber:
		switch n.Subtype() {
		case models.SubtypeUint:
			if n.Uint() <= math.MaxInt32 {
				return &models.IntegerVector{Data: []int32{int32(n.Uint())}}, nil
			}
			return a.wideScalar(n), nil
		case models.SubtypeSint:
			if i := n.Sint(); i >= math.MinInt32 && i <= math.MaxInt32 {
				return &models.IntegerVector{Data: []int32{int32(i)}}, nil
			}
			return a.wideScalar(n), nil
		default:
			return &models.RealVector{Data: []float64{n.Real()}}, nil
		}
	}
	return nil, errors.NewAnalysisError(fmt.Sprintf("cannot convert %s value", n.Type()), errors.ErrUnclassifiable)
}

func (a *Analyzer) wideScalar(n *models.Node) models.Value {
	switch a.cfg.Int64 {
	case config.Int64AsDouble:
		return &models.RealVector{Data: []float64{n.Float()}}
	case config.Int64AsNative:
		return &models.Int64Vector{Data: []int64{a.DecodeInt64(n)}}
	default:
		if n.Subtype() == models.SubtypeUint {
			return &models.StringVector{Data: []models.String{models.Str(strconv.FormatUint(n.Uint(), 10))}}
		}
		return &models.StringVector{Data: []models.String{models.Str(strconv.FormatInt(n.Sint(), 10))}}
	}
}

func (a *Analyzer) inferArray(elems []*models.Node, depth int) (models.Value, error) {
	if len(elems) == 0 {
		return &models.List{Elems: []models.Value{}}, nil
	}

	var hasArr, hasObj, hasScalar bool
	for _, e := range elems {
		switch e.Type() {
		case models.NodeArray:
			hasArr = true
		case models.NodeObject:
			hasObj = true
		default:
			hasScalar = true
		}
	}

	var v models.Value
	var err error
	switch {
	case !hasArr && !hasObj:
		v, err = a.atomicArray(elems, depth)
	case hasArr && !hasObj && !hasScalar:
		v, err = a.arrayOfArrays(elems, depth)
	case hasObj && !hasArr && !hasScalar && a.cfg.ArrOfObjsToTable:
		v, err = a.objectsToTable(elems, depth)
	default:
		v, err = a.list(elems, depth)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// atomicArray handles an array holding only scalars.
func (a *Analyzer) atomicArray(elems []*models.Node, depth int) (models.Value, error) {
	b, err := ClassifyAll(elems, &a.cfg, a.log)
	if err != nil {
		return nil, err
	}
	kind := Resolve(b, a.cfg.PromoteNumToString, a.log)
	var v models.Value
	if kind.Atomic() {
		v = a.buildVector(kind, elems)
	} else if v, err = a.list(elems, depth); err != nil {
		return nil, err
	}
	// Only all-scalar arrays are tagged.
	if a.cfg.Length1ArrayAsIs && len(elems) == 1 {
		tagAsIs(v)
	}
	return v, nil
}

// arrayOfArrays builds a matrix when every inner array is a scalar row of the
// same length and the cells resolve to one atomic kind. Otherwise each inner
// array is inferred on its own and equal-sized matrices are stacked into a
// rank 3 array.
func (a *Analyzer) arrayOfArrays(rows []*models.Node, depth int) (models.Value, error) {
	if m, ok, err := a.matrix(rows); err != nil || ok {
		return m, err
	}

	l, err := a.list(rows, depth)
	if err != nil {
		return nil, err
	}
	if stacked, ok := stack(l.Elems); ok {
		return stacked, nil
	}
	return l, nil
}

func (a *Analyzer) matrix(rows []*models.Node) (models.Value, bool, error) {
	nrow, ncol := len(rows), rows[0].Len()
	var b Bitset
	var err error
	for _, r := range rows {
		if r.Len() != ncol {
			return nil, false, nil
		}
		for _, c := range r.Elems() {
			if c.IsContainer() {
				return nil, false, nil
			}
			if b, err = Classify(b, c, &a.cfg, a.log); err != nil {
				return nil, false, err
			}
		}
	}
	kind := Resolve(b, a.cfg.PromoteNumToString, a.log)
	if !kind.Atomic() {
		return nil, false, nil
	}

	cells := make([]*models.Node, nrow*ncol)
	for i, r := range rows {
		for j, c := range r.Elems() {
			cells[j*nrow+i] = c
		}
	}
	return models.NewMatrix(a.buildVector(kind, cells), nrow, ncol), true, nil
}

// stack joins two or more matrices with the same dimensions and cell type
// into one [nrow, ncol, nlayer] array.
func stack(elems []models.Value) (*models.Array, bool) {
	if len(elems) < 2 {
		return nil, false
	}
	layers := make([]models.Vector, len(elems))
	var dim []int
	for i, e := range elems {
		m, ok := e.(*models.Array)
		if !ok || m.Rank() != 2 {
			return nil, false
		}
		if dim == nil {
			dim = m.Dim
		} else if m.Dim[0] != dim[0] || m.Dim[1] != dim[1] || m.Data.Type() != layers[0].Type() {
			return nil, false
		}
		layers[i] = m.Data
	}
	data, ok := concat(layers)
	if !ok {
		return nil, false
	}
	return &models.Array{Data: data, Dim: []int{dim[0], dim[1], len(elems)}}, true
}

func concat(vs []models.Vector) (models.Vector, bool) {
	switch vs[0].(type) {
	case *models.LogicalVector:
		out := &models.LogicalVector{}
		for _, v := range vs {
			out.Data = append(out.Data, v.(*models.LogicalVector).Data...)
		}
		return out, true
	case *models.IntegerVector:
		out := &models.IntegerVector{}
		for _, v := range vs {
			out.Data = append(out.Data, v.(*models.IntegerVector).Data...)
		}
		return out, true
	case *models.RealVector:
		out := &models.RealVector{}
		for _, v := range vs {
			out.Data = append(out.Data, v.(*models.RealVector).Data...)
		}
		return out, true
	case *models.Int64Vector:
		out := &models.Int64Vector{}
		for _, v := range vs {
			out.Data = append(out.Data, v.(*models.Int64Vector).Data...)
		}
		return out, true
	case *models.StringVector:
		out := &models.StringVector{}
		for _, v := range vs {
			out.Data = append(out.Data, v.(*models.StringVector).Data...)
		}
		return out, true
	}
	return nil, false
}

// list infers every element independently.
func (a *Analyzer) list(elems []*models.Node, depth int) (*models.List, error) {
	out := &models.List{Elems: make([]models.Value, len(elems))}
	for i, e := range elems {
		v, err := a.infer(e, depth)
		if err != nil {
			return nil, err
		}
		out.Elems[i] = v
	}
	return out, nil
}

// inferObject builds a named list in key order. A repeated key keeps the slot
// of its first occurrence and the value of its last.
func (a *Analyzer) inferObject(members []models.Member, depth int) (models.Value, error) {
	out := &models.List{
		Elems: make([]models.Value, 0, len(members)),
		Names: make([]string, 0, len(members)),
	}
	seen := make(map[string]int, len(members))
	for _, m := range members {
		v, err := a.infer(m.Value, depth)
		if err != nil {
			return nil, err
		}
		if i, ok := seen[m.Key]; ok {
			out.Elems[i] = v
			continue
		}
		seen[m.Key] = len(out.Names)
		out.Names = append(out.Names, m.Key)
		out.Elems = append(out.Elems, v)
	}

	if a.cfg.ObjOfArrsToTable {
		if nrow, ok := tableShaped(out.Elems); ok {
			return &models.Table{Names: out.Names, Columns: out.Elems, NRow: nrow}, nil
		}
	}
	return out, nil
}

// tableShaped reports whether cols can be read as the columns of a table:
// at least two columns, all vectors or lists of one length of at least two.
func tableShaped(cols []models.Value) (int, bool) {
	if len(cols) < 2 {
		return 0, false
	}
	nrow := -1
	for _, c := range cols {
		var n int
		switch x := c.(type) {
		case models.Vector:
			n = x.Len()
		case *models.List:
			n = x.Len()
		default:
			return 0, false
		}
		if nrow == -1 {
			nrow = n
		} else if n != nrow {
			return 0, false
		}
	}
	return nrow, nrow >= 2
}

// buildVector decodes nodes into a vector of kind. Nil nodes are missing cells.
func (a *Analyzer) buildVector(kind ContainerKind, nodes []*models.Node) models.Vector {
	switch kind {
	case ContainerLogical:
		data := make([]models.Logical, len(nodes))
		for i, n := range nodes {
			data[i] = a.DecodeLogical(n)
		}
		return &models.LogicalVector{Data: data}
	case ContainerInteger:
		data := make([]int32, len(nodes))
		for i, n := range nodes {
			data[i] = a.DecodeInteger(n)
		}
		return &models.IntegerVector{Data: data}
	case ContainerReal:
		data := make([]float64, len(nodes))
		for i, n := range nodes {
			data[i] = a.DecodeReal(n)
		}
		return &models.RealVector{Data: data}
	case ContainerInt64:
		data := make([]int64, len(nodes))
		for i, n := range nodes {
			data[i] = a.DecodeInt64(n)
		}
		return &models.Int64Vector{Data: data}
	case ContainerString:
		data := make([]models.String, len(nodes))
		for i, n := range nodes {
			data[i] = a.DecodeString(n)
		}
		return &models.StringVector{Data: data}
	}
	a.log.Warn("no vector for container kind, using strings", logging.Fields{"kind": kind.String()})
	data := make([]models.String, len(nodes))
	for i, n := range nodes {
		data[i] = a.DecodeString(n)
	}
	return &models.StringVector{Data: data}
}

// tagAsIs marks a length-1 result so it is never unboxed. 64-bit integer
// vectors are left alone.
func tagAsIs(v models.Value) {
	switch x := v.(type) {
	case *models.LogicalVector:
		x.AsIs = true
	case *models.IntegerVector:
		x.AsIs = true
	case *models.RealVector:
		x.AsIs = true
	case *models.StringVector:
		x.AsIs = true
	case *models.List:
		x.AsIs = true
	}
}
