// Package generator turns typed values back into JSON document trees.
package generator

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/formatter"
	"github.com/mcncl/jsontab/internal/logging"
	"github.com/mcncl/jsontab/internal/models"
)

// Generator is responsible for building JSON trees from typed values
type Generator struct {
	cfg config.SerializeConfig
	log logging.Logger
}

// NewGenerator creates a new Generator instance
func NewGenerator(cfg config.SerializeConfig, log logging.Logger) *Generator {
	return &Generator{cfg: cfg, log: logging.OrNop(log)}
}

// Generate builds the JSON document for v.
func (g *Generator) Generate(v models.Value) (*models.Document, error) {
	root, err := g.Encode(v)
	if err != nil {
		return nil, err
	}
	return models.NewDocument(root), nil
}

// Encode dispatches on the runtime shape of v. Tables come first, then named
// and unnamed lists, environments, arrays, unboxed scalars and vectors.
// Anything else is written as null with a warning.
func (g *Generator) Encode(v models.Value) (*models.Node, error) {
	switch x := v.(type) {
	case nil, models.Null, *models.Null:
		return models.NewNull(), nil
	case *models.Table:
		if x == nil {
			return models.NewNull(), nil
		}
		return g.table(x)
	case *models.List:
		if x == nil {
			return models.NewNull(), nil
		}
		if x.Named() {
			return g.namedList(x)
		}
		arr := models.NewArray()
		for _, e := range x.Elems {
			n, err := g.Encode(e)
			if err != nil {
				return nil, err
			}
			arr.Append(n)
		}
		return arr, nil
	case *models.Env:
		if x == nil {
			return models.NewNull(), nil
		}
		obj := models.NewObject()
		for _, k := range x.Keys() {
			n, err := g.Encode(x.Vars[k])
			if err != nil {
				return nil, err
			}
			obj.Add(k, n)
		}
		return obj, nil
	case *models.Array:
		return g.array(x)
	case models.Vector:
		if g.cfg.AutoUnbox && x.Len() == 1 && !x.IsAsIs() {
			return g.cell(x, 0)
		}
		return g.vector(x)
	}
	g.log.Warn("unsupported value type, writing null", logging.Fields{"type": v.Type().String()})
	return models.NewNull(), nil
}

func (g *Generator) namedList(l *models.List) (*models.Node, error) {
	obj := models.NewObject()
	for i, e := range l.Elems {
		n, err := g.Encode(e)
		if err != nil {
			return nil, err
		}
		obj.Add(g.key(l.Names, i), n)
	}
	return obj, nil
}

// key returns the object key of element i, repairing blank names when asked.
func (g *Generator) key(names []string, i int) string {
	var name string
	if i < len(names) {
		name = names[i]
	}
	if name == "" && g.cfg.NameRepair == config.NameRepairMinimal {
		return strconv.Itoa(i + 1)
	}
	return name
}

func (g *Generator) vector(v models.Vector) (*models.Node, error) {
	arr := models.NewArray()
	for i := 0; i < v.Len(); i++ {
		n, err := g.cell(v, i)
		if err != nil {
			return nil, err
		}
		arr.Append(n)
	}
	return arr, nil
}

// array writes a matrix as an array of rows and a rank 3 array as an array
// of such matrices, one per layer.
func (g *Generator) array(a *models.Array) (*models.Node, error) {
	switch a.Rank() {
	case 0, 1:
		return g.vector(a.Data)
	case 2:
		return g.layer(a.Data, a.Dim[0], a.Dim[1], 0)
	case 3:
		out := models.NewArray()
		size := a.Dim[0] * a.Dim[1]
		for k := 0; k < a.Dim[2]; k++ {
			m, err := g.layer(a.Data, a.Dim[0], a.Dim[1], k*size)
			if err != nil {
				return nil, err
			}
			out.Append(m)
		}
		return out, nil
	}
	return nil, errors.NewSerializeError(
		fmt.Sprintf("cannot write array of rank %d", a.Rank()),
		errors.ErrUnsupportedRank,
	)
}

func (g *Generator) layer(data models.Vector, nrow, ncol, offset int) (*models.Node, error) {
	if offset+nrow*ncol > data.Len() {
		return nil, errors.NewSerializeError(
			fmt.Sprintf("array of %d cells is too short for its dimensions", data.Len()),
			errors.ErrUnsupportedRank,
		)
	}
	out := models.NewArray()
	for i := 0; i < nrow; i++ {
		row := models.NewArray()
		for j := 0; j < ncol; j++ {
			n, err := g.cell(data, offset+j*nrow+i)
			if err != nil {
				return nil, err
			}
			row.Append(n)
		}
		out.Append(row)
	}
	return out, nil
}

// Serialize converts v to JSON text.
func Serialize(v models.Value, cfg config.SerializeConfig, log logging.Logger) ([]byte, error) {
	doc, err := NewGenerator(cfg, log).Generate(v)
	if err != nil {
		return nil, err
	}
	defer doc.Release()
	return formatter.NewFormatter(cfg.Pretty).Format(doc)
}

// SerializeToFile converts v to JSON text and writes it to path.
func SerializeToFile(v models.Value, path string, cfg config.SerializeConfig, log logging.Logger) error {
	out, err := Serialize(v, cfg, log)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write output file '%s'", path), err)
	}
	return nil
}
