package generator

import (
	"fmt"

	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/logging"
	"github.com/mcncl/jsontab/internal/models"
)

func (g *Generator) table(t *models.Table) (*models.Node, error) {
	if err := checkColumns(t); err != nil {
		return nil, err
	}

	if g.cfg.Table == config.TableByColumns {
		if t.Names == nil {
			arr := models.NewArray()
			for _, col := range t.Columns {
				n, err := g.Encode(col)
				if err != nil {
					return nil, err
				}
				arr.Append(n)
			}
			return arr, nil
		}
		obj := models.NewObject()
		for c, col := range t.Columns {
			n, err := g.Encode(col)
			if err != nil {
				return nil, err
			}
			obj.Add(g.key(t.Names, c), n)
		}
		return obj, nil
	}

	if t.Names == nil {
		arr := models.NewArray()
		for r := 0; r < t.NRow; r++ {
			row := models.NewArray()
			for _, col := range t.Columns {
				n, err := g.rowCell(col, r)
				if err != nil {
					return nil, err
				}
				row.Append(n)
			}
			arr.Append(row)
		}
		return arr, nil
	}
	return g.TableToRows(t, -1)
}

// TableToRows writes t as an array with one object per row. The column at
// index skip is left out of every row; pass -1 to keep all columns.
func (g *Generator) TableToRows(t *models.Table, skip int) (*models.Node, error) {
	if err := checkColumns(t); err != nil {
		return nil, err
	}
	arr := models.NewArray()
	for r := 0; r < t.NRow; r++ {
		obj, err := g.rowObject(t, r, skip)
		if err != nil {
			return nil, err
		}
		arr.Append(obj)
	}
	return arr, nil
}

func (g *Generator) rowObject(t *models.Table, r, skip int) (*models.Node, error) {
	obj := models.NewObject()
	for c, col := range t.Columns {
		if c == skip {
			continue
		}
		n, err := g.rowCell(col, r)
		if err != nil {
			return nil, err
		}
		obj.Add(g.key(t.Names, c), n)
	}
	return obj, nil
}

// rowCell encodes row r of one column. Nested table columns become row objects.
func (g *Generator) rowCell(col models.Value, r int) (*models.Node, error) {
	switch c := col.(type) {
	case models.Vector:
		return g.cell(c, r)
	case *models.List:
		return g.Encode(c.Elems[r])
	case *models.Table:
		return g.rowObject(c, r, -1)
	}
	g.log.Warn("unsupported column type, writing null", logging.Fields{"type": models.TypeOf(col).String()})
	return models.NewNull(), nil
}

// checkColumns rejects tables whose columns are shorter than the row count.
func checkColumns(t *models.Table) error {
	for c, col := range t.Columns {
		n := t.NRow
		switch x := col.(type) {
		case models.Vector:
			n = x.Len()
		case *models.List:
			n = 0
			if x != nil {
				n = x.Len()
			}
		case *models.Table:
			if x == nil {
				n = 0
				break
			}
			n = x.NRow
			if err := checkColumns(x); err != nil {
				return err
			}
		}
		if n < t.NRow {
			return errors.NewSerializeError(
				fmt.Sprintf("column %d has %d rows, table has %d", c+1, n, t.NRow),
				errors.ErrRaggedTable,
			)
		}
	}
	return nil
}
