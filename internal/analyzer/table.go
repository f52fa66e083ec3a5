package analyzer

import (
	"fmt"

	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/models"
)

// columnRegistry collects column names in first-seen order with the running
// bitset of each column.
type columnRegistry struct {
	names []string
	index map[string]int
	bits  []Bitset
	limit int
}

func newColumnRegistry(limit int) *columnRegistry {
	return &columnRegistry{index: make(map[string]int), limit: limit}
}

// slot returns the position of name, registering it on first sight.
func (r *columnRegistry) slot(name string) (int, error) {
	if i, ok := r.index[name]; ok {
		return i, nil
	}
	if r.limit > 0 && len(r.names) >= r.limit {
		return 0, errors.NewLimitError(
			fmt.Sprintf("more than %d distinct column names", r.limit),
			errors.ErrTooManyColumns,
		)
	}
	i := len(r.names)
	r.index[name] = i
	r.names = append(r.names, name)
	r.bits = append(r.bits, 0)
	return i, nil
}

// ArrayOfObjectsToTable transposes a JSON array of objects into a table. Each
// column takes the container kind its values resolve to; rows without the key
// hold the missing value of that kind, or MissingListElem for list columns.
func (a *Analyzer) ArrayOfObjectsToTable(arr *models.Node) (*models.Table, error) {
	if arr == nil || arr.Type() != models.NodeArray {
		return nil, errors.NewAnalysisError("table source must be a JSON array", errors.ErrUnclassifiable)
	}
	for _, row := range arr.Elems() {
		if row.Type() != models.NodeObject {
			return nil, errors.NewAnalysisError(
				fmt.Sprintf("table row is %s, not an object", row.Type()),
				errors.ErrUnclassifiable,
			)
		}
	}
	return a.objectsToTable(arr.Elems(), 1)
}

func (a *Analyzer) objectsToTable(rows []*models.Node, depth int) (*models.Table, error) {
	reg := newColumnRegistry(a.cfg.MaxColumns)
	for _, row := range rows {
		for _, m := range row.Members() {
			i, err := reg.slot(m.Key)
			if err != nil {
				return nil, err
			}
			if reg.bits[i], err = Classify(reg.bits[i], m.Value, &a.cfg, a.log); err != nil {
				return nil, err
			}
		}
	}

	t := &models.Table{
		Names:   reg.names,
		Columns: make([]models.Value, len(reg.names)),
		NRow:    len(rows),
	}
	for c, name := range reg.names {
		kind := Resolve(reg.bits[c], a.cfg.PromoteNumToString, a.log)
		if kind.Atomic() {
			cells := make([]*models.Node, len(rows))
			for r, row := range rows {
				cells[r], _ = row.Get(name)
			}
			t.Columns[c] = a.buildVector(kind, cells)
			continue
		}

		col := &models.List{Elems: make([]models.Value, len(rows))}
		for r, row := range rows {
			n, ok := row.Get(name)
			if !ok {
				col.Elems[r] = a.cfg.MissingListElem
				continue
			}
			v, err := a.infer(n, depth)
			if err != nil {
				return nil, err
			}
			col.Elems[r] = v
		}
		t.Columns[c] = col
	}
	return t, nil
}
