package formatter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/jsontab/internal/models"
)

// maxCells is how many cells of a vector are shown before eliding the rest.
const maxCells = 10

// Describe renders a compact structural summary of v, one line per element.
func Describe(v models.Value) string {
	var b strings.Builder
	describe(&b, v, "")
	return b.String()
}

func describe(b *strings.Builder, v models.Value, indent string) {
	switch x := v.(type) {
	case nil, models.Null, *models.Null:
		b.WriteString("NULL\n")
	case *models.Table:
		fmt.Fprintf(b, "Table: %d obs. of %d %s:\n", x.NRow, x.NCol(), plural(x.NCol(), "variable"))
		for i, col := range x.Columns {
			child(b, indent, columnName(x.Names, i), col)
		}
	case *models.List:
		fmt.Fprintf(b, "List of %d\n", x.Len())
		for i, e := range x.Elems {
			name := ""
			if x.Named() {
				name = x.Names[i]
			}
			child(b, indent, name, e)
		}
	case *models.Env:
		fmt.Fprintf(b, "Env with %d %s\n", len(x.Vars), plural(len(x.Vars), "binding"))
		for _, k := range x.Keys() {
			child(b, indent, k, x.Vars[k])
		}
	case *models.Array:
		dims := make([]string, len(x.Dim))
		for i, d := range x.Dim {
			dims[i] = "1:" + strconv.Itoa(d)
		}
		fmt.Fprintf(b, "%s [%s] %s\n", x.Data.Type(), strings.Join(dims, ", "), cells(x.Data))
	case *models.Factor:
		quoted := make([]string, len(x.Levels))
		for i, l := range x.Levels {
			quoted[i] = strconv.Quote(l)
		}
		fmt.Fprintf(b, "Factor w/ %d %s %s: %s\n", len(x.Levels), plural(len(x.Levels), "level"), strings.Join(quoted, ","), cells(x))
	case models.Vector:
		switch x.Len() {
		case 0:
			fmt.Fprintf(b, "%s(0)\n", x.Type())
		case 1:
			fmt.Fprintf(b, "%s %s\n", x.Type(), cells(x))
		default:
			fmt.Fprintf(b, "%s [1:%d] %s\n", x.Type(), x.Len(), cells(x))
		}
	default:
		fmt.Fprintf(b, "<%s>\n", v.Type())
	}
}

func child(b *strings.Builder, indent, name string, v models.Value) {
	b.WriteString(" ")
	b.WriteString(indent)
	b.WriteString("$ ")
	b.WriteString(name)
	b.WriteString(": ")
	describe(b, v, indent+" ..")
}

func columnName(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	return "V" + strconv.Itoa(i+1)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// cells renders the leading cells of a vector separated by spaces.
func cells(v models.Vector) string {
	n := v.Len()
	shown := min(n, maxCells)
	parts := make([]string, shown)
	for i := 0; i < shown; i++ {
		parts[i] = Cell(v, i)
	}
	s := strings.Join(parts, " ")
	if n > shown {
		s += " ..."
	}
	return s
}

// Cell renders cell i of v the way Describe shows it.
func Cell(v models.Vector, i int) string {
	switch x := v.(type) {
	case *models.LogicalVector:
		switch x.Data[i] {
		case models.True:
			return "TRUE"
		case models.False:
			return "FALSE"
		}
		return "NA"
	case *models.IntegerVector:
		if x.Data[i] == models.NAInteger {
			return "NA"
		}
		return strconv.FormatInt(int64(x.Data[i]), 10)
	case *models.RealVector:
		return realCell(x.Data[i])
	case *models.Int64Vector:
		if x.Data[i] == models.NAInt64 {
			return "NA"
		}
		return strconv.FormatInt(x.Data[i], 10)
	case *models.StringVector:
		if x.Data[i].NA {
			return "NA"
		}
		return strconv.Quote(x.Data[i].Val)
	case *models.RawVector:
		return fmt.Sprintf("%02x", x.Data[i])
	case *models.Factor:
		if x.Codes[i] == models.NAInteger {
			return "NA"
		}
		return strconv.FormatInt(int64(x.Codes[i]), 10)
	case *models.DateVector:
		if s, ok := models.DateString(x.Days[i]); ok {
			return s
		}
		return "NA"
	case *models.TimestampVector:
		if s, ok := models.TimestampString(x.Seconds[i]); ok {
			return strconv.Quote(s)
		}
		return "NA"
	}
	return "?"
}

func realCell(f float64) string {
	switch {
	case models.IsNAReal(f):
		return "NA"
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
