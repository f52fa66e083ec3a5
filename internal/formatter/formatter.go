// Package formatter writes JSON document trees as text and summarizes typed values.
package formatter

import (
	"math"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/models"
)

const indentUnit = "  "

const hexChars = "0123456789abcdef"

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 1024)
		return &b
	},
}

// Formatter renders JSON document trees as compact or indented text.
type Formatter struct {
	pretty bool
}

// NewFormatter creates a new Formatter. With pretty set, containers are
// broken over lines with two-space indentation.
func NewFormatter(pretty bool) *Formatter {
	return &Formatter{pretty: pretty}
}

// Format writes the document as JSON text
func (f *Formatter) Format(doc *models.Document) ([]byte, error) {
	if doc == nil || doc.Root == nil {
		return []byte("null"), nil
	}
	return f.FormatNode(doc.Root)
}

// FormatNode writes n and everything below it. A non-finite number anywhere
// in the tree fails the whole write.
func (f *Formatter) FormatNode(n *models.Node) ([]byte, error) {
	bp := bufPool.Get().(*[]byte)
	buf := (*bp)[:0]
	defer func() {
		if cap(buf) <= 64*1024 {
			*bp = buf[:0]
			bufPool.Put(bp)
		}
	}()

	var err error
	if buf, err = f.write(buf, n, 0); err != nil {
		return nil, err
	}
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

func (f *Formatter) write(buf []byte, n *models.Node, level int) ([]byte, error) {
	if n == nil {
		return append(buf, "null"...), nil
	}

	switch n.Type() {
	case models.NodeNull:
		return append(buf, "null"...), nil
	case models.NodeBool:
		return strconv.AppendBool(buf, n.Bool()), nil
	case models.NodeNumber:
		return appendNumber(buf, n)
	case models.NodeString:
		return appendString(buf, n.Str()), nil
	case models.NodeRaw:
		return append(buf, n.Str()...), nil
	case models.NodeArray:
		if n.Len() == 0 {
			return append(buf, "[]"...), nil
		}
		buf = append(buf, '[')
		var err error
		for i, e := range n.Elems() {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = f.newline(buf, level+1)
			if buf, err = f.write(buf, e, level+1); err != nil {
				return nil, err
			}
		}
		buf = f.newline(buf, level)
		return append(buf, ']'), nil
	case models.NodeObject:
		if n.Len() == 0 {
			return append(buf, "{}"...), nil
		}
		buf = append(buf, '{')
		var err error
		for i, m := range n.Members() {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = f.newline(buf, level+1)
			buf = appendString(buf, m.Key)
			buf = append(buf, ':')
			if f.pretty {
				buf = append(buf, ' ')
			}
			if buf, err = f.write(buf, m.Value, level+1); err != nil {
				return nil, err
			}
		}
		buf = f.newline(buf, level)
		return append(buf, '}'), nil
	}
	return append(buf, "null"...), nil
}

func (f *Formatter) newline(buf []byte, level int) []byte {
	if !f.pretty {
		return buf
	}
	buf = append(buf, '\n')
	for i := 0; i < level; i++ {
		buf = append(buf, indentUnit...)
	}
	return buf
}

func appendNumber(buf []byte, n *models.Node) ([]byte, error) {
	switch n.Subtype() {
	case models.SubtypeUint:
		return strconv.AppendUint(buf, n.Uint(), 10), nil
	case models.SubtypeSint:
		return strconv.AppendInt(buf, n.Sint(), 10), nil
	}
	return appendReal(buf, n.Real())
}

// appendReal writes the shortest text that reads back as f. Integral values
// keep a ".0" suffix so they are still read as reals.
func appendReal(buf []byte, f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.NewSerializeError("cannot write "+strconv.FormatFloat(f, 'g', -1, 64), errors.ErrNonFiniteNumber)
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.AppendFloat(buf, f, 'e', -1, 64), nil
	}
	start := len(buf)
	buf = strconv.AppendFloat(buf, f, 'f', -1, 64)
	for _, c := range buf[start:] {
		if c == '.' {
			return buf, nil
		}
	}
	return append(buf, ".0"...), nil
}

func appendString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= utf8.RuneSelf {
			if r, size := utf8.DecodeRuneInString(s[i:]); r == utf8.RuneError && size == 1 {
				buf = append(buf, s[start:i]...)
				buf = append(buf, `\ufffd`...)
				start = i + 1
			} else {
				i += size - 1
			}
			continue
		}
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		buf = append(buf, s[start:i]...)
		switch c {
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		default:
			buf = append(buf, '\\', 'u', '0', '0', hexChars[c>>4], hexChars[c&0x0f])
		}
		start = i + 1
	}
	buf = append(buf, s[start:]...)
	return append(buf, '"')
}
