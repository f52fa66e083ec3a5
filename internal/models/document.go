package models

// NodeType is the JSON type of a document node.
type NodeType uint8

const (
	NodeNull NodeType = iota
	NodeBool
	NodeNumber
	NodeString
	NodeArray
	NodeObject
	// NodeRaw holds pre-rendered JSON text that the writer emits verbatim.
	NodeRaw
)

// String returns a short description of the node type
func (t NodeType) String() string {
	switch t {
	case NodeNull:
		return "null"
	case NodeBool:
		return "bool"
	case NodeNumber:
		return "number"
	case NodeString:
		return "string"
	case NodeArray:
		return "array"
	case NodeObject:
		return "object"
	case NodeRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// NumberSubtype distinguishes the three numeric representations of a number node.
type NumberSubtype uint8

const (
	SubtypeNone NumberSubtype = iota
	SubtypeUint
	SubtypeSint
	SubtypeReal
)

// Member is one key/value pair of an object node.
type Member struct {
	Key   string
	Value *Node
}

// Node is a single value of a JSON document tree. The same type serves as the
// read-only tree produced by the parser and as the mutable builder consumed by
// the writer.
type Node struct {
	typ     NodeType
	sub     NumberSubtype
	b       bool
	u       uint64
	i       int64
	f       float64
	s       string
	elems   []*Node
	members []Member
}

// NewNull creates a null node
func NewNull() *Node { return &Node{typ: NodeNull} }

// NewBool creates a bool node
func NewBool(b bool) *Node { return &Node{typ: NodeBool, b: b} }

// NewUint creates an unsigned integer node
func NewUint(u uint64) *Node { return &Node{typ: NodeNumber, sub: SubtypeUint, u: u} }

// NewSint creates a signed integer node
func NewSint(i int64) *Node { return &Node{typ: NodeNumber, sub: SubtypeSint, i: i} }

// NewReal creates a floating point node
func NewReal(f float64) *Node { return &Node{typ: NodeNumber, sub: SubtypeReal, f: f} }

// NewString creates a string node
func NewString(s string) *Node { return &Node{typ: NodeString, s: s} }

// NewRaw creates a node holding JSON text that is written without escaping.
func NewRaw(text string) *Node { return &Node{typ: NodeRaw, s: text} }

// NewArray creates an empty array node
func NewArray() *Node { return &Node{typ: NodeArray} }

// NewObject creates an empty object node
func NewObject() *Node { return &Node{typ: NodeObject} }

// Type returns the node type
func (n *Node) Type() NodeType { return n.typ }

// Subtype returns the numeric subtype; SubtypeNone for non-numbers.
func (n *Node) Subtype() NumberSubtype { return n.sub }

// IsNull reports whether n is a JSON null
func (n *Node) IsNull() bool { return n.typ == NodeNull }

// IsContainer reports whether n is an array or an object
func (n *Node) IsContainer() bool { return n.typ == NodeArray || n.typ == NodeObject }

// Bool returns the value of a bool node
func (n *Node) Bool() bool { return n.b }

// Uint returns the value of an unsigned integer node
func (n *Node) Uint() uint64 { return n.u }

// Sint returns the value of a signed integer node
func (n *Node) Sint() int64 { return n.i }

// Real returns the value of a real node
func (n *Node) Real() float64 { return n.f }

// Float returns any number node as a float64.
func (n *Node) Float() float64 {
	switch n.sub {
	case SubtypeUint:
		return float64(n.u)
	case SubtypeSint:
		return float64(n.i)
	default:
		return n.f
	}
}

// Str returns the text of a string or raw node
func (n *Node) Str() string { return n.s }

// Equals reports whether n is a string node holding exactly s.
func (n *Node) Equals(s string) bool { return n.typ == NodeString && n.s == s }

// Len returns the number of elements of an array or members of an object.
func (n *Node) Len() int {
	switch n.typ {
	case NodeArray:
		return len(n.elems)
	case NodeObject:
		return len(n.members)
	default:
		return 0
	}
}

// Elems returns the elements of an array node
func (n *Node) Elems() []*Node { return n.elems }

// Index returns the i-th element of an array node
func (n *Node) Index(i int) *Node { return n.elems[i] }

// Members returns the members of an object node in source order, duplicates included.
func (n *Node) Members() []Member { return n.members }

// Get looks up key in an object node. When the key occurs more than once the
// last occurrence is returned.
func (n *Node) Get(key string) (*Node, bool) {
	for i := len(n.members) - 1; i >= 0; i-- {
		if n.members[i].Key == key {
			return n.members[i].Value, true
		}
	}
	return nil, false
}

// Append adds v to the end of an array node
func (n *Node) Append(v *Node) *Node {
	n.elems = append(n.elems, v)
	return n
}

// Add appends a member to an object node. Existing members with the same key are kept.
func (n *Node) Add(key string, v *Node) *Node {
	n.members = append(n.members, Member{Key: key, Value: v})
	return n
}

// Document owns the root of a parsed or built JSON tree.
type Document struct {
	Root *Node
}

// NewDocument wraps root in a Document
func NewDocument(root *Node) *Document {
	return &Document{Root: root}
}

// Release drops the tree so it can be collected.
func (d *Document) Release() {
	if d != nil {
		d.Root = nil
	}
}
