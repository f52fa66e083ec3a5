package analyzer

import (
	"github.com/mcncl/jsontab/internal/logging"
)

// ContainerKind is the concrete container chosen for a collection.
type ContainerKind uint8

const (
	ContainerLogical ContainerKind = iota
	ContainerInteger
	ContainerReal
	ContainerInt64
	ContainerString
	ContainerList
	ContainerMatrix
	ContainerArray3D
	ContainerTable
)

var containerNames = map[ContainerKind]string{
	ContainerLogical: "Logical",
	ContainerInteger: "Integer",
	ContainerReal:    "Real",
	ContainerInt64:   "Int64",
	ContainerString:  "String",
	ContainerList:    "List",
	ContainerMatrix:  "Matrix",
	ContainerArray3D: "Array3D",
	ContainerTable:   "Table",
}

func (c ContainerKind) String() string {
	if name, ok := containerNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Atomic reports whether c is a flat vector kind.
func (c ContainerKind) Atomic() bool {
	return c <= ContainerString
}

// Resolve maps an accumulated bitset to a container kind. Rules are checked
// in order and the first match wins:
//
//  1. Int64 without Obj, Arr, Str, StrInt or Real is Int64; with any of them it is List.
//  2. Str or StrInt: String when promoting and the rest is only Real, Int or Bool;
//     List when anything else is present; String otherwise.
//  3. Arr or Obj is List.
//  4. Bool alone is Logical; Bool with anything else is List.
//  5. Real is Real, then Int is Integer.
//  6. The empty set is List.
//
// Any other set (only None, Raw or Null bits) falls back to List with a warning.
func Resolve(b Bitset, promoteNumToString bool, log logging.Logger) ContainerKind {
	switch {
	case b.Has(KindInt64):
		if b.Any(KindObj, KindArr, KindStr, KindStrInt, KindReal) {
			return ContainerList
		}
		return ContainerInt64

	case b.Any(KindStr, KindStrInt):
		if promoteNumToString && b.Any(KindReal, KindInt, KindBool) && !b.Any(KindNone, KindRaw, KindArr, KindObj) {
			return ContainerString
		}
		if b.Any(KindNone, KindRaw, KindBool, KindInt, KindReal, KindArr, KindObj, KindInt64) {
			return ContainerList
		}
		return ContainerString

	case b.Any(KindArr, KindObj):
		return ContainerList

	case b.Has(KindBool):
		if b == BitsetOf(KindBool) {
			return ContainerLogical
		}
		return ContainerList

	case b.Has(KindReal):
		return ContainerReal

	case b.Has(KindInt):
		return ContainerInteger

	case b.Empty():
		return ContainerList
	}

	logging.OrNop(log).Warn("unhandled type bitset, falling back to list", logging.Fields{"bitset": b.String()})
	return ContainerList
}
