package models

import "math"

// NAInteger is the missing marker of an IntegerVector or a Factor code.
const NAInteger int32 = math.MinInt32

// NAInt64 is the missing marker of an Int64Vector. It is also a legal 64-bit
// value: a real -9223372036854775808 in the data reads back as missing.
const NAInt64 int64 = math.MinInt64

// naRealBits is a quiet NaN whose low word carries the payload 1954.
const naRealBits uint64 = 0x7FF00000000007A2

// NAReal returns the missing marker of a RealVector. It is a NaN distinguishable
// from the NaN produced by arithmetic.
func NAReal() float64 {
	return math.Float64frombits(naRealBits)
}

// IsNAReal reports whether f is the missing marker rather than an ordinary NaN.
func IsNAReal(f float64) bool {
	return math.IsNaN(f) && uint32(math.Float64bits(f)) == 1954
}

// IsNaNReal reports whether f is a NaN that is not the missing marker.
func IsNaNReal(f float64) bool {
	return math.IsNaN(f) && !IsNAReal(f)
}

// Logical is one cell of a LogicalVector.
type Logical int8

const (
	False     Logical = 0
	True      Logical = 1
	NALogical Logical = -1
)

// LogicalOf converts a bool to a Logical
func LogicalOf(b bool) Logical {
	if b {
		return True
	}
	return False
}

// String is one cell of a StringVector. NA marks a missing value.
type String struct {
	Val string
	NA  bool
}

// NAString is the missing string cell.
var NAString = String{NA: true}

// Str wraps s as a present string cell
func Str(s string) String {
	return String{Val: s}
}
