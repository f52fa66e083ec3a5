package analyzer

import (
	"math"
	"strconv"

	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/logging"
	"github.com/mcncl/jsontab/internal/models"
)

// The decoders below turn one JSON scalar into one typed cell. A nil node
// stands for an absent object key and decodes like null. Values the
// classifier should have routed elsewhere are reported and decode as missing.

func (a *Analyzer) unhandled(target string, n *models.Node) {
	a.log.Warn("unhandled JSON type for "+target+" cell, using NA", logging.Fields{"type": n.Type().String()})
}

// DecodeLogical converts a bool node; null and "NA" are missing.
func (a *Analyzer) DecodeLogical(n *models.Node) models.Logical {
	if n == nil {
		return models.NALogical
	}
	switch n.Type() {
	case models.NodeBool:
		return models.LogicalOf(n.Bool())
	case models.NodeNull:
		return models.NALogical
	case models.NodeString:
		if n.Str() == "NA" {
			return models.NALogical
		}
	}
	a.unhandled("logical", n)
	return models.NALogical
}

// DecodeInteger truncates a number to 32 bits; null and "NA" are missing.
func (a *Analyzer) DecodeInteger(n *models.Node) int32 {
	if n == nil {
		return models.NAInteger
	}
	switch n.Type() {
	case models.NodeNumber:
		switch n.Subtype() {
		case models.SubtypeUint:
			return int32(n.Uint())
		case models.SubtypeSint:
			return int32(n.Sint())
		default:
			return int32(n.Real())
		}
	case models.NodeNull:
		return models.NAInteger
	case models.NodeString:
		if n.Str() == "NA" {
			return models.NAInteger
		}
	}
	a.unhandled("integer", n)
	return models.NAInteger
}

// DecodeReal converts a number to a double. The strings "NA", "NaN", "Inf"
// and "-Inf" map to the matching special value; null is missing.
func (a *Analyzer) DecodeReal(n *models.Node) float64 {
	if n == nil {
		return models.NAReal()
	}
	switch n.Type() {
	case models.NodeNumber:
		return n.Float()
	case models.NodeNull:
		return models.NAReal()
	case models.NodeString:
		switch n.Str() {
		case "NA":
			return models.NAReal()
		case "NaN":
			return math.NaN()
		case "Inf":
			return math.Inf(1)
		case "-Inf":
			return math.Inf(-1)
		}
	}
	a.unhandled("double", n)
	return models.NAReal()
}

// DecodeInt64 widens a number to 64 bits. Unsigned values above the signed
// range wrap with a warning. Null and "NA" decode to models.NAInt64.
func (a *Analyzer) DecodeInt64(n *models.Node) int64 {
	if n == nil {
		return models.NAInt64
	}
	switch n.Type() {
	case models.NodeNumber:
		switch n.Subtype() {
		case models.SubtypeUint:
			u := n.Uint()
			if u > math.MaxInt64 {
				a.log.Warn("integer overflow: value exceeds the signed 64-bit range and wraps", logging.Fields{"value": u})
			}
			return int64(u)
		case models.SubtypeSint:
			return n.Sint()
		default:
			return int64(n.Real())
		}
	case models.NodeNull:
		return models.NAInt64
	case models.NodeString:
		if n.Str() == "NA" {
			return models.NAInt64
		}
	}
	a.unhandled("int64", n)
	return models.NAInt64
}

// DecodeString renders any scalar as text. Bools become "TRUE"/"FALSE",
// integers their decimal form and reals six decimals. A string "NA" is missing
// when StrSpecials is SpecialsAsSentinel. Null is missing, or the literal "NA"
// when StrSpecials is SpecialsAsString.
func (a *Analyzer) DecodeString(n *models.Node) models.String {
	if n == nil {
		return a.nullString()
	}
	switch n.Type() {
	case models.NodeNull:
		return a.nullString()
	case models.NodeBool:
		if n.Bool() {
			return models.Str("TRUE")
		}
		return models.Str("FALSE")
	case models.NodeNumber:
		switch n.Subtype() {
		case models.SubtypeUint:
			return models.Str(strconv.FormatUint(n.Uint(), 10))
		case models.SubtypeSint:
			return models.Str(strconv.FormatInt(n.Sint(), 10))
		default:
			return models.Str(strconv.FormatFloat(n.Real(), 'f', 6, 64))
		}
	case models.NodeString:
		if a.cfg.StrSpecials == config.SpecialsAsSentinel && n.Str() == "NA" {
			return models.NAString
		}
		return models.Str(n.Str())
	}
	a.unhandled("string", n)
	return models.NAString
}

func (a *Analyzer) nullString() models.String {
	if a.cfg.StrSpecials == config.SpecialsAsString {
		return models.Str("NA")
	}
	return models.NAString
}
