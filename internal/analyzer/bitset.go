package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/logging"
	"github.com/mcncl/jsontab/internal/models"
)

// ValueKind tags a single JSON value during classification.
type ValueKind uint8

const (
	KindNone ValueKind = iota
	KindRaw
	KindNull
	KindBool
	KindInt
	KindReal
	KindStr
	// KindStrInt is an integer too wide for 32 bits that will be kept as text.
	KindStrInt
	KindArr
	KindObj
	KindInt64
	numKinds
)

var kindNames = [numKinds]string{"None", "Raw", "Null", "Bool", "Int", "Real", "Str", "StrInt", "Arr", "Obj", "Int64"}

func (k ValueKind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("ValueKind(%d)", uint8(k))
}

// Bitset is a set of ValueKinds.
type Bitset uint16

// BitsetOf builds a set from kinds
func BitsetOf(kinds ...ValueKind) Bitset {
	var b Bitset
	for _, k := range kinds {
		b = b.With(k)
	}
	return b
}

// With returns b plus k
func (b Bitset) With(k ValueKind) Bitset { return b | 1<<k }

// Has reports whether k is in b
func (b Bitset) Has(k ValueKind) bool { return b&(1<<k) != 0 }

// Any reports whether any of kinds is in b
func (b Bitset) Any(kinds ...ValueKind) bool { return b&BitsetOf(kinds...) != 0 }

// Union merges two sets
func (b Bitset) Union(o Bitset) Bitset { return b | o }

// Empty reports whether no kind was observed
func (b Bitset) Empty() bool { return b == 0 }

func (b Bitset) String() string {
	var parts []string
	for k := ValueKind(0); k < numKinds; k++ {
		if b.Has(k) {
			parts = append(parts, k.String())
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// specialLiterals are the strings that decode to missing or non-finite numbers.
var specialLiterals = map[string]bool{"NA": true, "NaN": true, "Inf": true, "-Inf": true}

// Classify folds one JSON value into acc. Nulls never change the set and the
// special literals only count as strings when NumSpecials is SpecialsAsString.
// Integers outside the 32-bit range are routed by the Int64 mode.
func Classify(acc Bitset, n *models.Node, cfg *config.ParseConfig, log logging.Logger) (Bitset, error) {
	switch n.Type() {
	case models.NodeNull:
		return acc, nil
	case models.NodeBool:
		return acc.With(KindBool), nil
	case models.NodeNumber:
		switch n.Subtype() {
		case models.SubtypeUint:
			u := n.Uint()
			if u <= math.MaxInt32 {
				return acc.With(KindInt), nil
			}
			if cfg.Int64 == config.Int64AsNative && u > math.MaxInt64 {
				logging.OrNop(log).Warn("integer overflow: value exceeds the signed 64-bit range and wraps", logging.Fields{"value": u})
			}
			return acc.With(wideKind(cfg)), nil
		case models.SubtypeSint:
			i := n.Sint()
			// MinInt32 collides with the integer missing marker and reads back as NA.
			if i >= math.MinInt32 && i <= math.MaxInt32 {
				return acc.With(KindInt), nil
			}
			return acc.With(wideKind(cfg)), nil
		default:
			return acc.With(KindReal), nil
		}
	case models.NodeString:
		if specialLiterals[n.Str()] && cfg.NumSpecials != config.SpecialsAsString {
			return acc, nil
		}
		return acc.With(KindStr), nil
	case models.NodeArray:
		return acc.With(KindArr), nil
	case models.NodeObject:
		return acc.With(KindObj), nil
	default:
		return acc, errors.NewAnalysisError(fmt.Sprintf("cannot classify %s value", n.Type()), errors.ErrUnclassifiable)
	}
}

func wideKind(cfg *config.ParseConfig) ValueKind {
	switch cfg.Int64 {
	case config.Int64AsDouble:
		return KindReal
	case config.Int64AsNative:
		return KindInt64
	default:
		return KindStrInt
	}
}

// ClassifyAll folds every node of nodes into a fresh set.
func ClassifyAll(nodes []*models.Node, cfg *config.ParseConfig, log logging.Logger) (Bitset, error) {
	var acc Bitset
	var err error
	for _, n := range nodes {
		if acc, err = Classify(acc, n, cfg, log); err != nil {
			return acc, err
		}
	}
	return acc, nil
}
