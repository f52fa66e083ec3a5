package generator

import (
	"math"

	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/logging"
	"github.com/mcncl/jsontab/internal/models"
)

// pow10 holds the scale factors for rounding to 0 through MaxDigits places.
var pow10 = [config.MaxDigits + 1]float64{
	1, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9,
	1e10, 1e11, 1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18, 1e19,
}

// maxExact is 2^53; doubles at or above it have no fractional part.
const maxExact = 1 << 53

// cell encodes element i of v as a JSON scalar.
func (g *Generator) cell(v models.Vector, i int) (*models.Node, error) {
	switch x := v.(type) {
	case *models.LogicalVector:
		switch x.Data[i] {
		case models.True:
			return models.NewBool(true), nil
		case models.False:
			return models.NewBool(false), nil
		}
		return g.numSpecial("NA"), nil
	case *models.IntegerVector:
		return g.integer(x.Data[i]), nil
	case *models.RealVector:
		return g.real(x.Data[i]), nil
	case *models.Int64Vector:
		if x.Data[i] == models.NAInt64 && !g.cfg.FastNumerics {
			return g.numSpecial("NA"), nil
		}
		return models.NewSint(x.Data[i]), nil
	case *models.StringVector:
		s := x.Data[i]
		if s.NA {
			return g.strSpecial("NA"), nil
		}
		if x.Verbatim && g.cfg.JSONVerbatim {
			return models.NewRaw(s.Val), nil
		}
		return models.NewString(s.Val), nil
	case *models.RawVector:
		return models.NewUint(uint64(x.Data[i])), nil
	case *models.Factor:
		return g.factor(x, i), nil
	case *models.DateVector:
		if s, ok := models.DateString(x.Days[i]); ok {
			return models.NewString(s), nil
		}
		return models.NewNull(), nil
	case *models.TimestampVector:
		if s, ok := models.TimestampString(x.Seconds[i]); ok {
			return models.NewString(s), nil
		}
		return models.NewNull(), nil
	}
	g.log.Warn("unsupported vector type, writing null", logging.Fields{"type": v.Type().String()})
	return models.NewNull(), nil
}

func (g *Generator) integer(i int32) *models.Node {
	if i == models.NAInteger && !g.cfg.FastNumerics {
		return g.numSpecial("NA")
	}
	return models.NewSint(int64(i))
}

// real applies the missing and non-finite policy, then rounds to Digits
// places. With Digits zero the value is written as an integer.
func (g *Generator) real(f float64) *models.Node {
	if g.cfg.FastNumerics {
		return models.NewReal(f)
	}
	switch {
	case models.IsNAReal(f):
		return g.numSpecial("NA")
	case math.IsNaN(f):
		return g.numSpecial("NaN")
	case math.IsInf(f, 1):
		return g.numSpecial("Inf")
	case math.IsInf(f, -1):
		return g.numSpecial("-Inf")
	}

	d := g.cfg.Digits
	switch {
	case d < 0:
		return models.NewReal(f)
	case math.Abs(f) >= maxExact:
		// already integral
		if d == 0 && f >= math.MinInt64 && f < math.MaxInt64 {
			return models.NewSint(int64(f))
		}
		return models.NewReal(f)
	case d == 0:
		return models.NewSint(int64(math.Round(f)))
	}
	d = min(d, config.MaxDigits)
	return models.NewReal(math.Round(f*pow10[d]) / pow10[d])
}

// factor writes the level label of code i, or the code itself in integer mode.
func (g *Generator) factor(f *models.Factor, i int) *models.Node {
	code := f.Codes[i]
	if g.cfg.Factor == config.FactorAsInteger {
		return g.integer(code)
	}
	if code == models.NAInteger {
		return models.NewNull()
	}
	if code < 1 || int(code) > len(f.Levels) {
		g.log.Warn("factor code out of range, writing null", logging.Fields{"code": code, "levels": len(f.Levels)})
		return models.NewNull()
	}
	return models.NewString(f.Levels[code-1])
}

func (g *Generator) numSpecial(lit string) *models.Node {
	if g.cfg.NumSpecials == config.EmitString {
		return models.NewString(lit)
	}
	return models.NewNull()
}

func (g *Generator) strSpecial(lit string) *models.Node {
	if g.cfg.StrSpecials == config.EmitString {
		return models.NewString(lit)
	}
	return models.NewNull()
}
