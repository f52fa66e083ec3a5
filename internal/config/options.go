package config

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/logging"
	"github.com/mcncl/jsontab/internal/models"
)

// ParseOptions applies an option map over base. Keys are matched in snake
// case, so "arrOfObjsToTable" and "arr_of_objs_to_table" are the same option.
// Unknown keys are reported as warnings and skipped; malformed values fail.
func ParseOptions(base ParseConfig, opts map[string]any, log logging.Logger) (ParseConfig, error) {
	log = logging.OrNop(log)
	cfg := base

	for _, key := range sortedKeys(opts) {
		val := opts[key]
		name := strcase.ToSnake(key)
		var err error

		switch name {
		case "int64", "int_64":
			var s string
			if s, err = asString(name, val); err == nil {
				switch s {
				case "string":
					cfg.Int64 = Int64AsString
				case "double":
					cfg.Int64 = Int64AsDouble
				case "bit64", "native":
					cfg.Int64 = Int64AsNative
				default:
					err = badValue(name, s)
				}
			}
		case "str_specials":
			cfg.StrSpecials, err = specialsMode(name, val)
		case "num_specials":
			cfg.NumSpecials, err = specialsMode(name, val)
		case "promote_num_to_string":
			cfg.PromoteNumToString, err = asBool(name, val)
		case "obj_of_arrs_to_table":
			cfg.ObjOfArrsToTable, err = asBool(name, val)
		case "arr_of_objs_to_table":
			cfg.ArrOfObjsToTable, err = asBool(name, val)
		case "length1_array_asis", "length_1_array_asis":
			cfg.Length1ArrayAsIs, err = asBool(name, val)
		case "missing_list_elem":
			cfg.MissingListElem, err = ValueOf(val)
		case "read_flags":
			cfg.ReadFlags, err = readFlags(name, val)
		case "max_columns":
			cfg.MaxColumns, err = asNonNegative(name, val)
		case "max_depth":
			cfg.MaxDepth, err = asNonNegative(name, val)
		default:
			log.Warn("Unknown option ignored", logging.Fields{"option": key})
		}

		if err != nil {
			return base, err
		}
	}

	return cfg, nil
}

// SerializeOptions applies an option map over base, with the same key rules
// as ParseOptions.
func SerializeOptions(base SerializeConfig, opts map[string]any, log logging.Logger) (SerializeConfig, error) {
	log = logging.OrNop(log)
	cfg := base

	for _, key := range sortedKeys(opts) {
		val := opts[key]
		name := strcase.ToSnake(key)
		var err error

		switch name {
		case "table", "dataframe":
			var s string
			if s, err = asString(name, val); err == nil {
				switch s {
				case "rows":
					cfg.Table = TableByRows
				case "columns":
					cfg.Table = TableByColumns
				default:
					err = badValue(name, s)
				}
			}
		case "factor":
			var s string
			if s, err = asString(name, val); err == nil {
				switch s {
				case "string":
					cfg.Factor = FactorAsString
				case "integer":
					cfg.Factor = FactorAsInteger
				default:
					err = badValue(name, s)
				}
			}
		case "auto_unbox":
			cfg.AutoUnbox, err = asBool(name, val)
		case "digits":
			var d int
			if d, err = asInt(name, val); err == nil {
				if d > MaxDigits {
					err = errors.NewConfigError(fmt.Sprintf("option 'digits' must be at most %d, got %d", MaxDigits, d), errors.ErrInvalidOption)
				} else {
					if d < 0 {
						d = -1
					}
					cfg.Digits = d
				}
			}
		case "name_repair":
			var s string
			if s, err = asString(name, val); err == nil {
				switch s {
				case "none":
					cfg.NameRepair = NameRepairNone
				case "minimal":
					cfg.NameRepair = NameRepairMinimal
				default:
					err = badValue(name, s)
				}
			}
		case "str_specials":
			cfg.StrSpecials, err = emitMode(name, val)
		case "num_specials":
			cfg.NumSpecials, err = emitMode(name, val)
		case "fast_numerics":
			cfg.FastNumerics, err = asBool(name, val)
		case "json_verbatim":
			cfg.JSONVerbatim, err = asBool(name, val)
		case "pretty":
			cfg.Pretty, err = asBool(name, val)
		default:
			log.Warn("Unknown option ignored", logging.Fields{"option": key})
		}

		if err != nil {
			return base, err
		}
	}

	return cfg, nil
}

// ValueOf converts a plain option value into a typed value. It is used for
// the missing list element, which may be given in a YAML file or a map.
func ValueOf(val any) (models.Value, error) {
	switch v := val.(type) {
	case nil:
		return models.Null{}, nil
	case models.Value:
		return v, nil
	case bool:
		return &models.LogicalVector{Data: []models.Logical{models.LogicalOf(v)}}, nil
	case int, int32, int64:
		n, _ := toInt(v)
		if n >= math.MinInt32+1 && n <= math.MaxInt32 {
			return &models.IntegerVector{Data: []int32{int32(n)}}, nil
		}
		return &models.RealVector{Data: []float64{float64(n)}}, nil
	case float64:
		return &models.RealVector{Data: []float64{v}}, nil
	case string:
		return &models.StringVector{Data: []models.String{models.Str(v)}}, nil
	default:
		return nil, errors.NewConfigError(fmt.Sprintf("option 'missing_list_elem' has unsupported type %T", val), errors.ErrInvalidOption)
	}
}

func sortedKeys(opts map[string]any) []string {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func badValue(name, got string) error {
	return errors.NewConfigError(fmt.Sprintf("option '%s' does not accept value '%s'", name, got), errors.ErrInvalidOption)
}

func badType(name, want string, val any) error {
	return errors.NewConfigError(fmt.Sprintf("option '%s' must be %s, got %T", name, want, val), errors.ErrInvalidOption)
}

func asString(name string, val any) (string, error) {
	s, ok := val.(string)
	if !ok {
		return "", badType(name, "a string", val)
	}
	return strings.ToLower(strings.TrimSpace(s)), nil
}

func asBool(name string, val any) (bool, error) {
	switch v := val.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(v) {
		case "true", "yes":
			return true, nil
		case "false", "no":
			return false, nil
		}
	}
	return false, badType(name, "a boolean", val)
}

func toInt(val any) (int, bool) {
	switch v := val.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint64:
		if v > math.MaxInt32 {
			return 0, false
		}
		return int(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

func asInt(name string, val any) (int, error) {
	n, ok := toInt(val)
	if !ok {
		return 0, badType(name, "an integer", val)
	}
	return n, nil
}

func asNonNegative(name string, val any) (int, error) {
	n, err := asInt(name, val)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.NewConfigError(fmt.Sprintf("option '%s' must not be negative", name), errors.ErrInvalidOption)
	}
	return n, nil
}

func specialsMode(name string, val any) (SpecialsMode, error) {
	s, err := asString(name, val)
	if err != nil {
		return 0, err
	}
	switch s {
	case "special", "sentinel":
		return SpecialsAsSentinel, nil
	case "string":
		return SpecialsAsString, nil
	default:
		return 0, badValue(name, s)
	}
}

func emitMode(name string, val any) (EmitMode, error) {
	s, err := asString(name, val)
	if err != nil {
		return 0, err
	}
	switch s {
	case "null":
		return EmitNull, nil
	case "string":
		return EmitString, nil
	default:
		return 0, badValue(name, s)
	}
}

var readFlagNames = map[string]ReadFlag{
	"stop_when_done": ReadFlagStopWhenDone,
}

func readFlags(name string, val any) (ReadFlag, error) {
	if n, ok := toInt(val); ok {
		if n < 0 {
			return 0, badType(name, "a flag list", val)
		}
		return ReadFlag(n), nil
	}

	var items []any
	switch v := val.(type) {
	case string:
		items = []any{v}
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	case []any:
		items = v
	default:
		return 0, badType(name, "a flag list", val)
	}

	var flags ReadFlag
	for _, it := range items {
		s, err := asString(name, it)
		if err != nil {
			return 0, err
		}
		f, ok := readFlagNames[strcase.ToSnake(s)]
		if !ok {
			return 0, badValue(name, s)
		}
		flags |= f
	}
	return flags, nil
}
