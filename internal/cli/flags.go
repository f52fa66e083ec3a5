package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/logging"
)

// InputFlags selects where JSON is read from.
type InputFlags struct {
	Input string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
}

// OutputFlags selects where results are written.
type OutputFlags struct {
	Output string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
}

// ParseFlags override the parse options of the config file. Empty strings,
// false and negative numbers leave the configured value alone.
type ParseFlags struct {
	Int64              string `name:"int64" help:"Representation of integers beyond 32 bits (string, double, bit64)." enum:",string,double,bit64" default:""`
	StrSpecials        string `help:"Read the string \"NA\" as missing (special) or as text (string)." enum:",string,special" default:""`
	NumSpecials        string `help:"Read \"NaN\", \"Inf\" and \"-Inf\" strings as numbers (special) or as text (string)." enum:",string,special" default:""`
	PromoteNumToString bool   `help:"Promote numbers mixed with strings to strings."`
	NoObjOfArrsToTable bool   `help:"Do not turn objects of equal-length arrays into tables."`
	NoArrOfObjsToTable bool   `help:"Do not turn arrays of objects into tables."`
	Length1ArrayAsis   bool   `name:"length1-array-asis" help:"Tag length-1 arrays so they are never unboxed."`
	StopWhenDone       bool   `help:"Ignore content after the first complete JSON value."`
	MaxColumns         int    `help:"Maximum distinct column names per table (0 for no limit)." default:"-1"`
	MaxDepth           int    `help:"Maximum container nesting (0 for no limit)." default:"-1"`
}

// Options returns the option map of every flag that was given.
func (f ParseFlags) Options() map[string]any {
	opts := map[string]any{}
	if f.Int64 != "" {
		opts["int64"] = f.Int64
	}
	if f.StrSpecials != "" {
		opts["str_specials"] = f.StrSpecials
	}
	if f.NumSpecials != "" {
		opts["num_specials"] = f.NumSpecials
	}
	if f.PromoteNumToString {
		opts["promote_num_to_string"] = true
	}
	if f.NoObjOfArrsToTable {
		opts["obj_of_arrs_to_table"] = false
	}
	if f.NoArrOfObjsToTable {
		opts["arr_of_objs_to_table"] = false
	}
	if f.Length1ArrayAsis {
		opts["length1_array_asis"] = true
	}
	if f.StopWhenDone {
		opts["read_flags"] = []string{"stop_when_done"}
	}
	if f.MaxColumns >= 0 {
		opts["max_columns"] = f.MaxColumns
	}
	if f.MaxDepth >= 0 {
		opts["max_depth"] = f.MaxDepth
	}
	return opts
}

// Apply overlays the given flags on the parse options of ctx.
func (f ParseFlags) Apply(ctx *Context) (config.ParseConfig, error) {
	return config.ParseOptions(ctx.Parse, f.Options(), ctx.Log)
}

// SerializeFlags override the serialize options of the config file.
type SerializeFlags struct {
	Table        string `help:"Table layout (rows, columns)." enum:",rows,columns" default:""`
	Factor       string `help:"Factor encoding (string, integer)." enum:",string,integer" default:""`
	AutoUnbox    bool   `help:"Write length-1 vectors as scalars."`
	Digits       int    `help:"Round reals to this many decimal places (-1 keeps full precision)." default:"-2"`
	NameRepair   string `help:"Blank list names (none, minimal)." enum:",none,minimal" default:""`
	NAStrings    bool   `name:"na-strings" help:"Write missing strings as \"NA\" instead of null."`
	NumStrings   bool   `name:"num-strings" help:"Write missing and non-finite numbers as \"NA\", \"NaN\", \"Inf\" or \"-Inf\"."`
	FastNumerics bool   `help:"Skip missing and non-finite checks on numbers."`
	JSONVerbatim bool   `name:"json-verbatim" help:"Write strings tagged as JSON without quoting."`
	Pretty       bool   `help:"Indent the output." short:"p"`
}

// Options returns the option map of every flag that was given.
func (f SerializeFlags) Options() map[string]any {
	opts := map[string]any{}
	if f.Table != "" {
		opts["table"] = f.Table
	}
	if f.Factor != "" {
		opts["factor"] = f.Factor
	}
	if f.AutoUnbox {
		opts["auto_unbox"] = true
	}
	if f.Digits >= -1 {
		opts["digits"] = f.Digits
	}
	if f.NameRepair != "" {
		opts["name_repair"] = f.NameRepair
	}
	if f.NAStrings {
		opts["str_specials"] = "string"
	}
	if f.NumStrings {
		opts["num_specials"] = "string"
	}
	if f.FastNumerics {
		opts["fast_numerics"] = true
	}
	if f.JSONVerbatim {
		opts["json_verbatim"] = true
	}
	if f.Pretty {
		opts["pretty"] = true
	}
	return opts
}

// Apply overlays the given flags on the serialize options of ctx.
func (f SerializeFlags) Apply(ctx *Context) (config.SerializeConfig, error) {
	return config.SerializeOptions(ctx.Serialize, f.Options(), ctx.Log)
}

// readInput reads JSON from file or stdin
func readInput(ctx *Context, in InputFlags) ([]byte, error) {
	if in.Input != "" {
		data, err := os.ReadFile(in.Input)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NewInputError(fmt.Sprintf("file '%s' not found", in.Input), errors.ErrFileNotFound)
			}
			return nil, errors.NewInputError(fmt.Sprintf("failed to read file '%s'", in.Input), err)
		}
		if len(data) == 0 {
			return nil, errors.NewInputError(fmt.Sprintf("file '%s' is empty", in.Input), errors.ErrFileEmpty)
		}
		return data, nil
	}

	// a terminal on stdin means nothing was piped in
	if f, ok := ctx.Stdin.(*os.File); ok {
		info, err := f.Stat()
		if err != nil {
			return nil, errors.NewInputError("failed to access stdin", err)
		}
		if info.Mode()&os.ModeCharDevice != 0 {
			return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
		}
	}

	data, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return data, nil
}

// writeOutput writes data to file or stdout. Text output gets a trailing
// newline on stdout.
func writeOutput(ctx *Context, out OutputFlags, data []byte, text bool) error {
	if out.Output != "" {
		if err := os.WriteFile(out.Output, data, 0644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", out.Output), err)
		}
		ctx.Log.Info("Output written", logging.Fields{"file": out.Output, "bytes": len(data)})
		return nil
	}

	if _, err := ctx.Stdout.Write(data); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	if text {
		if _, err := io.WriteString(ctx.Stdout, "\n"); err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}
	}
	return nil
}
