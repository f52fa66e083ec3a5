package cli

import (
	"fmt"
	"io"

	"github.com/google/go-cmp/cmp"
	"github.com/mcncl/jsontab/internal/analyzer"
	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/export"
	"github.com/mcncl/jsontab/internal/formatter"
	"github.com/mcncl/jsontab/internal/generator"
	"github.com/mcncl/jsontab/internal/logging"
	"github.com/mcncl/jsontab/internal/models"
	"github.com/mcncl/jsontab/internal/parser"
	"github.com/mcncl/jsontab/internal/schema"
)

// load reads the input and infers its typed value.
func load(ctx *Context, in InputFlags, pf ParseFlags) (models.Value, error) {
	pc, err := pf.Apply(ctx)
	if err != nil {
		return nil, err
	}
	data, err := readInput(ctx, in)
	if err != nil {
		return nil, err
	}
	return analyzer.ParseBytes(data, pc, ctx.Log)
}

// ParseCmd prints a summary of the typed value.
type ParseCmd struct {
	In    InputFlags `embed:""`
	Flags ParseFlags `embed:""`
}

func (c *ParseCmd) Run(ctx *Context) error {
	v, err := load(ctx, c.In, c.Flags)
	if err != nil {
		return err
	}
	_, err = io.WriteString(ctx.Stdout, formatter.Describe(v))
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// SerializeCmd converts JSON to a typed value and writes it back as JSON.
type SerializeCmd struct {
	In        InputFlags     `embed:""`
	Out       OutputFlags    `embed:""`
	Flags     ParseFlags     `embed:""`
	Serialize SerializeFlags `embed:""`
}

func (c *SerializeCmd) Run(ctx *Context) error {
	sc, err := c.Serialize.Apply(ctx)
	if err != nil {
		return err
	}
	v, err := load(ctx, c.In, c.Flags)
	if err != nil {
		return err
	}
	if c.Out.Output != "" {
		return generator.SerializeToFile(v, c.Out.Output, sc, ctx.Log)
	}
	out, err := generator.Serialize(v, sc, ctx.Log)
	if err != nil {
		return err
	}
	return writeOutput(ctx, c.Out, out, true)
}

// RoundtripCmd reads the input, writes it back and reads the result again,
// reporting whether both typed values are equal.
type RoundtripCmd struct {
	In        InputFlags     `embed:""`
	Flags     ParseFlags     `embed:""`
	Serialize SerializeFlags `embed:""`
}

func (c *RoundtripCmd) Run(ctx *Context) error {
	pc, err := c.Flags.Apply(ctx)
	if err != nil {
		return err
	}
	sc, err := c.Serialize.Apply(ctx)
	if err != nil {
		return err
	}
	data, err := readInput(ctx, c.In)
	if err != nil {
		return err
	}

	first, err := analyzer.ParseBytes(data, pc, ctx.Log)
	if err != nil {
		return err
	}
	out, err := generator.Serialize(first, sc, ctx.Log)
	if err != nil {
		return err
	}
	second, err := analyzer.ParseBytes(out, pc, ctx.Log)
	if err != nil {
		return err
	}

	if !models.Equal(first, second) {
		ctx.Log.Debug("Round trip changed the value", logging.Fields{"diff": cmp.Diff(first, second)})
		return errors.NewAnalysisError("value changed after a round trip through JSON", nil)
	}
	_, err = fmt.Fprintf(ctx.Stdout, "round trip OK: %s\n", summary(first))
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

func summary(v models.Value) string {
	if t, ok := v.(*models.Table); ok {
		return fmt.Sprintf("Table of %d row(s) and %d column(s)", t.NRow, t.NCol())
	}
	return fmt.Sprintf("%s of length %d", models.TypeOf(v), models.Length(v))
}

// ValidateCmd checks that the input is well-formed JSON.
type ValidateCmd struct {
	In           InputFlags `embed:""`
	Verbose      bool       `help:"Report why the input is invalid." short:"v"`
	StopWhenDone bool       `help:"Ignore content after the first complete JSON value."`
}

func (c *ValidateCmd) Run(ctx *Context) error {
	flags := ctx.Parse.ReadFlags
	if c.StopWhenDone {
		flags |= config.ReadFlagStopWhenDone
	}

	var ok bool
	if c.In.Input != "" {
		ok = parser.ValidateFile(c.In.Input, flags, c.Verbose, ctx.Log)
	} else {
		data, err := readInput(ctx, c.In)
		if err != nil {
			return err
		}
		ok = parser.Validate(data, flags, c.Verbose, ctx.Log)
	}

	if !ok {
		return errors.NewInputError("input is not valid JSON", errors.ErrInvalidJSON)
	}
	_, err := io.WriteString(ctx.Stdout, "valid\n")
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// SchemaCmd prints the JSON Schema of the inferred value.
type SchemaCmd struct {
	In     InputFlags  `embed:""`
	Out    OutputFlags `embed:""`
	Flags  ParseFlags  `embed:""`
	Pretty bool        `help:"Indent the output." short:"p"`
}

func (c *SchemaCmd) Run(ctx *Context) error {
	v, err := load(ctx, c.In, c.Flags)
	if err != nil {
		return err
	}
	out, err := schema.Describe(v).Marshal(c.Pretty)
	if err != nil {
		return errors.NewSerializeError("failed to encode schema", err)
	}
	return writeOutput(ctx, c.Out, out, true)
}

// ExportCmd writes the inferred value in a binary or foreign format.
type ExportCmd struct {
	In            InputFlags     `embed:""`
	Out           OutputFlags    `embed:""`
	Flags         ParseFlags     `embed:""`
	Serialize     SerializeFlags `embed:""`
	Format        string         `help:"Export format (msgpack, cbor, protobuf, cty)." enum:"msgpack,cbor,protobuf,cty" required:""`
	Deterministic bool           `help:"Use the deterministic CBOR encoding."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	v, err := load(ctx, c.In, c.Flags)
	if err != nil {
		return err
	}

	var out []byte
	switch c.Format {
	case "msgpack":
		out, err = export.Msgpack{}.Encode(v)
	case "cbor":
		var codec export.CBOR
		if codec, err = export.NewCBOR(c.Deterministic); err == nil {
			out, err = codec.Encode(v)
		}
	case "protobuf":
		var sc config.SerializeConfig
		if sc, err = c.Serialize.Apply(ctx); err == nil {
			out, err = export.MarshalProto(v, sc, ctx.Log)
		}
	case "cty":
		out, err = export.MarshalCty(v)
	default:
		err = errors.NewConfigError(fmt.Sprintf("unknown export format '%s'", c.Format), errors.ErrInvalidOption)
	}
	if err != nil {
		return err
	}
	return writeOutput(ctx, c.Out, out, c.Format == "cty")
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (VersionCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintf(ctx.Stdout, "jsontab version %s\n", Version)
	return err
}
