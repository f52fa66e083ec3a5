// Package cli implements the jsontab command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/logging"
)

// Version information
const (
	Version = "0.1.0"
)

// CLI defines the command-line interface
type CLI struct {
	Config    string `help:"Path to a YAML config file. Defaults to the nearest .jsontab.yml." type:"path"`
	LogFormat string `help:"Diagnostics format (console, json or logrus)." enum:"console,json,logrus" default:"console"`
	Debug     bool   `help:"Enable debug logging." short:"d"`

	Parse     ParseCmd     `cmd:"" help:"Infer typed containers from JSON and print a summary."`
	Serialize SerializeCmd `cmd:"" help:"Convert JSON to typed containers and back to JSON."`
	Roundtrip RoundtripCmd `cmd:"" help:"Check that a document reads back to the same typed value."`
	Validate  ValidateCmd  `cmd:"" help:"Check that the input is valid JSON."`
	Schema    SchemaCmd    `cmd:"" help:"Print the JSON Schema of the serialized typed value."`
	Export    ExportCmd    `cmd:"" help:"Export the typed value as msgpack, CBOR, protobuf or cty JSON."`
	Version   VersionCmd   `cmd:"" help:"Show version information."`
}

// Context holds the runtime context shared by every command
type Context struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Log       *logging.Recorder
	Parse     config.ParseConfig
	Serialize config.SerializeConfig
}

// NewContext builds the logger and loads the config file named by c, or the
// nearest one found from the working directory.
func NewContext(c *CLI, stdin io.Reader, stdout, stderr io.Writer) (*Context, func(), error) {
	base, sync, err := newLogger(c.LogFormat, c.Debug, stderr)
	if err != nil {
		return nil, nil, err
	}
	rec := logging.NewRecorder(base)

	path := c.Config
	if path == "" {
		path = config.FindConfigFile()
	}
	if path != "" {
		rec.Debug("Loading config file", logging.Fields{"path": path})
	}
	pc, sc, err := config.Load(path, rec)
	if err != nil {
		sync()
		return nil, nil, err
	}

	return &Context{
		Stdin:     stdin,
		Stdout:    stdout,
		Stderr:    stderr,
		Log:       rec,
		Parse:     pc,
		Serialize: sc,
	}, sync, nil
}

func newLogger(format string, debug bool, stderr io.Writer) (logging.Logger, func(), error) {
	if format == "logrus" {
		return logging.NewLogrus(logging.NewLogrusEntry(stderr, debug)), func() {}, nil
	}
	z, err := logging.NewZapLogger(format, debug)
	if err != nil {
		return nil, nil, errors.NewConfigError("failed to build logger", err)
	}
	return logging.NewZap(z), func() { _ = z.Sync() }, nil
}

type exitCode int

// Execute parses args, runs the selected command and returns the process
// exit status.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) (code int) {
	var c CLI
	parser, err := kong.New(&c,
		kong.Name("jsontab"),
		kong.Description("Convert JSON to typed columnar values and back"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { panic(exitCode(code)) }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	defer func() {
		if r := recover(); r != nil {
			ec, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(ec)
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		// usage is already shown by kong.UsageOnError()
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	ctx, sync, err := NewContext(&c, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", errors.UserFriendlyError(err))
		return 1
	}
	defer sync()

	err = kctx.Run(ctx)
	if n := len(ctx.Log.Warnings()); n > 0 {
		fmt.Fprintf(stderr, "%d warning(s)\n", n)
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(stderr, "\nFor help, run: jsontab --help\n")
		return 1
	}
	return 0
}

// Main is the entry point used by the jsontab binary.
func Main() {
	os.Exit(Execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
