package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/logging"
	"github.com/mcncl/jsontab/internal/models"
	"gopkg.in/yaml.v3"
)

// Int64Mode selects how integers beyond the 32-bit range are represented.
type Int64Mode uint8

const (
	// Int64AsString keeps the decimal text in a String container.
	Int64AsString Int64Mode = iota
	// Int64AsDouble converts to a double, losing precision past 2^53.
	Int64AsDouble
	// Int64AsNative uses a 64-bit integer container.
	Int64AsNative
)

// SpecialsMode controls whether the literal strings "NA", "NaN", "Inf" and
// "-Inf" are read as special values or as plain text.
type SpecialsMode uint8

const (
	SpecialsAsSentinel SpecialsMode = iota
	SpecialsAsString
)

// ReadFlag is a bit set of reader options.
type ReadFlag uint32

const (
	// ReadFlagStopWhenDone parses the first complete value and ignores what follows.
	ReadFlagStopWhenDone ReadFlag = 1 << iota
)

// Defaults shared by the CLI and the option parsers.
const (
	DefaultMaxColumns = 128
	DefaultMaxDepth   = 1000
	MaxDigits         = 19
)

// ParseConfig holds every option of a JSON to typed value conversion.
type ParseConfig struct {
	Int64              Int64Mode
	StrSpecials        SpecialsMode
	NumSpecials        SpecialsMode
	PromoteNumToString bool
	ObjOfArrsToTable   bool
	ArrOfObjsToTable   bool
	Length1ArrayAsIs   bool
	// MissingListElem fills list-kind table columns for rows lacking the key.
	MissingListElem models.Value
	ReadFlags       ReadFlag
	// MaxColumns caps the distinct names of one table; zero disables the cap.
	MaxColumns int
	// MaxDepth caps container nesting; zero disables the cap.
	MaxDepth int
}

// NewParseConfig returns the default parse options.
func NewParseConfig() ParseConfig {
	return ParseConfig{
		Int64:            Int64AsString,
		StrSpecials:      SpecialsAsSentinel,
		NumSpecials:      SpecialsAsSentinel,
		ObjOfArrsToTable: true,
		ArrOfObjsToTable: true,
		MissingListElem:  models.Null{},
		MaxColumns:       DefaultMaxColumns,
		MaxDepth:         DefaultMaxDepth,
	}
}

// TableOrientation selects the JSON layout of a table.
type TableOrientation uint8

const (
	TableByRows TableOrientation = iota
	TableByColumns
)

// FactorMode selects how categorical values are written.
type FactorMode uint8

const (
	FactorAsString FactorMode = iota
	FactorAsInteger
)

// NameRepair selects how blank names of a named list are written.
type NameRepair uint8

const (
	NameRepairNone NameRepair = iota
	// NameRepairMinimal replaces blank names with the 1-based element index.
	NameRepairMinimal
)

// EmitMode selects how missing and non-finite values are written.
type EmitMode uint8

const (
	EmitNull EmitMode = iota
	EmitString
)

// SerializeConfig holds every option of a typed value to JSON conversion.
type SerializeConfig struct {
	Table        TableOrientation
	Factor       FactorMode
	AutoUnbox    bool
	Digits       int
	NameRepair   NameRepair
	StrSpecials  EmitMode
	NumSpecials  EmitMode
	FastNumerics bool
	JSONVerbatim bool
	Pretty       bool
}

// NewSerializeConfig returns the default serialize options.
func NewSerializeConfig() SerializeConfig {
	return SerializeConfig{
		Table:  TableByRows,
		Factor: FactorAsString,
		Digits: -1,
	}
}

// File is the on-disk YAML configuration.
type File struct {
	Parse     map[string]any `yaml:"parse"`
	Serialize map[string]any `yaml:"serialize"`
}

// LoadFile reads a YAML configuration file
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to read config file '%s'", path), err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to parse config file '%s'", path), err)
	}
	return &f, nil
}

// Load reads the YAML file at path and applies it over the defaults. An empty
// path yields the defaults.
func Load(path string, log logging.Logger) (ParseConfig, SerializeConfig, error) {
	pc, sc := NewParseConfig(), NewSerializeConfig()
	if path == "" {
		return pc, sc, nil
	}

	f, err := LoadFile(path)
	if err != nil {
		return pc, sc, err
	}
	if pc, err = ParseOptions(pc, f.Parse, log); err != nil {
		return pc, sc, err
	}
	if sc, err = SerializeOptions(sc, f.Serialize, log); err != nil {
		return pc, sc, err
	}
	return pc, sc, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsontab.yml", ".jsontab.yaml", "jsontab.yml", "jsontab.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}
