// Package analyzer infers typed containers from a JSON document tree.
package analyzer

import (
	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/logging"
	"github.com/mcncl/jsontab/internal/models"
	"github.com/mcncl/jsontab/internal/parser"
)

// Analyzer converts JSON trees into typed values under one ParseConfig.
type Analyzer struct {
	cfg config.ParseConfig
	log logging.Logger
}

// NewAnalyzer creates an Analyzer. A nil logger discards diagnostics.
func NewAnalyzer(cfg config.ParseConfig, log logging.Logger) *Analyzer {
	if cfg.MissingListElem == nil {
		cfg.MissingListElem = models.Null{}
	}
	return &Analyzer{cfg: cfg, log: logging.OrNop(log)}
}

// Config returns the options the analyzer was built with
func (a *Analyzer) Config() config.ParseConfig { return a.cfg }

// Analyze infers the typed value held by doc.
func (a *Analyzer) Analyze(doc *models.Document) (models.Value, error) {
	if doc == nil || doc.Root == nil {
		return models.Null{}, nil
	}
	return a.infer(doc.Root, 0)
}

// ParseBytes reads data and infers its typed value. The document tree is
// released on every exit path.
func ParseBytes(data []byte, cfg config.ParseConfig, log logging.Logger) (models.Value, error) {
	doc, err := parser.ParseBytes(data, cfg.ReadFlags)
	if err != nil {
		return nil, err
	}
	defer doc.Release()
	return NewAnalyzer(cfg, log).Analyze(doc)
}

// ParseFile reads the JSON file at path and infers its typed value.
func ParseFile(path string, cfg config.ParseConfig, log logging.Logger) (models.Value, error) {
	doc, err := parser.ParseFile(path, cfg.ReadFlags)
	if err != nil {
		return nil, err
	}
	defer doc.Release()
	return NewAnalyzer(cfg, log).Analyze(doc)
}
