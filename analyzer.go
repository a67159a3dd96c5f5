// Package protoguard provides an analyzer checking serialization contract
// annotations of Go types.
package protoguard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"

	"github.com/sirkon/protoguard/internal/config"
	"github.com/sirkon/protoguard/internal/diag"
	"github.com/sirkon/protoguard/internal/provider"
	"github.com/sirkon/protoguard/internal/rules"
)

const doc = `protoguard checks serialization contract annotations

Types are marked as contracts with //protoguard:contract directives in their doc
comments, members get field numbers with proto:"<n>" struct tags. The analyzer
reports invalid, duplicated and reserved field numbers and names, overlapping
reservations, includes inconsistent with embedding, and contracts without a
parameterless constructor.`

// Analyzer is the protoguard analyzer configured with command line flags.
var Analyzer = newAnalyzer(nil)

var (
	configPath string
	debug      bool
)

func init() {
	Analyzer.Flags.StringVar(&configPath, "config", "", "path to the config file, "+config.FileName+" is looked up from package directories if not set")
	Analyzer.Flags.BoolVar(&debug, "debug", false, "log debug events to stderr")
}

// NewAnalyzer creates an analyzer with a fixed configuration. Flags are not used.
func NewAnalyzer(cfg *config.Config, log zerolog.Logger) *analysis.Analyzer {
	return newAnalyzer(&runner{
		cfg: cfg,
		log: log,
	})
}

func newAnalyzer(r *runner) *analysis.Analyzer {
	a := &analysis.Analyzer{
		Name:     "protoguard",
		Doc:      doc,
		Requires: []*analysis.Analyzer{inspect.Analyzer},
	}
	if r == nil {
		a.Run = runFromFlags
	} else {
		a.Run = r.run
	}

	return a
}

type runner struct {
	cfg *config.Config
	log zerolog.Logger
}

func runFromFlags(pass *analysis.Pass) (any, error) {
	log := zerolog.Nop()
	if debug {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	cfg, err := config.Resolve(configPath, packageDir(pass))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	r := &runner{
		cfg: cfg,
		log: log,
	}
	return r.run(pass)
}

func (r *runner) run(pass *analysis.Pass) (any, error) {
	cfg := r.cfg
	if cfg == nil {
		cfg = config.Default()
	}
	log := r.log.With().Str("package", pass.Pkg.Path()).Logger()

	p := provider.New(append(cfg.ProviderOptions(), provider.WithLogger(log))...)
	res := p.Collect(provider.FromPass(pass))

	e := rules.NewEngine(append(cfg.EngineOptions(), rules.WithLogger(log))...)
	ds, err := e.AnalyzeAll(context.Background(), res.Decls, res)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", pass.Pkg.Path(), err)
	}

	for _, d := range ds {
		pass.Report(Diagnostic(d))
	}

	return nil, nil
}

// Diagnostic converts a rule diagnostic into an analysis one.
func Diagnostic(d diag.Diagnostic) analysis.Diagnostic {
	return analysis.Diagnostic{
		Pos:      d.Pos,
		Category: d.Rule.Code(),
		Message:  d.Rule.Code() + ": " + d.Message,
	}
}

func packageDir(pass *analysis.Pass) string {
	if len(pass.Files) == 0 {
		return "."
	}

	return filepath.Dir(pass.Fset.File(pass.Files[0].Pos()).Name())
}
