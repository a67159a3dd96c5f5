package rules

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sirkon/protoguard/internal/diag"
	"github.com/sirkon/protoguard/internal/facts"
	"github.com/sirkon/protoguard/internal/pgrules"
)

// Engine evaluates every rule set against declarations.
type Engine struct {
	disabled    map[pgrules.Rule]bool
	overrides   map[pgrules.Rule]pgrules.Severity
	minSeverity pgrules.Severity
	workers     int
	log         zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithDisabled disables the given rules.
func WithDisabled(rules ...pgrules.Rule) Option {
	return func(e *Engine) {
		for _, r := range rules {
			e.disabled[r] = true
		}
	}
}

// WithSeverity overrides the severity reported for a rule.
func WithSeverity(rule pgrules.Rule, sev pgrules.Severity) Option {
	return func(e *Engine) {
		e.overrides[rule] = sev
	}
}

// WithMinSeverity drops diagnostics below the given severity.
func WithMinSeverity(sev pgrules.Severity) Option {
	return func(e *Engine) {
		e.minSeverity = sev
	}
}

// WithWorkers limits the number of types analysed concurrently by AnalyzeAll.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the logger for debug events.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// NewEngine creates an engine. Without options every rule is enabled with its
// default severity.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		disabled:    map[pgrules.Rule]bool{},
		overrides:   map[pgrules.Rule]pgrules.Severity{},
		minSeverity: pgrules.SeverityInfo,
		workers:     runtime.GOMAXPROCS(0),
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Analyze extracts facts of a declaration and evaluates every enabled rule over them.
// Output is sorted by rule code, then locus.
func (e *Engine) Analyze(decl facts.Declaration, rel Relations) []diag.Diagnostic {
	f, ds := facts.Extract(decl)
	for _, set := range RuleSets() {
		for _, rc := range set.Checks {
			if e.disabled[rc.Rule] {
				continue
			}
			ds = append(ds, rc.Check(&f, rel)...)
		}
	}

	res := e.apply(ds)
	diag.Sort(res)

	e.log.Debug().
		Str("type", string(decl.Type)).
		Int("diagnostics", len(res)).
		Msg("type analysed")

	return res
}

// AnalyzeAll analyses declarations concurrently. The result keeps declaration order
// and is identical to analysing declarations one by one. A cancelled context
// abandons the whole run.
func (e *Engine) AnalyzeAll(ctx context.Context, decls []facts.Declaration, rel Relations) ([]diag.Diagnostic, error) {
	results := make([][]diag.Diagnostic, len(decls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, decl := range decls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.Analyze(decl, rel)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var res []diag.Diagnostic
	for _, ds := range results {
		res = append(res, ds...)
	}

	return res, nil
}

// apply filters disabled rules out and applies severity overrides and the
// minimum severity. Extraction diagnostics go through here as well.
func (e *Engine) apply(ds []diag.Diagnostic) []diag.Diagnostic {
	res := make([]diag.Diagnostic, 0, len(ds))
	for _, d := range ds {
		if e.disabled[d.Rule] {
			continue
		}
		if sev, ok := e.overrides[d.Rule]; ok {
			d = d.WithSeverity(sev)
		}
		if d.Severity < e.minSeverity {
			continue
		}
		res = append(res, d)
	}

	return res
}
