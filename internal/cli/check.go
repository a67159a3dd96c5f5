package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"github.com/sirkon/protoguard/internal/diag"
	"github.com/sirkon/protoguard/internal/provider"
	"github.com/sirkon/protoguard/internal/rules"
)

type checkOptions struct {
	format   string
	packages int
	tests    bool
}

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

func newCheckCommand(global *globalOptions) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [packages]",
		Short: "Check contract annotations of packages",
		Long: `Load the given packages (./... by default) and report contract annotation
problems. The command fails when any error severity problem is found.`,
		Example: `  # Check every package of the module
  protoguard check ./...

  # Render problems as JSON
  protoguard check --format json ./internal/...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"./..."}
			}
			return runCheck(cmd, global, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format: "+strings.Join(formats, ", "))
	cmd.Flags().IntVarP(&opts.packages, "jobs", "j", 4, "number of packages analysed concurrently")
	cmd.Flags().BoolVar(&opts.tests, "tests", false, "include test files")

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return formats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runCheck(cmd *cobra.Command, global *globalOptions, opts *checkOptions, patterns []string) error {
	render, err := renderer(opts.format)
	if err != nil {
		return err
	}

	log, err := global.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	cfg, err := global.config()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	started := time.Now()
	pkgs, err := packages.Load(&packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Tests:   opts.tests,
	}, patterns...)
	if err != nil {
		return fmt.Errorf("load packages: %w", err)
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return fmt.Errorf("load package %s: %w", pkg.PkgPath, pkg.Errors[0])
		}
	}
	log.Debug().Int("packages", len(pkgs)).Dur("elapsed", time.Since(started)).Msg("packages loaded")

	p := provider.New(append(cfg.ProviderOptions(), provider.WithLogger(log))...)
	e := rules.NewEngine(append(cfg.EngineOptions(), rules.WithLogger(log))...)

	var reporter diag.Reporter
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.packages, 1))
	for _, pkg := range pkgs {
		g.Go(func() error {
			pkgStarted := time.Now()
			res := p.Collect(provider.FromPackage(pkg))
			ds, err := e.AnalyzeAll(gctx, res.Decls, res)
			if err != nil {
				return fmt.Errorf("analyze %s: %w", pkg.PkgPath, err)
			}

			reporter.Package(pkg.PkgPath, pkg.Fset).Report(ds...)
			log.Debug().
				Str("package", pkg.PkgPath).
				Int("types", len(res.Decls)).
				Int("unresolved", res.Unresolved()).
				Int("diagnostics", len(ds)).
				Dur("elapsed", time.Since(pkgStarted)).
				Msg("package analysed")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	reports := reporter.Reports()
	if err := render(cmd.OutOrStdout(), reports, global.noColor); err != nil {
		return fmt.Errorf("render reports: %w", err)
	}

	ds := make([]diag.Diagnostic, len(reports))
	for i, r := range reports {
		ds[i] = r.Diagnostic
	}
	if diag.HasErrors(ds) {
		return ErrViolations
	}

	return nil
}
