package diag

import (
	"go/token"
	"slices"
	"strings"
	"sync"
)

// Reporter collects diagnostics across analysed packages. Safe for concurrent use.
type Reporter struct {
	mu      sync.Mutex
	reports []Report
}

// Report represents a single diagnostic entry resolved to a source position.
type Report struct {
	Package  string
	Position token.Position
	Diagnostic
}

// ReporterPackage binds a Reporter to a fixed package.
// It is used during an entire package analysis to record rule violations
// without specifying the package and file set repeatedly.
type ReporterPackage struct {
	parent *Reporter
	pkg    string
	fset   *token.FileSet
}

// Package returns a package-bound reporter that resolves positions through fset.
func (r *Reporter) Package(path string, fset *token.FileSet) *ReporterPackage {
	return &ReporterPackage{parent: r, pkg: path, fset: fset}
}

// Report adds a new record to the reporter.
func (r *Reporter) Report(rep Report) {
	r.mu.Lock()
	r.reports = append(r.reports, rep)
	r.mu.Unlock()
}

// Report records diagnostics under the bound package.
func (rp *ReporterPackage) Report(ds ...Diagnostic) {
	for _, d := range ds {
		var pos token.Position
		if rp.fset != nil && d.Pos.IsValid() {
			pos = rp.fset.Position(d.Pos)
		}
		rp.parent.Report(Report{
			Package:    rp.pkg,
			Position:   pos,
			Diagnostic: d,
		})
	}
}

// Reports returns a snapshot of all collected records ordered by package, file,
// line, column and then rule.
func (r *Reporter) Reports() []Report {
	r.mu.Lock()
	out := make([]Report, len(r.reports))
	copy(out, r.reports)
	r.mu.Unlock()

	slices.SortStableFunc(out, func(a, b Report) int {
		if c := strings.Compare(a.Package, b.Package); c != 0 {
			return c
		}
		if c := strings.Compare(a.Position.Filename, b.Position.Filename); c != 0 {
			return c
		}
		if a.Position.Line != b.Position.Line {
			return a.Position.Line - b.Position.Line
		}
		if a.Position.Column != b.Position.Column {
			return a.Position.Column - b.Position.Column
		}
		return int(a.Rule) - int(b.Rule)
	})

	return out
}
