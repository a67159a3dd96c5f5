// Package diag holds diagnostic records produced by the rule engine, their
// deterministic ordering and a concurrency safe collector used by hosts.
package diag

import (
	"go/token"
	"slices"

	"github.com/sirkon/protoguard/internal/pgrules"
)

// Diagnostic is a single contract violation.
type Diagnostic struct {
	Rule     pgrules.Rule
	Severity pgrules.Severity
	Message  string
	Pos      token.Pos

	// Type is the display name of the analysed type the diagnostic belongs to.
	Type string
}

// New creates a diagnostic with the rule's default severity and rendered message.
func New(rule pgrules.Rule, typ string, pos token.Pos, args ...any) Diagnostic {
	return Diagnostic{
		Rule:     rule,
		Severity: rule.DefaultSeverity(),
		Message:  rule.Format(args...),
		Pos:      pos,
		Type:     typ,
	}
}

// WithSeverity returns a copy of d with the severity replaced.
func (d Diagnostic) WithSeverity(s pgrules.Severity) Diagnostic {
	d.Severity = s
	return d
}

// Compare orders diagnostics by rule code, then locus.
func Compare(a, b Diagnostic) int {
	if a.Rule != b.Rule {
		if a.Rule < b.Rule {
			return -1
		}
		return 1
	}
	if a.Pos != b.Pos {
		if a.Pos < b.Pos {
			return -1
		}
		return 1
	}

	return 0
}

// Sort orders diagnostics in place using Compare. The sort is stable, so
// diagnostics equal by Compare keep the order their rule produced them in.
func Sort(ds []Diagnostic) {
	slices.SortStableFunc(ds, Compare)
}

// HasErrors reports whether any diagnostic is of error severity.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity >= pgrules.SeverityError {
			return true
		}
	}

	return false
}
