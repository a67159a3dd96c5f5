package rules

import (
	"fmt"

	"github.com/sirkon/protoguard/internal/diag"
	"github.com/sirkon/protoguard/internal/facts"
	"github.com/sirkon/protoguard/internal/pgrules"
)

const (
	minFieldNumber     = 1
	maxFieldNumber     = 536870911
	reservedRangeStart = 19000
	reservedRangeEnd   = 19999
)

// MemberRules checks members of a single type independently of other types.
func MemberRules() RuleSet {
	return RuleSet{
		Name:        "member",
		Description: "field numbers and names of a single type",
		Checks: []RuleCheck{
			{Rule: pgrules.InvalidFieldNumber(), Check: checkFieldNumberRange},
			{Rule: pgrules.DuplicateFieldNumber(), Check: checkDuplicateFieldNumbers},
			{Rule: pgrules.DuplicateFieldName(), Check: checkDuplicateFieldNames},
			{Rule: pgrules.ReservedFieldNumber(), Check: checkReservedFieldNumbers},
			{Rule: pgrules.ReservedFieldName(), Check: checkReservedFieldNames},
			{Rule: pgrules.DeclaredAndIgnored(), Check: checkDeclaredAndIgnored},
		},
	}
}

// FieldNumberSeverity classifies a field number: ok is false for numbers that are
// fine. The 19000-19999 block is only a warning.
func FieldNumberSeverity(n int64) (sev pgrules.Severity, ok bool) {
	switch {
	case n < minFieldNumber || n > maxFieldNumber:
		return pgrules.SeverityError, true
	case n >= reservedRangeStart && n <= reservedRangeEnd:
		return pgrules.SeverityWarning, true
	default:
		return 0, false
	}
}

func checkFieldNumberRange(f *facts.ContractFacts, _ Relations) []diag.Diagnostic {
	var ds []diag.Diagnostic
	for _, e := range f.Bucket() {
		sev, bad := FieldNumberSeverity(e.Number)
		if !bad {
			continue
		}
		ds = append(ds, diag.New(pgrules.InvalidFieldNumber(), f.Type.Name(), e.Pos, e.Number).WithSeverity(sev))
	}

	return ds
}

func checkDuplicateFieldNumbers(f *facts.ContractFacts, _ Relations) []diag.Diagnostic {
	var ds []diag.Diagnostic
	counts := map[int64]int{}
	for _, e := range f.Bucket() {
		counts[e.Number]++
		if counts[e.Number] == 2 {
			ds = append(ds, diag.New(pgrules.DuplicateFieldNumber(), f.Type.Name(), e.Pos, e.Number))
		}
	}

	return ds
}

func checkDuplicateFieldNames(f *facts.ContractFacts, _ Relations) []diag.Diagnostic {
	var ds []diag.Diagnostic
	counts := map[string]int{}
	for _, fld := range f.Fields {
		counts[fld.Name]++
		if counts[fld.Name] == 2 {
			ds = append(ds, diag.New(pgrules.DuplicateFieldName(), f.Type.Name(), fld.Pos, fld.Name))
		}
	}

	return ds
}

// reservationShape renders a numeric reservation as "n" or "[lo-hi]".
func reservationShape(r facts.Reservation) string {
	if r.Single() {
		return fmt.Sprintf("%d", r.Lo)
	}

	return fmt.Sprintf("[%d-%d]", r.Lo, r.Hi)
}

func checkReservedFieldNumbers(f *facts.ContractFacts, _ Relations) []diag.Diagnostic {
	var ds []diag.Diagnostic
	for _, fields := range [][]facts.Field{f.Fields, f.Partials} {
		for _, fld := range fields {
			if !fld.HasNumber {
				continue
			}
			for _, r := range f.Reservations {
				if r.Contains(fld.Number) {
					ds = append(ds, diag.New(pgrules.ReservedFieldNumber(), f.Type.Name(), fld.Pos, reservationShape(r)))
					break
				}
			}
		}
	}

	return ds
}

func checkReservedFieldNames(f *facts.ContractFacts, _ Relations) []diag.Diagnostic {
	var ds []diag.Diagnostic
	for _, fields := range [][]facts.Field{f.Fields, f.Partials} {
		for _, fld := range fields {
			for _, r := range f.Reservations {
				if r.IsName && r.Name == fld.Name {
					ds = append(ds, diag.New(pgrules.ReservedFieldName(), f.Type.Name(), fld.Pos, fld.Name))
					break
				}
			}
		}
	}

	return ds
}

func checkDeclaredAndIgnored(f *facts.ContractFacts, _ Relations) []diag.Diagnostic {
	if len(f.Ignores) == 0 {
		return nil
	}

	ignored := make(map[string]struct{}, len(f.Ignores))
	for _, ign := range f.Ignores {
		ignored[ign.Member] = struct{}{}
	}

	var ds []diag.Diagnostic
	reported := map[string]struct{}{}
	for _, fields := range [][]facts.Field{f.Fields, f.Partials} {
		for _, fld := range fields {
			if _, ok := ignored[fld.Member]; !ok {
				continue
			}
			if !appendOnce(reported, fld.Member) {
				continue
			}
			ds = append(ds, diag.New(pgrules.DeclaredAndIgnored(), f.Type.Name(), fld.Pos, fld.Member))
		}
	}

	return ds
}
