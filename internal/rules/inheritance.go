package rules

import (
	"github.com/sirkon/protoguard/internal/diag"
	"github.com/sirkon/protoguard/internal/facts"
	"github.com/sirkon/protoguard/internal/pgrules"
)

// InheritanceRules checks includes of a type against its direct sub-types.
func InheritanceRules() RuleSet {
	return RuleSet{
		Name:        "inheritance",
		Description: "includes against the base/sub-type relation",
		Checks: []RuleCheck{
			{Rule: pgrules.DuplicateInclude(), Check: checkDuplicateIncludes},
			{Rule: pgrules.IncludeNonDerived(), Check: checkIncludeNonDerived},
			{Rule: pgrules.IncludeNotDeclared(), Check: checkIncludesDeclared},
			{Rule: pgrules.SubTypeShouldBeProtoContract(), Check: checkIncludedAreContracts},
		},
	}
}

func relations(rel Relations) Relations {
	if rel == nil {
		return NoRelations{}
	}

	return rel
}

// tracksSubTypes tells whether sub-type coverage is demanded from a type.
func tracksSubTypes(f *facts.ContractFacts) bool {
	return f.IsContract && !f.Options.IgnoreUnknownSubTypes
}

func checkDuplicateIncludes(f *facts.ContractFacts, _ Relations) []diag.Diagnostic {
	var ds []diag.Diagnostic
	counts := map[facts.TypeID]int{}
	for _, inc := range f.Includes {
		if inc.Target == "" {
			continue
		}
		counts[inc.Target]++
		if counts[inc.Target] == 2 {
			ds = append(ds, diag.New(pgrules.DuplicateInclude(), f.Type.Name(), inc.Pos, inc.Target.Name()))
		}
	}

	return ds
}

func checkIncludeNonDerived(f *facts.ContractFacts, rel Relations) []diag.Diagnostic {
	if len(f.Includes) == 0 {
		return nil
	}

	direct := map[facts.TypeID]struct{}{}
	for _, sub := range relations(rel).SubTypes(f.Type) {
		direct[sub.Type] = struct{}{}
	}

	var ds []diag.Diagnostic
	reported := map[facts.TypeID]struct{}{}
	for _, inc := range f.Includes {
		if inc.Target == "" {
			continue
		}
		if _, ok := direct[inc.Target]; ok {
			continue
		}
		if !appendOnce(reported, inc.Target) {
			continue
		}
		ds = append(ds, diag.New(pgrules.IncludeNonDerived(), f.Type.Name(), inc.Pos, inc.Target.Name()))
	}

	return ds
}

func checkIncludesDeclared(f *facts.ContractFacts, rel Relations) []diag.Diagnostic {
	if !tracksSubTypes(f) {
		return nil
	}

	included := make(map[facts.TypeID]struct{}, len(f.Includes))
	for _, inc := range f.Includes {
		included[inc.Target] = struct{}{}
	}

	var ds []diag.Diagnostic
	for _, sub := range relations(rel).SubTypes(f.Type) {
		if _, ok := included[sub.Type]; ok {
			continue
		}
		pos := sub.Pos
		if !pos.IsValid() {
			pos = f.Pos
		}
		ds = append(ds, diag.New(pgrules.IncludeNotDeclared(), f.Type.Name(), pos, f.Type.Name(), sub.Type.Name()))
	}

	return ds
}

func checkIncludedAreContracts(f *facts.ContractFacts, rel Relations) []diag.Diagnostic {
	if !tracksSubTypes(f) {
		return nil
	}

	var ds []diag.Diagnostic
	reported := map[facts.TypeID]struct{}{}
	for _, inc := range f.Includes {
		if inc.Target == "" {
			continue
		}
		contract, known := relations(rel).IsContract(inc.Target)
		if !known || contract {
			continue
		}
		if !appendOnce(reported, inc.Target) {
			continue
		}
		ds = append(ds, diag.New(pgrules.SubTypeShouldBeProtoContract(), f.Type.Name(), inc.Pos, f.Type.Name(), inc.Target.Name()))
	}

	return ds
}
