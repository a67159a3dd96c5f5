package rules

import (
	"github.com/sirkon/protoguard/internal/diag"
	"github.com/sirkon/protoguard/internal/facts"
	"github.com/sirkon/protoguard/internal/pgrules"
)

// GateRules checks whether a type needs the contract marker and whether a contract
// can be constructed.
func GateRules() RuleSet {
	return RuleSet{
		Name:        "gate",
		Description: "contract marker and constructor availability",
		Checks: []RuleCheck{
			{Rule: pgrules.ShouldBeProtoContract(), Check: checkContractMarker},
			{Rule: pgrules.ConstructorMissing(), Check: checkConstructor},
		},
	}
}

func checkContractMarker(f *facts.ContractFacts, _ Relations) []diag.Diagnostic {
	if f.IsContract || !f.Annotated {
		return nil
	}

	return []diag.Diagnostic{
		diag.New(pgrules.ShouldBeProtoContract(), f.Type.Name(), f.Pos),
	}
}

// HasParameterlessConstructor tells whether a type can be created without arguments.
// A type without declared constructors is created from its zero value.
func HasParameterlessConstructor(ctors []facts.Constructor) bool {
	if len(ctors) == 0 {
		return true
	}
	for _, c := range ctors {
		if c.Params == 0 && c.Accessible {
			return true
		}
	}

	return false
}

func checkConstructor(f *facts.ContractFacts, _ Relations) []diag.Diagnostic {
	if !f.IsContract || f.Options.SkipConstructor {
		return nil
	}
	if HasParameterlessConstructor(f.Constructors) {
		return nil
	}

	return []diag.Diagnostic{
		diag.New(pgrules.ConstructorMissing(), f.Type.Name(), f.Pos),
	}
}
