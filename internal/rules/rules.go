// Package rules implements the contract rule sets and the engine merging their output.
//
// Every rule is a pure function of a type's facts and a read-only relational context.
// Rules never share accumulators; the engine concatenates their results and orders
// them deterministically.
package rules

import (
	"go/token"

	"github.com/sirkon/protoguard/internal/diag"
	"github.com/sirkon/protoguard/internal/facts"
	"github.com/sirkon/protoguard/internal/pgrules"
)

// Relations is the type-relationship data supplied by the annotation provider.
// Implementations must be safe for concurrent reads.
type Relations interface {
	// SubTypes returns the direct sub-types of the given type in a stable order.
	SubTypes(id facts.TypeID) []SubType

	// IsContract tells whether the type carries the contract marker. known is false
	// for types the provider knows nothing about.
	IsContract(id facts.TypeID) (contract bool, known bool)
}

// SubType is a direct sub-type of some base type.
type SubType struct {
	Type facts.TypeID

	// Pos points at the sub-type's reference to its base type.
	Pos token.Pos
}

// NoRelations is a Relations without any types.
type NoRelations struct{}

func (NoRelations) SubTypes(facts.TypeID) []SubType      { return nil }
func (NoRelations) IsContract(facts.TypeID) (bool, bool) { return false, false }

// Check is a single rule evaluation.
type Check func(f *facts.ContractFacts, rel Relations) []diag.Diagnostic

// RuleCheck binds a check to the rule it reports.
type RuleCheck struct {
	Rule  pgrules.Rule
	Check Check
}

// RuleSet is a named group of rule checks.
type RuleSet struct {
	Name        string
	Description string
	Checks      []RuleCheck
}

// RuleSets returns every rule set in evaluation order.
func RuleSets() []RuleSet {
	return []RuleSet{
		MemberRules(),
		ReservationRules(),
		InheritanceRules(),
		GateRules(),
	}
}

// appendOnce records key in seen and reports whether it was not there before.
func appendOnce[K comparable](seen map[K]struct{}, key K) bool {
	if _, ok := seen[key]; ok {
		return false
	}
	seen[key] = struct{}{}
	return true
}
