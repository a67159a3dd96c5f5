// Package pgrules defines the canonical PG-series rule codes enforced by protoguard.
//
// Each rule represents a verifiable invariant of a serialization contract declared
// through annotations. The PG-series gives every rule a stable numeric and textual
// identity, a default severity and a message template, so violations can be reported,
// filtered and configured consistently across the analyzer, the CLI and tests.
//
// # Structure
//
// Rule codes follow the format "PG<NNN>: <Name>" and are grouped by functional area:
//
//	000-099  Member numbering and naming
//	100-149  Reservations
//	150-199  Inheritance and includes
//	200-249  Contract gate and construction
//
// Example:
//
//	pgrules.PG001InvalidFieldNumber.String()   → "PG001: InvalidFieldNumber"
//	pgrules.PG001InvalidFieldNumber.Format(0)  → "The specified field number 0 is invalid; ..."
//
// # Notes
//
//   - Rule identifiers are stable; never renumber existing codes.
//   - Messages are part of the contract with hosting tools and must not change wording.
//   - Configuration accepts either the code or the name of a rule.
package pgrules
