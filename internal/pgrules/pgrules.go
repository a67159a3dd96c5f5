package pgrules

import (
	"encoding"
	"fmt"
	"strings"
)

// Rule represents a protoguard rule code (PG-series).
type Rule int

const (
	ruleInvalid Rule = iota

	PG001InvalidFieldNumber
	PG002DuplicateFieldNumber
	PG003DuplicateFieldName
	PG004ReservedFieldNumber
	PG005ReservedFieldName
	PG006DeclaredAndIgnored
	PG007MemberNotFound
	PG100DuplicateReservation
	PG150DuplicateInclude
	PG151IncludeNonDerived
	PG152IncludeNotDeclared
	PG153SubTypeShouldBeProtoContract
	PG200ShouldBeProtoContract
	PG201ConstructorMissing

	ruleSentinel
)

type descriptor struct {
	code     string
	name     string
	severity Severity
	template string
	descr    string
}

var descriptors = map[Rule]descriptor{
	PG001InvalidFieldNumber: {
		code:     "PG001",
		name:     "InvalidFieldNumber",
		severity: SeverityError,
		template: "The specified field number %d is invalid; the valid range is 1-536870911, omitting 19000-19999.",
		descr:    "Field numbers must be within 1-536870911; 19000-19999 is reserved by the wire format.",
	},
	PG002DuplicateFieldNumber: {
		code:     "PG002",
		name:     "DuplicateFieldNumber",
		severity: SeverityError,
		template: "The specified field number %d is duplicated; field numbers must be unique between all declared members and includes on a single type.",
		descr:    "Members, partial members and includes of one type share a single numbering space.",
	},
	PG003DuplicateFieldName: {
		code:     "PG003",
		name:     "DuplicateFieldName",
		severity: SeverityWarning,
		template: "The specified field name '%s' is duplicated; field names should be unique between all declared members on a single type.",
		descr:    "Declared member names should be unique within a type.",
	},
	PG004ReservedFieldNumber: {
		code:     "PG004",
		name:     "ReservedFieldNumber",
		severity: SeverityWarning,
		template: "The specified field number %s is explicitly reserved.",
		descr:    "A member uses a number covered by a reservation.",
	},
	PG005ReservedFieldName: {
		code:     "PG005",
		name:     "ReservedFieldName",
		severity: SeverityWarning,
		template: "The specified field name '%s' is explicitly reserved.",
		descr:    "A member uses a name covered by a reservation.",
	},
	PG006DeclaredAndIgnored: {
		code:     "PG006",
		name:     "DeclaredAndIgnored",
		severity: SeverityError,
		template: "The member '%s' is marked to be ignored; additional annotations will be ignored.",
		descr:    "A member is both declared as a field and marked to be ignored.",
	},
	PG007MemberNotFound: {
		code:     "PG007",
		name:     "MemberNotFound",
		severity: SeverityError,
		template: "The specified type member '%s' could not be resolved.",
		descr:    "A partial member redirection names a member the type does not have.",
	},
	PG100DuplicateReservation: {
		code:     "PG100",
		name:     "DuplicateReservation",
		severity: SeverityInfo,
		template: "The reservations %s and %s overlap each-other.",
		descr:    "Two reservations of one type cover the same name or numbers.",
	},
	PG150DuplicateInclude: {
		code:     "PG150",
		name:     "DuplicateInclude",
		severity: SeverityError,
		template: "The type '%s' is declared as an include multiple times.",
		descr:    "A sub-type may be included only once.",
	},
	PG151IncludeNonDerived: {
		code:     "PG151",
		name:     "IncludeNonDerived",
		severity: SeverityError,
		template: "The type '%s' is declared as an include, but is not a direct sub-type.",
		descr:    "Includes must target direct sub-types of the declaring type.",
	},
	PG152IncludeNotDeclared: {
		code:     "PG152",
		name:     "IncludeNotDeclared",
		severity: SeverityWarning,
		template: "The base-type '%s' is a proto-contract, but no include is declared for '%s' and the IgnoreUnknownSubTypes flag is not set.",
		descr:    "Every direct sub-type of a contract needs an include unless unknown sub-types are ignored.",
	},
	PG153SubTypeShouldBeProtoContract: {
		code:     "PG153",
		name:     "SubTypeShouldBeProtoContract",
		severity: SeverityWarning,
		template: "The base-type '%s' is a proto-contract and the IgnoreUnknownSubTypes flag is not set; '%s' should also be a proto-contract.",
		descr:    "Included sub-types of a contract should be contracts themselves.",
	},
	PG200ShouldBeProtoContract: {
		code:     "PG200",
		name:     "ShouldBeProtoContract",
		severity: SeverityError,
		template: "The type is not marked as a proto-contract; additional annotations will be ignored.",
		descr:    "Member, include and reservation annotations require the contract marker.",
	},
	PG201ConstructorMissing: {
		code:     "PG201",
		name:     "ConstructorMissing",
		severity: SeverityError,
		template: "There is no suitable (parameterless) constructor available for the proto-contract, and the SkipConstructor flag is not set.",
		descr:    "Contracts need an accessible parameterless constructor unless SkipConstructor is set.",
	},
}

// All returns every known rule in code order.
func All() []Rule {
	res := make([]Rule, 0, len(descriptors))
	for r := ruleInvalid + 1; r < ruleSentinel; r++ {
		res = append(res, r)
	}
	return res
}

// Valid reports whether r is a known rule.
func (r Rule) Valid() bool {
	_, ok := descriptors[r]
	return ok
}

// String returns the canonical code and short name of the rule.
// Example: "PG001: InvalidFieldNumber"
func (r Rule) String() string {
	d, ok := descriptors[r]
	if !ok {
		return fmt.Sprintf("rule-unknown(%d)", r)
	}

	return d.code + ": " + d.name
}

// Code returns the stable rule identifier, e.g. "PG001".
func (r Rule) Code() string {
	d, ok := descriptors[r]
	if !ok {
		return fmt.Sprintf("PG???(%d)", r)
	}

	return d.code
}

// Name returns the rule name, e.g. "InvalidFieldNumber".
func (r Rule) Name() string {
	return descriptors[r].name
}

// Description returns the human-readable explanation of the rule.
func (r Rule) Description() string {
	d, ok := descriptors[r]
	if !ok {
		return fmt.Sprintf("unknown-rule(%d)", r)
	}

	return d.descr
}

// DefaultSeverity returns the severity the rule reports with unless stated otherwise.
// InvalidFieldNumber reports the 19000-19999 block with SeverityWarning regardless.
func (r Rule) DefaultSeverity() Severity {
	return descriptors[r].severity
}

// Format renders the rule message template with the given arguments.
func (r Rule) Format(args ...any) string {
	d, ok := descriptors[r]
	if !ok {
		return r.String()
	}

	if len(args) == 0 {
		return d.template
	}

	return fmt.Sprintf(d.template, args...)
}

var _ encoding.TextUnmarshaler = (*Rule)(nil)

// UnmarshalText accepts either a code ("PG001") or a name ("InvalidFieldNumber"),
// case-insensitively.
func (r *Rule) UnmarshalText(b []byte) error {
	text := strings.TrimSpace(string(b))
	for k, v := range descriptors {
		if strings.EqualFold(v.code, text) || strings.EqualFold(v.name, text) {
			*r = k
			return nil
		}
	}

	return fmt.Errorf("unknown rule %q", text)
}

// MarshalText renders the rule code.
func (r Rule) MarshalText() ([]byte, error) {
	d, ok := descriptors[r]
	if !ok {
		return nil, fmt.Errorf("cannot marshal invalid Rule(%d)", r)
	}

	return []byte(d.code), nil
}

// Canonical constructors for readable call sites.

func InvalidFieldNumber() Rule           { return PG001InvalidFieldNumber }
func DuplicateFieldNumber() Rule         { return PG002DuplicateFieldNumber }
func DuplicateFieldName() Rule           { return PG003DuplicateFieldName }
func ReservedFieldNumber() Rule          { return PG004ReservedFieldNumber }
func ReservedFieldName() Rule            { return PG005ReservedFieldName }
func DeclaredAndIgnored() Rule           { return PG006DeclaredAndIgnored }
func MemberNotFound() Rule               { return PG007MemberNotFound }
func DuplicateReservation() Rule         { return PG100DuplicateReservation }
func DuplicateInclude() Rule             { return PG150DuplicateInclude }
func IncludeNonDerived() Rule            { return PG151IncludeNonDerived }
func IncludeNotDeclared() Rule           { return PG152IncludeNotDeclared }
func SubTypeShouldBeProtoContract() Rule { return PG153SubTypeShouldBeProtoContract }
func ShouldBeProtoContract() Rule        { return PG200ShouldBeProtoContract }
func ConstructorMissing() Rule           { return PG201ConstructorMissing }
