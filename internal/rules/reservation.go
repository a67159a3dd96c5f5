package rules

import (
	"fmt"

	"github.com/sirkon/protoguard/internal/diag"
	"github.com/sirkon/protoguard/internal/facts"
	"github.com/sirkon/protoguard/internal/pgrules"
)

// ReservationRules checks a type's own reservations against each other.
func ReservationRules() RuleSet {
	return RuleSet{
		Name:        "reservation",
		Description: "overlaps between reservations of a single type",
		Checks: []RuleCheck{
			{Rule: pgrules.DuplicateReservation(), Check: checkReservationOverlaps},
		},
	}
}

// Overlap reports whether two reservations intersect. Name reservations overlap on
// exact name equality, numeric ones when max(lo1,lo2) <= min(hi1,hi2). A name never
// overlaps a number.
func Overlap(a, b facts.Reservation) bool {
	if a.IsName != b.IsName {
		return false
	}
	if a.IsName {
		return a.Name == b.Name
	}

	return max(a.Lo, b.Lo) <= min(a.Hi, b.Hi)
}

func overlapShape(r facts.Reservation) string {
	if r.IsName {
		return "'" + r.Name + "'"
	}

	return fmt.Sprintf("[%d-%d]", r.Lo, r.Hi)
}

// checkReservationOverlaps reports every overlapping pair once, later-declared
// reservation first, at the later reservation.
func checkReservationOverlaps(f *facts.ContractFacts, _ Relations) []diag.Diagnostic {
	var ds []diag.Diagnostic
	rs := f.Reservations
	for j := 1; j < len(rs); j++ {
		for i := 0; i < j; i++ {
			if !Overlap(rs[i], rs[j]) {
				continue
			}
			ds = append(ds, diag.New(
				pgrules.DuplicateReservation(),
				f.Type.Name(),
				rs[j].Pos,
				overlapShape(rs[j]),
				overlapShape(rs[i]),
			))
		}
	}

	return ds
}
