package core

import "errors"

// Sentinel errors for the matching data model.
var (
	// ErrNilAgent indicates a nil *Agent was supplied.
	ErrNilAgent = errors.New("core: agent is nil")

	// ErrNilCouple indicates a nil *Couple was supplied.
	ErrNilCouple = errors.New("core: couple is nil")

	// ErrNilInstance indicates a nil *Instance was supplied.
	ErrNilInstance = errors.New("core: instance is nil")

	// ErrEmptyIdent indicates an empty identifier where one is required.
	ErrEmptyIdent = errors.New("core: identifier is empty")

	// ErrBadCapacity indicates a capacity below one.
	ErrBadCapacity = errors.New("core: capacity must be at least one")

	// ErrDuplicateIdent indicates an identifier already present on that side.
	ErrDuplicateIdent = errors.New("core: identifier already present")

	// ErrDuplicatePreference indicates an identifier listed twice in one preference list.
	ErrDuplicatePreference = errors.New("core: identifier listed twice in preference list")

	// ErrEmptyTieGroup indicates a preference list containing an empty tie group.
	ErrEmptyTieGroup = errors.New("core: tie group is empty")

	// ErrAgentNotFound indicates a lookup referenced an unknown identifier.
	ErrAgentNotFound = errors.New("core: agent not found")

	// ErrNotRanked indicates a rank query for an identifier absent from the list.
	ErrNotRanked = errors.New("core: identifier not ranked")

	// ErrNoWeight indicates no weight is recorded for the identifier.
	ErrNoWeight = errors.New("core: no weight recorded")

	// ErrHasTies indicates an interleaving over member lists that contain ties.
	ErrHasTies = errors.New("core: preference list contains ties")

	// ErrUnevenLists indicates member lists too uneven to interleave.
	ErrUnevenLists = errors.New("core: member preference lists do not interleave")

	// ErrDuplicateAssignment indicates the same left-right pair proposed twice.
	ErrDuplicateAssignment = errors.New("core: duplicate assignment")

	// ErrUnknownCompare indicates an unknown CoupleCompare value.
	ErrUnknownCompare = errors.New("core: unknown couple comparison mode")
)

// TieGroup is one indifference class of a preference list: every identifier
// in the group holds the same rank. Order within a group is irrelevant.
type TieGroup []string

// PairTieGroup is one indifference class over joint pair choices of a couple.
type PairTieGroup []PreferencePair

// Assignment pairs one left-side identifier with one right-side identifier.
// For couples the left identifier is the member's own, never the composite.
type Assignment struct {
	Left  string
	Right string
}

// LeftAgent is one left-side entity of an Instance: a single *Agent or a
// *Couple. The variant set is closed; stability checks dispatch on the two
// concrete types.
type LeftAgent interface {
	// Ident returns the entity identifier, composite for couples.
	Ident() string

	leftAgent()
}

func (a *Agent) leftAgent()  {}
func (c *Couple) leftAgent() {}

// rankIn returns the 1-based position of the group containing want, or 0
// when want is absent.
func rankIn[G ~[]E, E comparable](groups []G, want E) int {
	for i, grp := range groups {
		for _, e := range grp {
			if e == want {
				return i + 1
			}
		}
	}

	return 0
}

// flattenIn returns every entry in rank order as a fresh slice.
func flattenIn[G ~[]E, E comparable](groups []G) []E {
	out := make([]E, 0, countIn(groups))
	for _, grp := range groups {
		out = append(out, grp...)
	}

	return out
}

// asGoodAsIn returns every entry ranked at or above pivot, inclusive of the
// whole group containing pivot. An absent pivot yields the full list.
func asGoodAsIn[G ~[]E, E comparable](groups []G, pivot E) []E {
	out := make([]E, 0, countIn(groups))
	for _, grp := range groups {
		out = append(out, grp...)
		for _, e := range grp {
			if e == pivot {
				return out
			}
		}
	}

	return out
}

// trimWorstIn drops every group strictly worse than the worst group holding
// any target and reports how many individual entries were removed. When no
// target occurs at all, nothing is dropped.
func trimWorstIn[G ~[]E, E comparable](groups []G, targets []E) ([]G, int) {
	want := make(map[E]struct{}, len(targets))
	for _, t := range targets {
		want[t] = struct{}{}
	}
	worst := 0 // 1-based rank of the worst group containing a target
	for i, grp := range groups {
		for _, e := range grp {
			if _, ok := want[e]; ok {
				worst = i + 1

				break
			}
		}
	}
	if worst == 0 {
		return groups, 0
	}
	removed := 0
	for _, grp := range groups[worst:] {
		removed += len(grp)
	}

	return groups[:worst], removed
}

// countIn returns the total number of individual entries across groups.
func countIn[G ~[]E, E any](groups []G) int {
	n := 0
	for _, grp := range groups {
		n += len(grp)
	}

	return n
}

// cloneIn deep-copies a slice of groups.
func cloneIn[G ~[]E, E any](groups []G) []G {
	if groups == nil {
		return nil
	}
	out := make([]G, len(groups))
	for i, grp := range groups {
		out[i] = append(G(nil), grp...)
	}

	return out
}

// validateGroups rejects empty groups, entries for which isEmpty holds, and
// duplicate entries anywhere in the list.
func validateGroups[G ~[]E, E comparable](groups []G, isEmpty func(E) bool) error {
	seen := make(map[E]struct{}, countIn(groups))
	for _, grp := range groups {
		if len(grp) == 0 {
			return ErrEmptyTieGroup
		}
		for _, e := range grp {
			if isEmpty(e) {
				return ErrEmptyIdent
			}
			if _, dup := seen[e]; dup {
				return ErrDuplicatePreference
			}
			seen[e] = struct{}{}
		}
	}

	return nil
}
