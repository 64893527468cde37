package core

import (
	"fmt"
	"sort"
	"strings"
)

// Agent is one participant on either side of an Instance: a resident, a
// hospital, a post. It carries an immutable identifier, a capacity (how many
// counterparts it may hold at once) and an ordered preference list of tie
// groups over counterpart identifiers. Identifiers absent from the list are
// unacceptable.
//
// Preferences come either from SetPreferences or, for scored (SMTI-GRP)
// populations, are derived from recorded weights: descending weight, equal
// weights tied. Explicitly set groups are never overwritten by AddWeight.
//
// An Agent is safe for concurrent readers once construction and preference
// edits are done; mutating calls must not race with readers.
type Agent struct {
	ident    string
	capacity int

	// prefs holds the current tie groups, best rank first.
	prefs []TieGroup
	// explicit marks prefs as set or edited directly rather than derived
	// from weights.
	explicit bool

	// weights backs the scored preference model; nil until AddWeight.
	weights map[string]float64
}

// AgentOption configures an Agent at construction.
type AgentOption func(*Agent)

// WithCapacity sets how many counterparts the agent may hold at once.
// The default is 1.
func WithCapacity(capacity int) AgentOption {
	return func(a *Agent) { a.capacity = capacity }
}

// NewAgent creates an Agent with an empty preference list.
// Returns ErrEmptyIdent or ErrBadCapacity on invalid input.
func NewAgent(ident string, opts ...AgentOption) (*Agent, error) {
	if ident == "" {
		return nil, ErrEmptyIdent
	}
	a := &Agent{ident: ident, capacity: 1}
	for _, opt := range opts {
		opt(a)
	}
	if a.capacity < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadCapacity, a.capacity)
	}

	return a, nil
}

// Ident returns the agent's identifier.
func (a *Agent) Ident() string { return a.ident }

// Capacity returns how many counterparts the agent may hold at once.
func (a *Agent) Capacity() int { return a.capacity }

// SetPreferences replaces the preference list with a deep copy of groups.
// Entries must be unique across the whole list and non-empty; groups must be
// non-empty. Groups set here take precedence over any recorded weights.
func (a *Agent) SetPreferences(groups []TieGroup) error {
	if err := validateGroups(groups, func(id string) bool { return id == "" }); err != nil {
		return fmt.Errorf("agent %q: %w", a.ident, err)
	}
	a.prefs = cloneIn(groups)
	a.explicit = true

	return nil
}

// Preferences returns a deep copy of the current tie groups, best rank first.
func (a *Agent) Preferences() []TieGroup { return cloneIn(a.prefs) }

// NumPreferences returns the number of individual preference entries.
func (a *Agent) NumPreferences() int { return countIn(a.prefs) }

// RankOf returns the 1-based position of the tie group containing ident.
// Returns ErrNotRanked when ident is unacceptable; callers are expected to
// query acceptable targets only.
func (a *Agent) RankOf(ident string) (int, error) {
	if r := rankIn(a.prefs, ident); r > 0 {
		return r, nil
	}

	return 0, fmt.Errorf("%w: %q by %q", ErrNotRanked, ident, a.ident)
}

// Prefers reports whether the agent ranks one strictly above two, or at
// least as high when allowEqual is set. Either identifier being unranked is
// an ErrNotRanked error.
func (a *Agent) Prefers(one, two string, allowEqual bool) (bool, error) {
	rankOne, err := a.RankOf(one)
	if err != nil {
		return false, err
	}
	rankTwo, err := a.RankOf(two)
	if err != nil {
		return false, err
	}
	if allowEqual {
		return rankOne <= rankTwo, nil
	}

	return rankOne < rankTwo, nil
}

// IsAcceptable reports whether ident appears anywhere in the preference list.
func (a *Agent) IsAcceptable(ident string) bool { return rankIn(a.prefs, ident) > 0 }

// AcceptableAgents returns every acceptable identifier in rank order.
// The slice is fresh on each call.
func (a *Agent) AcceptableAgents() []string { return flattenIn(a.prefs) }

// AsGoodAs returns every identifier ranked at or above other, inclusive of
// other's whole tie group. When other is unranked the full list is returned;
// callers wanting a hard failure should check IsAcceptable first.
func (a *Agent) AsGoodAs(other string) []string { return asGoodAsIn(a.prefs, other) }

// TrimAfterWorst drops every tie group strictly worse than the worst group
// containing any of targets and reports how many individual entries were
// removed. When no target is ranked at all, the list is left untouched.
func (a *Agent) TrimAfterWorst(targets []string) int {
	var removed int
	a.prefs, removed = trimWorstIn(a.prefs, targets)
	if removed > 0 {
		a.explicit = true
	}

	return removed
}

// AddWeight records a scored counterpart. Unless explicit preference groups
// were set, the tie groups are re-derived from all recorded weights.
func (a *Agent) AddWeight(other string, weight float64) error {
	if other == "" {
		return ErrEmptyIdent
	}
	if a.weights == nil {
		a.weights = make(map[string]float64)
	}
	a.weights[other] = weight
	if !a.explicit {
		a.rebuildFromWeights()
	}

	return nil
}

// WeightOf returns the recorded weight for other, or ErrNoWeight.
func (a *Agent) WeightOf(other string) (float64, error) {
	w, ok := a.weights[other]
	if !ok {
		return 0, fmt.Errorf("%w: %q by %q", ErrNoWeight, other, a.ident)
	}

	return w, nil
}

// Threshold removes every recorded weight strictly below min, re-derives the
// tie groups from the remaining weights and reports how many entries were
// dropped. Thresholding is a weight-model operation: it replaces explicitly
// set groups as well.
func (a *Agent) Threshold(min float64) int {
	dropped := 0
	for id, w := range a.weights {
		if w < min {
			delete(a.weights, id)
			dropped++
		}
	}
	a.explicit = false
	a.rebuildFromWeights()

	return dropped
}

// HasWeights reports whether any weight has been recorded.
func (a *Agent) HasWeights() bool { return len(a.weights) > 0 }

// rebuildFromWeights rewrites prefs from the weight table: descending
// weight, equal weights tied, identifier order within a group alphabetical.
func (a *Agent) rebuildFromWeights() {
	ids := make([]string, 0, len(a.weights))
	for id := range a.weights {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		wi, wj := a.weights[ids[i]], a.weights[ids[j]]
		if wi != wj {
			return wi > wj
		}

		return ids[i] < ids[j]
	})
	a.prefs = nil
	for i := 0; i < len(ids); {
		j := i
		var grp TieGroup
		for ; j < len(ids) && a.weights[ids[j]] == a.weights[ids[i]]; j++ {
			grp = append(grp, ids[j])
		}
		a.prefs = append(a.prefs, grp)
		i = j
	}
}

// PrefersToMatched reports whether the agent would give something up for
// candidate under m: true when it currently holds nothing at all, or when it
// strictly ranks candidate above at least one current assignment. A
// non-empty ignore excludes that identifier from the scan of current
// assignments (but not from the "holds nothing" test).
func (a *Agent) PrefersToMatched(m *Matching, candidate, ignore string) (bool, error) {
	current, err := m.MatchedTo(a.ident)
	if err != nil {
		return false, err
	}
	if len(current) == 0 {
		return true, nil
	}
	candRank, err := a.RankOf(candidate)
	if err != nil {
		return false, err
	}
	for _, cur := range current {
		if cur == ignore {
			continue
		}
		curRank, err := a.RankOf(cur)
		if err != nil {
			return false, err
		}
		if candRank < curRank {
			return true, nil
		}
	}

	return false, nil
}

// CoupleCompare selects how PrefersCoupleToMatched weighs a couple against
// the agent's current assignments.
type CoupleCompare int

const (
	// CoupleBeatsOne holds when some single current assignment is outranked
	// by both members of the couple.
	CoupleBeatsOne CoupleCompare = iota

	// CoupleBeatsPair holds when two distinct current assignments are
	// outranked, each by a different member of the couple.
	CoupleBeatsPair
)

// PrefersCoupleToMatched is the couple-targeted variant of
// PrefersToMatched: true when the agent holds nothing at all, or when its
// current assignments lose to the couple under cmp. allowEqual relaxes the
// member-versus-current comparisons to non-strict.
func (a *Agent) PrefersCoupleToMatched(m *Matching, c *Couple, cmp CoupleCompare, allowEqual bool) (bool, error) {
	if c == nil {
		return false, ErrNilCouple
	}
	current, err := m.MatchedTo(a.ident)
	if err != nil {
		return false, err
	}
	if len(current) == 0 {
		return true, nil
	}
	firstRank, err := a.RankOf(c.First().Ident())
	if err != nil {
		return false, err
	}
	secondRank, err := a.RankOf(c.Second().Ident())
	if err != nil {
		return false, err
	}
	ranks := make([]int, len(current))
	for i, cur := range current {
		if ranks[i], err = a.RankOf(cur); err != nil {
			return false, err
		}
	}
	beats := func(member, cur int) bool {
		if allowEqual {
			return member <= cur
		}

		return member < cur
	}
	switch cmp {
	case CoupleBeatsOne:
		for _, cur := range ranks {
			if beats(firstRank, cur) && beats(secondRank, cur) {
				return true, nil
			}
		}
	case CoupleBeatsPair:
		for i, curA := range ranks {
			for j, curB := range ranks {
				if i == j {
					continue
				}
				if beats(firstRank, curA) && beats(secondRank, curB) {
					return true, nil
				}
			}
		}
	default:
		return false, fmt.Errorf("%w: %d", ErrUnknownCompare, int(cmp))
	}

	return false, nil
}

// String renders the agent and its preference groups for debugging, with
// tie groups parenthesized: "h1: A (B C) D".
func (a *Agent) String() string {
	parts := make([]string, 0, len(a.prefs))
	for _, grp := range a.prefs {
		if len(grp) == 1 {
			parts = append(parts, grp[0])
		} else {
			parts = append(parts, "("+strings.Join(grp, " ")+")")
		}
	}

	return a.ident + ": " + strings.Join(parts, " ")
}
