package core

import "fmt"

// PreferencePair is one joint choice for a couple: First names the right
// agent for the couple's first member, Second for the second member. Value
// equality makes it usable directly as a map key.
type PreferencePair struct {
	First  string
	Second string
}

// Ident returns the composite identifier "first,second".
func (p PreferencePair) Ident() string { return p.First + "," + p.Second }

// String implements fmt.Stringer.
func (p PreferencePair) String() string { return p.Ident() }

// SameTarget reports whether both members aim at the same right agent.
func (p PreferencePair) SameTarget() bool { return p.First == p.Second }

// Couple binds two left agents whose placement is judged jointly through a
// preference list of tie groups over PreferencePair entries. The member
// agents keep their own identifiers and individual lists; the joint list is
// what the stability rules consult.
type Couple struct {
	first  *Agent
	second *Agent
	prefs  []PairTieGroup
}

// NewCouple binds first and second with an empty joint list. Joint groups
// are supplied via SetPairPreferences, or derived by CoupleFromAgents.
func NewCouple(first, second *Agent) (*Couple, error) {
	if first == nil || second == nil {
		return nil, ErrNilAgent
	}
	if first.ident == second.ident {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateIdent, first.ident)
	}

	return &Couple{first: first, second: second}, nil
}

// CoupleFromAgents derives a couple's joint list by interleaving the two
// members' individual lists, which must be strictly ordered (ErrHasTies
// otherwise). Rank k of the joint list alternates between the aligned
// choice (first's k-th with second's k-th) and the tie of the two mixed
// off-diagonal choices around it. A second list longer than the first
// cannot be interleaved: ErrUnevenLists.
func CoupleFromAgents(first, second *Agent) (*Couple, error) {
	c, err := NewCouple(first, second)
	if err != nil {
		return nil, err
	}
	fp, sp := first.prefs, second.prefs
	var joint []PairTieGroup
	for j := 0; j < len(sp); j++ {
		for i := 0; i <= j && i < len(fp); i++ {
			if len(fp[i]) != 1 || len(sp[j]) != 1 {
				return nil, fmt.Errorf("%w: cannot interleave %q and %q",
					ErrHasTies, first.ident, second.ident)
			}
			if i == j {
				joint = append(joint, PairTieGroup{{First: fp[i][0], Second: sp[j][0]}})

				continue
			}
			// Mixed entry: pair it with its mirror one rank over.
			if j >= len(fp) {
				return nil, fmt.Errorf("%w: %q is shorter than %q",
					ErrUnevenLists, first.ident, second.ident)
			}
			if len(fp[j]) != 1 || len(sp[i]) != 1 {
				return nil, fmt.Errorf("%w: cannot interleave %q and %q",
					ErrHasTies, first.ident, second.ident)
			}
			joint = append(joint, PairTieGroup{
				{First: fp[i][0], Second: sp[j][0]},
				{First: fp[j][0], Second: sp[i][0]},
			})
		}
	}
	c.prefs = joint

	return c, nil
}

// First returns the first member.
func (c *Couple) First() *Agent { return c.first }

// Second returns the second member.
func (c *Couple) Second() *Agent { return c.second }

// Ident returns the composite identifier "(first,second)".
func (c *Couple) Ident() string { return "(" + c.first.ident + "," + c.second.ident + ")" }

// SplitIdent returns the two member identifiers separated by a space.
func (c *Couple) SplitIdent() string { return c.first.ident + " " + c.second.ident }

// SetPairPreferences replaces the joint list with a deep copy of groups.
// Pairs must be unique across the whole list with non-empty components.
// Couples built this way are not required to keep the joint entries
// consistent with the members' individual lists.
func (c *Couple) SetPairPreferences(groups []PairTieGroup) error {
	isEmpty := func(p PreferencePair) bool { return p.First == "" || p.Second == "" }
	if err := validateGroups(groups, isEmpty); err != nil {
		return fmt.Errorf("couple %s: %w", c.Ident(), err)
	}
	c.prefs = cloneIn(groups)

	return nil
}

// PairPreferences returns a deep copy of the joint tie groups.
func (c *Couple) PairPreferences() []PairTieGroup { return cloneIn(c.prefs) }

// NumPreferences returns the number of individual joint entries.
func (c *Couple) NumPreferences() int { return countIn(c.prefs) }

// RankOfPair returns the 1-based tie-group position of p in the joint list,
// or ErrNotRanked.
func (c *Couple) RankOfPair(p PreferencePair) (int, error) {
	if r := rankIn(c.prefs, p); r > 0 {
		return r, nil
	}

	return 0, fmt.Errorf("%w: %q by %s", ErrNotRanked, p.Ident(), c.Ident())
}

// PrefersPair reports whether the couple ranks one strictly above two on
// its joint list, or at least as high when allowEqual is set.
func (c *Couple) PrefersPair(one, two PreferencePair, allowEqual bool) (bool, error) {
	rankOne, err := c.RankOfPair(one)
	if err != nil {
		return false, err
	}
	rankTwo, err := c.RankOfPair(two)
	if err != nil {
		return false, err
	}
	if allowEqual {
		return rankOne <= rankTwo, nil
	}

	return rankOne < rankTwo, nil
}

// IsAcceptablePair reports whether p appears in the joint list.
func (c *Couple) IsAcceptablePair(p PreferencePair) bool { return rankIn(c.prefs, p) > 0 }

// AcceptablePairs returns every joint entry in rank order, fresh each call.
func (c *Couple) AcceptablePairs() []PreferencePair { return flattenIn(c.prefs) }

// PrefersPairToMatched reports whether the couple would trade its current
// joint assignment under m for candidate: true when either member holds
// nothing, or when the couple strictly ranks candidate above the pair it
// currently occupies.
func (c *Couple) PrefersPairToMatched(m *Matching, candidate PreferencePair) (bool, error) {
	cur, ok, err := m.MatchedPair(c)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}

	return c.PrefersPair(candidate, cur, false)
}

// String renders the couple and its joint groups for debugging.
func (c *Couple) String() string {
	parts := make([]string, 0, len(c.prefs))
	for _, grp := range c.prefs {
		if len(grp) == 1 {
			parts = append(parts, grp[0].Ident())

			continue
		}
		s := "("
		for i, p := range grp {
			if i > 0 {
				s += " "
			}
			s += p.Ident()
		}
		parts = append(parts, s+")")
	}
	out := c.Ident() + ":"
	for _, p := range parts {
		out += " " + p
	}

	return out
}
