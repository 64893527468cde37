package core

import "fmt"

// Matching is a proposed assignment over an Instance: an ordered list of
// (left, right) identifier pairs plus the two derived indices, left to
// rights and right to lefts. Both indices are built once from the canonical
// pair list, so they are always mutually consistent. A Matching is
// read-only after construction.
//
// Capacities are not enforced here; a proposal may leave agents unmatched
// or oversubscribed, and the stability rules judge it as given.
type Matching struct {
	inst  *Instance
	pairs []Assignment

	left  map[string][]string // left ident -> right idents, in pair order
	right map[string][]string // right ident -> left idents, in pair order
}

// NewMatching builds a Matching from inst and the proposed pairs. Every
// left identifier must be a single left agent or a couple member of inst,
// and every right identifier a right agent; unknown identifiers and exact
// duplicate pairs are rejected.
func NewMatching(inst *Instance, pairs []Assignment) (*Matching, error) {
	if inst == nil {
		return nil, ErrNilInstance
	}
	m := &Matching{
		inst:  inst,
		pairs: append([]Assignment(nil), pairs...),
		left:  make(map[string][]string, len(pairs)),
		right: make(map[string][]string, len(pairs)),
	}
	seen := make(map[Assignment]struct{}, len(pairs))
	for _, p := range m.pairs {
		if !inst.HasLeft(p.Left) {
			return nil, fmt.Errorf("%w: left %q", ErrAgentNotFound, p.Left)
		}
		if !inst.HasRight(p.Right) {
			return nil, fmt.Errorf("%w: right %q", ErrAgentNotFound, p.Right)
		}
		if _, dup := seen[p]; dup {
			return nil, fmt.Errorf("%w: %q-%q", ErrDuplicateAssignment, p.Left, p.Right)
		}
		seen[p] = struct{}{}
		m.left[p.Left] = append(m.left[p.Left], p.Right)
		m.right[p.Right] = append(m.right[p.Right], p.Left)
	}

	return m, nil
}

// Instance returns the instance this matching is judged against.
func (m *Matching) Instance() *Instance { return m.inst }

// Pairs returns a copy of the canonical assignment list.
func (m *Matching) Pairs() []Assignment { return append([]Assignment(nil), m.pairs...) }

// Len returns the number of assignments.
func (m *Matching) Len() int { return len(m.pairs) }

// MatchedTo returns the identifiers matched to ident, in pair order, from
// either side. Identifiers the instance does not know are an error; known
// but unassigned ones yield an empty slice.
func (m *Matching) MatchedTo(ident string) ([]string, error) {
	if m.inst.HasLeft(ident) {
		return append([]string(nil), m.left[ident]...), nil
	}
	if m.inst.HasRight(ident) {
		return append([]string(nil), m.right[ident]...), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrAgentNotFound, ident)
}

// CapacityAvailable returns the agent's capacity minus its current load.
// Right agents are looked up first, then single left agents.
func (m *Matching) CapacityAvailable(ident string) (int, error) {
	if a, ok := m.inst.right[ident]; ok {
		return a.capacity - len(m.right[ident]), nil
	}
	if a, ok := m.inst.singleLeft[ident]; ok {
		return a.capacity - len(m.left[ident]), nil
	}

	return 0, fmt.Errorf("%w: %q", ErrAgentNotFound, ident)
}

// MatchedPair returns the couple's current joint assignment, taking each
// member's first assignment. The second result is false unless both
// members hold one.
func (m *Matching) MatchedPair(c *Couple) (PreferencePair, bool, error) {
	if c == nil {
		return PreferencePair{}, false, ErrNilCouple
	}
	first, err := m.MatchedTo(c.first.ident)
	if err != nil {
		return PreferencePair{}, false, err
	}
	second, err := m.MatchedTo(c.second.ident)
	if err != nil {
		return PreferencePair{}, false, err
	}
	if len(first) == 0 || len(second) == 0 {
		return PreferencePair{}, false, nil
	}

	return PreferencePair{First: first[0], Second: second[0]}, true, nil
}

// String renders the matching as its pair list, in canonical order.
func (m *Matching) String() string {
	out := "{"
	for i, p := range m.pairs {
		if i > 0 {
			out += " "
		}
		out += p.Left + "-" + p.Right
	}

	return out + "}"
}
