package core

import (
	"fmt"
	"sort"
)

// Instance is the bipartite container a matching is judged against: single
// left agents, left couples, and right agents, each keyed by identifier.
//
// A left identifier is either a single or exactly one half of exactly one
// couple, never both; the Add methods enforce this at insertion. An Instance
// is built once, optionally cleaned in place (Preprocess, Threshold), and
// then queried read-only by any number of Matchings.
type Instance struct {
	singleLeft map[string]*Agent
	couples    map[string]*Couple
	right      map[string]*Agent
}

// NewInstance returns an empty Instance.
func NewInstance() *Instance {
	return &Instance{
		singleLeft: make(map[string]*Agent),
		couples:    make(map[string]*Couple),
		right:      make(map[string]*Agent),
	}
}

// AddAgentLeft inserts a single left agent.
// Returns ErrDuplicateIdent when the identifier is already a single or a
// couple member on the left.
func (in *Instance) AddAgentLeft(a *Agent) error {
	if a == nil {
		return ErrNilAgent
	}
	if a.ident == "" {
		return ErrEmptyIdent
	}
	if err := in.leftIdentFree(a.ident); err != nil {
		return err
	}
	in.singleLeft[a.ident] = a

	return nil
}

// AddCoupleLeft inserts a couple. Both member identifiers and the composite
// identifier must be free on the left.
func (in *Instance) AddCoupleLeft(c *Couple) error {
	if c == nil {
		return ErrNilCouple
	}
	if _, dup := in.couples[c.Ident()]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateIdent, c.Ident())
	}
	if err := in.leftIdentFree(c.first.ident); err != nil {
		return err
	}
	if err := in.leftIdentFree(c.second.ident); err != nil {
		return err
	}
	in.couples[c.Ident()] = c

	return nil
}

// AddAgentRight inserts a right agent.
func (in *Instance) AddAgentRight(a *Agent) error {
	if a == nil {
		return ErrNilAgent
	}
	if a.ident == "" {
		return ErrEmptyIdent
	}
	if _, dup := in.right[a.ident]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateIdent, a.ident)
	}
	in.right[a.ident] = a

	return nil
}

// leftIdentFree reports whether ident collides with a single or any couple
// member on the left.
func (in *Instance) leftIdentFree(ident string) error {
	if _, dup := in.singleLeft[ident]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateIdent, ident)
	}
	for _, c := range in.couples {
		if c.first.ident == ident || c.second.ident == ident {
			return fmt.Errorf("%w: %q is a member of %s", ErrDuplicateIdent, ident, c.Ident())
		}
	}

	return nil
}

// SingleAgentLeft returns the single left agent with the given identifier,
// or ErrAgentNotFound.
func (in *Instance) SingleAgentLeft(ident string) (*Agent, error) {
	a, ok := in.singleLeft[ident]
	if !ok {
		return nil, fmt.Errorf("%w: left %q", ErrAgentNotFound, ident)
	}

	return a, nil
}

// SingleAgentRight returns the right agent with the given identifier, or
// ErrAgentNotFound.
func (in *Instance) SingleAgentRight(ident string) (*Agent, error) {
	a, ok := in.right[ident]
	if !ok {
		return nil, fmt.Errorf("%w: right %q", ErrAgentNotFound, ident)
	}

	return a, nil
}

// AgentLeft returns the left entity with the given identifier: a single
// first, then a couple by its composite identifier.
func (in *Instance) AgentLeft(ident string) (LeftAgent, error) {
	if a, ok := in.singleLeft[ident]; ok {
		return a, nil
	}
	if c, ok := in.couples[ident]; ok {
		return c, nil
	}

	return nil, fmt.Errorf("%w: left %q", ErrAgentNotFound, ident)
}

// CoupleFromAgent returns the couple owning the given member identifier.
// The second result is false when the identifier belongs to no couple.
func (in *Instance) CoupleFromAgent(ident string) (*Couple, bool) {
	for _, c := range in.couples {
		if c.first.ident == ident || c.second.ident == ident {
			return c, true
		}
	}

	return nil, false
}

// HasLeft reports whether ident is a single left agent or a couple member.
func (in *Instance) HasLeft(ident string) bool {
	if _, ok := in.singleLeft[ident]; ok {
		return true
	}
	_, ok := in.CoupleFromAgent(ident)

	return ok
}

// HasRight reports whether ident is a right agent.
func (in *Instance) HasRight(ident string) bool {
	_, ok := in.right[ident]

	return ok
}

// LeftAgents returns every left entity: singles first, then couples, each
// section sorted by identifier. Fresh slice on each call.
func (in *Instance) LeftAgents() []LeftAgent {
	out := make([]LeftAgent, 0, len(in.singleLeft)+len(in.couples))
	for _, id := range sortedKeys(in.singleLeft) {
		out = append(out, in.singleLeft[id])
	}
	for _, id := range sortedKeys(in.couples) {
		out = append(out, in.couples[id])
	}

	return out
}

// Couples returns every couple sorted by composite identifier.
func (in *Instance) Couples() []*Couple {
	out := make([]*Couple, 0, len(in.couples))
	for _, id := range sortedKeys(in.couples) {
		out = append(out, in.couples[id])
	}

	return out
}

// RightAgents returns every right agent sorted by identifier.
func (in *Instance) RightAgents() []*Agent {
	out := make([]*Agent, 0, len(in.right))
	for _, id := range sortedKeys(in.right) {
		out = append(out, in.right[id])
	}

	return out
}

// SingleLeftCount returns the number of single left agents.
func (in *Instance) SingleLeftCount() int { return len(in.singleLeft) }

// CoupleCount returns the number of couples.
func (in *Instance) CoupleCount() int { return len(in.couples) }

// RightCount returns the number of right agents.
func (in *Instance) RightCount() int { return len(in.right) }

// IsSMTI reports whether the instance is a plain stable-marriage one: no
// couples and unit capacity on every agent.
func (in *Instance) IsSMTI() bool {
	if len(in.couples) > 0 {
		return false
	}
	for _, a := range in.singleLeft {
		if a.capacity != 1 {
			return false
		}
	}
	for _, a := range in.right {
		if a.capacity != 1 {
			return false
		}
	}

	return true
}

// MakeCoupleOnLeft converts two single left agents into a couple whose
// joint list is interleaved from their individual lists (CoupleFromAgents
// rules apply). The two singles are removed and the couple inserted.
func (in *Instance) MakeCoupleOnLeft(firstIdent, secondIdent string) (*Couple, error) {
	first, err := in.SingleAgentLeft(firstIdent)
	if err != nil {
		return nil, err
	}
	second, err := in.SingleAgentLeft(secondIdent)
	if err != nil {
		return nil, err
	}
	c, err := CoupleFromAgents(first, second)
	if err != nil {
		return nil, err
	}
	delete(in.singleLeft, firstIdent)
	delete(in.singleLeft, secondIdent)
	in.couples[c.Ident()] = c

	return c, nil
}

// Preprocess removes every one-sided preference entry on both sides: a left
// entry naming a right agent that does not rank it back, a right entry
// naming a left agent that does not want it, and joint couple entries whose
// components are not reciprocated for the respective member. Passes repeat
// until no removal occurs. Agents emptied of preferences stay in the
// instance. Returns the total number of entries removed.
func (in *Instance) Preprocess() int {
	total := 0
	for {
		removed := in.preprocessPass()
		total += removed
		if removed == 0 {
			return total
		}
	}
}

// preprocessPass runs one mutual-acceptability sweep over all four entry
// kinds and reports how many entries it removed.
func (in *Instance) preprocessPass() int {
	removed := 0
	for _, a := range in.singleLeft {
		removed += filterGroups(&a.prefs, func(rightID string) bool {
			r, ok := in.right[rightID]

			return ok && r.IsAcceptable(a.ident)
		})
	}
	for _, c := range in.couples {
		removed += filterGroups(&c.prefs, func(p PreferencePair) bool {
			r1, ok1 := in.right[p.First]
			r2, ok2 := in.right[p.Second]

			return ok1 && ok2 && r1.IsAcceptable(c.first.ident) && r2.IsAcceptable(c.second.ident)
		})
	}
	for _, r := range in.right {
		removed += filterGroups(&r.prefs, func(leftID string) bool {
			if a, ok := in.singleLeft[leftID]; ok {
				return a.IsAcceptable(r.ident)
			}
			c, ok := in.CoupleFromAgent(leftID)
			if !ok {
				return false
			}

			return in.coupleWantsFor(c, leftID, r.ident)
		})
	}

	return removed
}

// coupleWantsFor reports whether the couple's joint list places member
// memberID at right agent rightID in any entry.
func (in *Instance) coupleWantsFor(c *Couple, memberID, rightID string) bool {
	for _, grp := range c.prefs {
		for _, p := range grp {
			if c.first.ident == memberID && p.First == rightID {
				return true
			}
			if c.second.ident == memberID && p.Second == rightID {
				return true
			}
		}
	}

	return false
}

// Threshold applies Agent.Threshold(min) to every agent on both sides that
// carries weights, removes agents emptied of preferences from the instance,
// and returns the total number of entries dropped. Agents without recorded
// weights are untouched.
func (in *Instance) Threshold(min float64) int {
	dropped := 0
	for id, a := range in.singleLeft {
		if !a.HasWeights() {
			continue
		}
		dropped += a.Threshold(min)
		if a.NumPreferences() == 0 {
			delete(in.singleLeft, id)
		}
	}
	for id, a := range in.right {
		if !a.HasWeights() {
			continue
		}
		dropped += a.Threshold(min)
		if a.NumPreferences() == 0 {
			delete(in.right, id)
		}
	}

	return dropped
}

// filterGroups keeps only entries for which keep holds, drops groups that
// end up empty, and reports the number of entries removed.
func filterGroups[G ~[]E, E comparable](groups *[]G, keep func(E) bool) int {
	removed := 0
	out := (*groups)[:0]
	for _, grp := range *groups {
		kept := grp[:0]
		for _, e := range grp {
			if keep(e) {
				kept = append(kept, e)
			} else {
				removed++
			}
		}
		if len(kept) > 0 {
			out = append(out, kept)
		}
	}
	*groups = out

	return removed
}

// sortedKeys returns the map's keys in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
