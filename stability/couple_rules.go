package stability

import (
	"log/slog"

	"github.com/stablekit/hrtc/core"
)

// coupleBlocks decides whether couple c and the joint choice pair block the
// matching under s.mode.
//
// Steps:
//  1. The couple must strictly prefer pair to its current joint assignment.
//     A couple with an unplaced member always wants to complete, so only a
//     fully placed couple can be screened out here.
//  2. Both named right agents must exist and rank their respective member;
//     a hospital that does not rank a member back can never block with it.
//  3. Split on the shape of the pair:
//     two distinct hospitals: each must independently admit its member;
//     one hospital: the pair blocks iff any of the two-seat admission
//     rules fires. Which rules apply, and how strictly, depends on s.mode.
func (s *scanner) coupleBlocks(c *core.Couple, pair core.PreferencePair) (bool, error) {
	wants, err := c.PrefersPairToMatched(s.m, pair)
	if err != nil {
		return false, err
	}
	if !wants {
		return false, nil
	}

	first, second := c.First().Ident(), c.Second().Ident()
	h1, err := s.inst.SingleAgentRight(pair.First)
	if err != nil {
		return false, err
	}
	h2, err := s.inst.SingleAgentRight(pair.Second)
	if err != nil {
		return false, err
	}
	if !h1.IsAcceptable(first) || !h2.IsAcceptable(second) {
		return false, nil
	}

	if !pair.SameTarget() {
		ok, err := s.admitsMember(h1, first)
		if err != nil || !ok {
			return false, err
		}

		return s.admitsMember(h2, second)
	}

	return s.admitsCouple(h1, c)
}

// admitsMember reports whether hospital h would take the named couple
// member on its own: a free seat, already holding the member, or ranking
// the member above something currently held.
func (s *scanner) admitsMember(h *core.Agent, member string) (bool, error) {
	avail, err := s.m.CapacityAvailable(h.Ident())
	if err != nil {
		return false, err
	}
	if avail > 0 {
		return true, nil
	}
	held, err := s.m.MatchedTo(h.Ident())
	if err != nil {
		return false, err
	}
	if holds(held, member) {
		return true, nil
	}

	return h.PrefersToMatched(s.m, member, "")
}

// admitsCouple reports whether hospital h would seat both members of c at
// once: the union of the seat-claim rules below, evaluated in order from
// cheapest to most involved. Each rule is a separate predicate so the case
// analysis stays auditable rule by rule.
func (s *scanner) admitsCouple(h *core.Agent, c *core.Couple) (bool, error) {
	avail, err := s.m.CapacityAvailable(h.Ident())
	if err != nil {
		return false, err
	}
	held, err := s.m.MatchedTo(h.Ident())
	if err != nil {
		return false, err
	}

	rules := []struct {
		name string
		eval func() (bool, error)
	}{
		{"two free seats", func() (bool, error) { return avail >= 2, nil }},
		{"completes couple", func() (bool, error) { return s.completesCouple(c, avail, held), nil }},
		{"admits one more", func() (bool, error) { return s.admitsOneMore(h, c, avail, held) }},
		{"swaps around member", func() (bool, error) { return s.swapsAroundMember(h, c, held) }},
		{"displaces for couple", func() (bool, error) { return s.displacesForCouple(h, c, held) }},
		{"displaces resident couple", func() (bool, error) { return s.displacesResidentCouple(h, c, held) }},
	}
	for _, rule := range rules {
		ok, err := rule.eval()
		if err != nil {
			return false, err
		}
		if ok {
			s.log.Debug("admission rule fired",
				slog.String("hospital", h.Ident()),
				slog.String("couple", c.Ident()),
				slog.String("rule", rule.name))

			return true, nil
		}
	}

	return false, nil
}

// completesCouple: one free seat and the other member already seated, so
// the couple needs just the remaining seat.
func (s *scanner) completesCouple(c *core.Couple, avail int, held []string) bool {
	return avail == 1 && (holds(held, c.First().Ident()) || holds(held, c.Second().Ident()))
}

// admitsOneMore: one free seat, and the second seat is claimed on ranking
// grounds. Under MM it suffices that either member outranks something
// currently held; under BIS and KPR both members must.
func (s *scanner) admitsOneMore(h *core.Agent, c *core.Couple, avail int, held []string) (bool, error) {
	if avail != 1 || len(held) == 0 {
		return false, nil
	}
	firstIn, err := h.PrefersToMatched(s.m, c.First().Ident(), "")
	if err != nil {
		return false, err
	}
	secondIn, err := h.PrefersToMatched(s.m, c.Second().Ident(), "")
	if err != nil {
		return false, err
	}
	if s.mode == MM {
		return firstIn || secondIn, nil
	}

	return firstIn && secondIn, nil
}

// swapsAroundMember: the couple claims both seats by pivoting on a member
// the hospital already relates to. Under MM, one member's seat is taken as
// settled (their sole assignment is h itself) and the hospital only has to
// rank the other member above something held besides the settled one. Under
// BIS and KPR, the hospital must currently hold a member and rank the
// couple, as a unit, above at least one current assignment.
func (s *scanner) swapsAroundMember(h *core.Agent, c *core.Couple, held []string) (bool, error) {
	first, second := c.First().Ident(), c.Second().Ident()
	if s.mode == MM {
		ok, err := s.swapsAnchored(h, first, second)
		if err != nil || ok {
			return ok, err
		}

		return s.swapsAnchored(h, second, first)
	}
	if !holds(held, first) && !holds(held, second) {
		return false, nil
	}

	return h.PrefersCoupleToMatched(s.m, c, core.CoupleBeatsOne, false)
}

// swapsAnchored is one direction of the MM swap: anchor's sole assignment
// must be h itself, and h must rank mover above something held other than
// the anchor.
func (s *scanner) swapsAnchored(h *core.Agent, mover, anchor string) (bool, error) {
	anchored, err := s.soleAssignment(anchor, h.Ident())
	if err != nil || !anchored {
		return false, err
	}

	return h.PrefersToMatched(s.m, mover, anchor)
}

// displacesForCouple: the couple claims both seats purely by outranking
// current assignments. Under MM a single beaten assignment suffices; under
// BIS and KPR two distinct assignments must be beaten, each by a different
// member.
func (s *scanner) displacesForCouple(h *core.Agent, c *core.Couple, held []string) (bool, error) {
	if len(held) == 0 {
		return false, nil
	}
	if s.mode == MM {
		return h.PrefersCoupleToMatched(s.m, c, core.CoupleBeatsOne, false)
	}

	return h.PrefersCoupleToMatched(s.m, c, core.CoupleBeatsPair, false)
}

// displacesResidentCouple: BIS only. Some other couple has both members
// seated at h, and h ranks a member of c above a member of that seated
// couple. Evicting one half evicts the pair, which is why a single won
// comparison is enough here.
func (s *scanner) displacesResidentCouple(h *core.Agent, c *core.Couple, held []string) (bool, error) {
	if s.mode != BIS {
		return false, nil
	}
	first, second := c.First().Ident(), c.Second().Ident()
	seen := make(map[string]struct{}, 1)
	for _, cur := range held {
		other, ok := s.inst.CoupleFromAgent(cur)
		if !ok || other == c {
			continue
		}
		if _, done := seen[other.Ident()]; done {
			continue
		}
		seen[other.Ident()] = struct{}{}
		if !holds(held, other.First().Ident()) || !holds(held, other.Second().Ident()) {
			continue
		}
		for _, target := range []string{other.First().Ident(), other.Second().Ident()} {
			for _, member := range []string{first, second} {
				won, err := h.Prefers(member, target, false)
				if err != nil {
					return false, err
				}
				if won {
					return true, nil
				}
			}
		}
	}

	return false, nil
}

// soleAssignment reports whether ident's entire assignment list is exactly
// the single entry target.
func (s *scanner) soleAssignment(ident, target string) (bool, error) {
	matched, err := s.m.MatchedTo(ident)
	if err != nil {
		return false, err
	}

	return len(matched) == 1 && matched[0] == target, nil
}

// holds reports whether list contains want.
func holds(list []string, want string) bool {
	for _, cur := range list {
		if cur == want {
			return true
		}
	}

	return false
}
