package stability

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/stablekit/hrtc/core"
)

// scanner bundles the read-only state one stability check runs against.
// The matching and instance are never mutated during a scan, so one scanner
// may serve concurrent goroutines.
type scanner struct {
	m    *core.Matching
	inst *core.Instance
	mode Mode
	log  *slog.Logger
}

func newScanner(m *core.Matching, mode Mode, log *slog.Logger) (*scanner, error) {
	if m == nil {
		return nil, ErrNilMatching
	}
	if m.Instance() == nil {
		return nil, ErrNilInstance
	}
	if !mode.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}

	return &scanner{m: m, inst: m.Instance(), mode: mode, log: log}, nil
}

// IsStable reports whether m admits no blocking pair under the given mode.
//
// Steps:
//  1. Validate the matching and mode.
//  2. Scan every left entity (singles, then couples) against every right
//     identifier it finds acceptable, short-circuiting on the first block.
//  3. Return true iff no pair blocked.
//
// Complexity: O(L·P·C) time, where L is the number of left entities, P the
// average acceptable-list length, and C the largest assignment list touched
// by a rank comparison. O(1) extra memory.
func IsStable(m *core.Matching, mode Mode, opts Options) (bool, error) {
	pair, err := FirstBlockingPair(m, mode, opts)
	if err != nil {
		return false, err
	}

	return pair == nil, nil
}

// FirstBlockingPair returns the first blocking pair found under the given
// mode, or nil if the matching is stable. The scan is sequential and
// deterministic: singles in identifier order, then couples in identifier
// order, each walking its acceptable list in rank order.
func FirstBlockingPair(m *core.Matching, mode Mode, opts Options) (*BlockingPair, error) {
	o := opts.normalize()
	sc, err := newScanner(m, mode, o.Logger)
	if err != nil {
		return nil, err
	}
	for _, left := range sc.inst.LeftAgents() {
		if err = o.Ctx.Err(); err != nil {
			return nil, err
		}
		found, err := sc.scanLeft(o.Ctx, left, true)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			return &found[0], nil
		}
	}

	return nil, nil
}

// BlockingPairs returns every blocking pair under the given mode, sorted by
// (Left, Right). Left entities are scanned concurrently, bounded by
// opts.Parallelism; each entity's scan is independent and read-only, so the
// result is identical to a sequential full scan.
//
// Steps:
//  1. Validate the matching and mode.
//  2. Fan the left entities out over a bounded worker group.
//  3. Collect per-entity hits under a mutex, then sort for determinism.
//
// Complexity: same work as IsStable without the short-circuit, divided
// across min(Parallelism, left entities) goroutines.
func BlockingPairs(m *core.Matching, mode Mode, opts Options) ([]BlockingPair, error) {
	o := opts.normalize()
	sc, err := newScanner(m, mode, o.Logger)
	if err != nil {
		return nil, err
	}

	var (
		mu  sync.Mutex
		out []BlockingPair
	)
	g, ctx := errgroup.WithContext(o.Ctx)
	g.SetLimit(o.Parallelism)
	for _, left := range sc.inst.LeftAgents() {
		g.Go(func() error {
			found, scanErr := sc.scanLeft(ctx, left, false)
			if scanErr != nil {
				return scanErr
			}
			if len(found) > 0 {
				mu.Lock()
				out = append(out, found...)
				mu.Unlock()
			}

			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Left != out[j].Left {
			return out[i].Left < out[j].Left
		}

		return out[i].Right < out[j].Right
	})

	return out, nil
}

// scanLeft walks one left entity's acceptable list and reports the pairs
// that block. firstOnly stops at the first hit.
func (s *scanner) scanLeft(ctx context.Context, left core.LeftAgent, firstOnly bool) ([]BlockingPair, error) {
	var out []BlockingPair
	switch l := left.(type) {
	case *core.Agent:
		for _, right := range l.AcceptableAgents() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			blocks, err := s.singleBlocks(l, right)
			if err != nil {
				return nil, err
			}
			if blocks {
				s.log.Debug("blocking pair",
					slog.String("left", l.Ident()),
					slog.String("right", right),
					slog.String("mode", s.mode.String()))
				out = append(out, BlockingPair{Left: l.Ident(), Right: right})
				if firstOnly {
					return out, nil
				}
			}
		}
	case *core.Couple:
		for _, pair := range l.AcceptablePairs() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			blocks, err := s.coupleBlocks(l, pair)
			if err != nil {
				return nil, err
			}
			if blocks {
				s.log.Debug("blocking pair",
					slog.String("left", l.Ident()),
					slog.String("right", pair.Ident()),
					slog.String("mode", s.mode.String()))
				out = append(out, BlockingPair{Left: l.Ident(), Right: pair.Ident()})
				if firstOnly {
					return out, nil
				}
			}
		}
	}

	return out, nil
}

// singleBlocks applies the classical blocking rule for a single left agent
// a and a right identifier it finds acceptable: the pair blocks when they
// are not already matched, a would give something up for the right agent,
// and the right agent would give something up for a. A right side that does
// not rank a back can never block.
func (s *scanner) singleBlocks(a *core.Agent, right string) (bool, error) {
	current, err := s.m.MatchedTo(a.Ident())
	if err != nil {
		return false, err
	}
	for _, cur := range current {
		if cur == right {
			return false, nil
		}
	}
	h, err := s.inst.SingleAgentRight(right)
	if err != nil {
		return false, err
	}
	if !h.IsAcceptable(a.Ident()) {
		return false, nil
	}
	leftWants, err := a.PrefersToMatched(s.m, right, "")
	if err != nil {
		return false, err
	}
	if !leftWants {
		return false, nil
	}
	rightWants, err := h.PrefersToMatched(s.m, a.Ident(), "")
	if err != nil {
		return false, err
	}

	return rightWants, nil
}
