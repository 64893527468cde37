package stability_test

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/lmittmann/tint"
	"github.com/stretchr/testify/require"

	"github.com/stablekit/hrtc/core"
	"github.com/stablekit/hrtc/stability"
)

// allModes lists every stability notion once, for table loops.
var allModes = []stability.Mode{stability.MM, stability.BIS, stability.KPR}

// testOptions returns check options wired to the test logger.
func testOptions() stability.Options {
	o := stability.DefaultOptions()
	o.Logger = testLogger()

	return o
}

// testLogger traces rule firings to stderr under -v, and stays silent
// otherwise.
func testLogger() *slog.Logger {
	if !testing.Verbose() {
		return nil
	}

	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.TimeOnly,
	}))
}

// groups converts string literals into tie groups.
func groups(raw [][]string) []core.TieGroup {
	out := make([]core.TieGroup, len(raw))
	for i, grp := range raw {
		out[i] = core.TieGroup(grp)
	}

	return out
}

// parsePair splits a "first,second" literal into a preference pair.
func parsePair(t *testing.T, s string) core.PreferencePair {
	t.Helper()
	first, second, ok := strings.Cut(s, ",")
	require.True(t, ok, "malformed pair literal %q", s)

	return core.PreferencePair{First: first, Second: second}
}

// jointFrom converts rows of "first,second" literals into joint tie
// groups.
func jointFrom(t *testing.T, raw [][]string) []core.PairTieGroup {
	t.Helper()
	out := make([]core.PairTieGroup, len(raw))
	for i, grp := range raw {
		row := make(core.PairTieGroup, len(grp))
		for j, s := range grp {
			row[j] = parsePair(t, s)
		}
		out[i] = row
	}

	return out
}

// mkAgent builds an agent or fails the test.
func mkAgent(t *testing.T, ident string, capacity int, prefs []core.TieGroup) *core.Agent {
	t.Helper()
	a, err := core.NewAgent(ident, core.WithCapacity(capacity))
	require.NoError(t, err)
	if prefs != nil {
		require.NoError(t, a.SetPreferences(prefs))
	}

	return a
}

// mkCouple builds a couple with a literal joint list or fails the test.
func mkCouple(t *testing.T, first, second string, joint []core.PairTieGroup) *core.Couple {
	t.Helper()
	fa, err := core.NewAgent(first)
	require.NoError(t, err)
	sa, err := core.NewAgent(second)
	require.NoError(t, err)
	c, err := core.NewCouple(fa, sa)
	require.NoError(t, err)
	if joint != nil {
		require.NoError(t, c.SetPairPreferences(joint))
	}

	return c
}

// mkMatching assembles a matching from [left, right] literal pairs.
func mkMatching(t *testing.T, inst *core.Instance, pairs [][]string) *core.Matching {
	t.Helper()
	assignments := make([]core.Assignment, len(pairs))
	for i, p := range pairs {
		require.Len(t, p, 2, "malformed assignment literal %v", p)
		assignments[i] = core.Assignment{Left: p[0], Right: p[1]}
	}
	m, err := core.NewMatching(inst, assignments)
	require.NoError(t, err)

	return m
}

// buildTableInstance assembles the canonical couples market: couple
// (A,a) with the given joint list, single B listing only h1, hospital h1
// with two seats ranked per row, and fallback N with three seats.
func buildTableInstance(t *testing.T, hospital, reserve, joint [][]string) *core.Instance {
	t.Helper()
	inst := core.NewInstance()
	require.NoError(t, inst.AddCoupleLeft(mkCouple(t, "A", "a", jointFrom(t, joint))))
	require.NoError(t, inst.AddAgentLeft(mkAgent(t, "B", 1, groups([][]string{{"h1"}}))))
	require.NoError(t, inst.AddAgentRight(mkAgent(t, "h1", 2, groups(hospital))))
	require.NoError(t, inst.AddAgentRight(mkAgent(t, "N", 3, groups(reserve))))

	return inst
}

// shuffled returns a shuffled copy of ids drawn from rng.
func shuffled(rng *rand.Rand, ids []string) []string {
	out := append([]string(nil), ids...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	return out
}

// randomMarket builds a reproducible market of the given shape together
// with a valid matching on it: every assignment is mutually acceptable,
// and a couple is either fully seated on a listed joint pair or not
// seated at all. Hospitals rank every left member, so no scan over the
// result can hit an unranked identifier.
func randomMarket(tb testing.TB, seed int64, singles, couples, rights int) *core.Matching {
	tb.Helper()
	rng := rand.New(rand.NewSource(seed))
	inst := core.NewInstance()

	rightIDs := make([]string, rights)
	free := make(map[string]int, rights)
	for i := range rightIDs {
		rightIDs[i] = fmt.Sprintf("h%02d", i)
		free[rightIDs[i]] = 1 + rng.Intn(3)
	}

	leftIDs := make([]string, 0, singles+2*couples)
	for i := 0; i < singles; i++ {
		leftIDs = append(leftIDs, fmt.Sprintf("s%02d", i))
	}
	for i := 0; i < couples; i++ {
		leftIDs = append(leftIDs, fmt.Sprintf("c%02da", i), fmt.Sprintf("c%02db", i))
	}

	strict := func(ids []string) []core.TieGroup {
		out := make([]core.TieGroup, len(ids))
		for i, id := range ids {
			out[i] = core.TieGroup{id}
		}

		return out
	}

	for _, id := range rightIDs {
		h, err := core.NewAgent(id, core.WithCapacity(free[id]))
		if err != nil {
			tb.Fatal(err)
		}
		if err := h.SetPreferences(strict(shuffled(rng, leftIDs))); err != nil {
			tb.Fatal(err)
		}
		if err := inst.AddAgentRight(h); err != nil {
			tb.Fatal(err)
		}
	}

	var pairs []core.Assignment
	listLen := func() int {
		n := 4 + rng.Intn(3)
		if n > rights {
			n = rights
		}

		return n
	}
	for i := 0; i < singles; i++ {
		a, err := core.NewAgent(fmt.Sprintf("s%02d", i))
		if err != nil {
			tb.Fatal(err)
		}
		wanted := shuffled(rng, rightIDs)[:listLen()]
		if err := a.SetPreferences(strict(wanted)); err != nil {
			tb.Fatal(err)
		}
		if err := inst.AddAgentLeft(a); err != nil {
			tb.Fatal(err)
		}
		for _, r := range wanted {
			if free[r] > 0 {
				pairs = append(pairs, core.Assignment{Left: a.Ident(), Right: r})
				free[r]--

				break
			}
		}
	}
	for i := 0; i < couples; i++ {
		n := listLen()
		fa, err := core.NewAgent(fmt.Sprintf("c%02da", i))
		if err != nil {
			tb.Fatal(err)
		}
		if err := fa.SetPreferences(strict(shuffled(rng, rightIDs)[:n])); err != nil {
			tb.Fatal(err)
		}
		sa, err := core.NewAgent(fmt.Sprintf("c%02db", i))
		if err != nil {
			tb.Fatal(err)
		}
		if err := sa.SetPreferences(strict(shuffled(rng, rightIDs)[:n])); err != nil {
			tb.Fatal(err)
		}
		c, err := core.CoupleFromAgents(fa, sa)
		if err != nil {
			tb.Fatal(err)
		}
		if err := inst.AddCoupleLeft(c); err != nil {
			tb.Fatal(err)
		}
		for _, p := range c.AcceptablePairs() {
			if p.SameTarget() {
				if free[p.First] < 2 {
					continue
				}
			} else if free[p.First] < 1 || free[p.Second] < 1 {
				continue
			}
			pairs = append(pairs,
				core.Assignment{Left: fa.Ident(), Right: p.First},
				core.Assignment{Left: sa.Ident(), Right: p.Second})
			free[p.First]--
			free[p.Second]--

			break
		}
	}

	m, err := core.NewMatching(inst, pairs)
	if err != nil {
		tb.Fatal(err)
	}

	return m
}
