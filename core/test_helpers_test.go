// Package core_test contains shared fixtures for hrtc/core.
//
// Purpose:
//   - Build agents, couples, and instances from compact literals.
//   - Fail fast inside helpers so test bodies read as scenario + assertions.
package core_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stablekit/hrtc/core"
)

// strictGroups builds a preference list of singleton tie groups.
func strictGroups(ids ...string) []core.TieGroup {
	out := make([]core.TieGroup, len(ids))
	for i, id := range ids {
		out[i] = core.TieGroup{id}
	}

	return out
}

// pair parses a "first,second" composite into a PreferencePair.
func pair(s string) core.PreferencePair {
	first, second, _ := strings.Cut(s, ",")

	return core.PreferencePair{First: first, Second: second}
}

// jointGroups builds a couple's preference list from composite strings,
// one inner slice per tie group.
func jointGroups(gs ...[]string) []core.PairTieGroup {
	out := make([]core.PairTieGroup, len(gs))
	for i, g := range gs {
		out[i] = make(core.PairTieGroup, len(g))
		for j, s := range g {
			out[i][j] = pair(s)
		}
	}

	return out
}

// mkAgent builds an agent with the given capacity and preference groups.
func mkAgent(t *testing.T, ident string, capacity int, prefs []core.TieGroup) *core.Agent {
	t.Helper()
	a, err := core.NewAgent(ident, core.WithCapacity(capacity))
	require.NoError(t, err)
	if prefs != nil {
		require.NoError(t, a.SetPreferences(prefs))
	}

	return a
}

// mkCouple builds a couple with a literal joint preference list.
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

// match is shorthand for one assignment.
func match(left, right string) core.Assignment {
	return core.Assignment{Left: left, Right: right}
}
