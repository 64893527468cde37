// Package core models two-sided matching markets with ties, capacities,
// and couples: the data layer shared by every stability routine in hrtc.
//
// The market is bipartite. Left agents (residents, students, applicants)
// rank right agents (hospitals, schools, posts) and vice versa; a couple
// is a bound pair of left agents ranking pairs of right agents jointly.
//
//   - Preference lists are ordered tie groups: [][]string for agents,
//     [][]PreferencePair for couples. Agents inside one group are equally
//     preferred; earlier groups are strictly better.
//   - Ranks are 1-based group indices. Rank 1 is the most preferred group;
//     an unranked agent has no rank and lookups fail loudly.
//   - Capacities default to 1 and are set via WithCapacity.
//   - Weighted instances attach scores to acceptable partners; the tie-group
//     list is rebuilt from scores (descending, ties grouped) on each change
//     until an explicit list is installed over it.
//
// Construction:
//
//	NewAgent(id string, opts ...AgentOption) (*Agent, error)
//	NewCouple(first, second *Agent) (*Couple, error)
//	CoupleFromAgents(first, second *Agent) (*Couple, error) // interleaved joint list
//	NewInstance() *Instance
//	NewMatching(inst *Instance, pairs []Assignment) (*Matching, error)
//
// Agent queries:
//
//	RankOf(other string) (int, error)            // 1-based tie-group index
//	Prefers(one, two string, allowEqual bool)    // rank comparison
//	IsAcceptable(other string) bool
//	AcceptableAgents() []string                  // list order, flattened
//	AsGoodAs(pivot string) []string              // everyone ranked <= pivot
//	TrimAfterWorst(target string) int            // drop groups after target's
//	PrefersToMatched(m, candidate, ignore)       // would leave m for candidate
//	PrefersCoupleToMatched(m, c, cmp, allowEqual)
//
// Couple queries mirror the single-agent ones over PreferencePair values:
// RankOfPair, PrefersPair, IsAcceptablePair, AcceptablePairs, and
// PrefersPairToMatched against a Matching.
//
// Instance holds the three agent maps (single lefts, couples, rights) and
// the whole-market operations:
//
//	MakeCoupleOnLeft(first, second string) error // fuse two singles
//	Preprocess() int                             // drop non-mutual entries, to fixpoint
//	Threshold(min float64) int                   // drop weighted entries below min
//	IsSMTI() bool                                // no couples, all capacities 1
//
// Matching is an immutable pair list with both directional indices derived
// from it; MatchedTo, CapacityAvailable, and MatchedPair answer the queries
// the stability rules need. Capacities are deliberately not enforced at
// construction, only membership and duplicate pairs are.
//
// # Errors
//
//	ErrEmptyIdent          - empty agent identifier
//	ErrBadCapacity         - capacity < 1
//	ErrNilAgent            - nil *Agent where one is required
//	ErrNilCouple           - nil *Couple where one is required
//	ErrNilInstance         - nil *Instance where one is required
//	ErrDuplicateIdent      - identifier already present
//	ErrDuplicatePreference - same entry twice in one preference list
//	ErrEmptyTieGroup       - empty group or empty entry in a list
//	ErrAgentNotFound       - identifier unknown to the instance or matching
//	ErrNotRanked           - rank lookup for an unranked identifier
//	ErrNoWeight            - weight lookup without a stored score
//	ErrHasTies             - tied list where a strict one is required
//	ErrUnevenLists         - couple members' lists disagree in length
//	ErrDuplicateAssignment - same left-right pair twice in a matching
//	ErrUnknownCompare      - CoupleCompare value out of range
//
// All constructors and mutators validate eagerly and return wrapped
// sentinel errors; predicates on valid data never panic.
package core
