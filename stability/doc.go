// Package stability decides whether a proposed matching over a two-sided
// market with couples admits a blocking pair, under any of three stability
// notions from the matching-under-couples literature.
//
// A pair blocks when both sides would rather be assigned to each other than
// keep what the matching gives them. For single agents this is the
// classical Gale-Shapley-with-ties rule. For couples the question is
// harder: a couple needs two seats at once, possibly at two hospitals,
// possibly displacing residents the hospital already holds, and the
// literature disagrees on exactly when a hospital would "trade up" for a
// couple. The three supported notions are:
//
//   - MM  (McDermid, Manlove): the most permissive blocker definition.
//     A couple already anchoring one member at a hospital can claim the
//     second seat whenever the hospital ranks the other member above any
//     non-anchor assignment.
//
//   - BIS (Biro, Irving, Schlotter): a couple claims two occupied seats
//     only by beating two distinct current assignments pairwise, and may
//     additionally displace another couple seated as a pair.
//
//   - KPR (Kojima, Pathak, Roth): BIS without the seated-couple
//     displacement clause.
//
// All three coincide on markets without couples.
//
// # API
//
// Options configures every check:
//
//	type Options struct {
//	    Ctx         context.Context // cancellation / deadlines
//	    Parallelism int             // BlockingPairs fan-out; <1 means GOMAXPROCS
//	    Logger      *slog.Logger    // Debug-level trace of fired rules; nil discards
//	}
//
// Use DefaultOptions() for production-safe defaults. The entry points share
// one shape:
//
//	func IsStable(m *core.Matching, mode Mode, opts Options) (bool, error)
//	func FirstBlockingPair(m *core.Matching, mode Mode, opts Options) (*BlockingPair, error)
//	func BlockingPairs(m *core.Matching, mode Mode, opts Options) ([]BlockingPair, error)
//
// IsStable and FirstBlockingPair scan sequentially and stop at the first
// block. BlockingPairs scans every left entity concurrently (bounded by
// Parallelism) and returns all blocks sorted by (Left, Right); the result
// set equals the sequential one because scans are read-only.
//
// # Errors
//
//	ErrNilMatching  - nil matching
//	ErrNilInstance  - matching without an instance
//	ErrUnknownMode  - Mode outside MM/BIS/KPR
//	core.ErrAgentNotFound / core.ErrNotRanked - a scanned identifier is
//	    unknown to the instance, or a rank lookup hit an unranked target;
//	    the whole check aborts, no partial verdict is returned
//	context.Canceled / context.DeadlineExceeded - Ctx ended mid-scan
//
// # Integration
//
// Relies on github.com/stablekit/hrtc/core for agents, couples, instances,
// and matchings; this package never mutates them, so one Instance may back
// any number of concurrent checks.
package stability
