package stability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"
)

// Sentinel errors for stability checks.
var (
	// ErrNilMatching is returned when a nil *core.Matching is passed.
	ErrNilMatching = errors.New("stability: matching is nil")

	// ErrNilInstance is returned when the matching carries no instance.
	ErrNilInstance = errors.New("stability: instance is nil")

	// ErrUnknownMode is returned when a Mode value is out of range.
	ErrUnknownMode = errors.New("stability: unknown stability mode")
)

// Mode selects which notion of couple stability a check enforces. The three
// modes agree on markets without couples and differ only in how a couple
// may claim a hospital's last seats; MM is the most permissive blocker
// definition (so the strictest notion of "stable"), KPR the least.
type Mode int

const (
	// MM is the stability notion of McDermid and Manlove: a couple already
	// placing one member at a hospital blocks with either member's claim.
	MM Mode = iota

	// BIS is the stability notion of Biro, Irving, and Schlotter: a couple
	// must jointly dominate the residents it would displace.
	BIS

	// KPR is the stability notion of Kojima, Pathak, and Roth: like BIS,
	// minus the resident-couple displacement clause.
	KPR
)

// String returns the conventional short name of the mode.
func (m Mode) String() string {
	switch m {
	case MM:
		return "MM"
	case BIS:
		return "BIS"
	case KPR:
		return "KPR"
	default:
		return "stability.Mode(unknown)"
	}
}

func (m Mode) valid() bool { return m == MM || m == BIS || m == KPR }

// Options configures a stability check.
type Options struct {
	// Ctx allows cancellation and deadlines; nil means context.Background().
	Ctx context.Context

	// Parallelism bounds the number of concurrent left-agent scans in
	// BlockingPairs. Values < 1 mean runtime.GOMAXPROCS(0).
	Parallelism int

	// Logger receives per-pair trace output at Debug level; nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns production-safe defaults:
//   - Ctx:         context.Background()
//   - Parallelism: 0 (one scan per CPU)
//   - Logger:      nil (no tracing)
func DefaultOptions() Options {
	return Options{
		Ctx:         context.Background(),
		Parallelism: 0,
		Logger:      nil,
	}
}

// normalize fills zero values so the scan loops never nil-check.
func (o Options) normalize() Options {
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
	if o.Parallelism < 1 {
		o.Parallelism = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return o
}

// BlockingPair names one left entity and one right agent that would both
// rather be assigned to each other than stay with the given matching. The
// left side is a single agent's identifier or a couple's composite one.
type BlockingPair struct {
	Left  string
	Right string
}

// String renders the pair as "left=right".
func (p BlockingPair) String() string { return p.Left + "=" + p.Right }
