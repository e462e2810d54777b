package poller

import (
	"context"
	"time"
)

// Default polling discipline for conversion clients.
const (
	DefaultInterval       = 3 * time.Second
	DefaultMaxAttempts    = 100
	DefaultMaxConsecutive = 5
)

// Outcome classifies how a polling run ended. Timeout and ConnectionLost
// are client-side verdicts, independent of server state.
type Outcome int

const (
	// OutcomeDone: the job reached its success state.
	OutcomeDone Outcome = iota
	// OutcomeFailed: the job reached its failure state.
	OutcomeFailed
	// OutcomeTimeout: the attempt cap ran out with the job non-terminal.
	OutcomeTimeout
	// OutcomeConnectionLost: too many consecutive fetch errors.
	OutcomeConnectionLost
)

// Status is what one poll observes.
type Status struct {
	Done     bool
	Failed   bool
	Progress int
}

// Fetch reads the current job state once.
type Fetch func(ctx context.Context) (Status, error)

// Poller polls a job until it is terminal or a client-side cap trips.
// Attempt and consecutive-error caps are distinct: a run of transport
// errors aborts with OutcomeConnectionLost well before the attempt cap.
type Poller struct {
	Interval       time.Duration
	MaxAttempts    int
	MaxConsecutive int
}

func New() *Poller {
	return &Poller{
		Interval:       DefaultInterval,
		MaxAttempts:    DefaultMaxAttempts,
		MaxConsecutive: DefaultMaxConsecutive,
	}
}

// Wait polls fetch on the configured interval and returns the final
// outcome together with the last successfully observed status. Each
// attempt waits one interval first, so a run that exhausts MaxAttempts
// has spent at least MaxAttempts*Interval before reporting timeout.
func (p *Poller) Wait(ctx context.Context, fetch Fetch) (Outcome, Status, error) {
	var last Status
	var lastErr error
	consecutiveErrs := 0

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return OutcomeConnectionLost, last, ctx.Err()
		case <-time.After(p.Interval):
		}

		status, err := fetch(ctx)
		if err != nil {
			consecutiveErrs++
			lastErr = err
			if consecutiveErrs >= p.MaxConsecutive {
				return OutcomeConnectionLost, last, lastErr
			}
			continue
		}
		consecutiveErrs = 0
		last = status

		if status.Failed {
			return OutcomeFailed, status, nil
		}
		if status.Done {
			return OutcomeDone, status, nil
		}
	}
	return OutcomeTimeout, last, nil
}
