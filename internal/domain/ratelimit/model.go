package ratelimit

import "time"

// Counter is a fixed-window attempt counter keyed by (operation, client
// identity). It carries no business meaning beyond gating.
type Counter struct {
	Key           string
	Count         int
	WindowResetAt time.Time
}

// Decision is the outcome of one atomic take against a counter.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}
