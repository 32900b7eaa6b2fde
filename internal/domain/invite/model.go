package invite

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusReserved Status = "reserved"
)

// Code is a single-use invitation code. It transitions active→reserved exactly
// once; the transition is the only write the ledger ever performs on it.
type Code struct {
	Code       string
	Status     Status
	CreatedAt  time.Time
	ReservedAt *time.Time
}

// ReserveOutcome reports what an atomic reserve attempt found.
type ReserveOutcome int

const (
	ReserveOK ReserveOutcome = iota
	ReserveNotFound
	ReserveAlreadyUsed
)
