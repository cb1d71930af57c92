package domain

import "time"

// LoadState is the lifecycle of the one-shot catalog load
type LoadState string

const (
	LoadPending LoadState = "pending"
	LoadLoaded  LoadState = "loaded"
	LoadFailed  LoadState = "failed"
)

// LoadStatus describes the outcome of the catalog load
type LoadStatus struct {
	State      LoadState
	Source     string
	Products   int
	Categories int
	Err        error
	FinishedAt time.Time
}
