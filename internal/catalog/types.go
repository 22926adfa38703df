// Package catalog defines core types shared across subsystems.
package catalog

import "time"

// Book is the record extracted from one detail page. Title is the
// deduplication key in storage; a second book with the same title is
// silently skipped on insert.
type Book struct {
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	Rating       int     `json:"rating"`
	Availability string  `json:"availability"`
	Category     string  `json:"category"`
	ImageURL     string  `json:"image_url"`
}

// ListingPage is the parsed form of one catalog listing page. It is
// transient; only the Books extracted from its item links are persisted.
type ListingPage struct {
	URL         string
	ItemURLs    []string
	NextPageURL string
}

// RunState represents the lifecycle state of a crawl run.
type RunState string

// Run states reported by the coordinator.
const (
	RunStateIdle      RunState = "idle"
	RunStateRunning   RunState = "running"
	RunStateCompleted RunState = "completed"
	RunStateAborted   RunState = "aborted"
)

// Terminal reports whether the state is one a run never leaves.
func (s RunState) Terminal() bool {
	return s == RunStateCompleted || s == RunStateAborted
}

// CrawlRun is the snapshot of one crawl execution, from trigger to
// terminal state.
type CrawlRun struct {
	ID             string     `json:"run_id,omitempty"`
	State          RunState   `json:"state"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	ItemsCollected int        `json:"items_collected"`
	FailureReason  string     `json:"failure_reason,omitempty"`
}
