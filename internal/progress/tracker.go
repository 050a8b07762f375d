package progress

import (
	"fmt"

	"tubesnap/internal/sanitize"
)

// Stage identifies the phase reported by one download stage event
type Stage int

const (
	StageDownloading Stage = iota
	StageFinished
)

// Event is one progress callback from the external download call.
// Percent, Speed and ETA are raw strings and may carry terminal escapes.
type Event struct {
	Stage   Stage
	Percent string
	Speed   string
	ETA     string
}

// Tracker is a two-state step counter driving a human-readable status label.
// A download plan that fetches and merges separate video and audio streams
// has two steps, everything else has one. The step index only ever advances
// on a finished event and never passes totalSteps+1.
type Tracker struct {
	step       int
	totalSteps int
	publish    func(string)
}

// NewTracker creates a tracker for one download invocation
func NewTracker(totalSteps int, publish func(string)) *Tracker {
	if totalSteps < 1 {
		totalSteps = 1
	}
	if publish == nil {
		publish = func(string) {}
	}
	return &Tracker{
		step:       1,
		totalSteps: totalSteps,
		publish:    publish,
	}
}

// Step returns the current step index
func (t *Tracker) Step() int {
	return t.step
}

// TotalSteps returns the planned number of fetch steps
func (t *Tracker) TotalSteps() int {
	return t.totalSteps
}

// Handle processes one stage event and publishes the resulting status label
func (t *Tracker) Handle(ev Event) {
	switch ev.Stage {
	case StageDownloading:
		percent := sanitize.Display(ev.Percent)
		speed := sanitize.Display(ev.Speed)
		eta := sanitize.Display(ev.ETA)
		if percent == "" {
			percent = "0.0%"
		}
		if speed == "" {
			speed = "N/A"
		}
		if eta == "" {
			eta = "N/A"
		}
		t.publish(fmt.Sprintf("Step %d/%d: Downloading... %s (%s - ETA: %s)",
			t.step, t.totalSteps, percent, speed, eta))
	case StageFinished:
		if t.step <= t.totalSteps {
			t.step++
		}
		t.publish(fmt.Sprintf("Step %d/%d: Download finished. Starting conversion...",
			t.step-1, t.totalSteps))
	}
}
