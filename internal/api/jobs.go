package api

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"tubesnap/internal/downloader"
)

var (
	ErrDownloadInProgress = errors.New("a download is already in progress for this session")
	ErrJobNotFound        = errors.New("download job not found")
)

type jobState int

const (
	jobRunning jobState = iota
	jobComplete
	jobError
)

func (s jobState) String() string {
	switch s {
	case jobRunning:
		return "running"
	case jobComplete:
		return "complete"
	case jobError:
		return "error"
	default:
		return "unknown"
	}
}

// job tracks one user-initiated download from start to retrieval
type job struct {
	id        string
	sessionID string

	mu     sync.RWMutex
	state  jobState
	label  string
	errMsg string
	file   *downloader.File
}

func (j *job) setLabel(label string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.label = label
}

func (j *job) complete(file *downloader.File) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state = jobComplete
	j.label = "Download complete!"
	j.file = file
}

func (j *job) fail(label, msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state = jobError
	j.label = label
	j.errMsg = msg
}

// jobSnapshot is a consistent copy for rendering
type jobSnapshot struct {
	State  jobState
	Label  string
	ErrMsg string
	File   *downloader.File
}

func (j *job) snapshot() jobSnapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return jobSnapshot{
		State:  j.state,
		Label:  j.label,
		ErrMsg: j.errMsg,
		File:   j.file,
	}
}

// jobRegistry enforces the single-download-at-a-time model per session and
// keeps finished jobs around so the browser can still retrieve the file.
// Settled jobs hold the full file bytes in memory, so they are pruned once
// the TTL elapses; a TTL of zero or less keeps them until the session's
// next download replaces them.
type jobRegistry struct {
	mu      sync.Mutex
	jobs    map[string]*job
	active  map[string]string
	settled map[string]time.Time
	ttl     time.Duration
	now     func() time.Time
}

func newJobRegistry(ttl time.Duration) *jobRegistry {
	return &jobRegistry{
		jobs:    make(map[string]*job),
		active:  make(map[string]string),
		settled: make(map[string]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}
}

// begin registers a new running job for the session
func (r *jobRegistry) begin(sessionID string) (*job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune()

	if _, busy := r.active[sessionID]; busy {
		return nil, ErrDownloadInProgress
	}

	j := &job{
		id:        uuid.NewString(),
		sessionID: sessionID,
		state:     jobRunning,
		label:     "Starting...",
	}
	r.jobs[j.id] = j
	r.active[sessionID] = j.id

	return j, nil
}

// release clears the session's active marker once its job settles
func (r *jobRegistry) release(j *job) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active[j.sessionID] == j.id {
		delete(r.active, j.sessionID)
	}

	// Drop any older finished job for this session; one retrievable
	// result per session is enough.
	for id, other := range r.jobs {
		if other.sessionID == j.sessionID && id != j.id {
			delete(r.jobs, id)
			delete(r.settled, id)
		}
	}

	r.settled[j.id] = r.now()
}

func (r *jobRegistry) get(id string) (*job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune()

	j, ok := r.jobs[id]
	return j, ok
}

// prune drops settled jobs whose TTL has elapsed (must be called with lock
// held)
func (r *jobRegistry) prune() {
	if r.ttl <= 0 {
		return
	}

	cutoff := r.now().Add(-r.ttl)
	for id, at := range r.settled {
		if at.Before(cutoff) {
			delete(r.jobs, id)
			delete(r.settled, id)
		}
	}
}
