package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubesnap/internal/downloader"
)

func TestJobRegistrySingleActivePerSession(t *testing.T) {
	r := newJobRegistry(0)

	first, err := r.begin("session-a")
	require.NoError(t, err)

	_, err = r.begin("session-a")
	assert.ErrorIs(t, err, ErrDownloadInProgress)

	// Other sessions are unaffected.
	_, err = r.begin("session-b")
	assert.NoError(t, err)

	first.complete(&downloader.File{Name: "x.mp3"})
	r.release(first)

	_, err = r.begin("session-a")
	assert.NoError(t, err)
}

func TestJobRegistryKeepsFinishedJobRetrievable(t *testing.T) {
	r := newJobRegistry(0)

	j, err := r.begin("session-a")
	require.NoError(t, err)

	j.complete(&downloader.File{Name: "x.mp3", Data: []byte("x")})
	r.release(j)

	got, ok := r.get(j.id)
	require.True(t, ok)
	snap := got.snapshot()
	assert.Equal(t, jobComplete, snap.State)
	assert.Equal(t, "x.mp3", snap.File.Name)
}

func TestJobRegistryDropsOlderFinishedJobs(t *testing.T) {
	r := newJobRegistry(0)

	old, err := r.begin("session-a")
	require.NoError(t, err)
	old.complete(&downloader.File{Name: "old.mp3"})
	r.release(old)

	fresh, err := r.begin("session-a")
	require.NoError(t, err)
	fresh.complete(&downloader.File{Name: "new.mp3"})
	r.release(fresh)

	_, ok := r.get(old.id)
	assert.False(t, ok)
	_, ok = r.get(fresh.id)
	assert.True(t, ok)
}

func TestJobRegistryPrunesSettledJobs(t *testing.T) {
	r := newJobRegistry(10 * time.Minute)

	base := time.Now()
	r.now = func() time.Time { return base }

	j, err := r.begin("session-a")
	require.NoError(t, err)
	j.complete(&downloader.File{Name: "big.mp4", Data: []byte("payload")})
	r.release(j)

	// Still retrievable within the TTL.
	r.now = func() time.Time { return base.Add(9 * time.Minute) }
	_, ok := r.get(j.id)
	assert.True(t, ok)

	// Gone once the TTL elapses, file bytes included.
	r.now = func() time.Time { return base.Add(11 * time.Minute) }
	_, ok = r.get(j.id)
	assert.False(t, ok)
	assert.Empty(t, r.jobs)
	assert.Empty(t, r.settled)
}

func TestJobRegistryZeroTTLNeverPrunes(t *testing.T) {
	r := newJobRegistry(0)

	base := time.Now()
	r.now = func() time.Time { return base }

	j, err := r.begin("session-a")
	require.NoError(t, err)
	j.complete(&downloader.File{Name: "x.mp3"})
	r.release(j)

	r.now = func() time.Time { return base.Add(24 * time.Hour) }
	_, ok := r.get(j.id)
	assert.True(t, ok)
}

func TestJobRegistryRunningJobsSurviveTTL(t *testing.T) {
	r := newJobRegistry(10 * time.Minute)

	base := time.Now()
	r.now = func() time.Time { return base }

	j, err := r.begin("session-a")
	require.NoError(t, err)

	// A job that never settled is not pruned, and the session stays busy.
	r.now = func() time.Time { return base.Add(11 * time.Minute) }
	_, ok := r.get(j.id)
	assert.True(t, ok)

	_, err = r.begin("session-a")
	assert.ErrorIs(t, err, ErrDownloadInProgress)
}

func TestJobStateTransitions(t *testing.T) {
	j := &job{id: "x", sessionID: "s", state: jobRunning, label: "Starting..."}

	j.setLabel("Step 1/2: Downloading... 45.0% (1.2MiB/s - ETA: 00:10)")
	snap := j.snapshot()
	assert.Equal(t, jobRunning, snap.State)
	assert.Contains(t, snap.Label, "45.0%")

	j.fail("Download Failed", "Could not retrieve the final file.")
	snap = j.snapshot()
	assert.Equal(t, jobError, snap.State)
	assert.Equal(t, "Download Failed", snap.Label)
	assert.Equal(t, "Could not retrieve the final file.", snap.ErrMsg)
}

func TestJobStateString(t *testing.T) {
	assert.Equal(t, "running", jobRunning.String())
	assert.Equal(t, "complete", jobComplete.String())
	assert.Equal(t, "error", jobError.String())
	assert.Equal(t, "unknown", jobState(99).String())
}
