package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHashHex(t *testing.T) {
	data := []byte("hello world")
	assert.Equal(t, ContentHashHex(data), ContentHashHex(data))
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", ContentHashHex(data))
}

func TestNewJob(t *testing.T) {
	a := NewJob("S5_PF_ZG.yaml", "", true)
	b := NewJob("S5_PF_ZG.yaml", "", true)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, StatusQueued, a.Status)
	assert.Equal(t, "queued", a.Phase)
	assert.True(t, a.Stitch)
	assert.Equal(t, "S5_PF_ZG.yaml", a.File)
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("S5_PF_ZG.yaml", "", true)

	steps := []struct {
		status JobStatus
		phase  string
	}{
		{StatusResolving, "resolving"},
		{StatusStitching, "stitching"},
		{StatusReporting, "reporting"},
		{StatusRendering, "rendering"},
		{StatusCompleted, "done"},
	}
	for _, step := range steps {
		before := job.UpdatedAt
		time.Sleep(time.Millisecond)
		job.SetStatus(step.status, step.phase)

		snap := job.Snapshot()
		assert.Equal(t, step.status, snap.Status)
		assert.Equal(t, step.phase, snap.Phase)
		assert.True(t, snap.UpdatedAt.After(before), "UpdatedAt after %s", step.status)
	}
}

func TestJobStatus_Done(t *testing.T) {
	for _, s := range []JobStatus{StatusCompleted, StatusFailed, StatusPartial} {
		assert.True(t, s.Done(), s)
	}
	for _, s := range []JobStatus{StatusQueued, StatusResolving, StatusStitching, StatusReporting, StatusRendering} {
		assert.False(t, s.Done(), s)
	}
}

func TestJob_Progress(t *testing.T) {
	job := NewJob("S5_PF_ZG.yaml", "", true)
	assert.NotNil(t, job.Snapshot().Progress.Errors)
	assert.Empty(t, job.Snapshot().Progress.Errors)

	job.SetImports(4, 3)
	job.SetRows(42, 1)
	job.AddError("import 3 failed")
	job.AddError("import 7 failed")

	p := job.Snapshot().Progress
	assert.Equal(t, Progress{
		Imports:    4,
		Stitched:   3,
		Unresolved: 1,
		Rows:       42,
		Errors:     []string{"import 3 failed", "import 7 failed"},
	}, p)
}

func TestJob_Result(t *testing.T) {
	job := NewJob("S5_PF_ZG.yaml", "", false)
	assert.Nil(t, job.Result())

	data := []byte("PK docx bytes")
	job.SetResult(data)
	assert.Equal(t, data, job.Result())
	assert.Equal(t, ContentHashHex(data), job.Snapshot().ContentHash)
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	assert.Nil(t, store.Get("S5"))

	job := NewJob("S5_PF_ZG.yaml", "S5", false)
	store.Put(job)
	store.Put(NewJob("S2_ZUE_PF.yaml", "S2", false))

	assert.Equal(t, 2, store.Len())
	got := store.Get(job.ID)
	require.NotNil(t, got)
	assert.Equal(t, "S5", got.Title)
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	stale := NewJob("a.yaml", "", false)
	stale.UpdatedAt = time.Now().Add(-time.Minute)
	store.Put(stale)
	fresh := NewJob("b.yaml", "", false)
	store.Put(fresh)

	store.Cleanup()

	assert.Nil(t, store.Get(stale.ID))
	assert.NotNil(t, store.Get(fresh.ID))
}
