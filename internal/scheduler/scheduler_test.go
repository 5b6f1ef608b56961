package scheduler

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	runs int
	err  error
}

func (j *stubJob) Run() error   { j.runs++; return j.err }
func (j *stubJob) Name() string { return "stub" }

func TestAddJob(t *testing.T) {
	s := New(zerolog.Nop())

	err := s.AddJob("0 30 6 * * *", &stubJob{})
	assert.NoError(t, err)
}

func TestAddJob_InvalidSchedule(t *testing.T) {
	s := New(zerolog.Nop())

	err := s.AddJob("not a schedule", &stubJob{})
	assert.Error(t, err)
}

func TestRunNow(t *testing.T) {
	s := New(zerolog.Nop())

	job := &stubJob{}
	require.NoError(t, s.RunNow(job))
	assert.Equal(t, 1, job.runs)
}

func TestRunNow_PropagatesError(t *testing.T) {
	s := New(zerolog.Nop())

	job := &stubJob{err: fmt.Errorf("boom")}
	assert.Error(t, s.RunNow(job))
}

func TestStartStop(t *testing.T) {
	s := New(zerolog.Nop())
	require.NoError(t, s.AddJob("@every 1h", &stubJob{}))

	s.Start()
	s.Stop()
}
