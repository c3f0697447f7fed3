package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs int32
	err  error
}

func (j *countingJob) Run() error {
	atomic.AddInt32(&j.runs, 1)
	return j.err
}

func (j *countingJob) Name() string { return "counting-job" }

func TestAddJobRejectsInvalidSchedule(t *testing.T) {
	s := New(zerolog.Nop())
	err := s.AddJob("not a schedule", &countingJob{})
	require.Error(t, err)
}

func TestScheduledJobRuns(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{}

	require.NoError(t, s.AddJob("@every 10ms", job))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&job.runs) >= 1
	}, 2*time.Second, 10*time.Millisecond, "job should run at least once")
}

func TestFailingJobDoesNotStopScheduler(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{err: errors.New("boom")}

	require.NoError(t, s.AddJob("@every 10ms", job))
	s.Start()
	defer s.Stop()

	// A second failure proves the scheduler kept going after the first.
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&job.runs) >= 2
	}, 2*time.Second, 10*time.Millisecond, "failing job should keep being scheduled")
}
