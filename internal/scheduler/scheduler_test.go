package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsFastSchedules(t *testing.T) {
	job := func(context.Context) {}

	_, err := New("* * * * *", job)
	assert.Error(t, err)

	_, err = New("*/2 * * * *", job)
	assert.Error(t, err)

	_, err = New("not-a-schedule", job)
	assert.Error(t, err)

	_, err = New("*/5 * * * *", nil)
	assert.Error(t, err)
}

func TestNew_AcceptsValidSchedules(t *testing.T) {
	job := func(context.Context) {}

	for _, schedule := range []string{"*/5 * * * *", "0 * * * *", "30 2 * * *"} {
		_, err := New(schedule, job)
		assert.NoError(t, err, schedule)
	}
}

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	var runs atomic.Int32
	s, err := New("*/10 * * * *", func(context.Context) {
		runs.Add(1)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// first execution happens before the cron fires
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}
