package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRunsPostedTasksInOrder(t *testing.T) {
	d := NewDispatcher()
	var got []int
	d.Post(func() { got = append(got, 1) })
	d.Post(func() { got = append(got, 2) })

	assert.Equal(t, 2, d.RunPending())
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 0, d.RunPending())
}

func TestDispatcherWaitForBackgroundPost(t *testing.T) {
	d := NewDispatcher()
	done := false
	go d.Post(func() { done = true })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))
	assert.True(t, done)
}

func TestDispatcherWaitHonoursContext(t *testing.T) {
	d := NewDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, d.Wait(ctx), context.Canceled)
}

func TestFrameRequestedInsideFrameRunsNextTime(t *testing.T) {
	d := NewDispatcher()
	count := 0
	var tick func()
	tick = func() {
		count++
		d.RequestFrame(tick)
	}
	d.RequestFrame(tick)

	assert.Equal(t, 1, d.RunFrame())
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, d.PendingFrames())
	assert.Equal(t, 1, d.RunFrame())
	assert.Equal(t, 2, count)
}

func TestCanceledFrameNeverRuns(t *testing.T) {
	d := NewDispatcher()
	ran := false
	cancel := d.RequestFrame(func() { ran = true })
	cancel()

	assert.Equal(t, 0, d.PendingFrames())
	assert.Equal(t, 0, d.RunFrame())
	assert.False(t, ran)
}
