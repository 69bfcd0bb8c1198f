package core

import (
	"context"
	"sync"
)

// Dispatcher is the single scene-mutation context. Work produced on other
// goroutines (asset decoding, file watchers) is handed over with Post and
// executed on the main thread by RunPending or Wait. The frame clock lives
// here as well so that posted tasks and frame callbacks share one thread.
//
// Post is safe for concurrent use. Every other method must be called from
// the main thread.
type Dispatcher struct {
	mu     sync.Mutex
	tasks  []func()
	signal chan struct{}
	frames []*frameRequest
}

type frameRequest struct {
	fn       func()
	canceled bool
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{signal: make(chan struct{}, 1)}
}

// Post queues fn for execution on the main thread.
func (d *Dispatcher) Post(fn func()) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	d.tasks = append(d.tasks, fn)
	d.mu.Unlock()

	select {
	case d.signal <- struct{}{}:
	default:
	}
}

// RunPending runs every task posted so far and returns how many ran.
// Tasks posted while draining are left for the next call.
func (d *Dispatcher) RunPending() int {
	d.mu.Lock()
	tasks := d.tasks
	d.tasks = nil
	d.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}

// Wait blocks until at least one task has been posted, then runs all
// pending tasks. It returns ctx.Err() if the context ends first.
func (d *Dispatcher) Wait(ctx context.Context) error {
	for {
		if d.RunPending() > 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.signal:
		}
	}
}

// RequestFrame schedules fn for the next RunFrame call, like a display
// refresh callback. The returned function cancels the request if it has
// not run yet.
func (d *Dispatcher) RequestFrame(fn func()) (cancel func()) {
	req := &frameRequest{fn: fn}
	d.frames = append(d.frames, req)
	return func() { req.canceled = true }
}

// RunFrame runs the frame callbacks requested before this call, in request
// order. Callbacks requested from inside a frame wait for the next RunFrame.
func (d *Dispatcher) RunFrame() int {
	reqs := d.frames
	d.frames = nil

	ran := 0
	for _, req := range reqs {
		if req.canceled {
			continue
		}
		req.fn()
		ran++
	}
	return ran
}

// PendingFrames reports how many uncanceled frame callbacks are queued.
func (d *Dispatcher) PendingFrames() int {
	n := 0
	for _, req := range d.frames {
		if !req.canceled {
			n++
		}
	}
	return n
}
