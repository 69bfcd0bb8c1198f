package assets

import (
	"context"

	"realistic-render/scene"
)

type handleState int

const (
	statePending handleState = iota
	stateLoaded
	stateFailed
	stateRevoked
)

// Handle is the main-thread view of an asynchronous load. Completion is
// delivered through the store's dispatcher, so callbacks always run on the
// main thread. A revoked handle drops its completion: the result is never
// delivered and callbacks never run.
type Handle[T any] struct {
	path   string
	cancel context.CancelFunc
	state  handleState
	value  T
	err    error

	onLoad  []func(T)
	onError []func(error)
}

func newHandle[T any](path string, cancel context.CancelFunc) *Handle[T] {
	return &Handle[T]{path: path, cancel: cancel}
}

// Path is the asset path, or the first face for cubemaps.
func (h *Handle[T]) Path() string { return h.path }

// Then registers continuations. Either may be nil. If the handle has already
// settled the matching continuation runs immediately.
func (h *Handle[T]) Then(onLoad func(T), onError func(error)) *Handle[T] {
	switch h.state {
	case statePending:
		if onLoad != nil {
			h.onLoad = append(h.onLoad, onLoad)
		}
		if onError != nil {
			h.onError = append(h.onError, onError)
		}
	case stateLoaded:
		if onLoad != nil {
			onLoad(h.value)
		}
	case stateFailed:
		if onError != nil {
			onError(h.err)
		}
	case stateRevoked:
	}
	return h
}

// Pending reports whether the load has neither settled nor been revoked.
func (h *Handle[T]) Pending() bool { return h.state == statePending }

// Revoked reports whether Revoke was called before the load settled.
func (h *Handle[T]) Revoked() bool { return h.state == stateRevoked }

// Result returns the loaded value or the failure. While pending the error is
// nil and the value is the zero value.
func (h *Handle[T]) Result() (T, error) {
	if h.state == stateRevoked {
		var zero T
		return zero, ErrRevoked
	}
	return h.value, h.err
}

// Revoke abandons a pending load. Later completions are dropped.
func (h *Handle[T]) Revoke() {
	if h.state != statePending {
		return
	}
	h.state = stateRevoked
	h.onLoad, h.onError = nil, nil
	h.cancel()
}

// BindTo revokes the handle when owner is destroyed, so a load never lands
// in a torn-down part of the graph.
func (h *Handle[T]) BindTo(owner *scene.Node) *Handle[T] {
	owner.OnDestroy(h.Revoke)
	return h
}

// settle runs on the main thread. It reports false if the completion was
// dropped.
func (h *Handle[T]) settle(v T, err error) bool {
	if h.state != statePending {
		return false
	}
	h.cancel()
	if err != nil {
		h.state, h.err = stateFailed, err
		for _, fn := range h.onError {
			fn(err)
		}
	} else {
		h.state, h.value = stateLoaded, v
		for _, fn := range h.onLoad {
			fn(v)
		}
	}
	h.onLoad, h.onError = nil, nil
	return true
}
