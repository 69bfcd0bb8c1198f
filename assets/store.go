// Package assets loads models and cubemaps off the main thread and hands
// the results back through a dispatcher.
package assets

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"realistic-render/logx"
	"realistic-render/scene"
)

// Poster runs fn on the main thread. core.Dispatcher implements it.
type Poster interface {
	Post(fn func())
}

// Store starts asset loads on worker goroutines. Its methods must be called
// from the main thread.
type Store struct {
	post   Poster
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

func NewStore(post Poster, logger *slog.Logger) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{post: post, log: logx.Or(logger), ctx: ctx, cancel: cancel}
}

// LoadModel imports a glTF or GLB file as a detached node subtree. On
// success the caller owns the subtree.
func (s *Store) LoadModel(path string) *Handle[*scene.Node] {
	return start(s, KindModel, path, func(ctx context.Context) (*scene.Node, error) {
		return loadModel(ctx, path)
	})
}

// LoadCubemap decodes six face images, ordered +X, -X, +Y, -Y, +Z, -Z.
func (s *Store) LoadCubemap(faces [6]string) *Handle[*scene.Cubemap] {
	return start(s, KindCubemap, faces[0], func(ctx context.Context) (*scene.Cubemap, error) {
		return loadCubemap(ctx, faces)
	})
}

// Close cancels in-flight loads and waits for their goroutines to exit.
// Their handles fail with ErrStoreClosed if the completion still runs.
func (s *Store) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	s.wg.Wait()
}

func start[T any](s *Store, kind Kind, path string, load func(context.Context) (T, error)) *Handle[T] {
	ctx, cancel := context.WithCancel(s.ctx)
	h := newHandle[T](path, cancel)
	if s.closed {
		var zero T
		h.settle(zero, &AssetLoadError{Kind: kind, Path: path, Err: ErrStoreClosed})
		return h
	}

	s.log.Info("asset load started", "kind", kind, "path", path)
	begin := time.Now()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		v, err := load(ctx)
		if err != nil {
			if s.ctx.Err() != nil {
				err = ErrStoreClosed
			}
			var le *AssetLoadError
			if !errors.As(err, &le) {
				err = &AssetLoadError{Kind: kind, Path: path, Err: err}
			}
		}
		s.post.Post(func() {
			if !h.settle(v, err) {
				s.log.Debug("asset completion dropped", "kind", kind, "path", path)
				return
			}
			if err != nil {
				s.log.Error("asset load failed", "kind", kind, "path", path, "err", err)
				return
			}
			s.log.Info("asset loaded", "kind", kind, "path", path, "elapsed", time.Since(begin))
		})
	}()
	return h
}
