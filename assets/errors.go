package assets

import (
	"errors"
	"fmt"
)

var (
	// ErrRevoked is reported by Result for a handle whose owner went away.
	ErrRevoked = errors.New("asset handle revoked")
	// ErrStoreClosed is returned for loads issued after or interrupted by Close.
	ErrStoreClosed = errors.New("asset store closed")
)

// Kind names the asset family in errors and logs.
type Kind string

const (
	KindModel   Kind = "model"
	KindCubemap Kind = "cubemap"
	KindTexture Kind = "texture"
)

// AssetLoadError reports an I/O or decode failure. No partial result is
// delivered alongside it.
type AssetLoadError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("load %s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }
