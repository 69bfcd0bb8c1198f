package renderer

import (
	"realistic-render/config"
	"realistic-render/scene"
)

type fakeBackend struct {
	draws     int
	failAt    int // 1-based draw that fails; 0 never
	failErr   error
	sizes     [][2]int
	ratios    []float32
	tone      config.ToneMapping
	exposure  float32
	lastScene *scene.Scene
}

func (b *fakeBackend) SetSize(w, h int)        { b.sizes = append(b.sizes, [2]int{w, h}) }
func (b *fakeBackend) SetPixelRatio(r float32) { b.ratios = append(b.ratios, r) }

func (b *fakeBackend) SetToneMapping(m config.ToneMapping, e float32) {
	b.tone, b.exposure = m, e
}

func (b *fakeBackend) Draw(s *scene.Scene, _ *scene.Camera) error {
	if b.failAt > 0 && b.draws+1 == b.failAt {
		return b.failErr
	}
	b.draws++
	b.lastScene = s
	return nil
}

type countingUpdater struct {
	calls int
	dts   []float32
}

func (u *countingUpdater) Update(dt float32) {
	u.calls++
	u.dts = append(u.dts, dt)
}
