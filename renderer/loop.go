package renderer

import (
	"log/slog"
	"time"

	"realistic-render/config"
	"realistic-render/logx"
	"realistic-render/scene"
)

// State of a RenderLoop.
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// RenderLoop draws one frame per display refresh while running. Each frame
// runs to completion before the next is requested, so frames never overlap.
// All methods must be called from the main thread.
type RenderLoop struct {
	sched    FrameScheduler
	backend  Backend
	scene    *scene.Scene
	camera   *scene.Camera
	cfg      *config.SceneConfig
	controls Updater
	log      *slog.Logger

	state   State
	cancel  func()
	frame   uint64
	last    time.Time
	err     error
	onFatal []func(error)

	// now is swapped in tests.
	now func() time.Time
}

// LoopConfig gathers the collaborators of a RenderLoop. Controls and
// Logger are optional.
type LoopConfig struct {
	Scheduler FrameScheduler
	Backend   Backend
	Scene     *scene.Scene
	Camera    *scene.Camera
	Config    *config.SceneConfig
	Controls  Updater
	Logger    *slog.Logger
}

func NewRenderLoop(c LoopConfig) *RenderLoop {
	return &RenderLoop{
		sched:    c.Scheduler,
		backend:  c.Backend,
		scene:    c.Scene,
		camera:   c.Camera,
		cfg:      c.Config,
		controls: c.Controls,
		log:      logx.Or(c.Logger),
		now:      time.Now,
	}
}

// OnFatal registers fn to receive the *DrawError that stopped the loop.
func (l *RenderLoop) OnFatal(fn func(error)) {
	l.onFatal = append(l.onFatal, fn)
}

func (l *RenderLoop) State() State { return l.state }

// Frames is the number of frames that drew successfully.
func (l *RenderLoop) Frames() uint64 { return l.frame }

// Err returns the draw failure that stopped the loop, if any.
func (l *RenderLoop) Err() error { return l.err }

// Start moves Stopped to Running and requests the first frame. Starting a
// running loop does nothing.
func (l *RenderLoop) Start() {
	if l.state == Running {
		return
	}
	l.state = Running
	l.err = nil
	l.last = l.now()
	l.schedule()
}

// Stop moves Running to Stopped and cancels the pending frame, so no
// further draw happens.
func (l *RenderLoop) Stop() {
	if l.state == Stopped {
		return
	}
	l.state = Stopped
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *RenderLoop) schedule() {
	l.cancel = l.sched.RequestFrame(l.tick)
}

func (l *RenderLoop) tick() {
	l.cancel = nil
	if l.state != Running {
		return
	}

	now := l.now()
	dt := float32(now.Sub(l.last).Seconds())
	l.last = now

	if l.controls != nil {
		l.controls.Update(dt)
		if l.state != Running {
			return
		}
	}
	if l.cfg != nil {
		l.backend.SetToneMapping(l.cfg.ToneMapping(), l.cfg.Exposure())
	}
	if err := l.backend.Draw(l.scene, l.camera); err != nil {
		l.fail(&DrawError{Frame: l.frame + 1, Err: err})
		return
	}
	l.frame++

	// A Stop then Start during this frame has already requested the next one.
	if l.state == Running && l.cancel == nil {
		l.schedule()
	}
}

func (l *RenderLoop) fail(err *DrawError) {
	l.err = err
	l.log.Error("draw failed, stopping render loop", "frame", err.Frame, "err", err.Err)
	l.Stop()
	for _, fn := range l.onFatal {
		fn(err)
	}
}
