// Package session owns the point-cloud render surface: camera, orbit
// controls, lights and the displayed point set, with an explicit lifecycle.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"geoview/internal/canvas"
	"geoview/internal/logsink"
	"geoview/internal/pointcloud"
)

// State is a session lifecycle state.
type State int

const (
	Uninitialized State = iota
	Ready
	Displaying
	Disposed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Displaying:
		return "displaying"
	case Disposed:
		return "disposed"
	default:
		return "uninitialized"
	}
}

var (
	ErrDisposed = errors.New("session disposed")
	ErrNotReady = errors.New("session not initialized")
)

// AxesSize is the length of the axes helper in scene units.
const AxesSize = 1.0

// Options tune how points are drawn.
type Options struct {
	// PointSize is the side of a point in micro-pixels, 1 to 3.
	PointSize int
	// Color overrides per-point colours when set.
	Color *colorful.Color
	// Shading lights points that carry normals.
	Shading bool
	// Axes draws the axes helper.
	Axes bool
}

// DefaultOptions draws single micro-pixel points with axes.
func DefaultOptions() Options {
	return Options{PointSize: 1, Axes: true}
}

func (o Options) clamp() Options {
	o.PointSize = max(1, min(3, o.PointSize))
	return o
}

// Session renders one point cloud. It is not safe for concurrent use; the
// Manager serialises access for asynchronous results.
type Session struct {
	state    State
	gen      uint64
	surface  *Surface
	cv       *canvas.Canvas
	camera   Camera
	controls *Controls
	lights   Lights
	opts     Options

	buf   *pointcloud.Buffer
	frame string

	renders   int
	offResize func()
	offChange func()
}

// New returns an uninitialized session.
func New(opts Options) *Session {
	return &Session{opts: opts.clamp(), lights: DefaultLights()}
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Generation returns the generation the Manager issued, or 0.
func (s *Session) Generation() uint64 { return s.gen }

// Init binds the session to surface and allocates the canvas, camera,
// lights and controls.
func (s *Session) Init(surface *Surface) error {
	switch s.state {
	case Disposed:
		return ErrDisposed
	case Uninitialized:
	default:
		return fmt.Errorf("init: session already %s", s.state)
	}
	w, h := surface.Size()
	s.surface = surface
	s.cv = canvas.New(w, h)
	mw, mh := s.cv.MicroSize()
	s.camera = NewCamera(float64(mw) / float64(mh))
	s.controls = newControls(&s.camera)
	s.offChange = s.controls.OnChange(s.redraw)
	s.bindResize()
	s.state = Ready
	logsink.Logger().Debug("session init", "gen", s.gen, "w", w, "h", h)
	s.redraw()
	return nil
}

// bindResize drops any previous binding before registering a new one, so
// repeated calls leave exactly one listener on the surface.
func (s *Session) bindResize() {
	if s.offResize != nil {
		s.offResize()
	}
	s.offResize = s.surface.OnResize(func(w, h int) {
		if err := s.Resize(w, h); err != nil {
			logsink.Logger().Debug("resize failed", "gen", s.gen, "err", err)
		}
	})
}

// Show detaches the current points, attaches buf and frames the camera on
// frame. buf must not be modified afterwards.
func (s *Session) Show(buf *pointcloud.Buffer, frame pointcloud.CameraFrame) error {
	switch s.state {
	case Disposed:
		return ErrDisposed
	case Uninitialized:
		return ErrNotReady
	}
	s.detach()
	s.buf = buf
	s.camera.Frame(frame)
	s.state = Displaying
	logsink.Logger().Debug("session show", "gen", s.gen, "points", buf.Len())
	s.redraw()
	return nil
}

func (s *Session) detach() {
	if s.buf == nil {
		return
	}
	logsink.Logger().Debug("session detach", "gen", s.gen, "points", s.buf.Len())
	s.buf = nil
}

// Resize updates the projection and canvas for a surface of w x h cells and
// redraws.
func (s *Session) Resize(w, h int) error {
	switch s.state {
	case Disposed:
		return ErrDisposed
	case Uninitialized:
		return ErrNotReady
	}
	w, h = max(w, 1), max(h, 1)
	if cw, ch := s.cv.Size(); cw != w || ch != h {
		s.cv = canvas.New(w, h)
	}
	mw, mh := s.cv.MicroSize()
	s.camera.Aspect = float64(mw) / float64(mh)
	s.bindResize()
	s.redraw()
	return nil
}

// Dispose releases the canvas, detaches every listener and drops the
// attached points. It is safe to call more than once.
func (s *Session) Dispose() {
	if s.state == Disposed {
		return
	}
	if s.offResize != nil {
		s.offResize()
		s.offResize = nil
	}
	if s.offChange != nil {
		s.offChange()
		s.offChange = nil
	}
	if s.controls != nil {
		s.controls.disable()
	}
	s.detach()
	s.cv = nil
	s.surface = nil
	s.frame = ""
	s.state = Disposed
	logsink.Logger().Debug("session disposed", "gen", s.gen)
}

// Controls returns the orbit controls, or nil before Init.
func (s *Session) Controls() *Controls { return s.controls }

// Camera returns a copy of the camera.
func (s *Session) Camera() Camera { return s.camera }

// Lights returns the scene lighting.
func (s *Session) Lights() Lights { return s.lights }

// Attached returns the displayed buffer, or nil.
func (s *Session) Attached() *pointcloud.Buffer { return s.buf }

// Options returns the drawing options.
func (s *Session) Options() Options { return s.opts }

// SetOptions replaces the drawing options and redraws.
func (s *Session) SetOptions(o Options) {
	s.opts = o.clamp()
	s.redraw()
}

// Frame returns the last rendered frame.
func (s *Session) Frame() string { return s.frame }

// Renders returns how many frames have been drawn.
func (s *Session) Renders() int { return s.renders }

// Canvas exposes the last drawn canvas, or nil once disposed.
func (s *Session) Canvas() *canvas.Canvas { return s.cv }

func (s *Session) redraw() {
	if s.state == Disposed || s.state == Uninitialized || s.cv == nil {
		return
	}
	s.cv.Clear()
	draw(s.cv, s.camera, s.lights, s.opts, s.buf)
	s.frame = strings.Join(s.cv.Lines(), "\n")
	s.renders++
}
