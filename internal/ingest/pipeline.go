package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"geoview/internal/format"
	"geoview/internal/geom"
	"geoview/internal/logsink"
	"geoview/internal/pointcloud"
	"geoview/internal/session"
)

// progressLogStep is the smallest change in fraction that is logged.
const progressLogStep = 0.1

// Msg is a pipeline message. Every message carries the generation it was
// issued for.
type Msg interface {
	Generation() uint64
}

// Progress reports the fraction of bytes consumed, strictly increasing.
type Progress struct {
	Gen      uint64
	FileID   string
	Fraction float64
}

// PointCloudLoaded is the terminal message of a successful point-cloud load.
type PointCloudLoaded struct {
	Gen       uint64
	File      *SourceFile
	Result    pointcloud.Normalized
	Decoded   int
	Colorized bool
	Elapsed   time.Duration
}

// VectorLoaded is the terminal message of a successful GeoJSON load.
type VectorLoaded struct {
	Gen        uint64
	File       *SourceFile
	Collection *geom.Collection
	Index      *geom.Index
	Viewport   geom.Viewport
	Fitted     bool
}

// Failed is the terminal message of a failed load.
type Failed struct {
	Gen  uint64
	File *SourceFile
	Err  error
}

func (m Progress) Generation() uint64         { return m.Gen }
func (m PointCloudLoaded) Generation() uint64 { return m.Gen }
func (m VectorLoaded) Generation() uint64     { return m.Gen }
func (m Failed) Generation() uint64           { return m.Gen }

// Terminal reports whether m ends a load.
func Terminal(m Msg) bool {
	switch m.(type) {
	case PointCloudLoaded, VectorLoaded, Failed:
		return true
	}
	return false
}

// Runner executes loads.
type Runner struct {
	Sink logsink.Sink
	// Now is the clock used for load timings.
	Now func() time.Time
}

// NewRunner returns a runner that logs to sink.
func NewRunner(sink logsink.Sink) *Runner {
	if sink == nil {
		sink = logsink.Discard
	}
	return &Runner{Sink: sink, Now: time.Now}
}

// Start loads f in its own goroutine. The channel yields zero or more
// Progress messages, exactly one terminal message, then closes. If ctx is
// cancelled and nobody is receiving, pending messages are dropped.
func (r *Runner) Start(ctx context.Context, f *SourceFile, gen uint64) <-chan Msg {
	ch := make(chan Msg, 1)
	go func() {
		defer close(ch)
		send := func(m Msg) {
			select {
			case ch <- m:
				return
			default:
			}
			select {
			case ch <- m:
			case <-ctx.Done():
			}
		}
		send(r.Run(ctx, f, gen, send))
	}()
	return ch
}

// Run loads f synchronously, passing progress to emit, and returns the
// terminal message.
func (r *Runner) Run(ctx context.Context, f *SourceFile, gen uint64, emit func(Msg)) Msg {
	if err := ctx.Err(); err != nil {
		r.Sink.Emit(logsink.New(logsink.Info, "Cancelled loading: %s", f.Name))
		return Failed{Gen: gen, File: f, Err: err}
	}
	switch f.Kind.Family {
	case format.PointCloud:
		return r.runPointCloud(ctx, f, gen, emit)
	case format.Vector:
		return r.runVector(f, gen)
	default:
		err := fmt.Errorf("%s: %w", f.Name, format.ErrUnsupportedFormat)
		r.Sink.Emit(logsink.New(logsink.Error, "Unsupported file: %v", err))
		return Failed{Gen: gen, File: f, Err: err}
	}
}

func (r *Runner) runPointCloud(ctx context.Context, f *SourceFile, gen uint64, emit func(Msg)) Msg {
	start := r.Now()
	logged := 0.0
	onProgress := func(frac float64) {
		emit(Progress{Gen: gen, FileID: f.ID, Fraction: frac})
		if frac >= 1 || frac-logged >= progressLogStep {
			logged = frac
			r.Sink.Emit(logsink.New(logsink.Info, "Loading progress: %.2f%%", frac*100))
		}
	}

	buf, err := pointcloud.Decode(ctx, f.Data, f.Kind.Subformat, onProgress)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			r.Sink.Emit(logsink.New(logsink.Info, "Cancelled loading: %s", f.Name))
		} else {
			r.Sink.Emit(logsink.New(logsink.Error, "Error loading point cloud: %v", err))
		}
		return Failed{Gen: gen, File: f, Err: err}
	}

	res := pointcloud.Normalize(buf)
	if res.Dropped > 0 {
		r.Sink.Emit(logsink.New(logsink.Warning, "Dropped %d points with non-finite coordinates", res.Dropped))
	}
	colorized := false
	if !res.Buffer.HasColors() {
		res.Buffer.Colors = pointcloud.Colorize(res.Buffer.Positions)
		colorized = true
	}
	elapsed := r.Now().Sub(start)
	r.Sink.Emit(logsink.New(logsink.Success,
		"Successfully loaded point cloud: File name: %s, Total Points: %d, %s, Load Time: %.2f seconds",
		f.Name, buf.Len(), SizeMessage(f.Size()), elapsed.Seconds()))
	return PointCloudLoaded{
		Gen:       gen,
		File:      f,
		Result:    res,
		Decoded:   buf.Len(),
		Colorized: colorized,
		Elapsed:   elapsed,
	}
}

func (r *Runner) runVector(f *SourceFile, gen uint64) Msg {
	c, err := geom.Decode(f.Data)
	if err != nil {
		r.Sink.Emit(logsink.New(logsink.Error, "Failed to load GeoJSON: %v", err))
		return Failed{Gen: gen, File: f, Err: err}
	}
	vp, fitted := geom.Fit(c)
	if !fitted {
		vp = geom.DefaultViewport()
	}
	r.Sink.Emit(logsink.New(logsink.Success, "Successfully loaded GeoJSON: %s", f.Name))
	return VectorLoaded{
		Gen:        gen,
		File:       f,
		Collection: c,
		Index:      geom.NewIndex(c),
		Viewport:   vp,
		Fitted:     fitted,
	}
}

// Present shows a loaded point cloud on the live session, unless gen is
// stale. It reports whether the session was updated.
func Present(m *session.Manager, msg PointCloudLoaded) (bool, error) {
	return m.Deliver(msg.Gen, func(s *session.Session) error {
		return s.Show(msg.Result.Buffer, msg.Result.Frame)
	})
}
