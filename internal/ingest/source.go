// Package ingest turns files into decoded, display-ready data: source files
// with metadata, the workspace of loaded files and the load pipeline.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"geoview/internal/format"
	"geoview/internal/geom"
	"geoview/internal/logsink"
	"geoview/internal/pointcloud"
)

// maxParallelReads bounds concurrent file reads in OpenAll.
const maxParallelReads = 4

// Meta is family-specific metadata computed at upload.
type Meta struct {
	Points    int  // header estimate, point clouds only
	Estimated bool // Points came from a header
	Features  int  // vector files only
}

// SourceFile is an uploaded file. It is never modified after creation.
type SourceFile struct {
	ID   string
	Name string
	Path string
	Data []byte
	Kind format.Kind
	Meta Meta
}

// Size returns the byte length.
func (f *SourceFile) Size() int64 { return int64(len(f.Data)) }

// HumanSize is the size for display, e.g. "1.2 MB".
func (f *SourceFile) HumanSize() string { return humanize.Bytes(uint64(f.Size())) }

// Summary is a one-line description for file lists.
func (f *SourceFile) Summary() string {
	parts := []string{f.Kind.String(), f.HumanSize()}
	switch f.Kind.Family {
	case format.PointCloud:
		if f.Meta.Estimated {
			parts = append(parts, "~"+humanize.Comma(int64(f.Meta.Points))+" pts")
		}
	case format.Vector:
		parts = append(parts, humanize.Comma(int64(f.Meta.Features))+" features")
	}
	return strings.Join(parts, " · ")
}

// NewSourceFile classifies name and extracts metadata from data. Metadata
// failures are logged, never returned: the file is still added and its
// load will report the real error.
func NewSourceFile(name string, data []byte, sink logsink.Sink) *SourceFile {
	f := &SourceFile{
		ID:   uuid.New().String(),
		Name: filepath.Base(name),
		Path: name,
		Data: data,
		Kind: format.Classify(name),
	}
	switch f.Kind.Family {
	case format.PointCloud:
		f.Meta.Points, f.Meta.Estimated = pointcloud.Estimate(data, f.Kind.Subformat)
	case format.Vector:
		n, err := geom.CountFeatures(data)
		if err != nil {
			sink.Emit(logsink.New(logsink.Error, "Error parsing GIS file metadata: %v", err))
			break
		}
		f.Meta.Features = n
	}
	return f
}

// Open reads the file at path.
func Open(path string, sink logsink.Sink) (*SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return NewSourceFile(path, data, sink), nil
}

// OpenAll reads paths concurrently. Files that load are returned in input
// order; every failure is logged and joined into the returned error.
func OpenAll(ctx context.Context, paths []string, sink logsink.Sink) ([]*SourceFile, error) {
	files := make([]*SourceFile, len(paths))
	errs := make([]error, len(paths))
	var g errgroup.Group
	g.SetLimit(maxParallelReads)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			files[i], errs[i] = Open(p, sink)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*SourceFile, 0, len(files))
	for i, f := range files {
		if errs[i] != nil {
			sink.Emit(logsink.New(logsink.Error, "Failed to open file: %v", errs[i]))
			continue
		}
		out = append(out, f)
	}
	return out, errors.Join(errs...)
}

// SizeMessage renders n the way load messages report file sizes.
func SizeMessage(n int64) string {
	kb := int64(math.Round(float64(n) / 1024))
	mb := float64(n) / 1024 / 1024
	mbText := "<1"
	if mb >= 1 {
		mbText = fmt.Sprintf("%d", int64(math.Round(mb)))
	}
	return fmt.Sprintf("File Size: %d bytes (%d KB, %s MB)", n, kb, mbText)
}
