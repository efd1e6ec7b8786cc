// Package convert assembles report package: renders single content
// description into every requested artifact format and writes results.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"time"

	"go.uber.org/zap"

	"rpkg/common"
	"rpkg/content"
)

// ErrBackendUnavailable marks formats which could not be produced in this
// run. It is never fatal: such formats are reported as skipped.
var ErrBackendUnavailable = errors.New("backend is not available")

// Target describes where artifacts of the run go.
type Target struct {
	// Root is package directory, empty when rendering in memory only.
	Root string
	// Names maps formats produced in this run to their file names.
	Names map[common.ArtifactFormat]string
}

// Backend renders document into one artifact format.
type Backend interface {
	Format() common.ArtifactFormat
	// Probe reports why backend can not be used, nil when it can.
	Probe(ctx context.Context) error
	Render(ctx context.Context, doc *content.Document, t *Target) ([]byte, error)
}

// Capabilities maps every requested format to nil when it can be produced or
// to the reason why it can not. It is computed once per run.
type Capabilities map[common.ArtifactFormat]error

// Requested returns requested formats in stable order.
func (c Capabilities) Requested() []common.ArtifactFormat {
	res := make([]common.ArtifactFormat, 0, len(c))
	for f := range c {
		res = append(res, f)
	}
	slices.Sort(res)
	return res
}

// Available reports whether format was requested and can be produced.
func (c Capabilities) Available(f common.ArtifactFormat) bool {
	err, ok := c[f]
	return ok && err == nil
}

// DetectCapabilities probes backends for requested formats. Formats which
// were not requested are not probed.
func DetectCapabilities(ctx context.Context, backends []Backend, formats []common.ArtifactFormat, log *zap.Logger) Capabilities {
	caps := make(Capabilities, len(formats))
	for _, f := range formats {
		if _, done := caps[f]; done {
			continue
		}
		idx := slices.IndexFunc(backends, func(b Backend) bool { return b.Format() == f })
		if idx < 0 {
			caps[f] = fmt.Errorf("%w: no backend for %s", ErrBackendUnavailable, f)
			log.Warn("Format is not supported", zap.Stringer("format", f))
			continue
		}
		if err := backends[idx].Probe(ctx); err != nil {
			caps[f] = fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
			log.Warn("Format backend is not available", zap.Stringer("format", f), zap.Error(err))
			continue
		}
		caps[f] = nil
		log.Debug("Format backend is available", zap.Stringer("format", f))
	}
	return caps
}

// Artifact is rendered output in one format.
type Artifact struct {
	Format common.ArtifactFormat
	Name   string
	Data   []byte
}

// Written describes artifact stored on disk.
type Written struct {
	Format common.ArtifactFormat
	Path   string
	Size   int
}

// Skipped describes requested format which was not produced.
type Skipped struct {
	Format common.ArtifactFormat
	Reason error
}

// Result lists outcome of the build for every requested format.
type Result struct {
	Written []Written
	Skipped []Skipped
}

// Assembler renders document with registered backends.
type Assembler struct {
	backends map[common.ArtifactFormat]Backend
	names    map[common.ArtifactFormat]string
	log      *zap.Logger
}

// New returns assembler producing artifacts under given file names.
func New(names map[common.ArtifactFormat]string, log *zap.Logger, backends ...Backend) *Assembler {
	a := &Assembler{
		backends: make(map[common.ArtifactFormat]Backend, len(backends)),
		names:    names,
		log:      log,
	}
	for _, b := range backends {
		a.backends[b.Format()] = b
	}
	return a
}

// Render produces single artifact in memory. Output is deterministic: the
// same document always renders into the same bytes.
func (a *Assembler) Render(ctx context.Context, doc *content.Document, format common.ArtifactFormat) (*Artifact, error) {
	if err := content.Validate(doc); err != nil {
		return nil, err
	}
	return a.render(ctx, doc, format, &Target{Names: a.names})
}

func (a *Assembler) render(ctx context.Context, doc *content.Document, format common.ArtifactFormat, t *Target) (art *Artifact, rerr error) {
	b, ok := a.backends[format]
	if !ok {
		return nil, fmt.Errorf("%w: no backend for %s", ErrBackendUnavailable, format)
	}
	name, ok := a.names[format]
	if !ok {
		return nil, fmt.Errorf("no file name for %s", format)
	}

	log := a.log.With(zap.Stringer("format", format))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Rendering ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			art, rerr = nil, fmt.Errorf("%s rendering panic: %v", format, r)
		}
	}(time.Now())

	data, err := b.Render(ctx, doc, t)
	if err != nil {
		return nil, err
	}
	return &Artifact{Format: format, Name: name, Data: data}, nil
}

// Build renders every format in caps and writes results into outDir. Formats
// which are not available are recorded as skipped. Directory is created when
// absent and existing artifacts are overwritten, so repeated builds of the
// same document leave identical files. Any write failure is fatal.
func (a *Assembler) Build(ctx context.Context, doc *content.Document, caps Capabilities, outDir string) (*Result, error) {
	if err := content.Validate(doc); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create output directory: %w", err)
	}

	t := &Target{Root: outDir, Names: make(map[common.ArtifactFormat]string)}
	for _, f := range caps.Requested() {
		if caps.Available(f) {
			t.Names[f] = a.names[f]
		}
	}
	a.checkImages(doc, outDir)

	res := &Result{}
	for _, f := range caps.Requested() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if reason := caps[f]; reason != nil {
			a.log.Warn("Skipping format", zap.Stringer("format", f), zap.Error(reason))
			res.Skipped = append(res.Skipped, Skipped{Format: f, Reason: reason})
			continue
		}

		art, err := a.render(ctx, doc, f, t)
		if err != nil {
			return res, fmt.Errorf("unable to render %s: %w", f, err)
		}
		path := filepath.Join(outDir, art.Name)
		if err := os.WriteFile(path, art.Data, 0644); err != nil {
			return res, fmt.Errorf("unable to write %s: %w", art.Name, err)
		}
		a.log.Info("Artifact written", zap.Stringer("format", f), zap.String("file", path), zap.Int("size", len(art.Data)))
		res.Written = append(res.Written, Written{Format: f, Path: path, Size: len(art.Data)})
	}
	return res, nil
}

// checkImages warns about gallery images missing from package, artifacts
// still refer to them.
func (a *Assembler) checkImages(doc *content.Document, outDir string) {
	var missing []string
	for _, img := range doc.Images() {
		if _, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(img.Path))); err != nil {
			missing = append(missing, img.Path)
		}
	}
	if len(missing) > 0 {
		a.log.Warn("Images referenced by report are missing from package", zap.Strings("images", missing))
	}
}
