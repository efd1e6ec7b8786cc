package convert

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"rpkg/archive"
	"rpkg/common"
	"rpkg/content"
	"rpkg/photos"
	"rpkg/state"
)

// Run is the build command: prepares photos, renders every requested
// artifact, writes supporting files and optionally packs output directory.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("build")
	cfg := &env.Cfg.Package

	dst := cmd.Args().Get(0)
	if len(dst) == 0 {
		dst = cfg.OutputDir
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	cfg.OutputDir = dst

	if to := cmd.String("to"); len(to) > 0 {
		if env.Formats, err = common.ParseArtifactFormats(to); err != nil {
			return fmt.Errorf("unable to parse requested formats: %w", err)
		}
	}
	if dir := cmd.String("photos"); len(dir) > 0 {
		env.PhotosDir = dir
	}
	if len(env.PhotosDir) > 0 {
		cfg.Photos.SourceDir = env.PhotosDir
	}
	if path := cmd.String("placeholder"); len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to read placeholder image from %q: %w", path, err)
		}
		env.Placeholder = data
	}
	env.NoArchive = cmd.Bool("no-archive")

	log.Info("Processing starting", zap.String("destination", dst), zap.Stringers("formats", env.RequestedFormats()))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return build(ctx, env, log)
}

// build handles the core package assembly independently of CLI framework.
func build(ctx context.Context, env *state.LocalEnv, log *zap.Logger) error {
	cfg := &env.Cfg.Package
	outDir := cfg.OutputDir

	doc := content.Report(cfg.Photos.Count)
	if err := content.Validate(doc); err != nil {
		return err
	}
	if env.Rpt != nil {
		env.Rpt.StoreData("content.txt", []byte(doc.String()))
	}

	imagesDir := filepath.Join(outDir, filepath.Dir(filepath.FromSlash(content.PhotoPath(1))))
	pr, err := photos.Prepare(ctx, &cfg.Photos, imagesDir, env.Placeholder, log.Named("photos"))
	if err != nil {
		return err
	}
	log.Info("Photos prepared",
		zap.Int("converted", pr.Converted), zap.Int("kept", pr.Kept),
		zap.Int("placeholders", pr.Placeholders), zap.Strings("missing", pr.Missing))

	backends := Backends(cfg, log)
	caps := DetectCapabilities(ctx, backends, env.RequestedFormats(), log)

	asm := New(ArtifactNames(doc, cfg, log), log, backends...)
	res, err := asm.Build(ctx, doc, caps, outDir)
	if err != nil {
		return err
	}

	if cfg.Support.Enable {
		files, err := WriteSupport(ctx, doc, cfg, outDir, log.Named("support"))
		if err != nil {
			return err
		}
		log.Info("Supporting files written", zap.Int("count", len(files)))
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	archivePath := ""
	if cfg.Archive && !env.NoArchive {
		archivePath = ArchivePath(doc, cfg, outDir, log)
		if err := archive.Pack(ctx, outDir, archivePath, archive.Timestamp(doc.Meta.Year), cfg.FixZip); err != nil {
			return fmt.Errorf("unable to pack output directory: %w", err)
		}
		log.Info("Package archived", zap.String("archive", archivePath))
	}

	for _, w := range res.Written {
		// store results for debugging
		env.Rpt.Store(fmt.Sprintf("result/%s", filepath.Base(w.Path)), w.Path)
	}
	for _, s := range res.Skipped {
		log.Warn("Format was not produced", zap.Stringer("format", s.Format), zap.Error(s.Reason))
	}
	log.Info("Package ready",
		zap.String("directory", outDir), zap.String("archive", archivePath),
		zap.Int("written", len(res.Written)), zap.Int("skipped", len(res.Skipped)))
	return nil
}

// Inspect lists files in package archive.
func Inspect(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("inspect")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no archive has been specified")
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many archives", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	count := 0
	err := archive.Walk(ctx, src, cmd.String("prefix"), func(_ string, f *zip.File) error {
		count++
		_, err := fmt.Fprintf(out, "%10d  %s  %s\n", f.UncompressedSize64, f.Modified.UTC().Format(time.DateTime), f.Name)
		return err
	})
	if err != nil {
		return fmt.Errorf("unable to inspect archive: %w", err)
	}
	log.Info("Archive inspected", zap.String("archive", src), zap.Int("files", count))
	return nil
}
