package convert

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"rpkg/common"
	"rpkg/config"
	"rpkg/content"
	"rpkg/convert/docx"
	"rpkg/convert/html"
	"rpkg/convert/markdown"
	"rpkg/misc"
)

// Backends returns backends for every known format configured from cfg.
func Backends(cfg *config.PackageConfig, log *zap.Logger) []Backend {
	generator := misc.GetAppName() + " " + misc.GetVersion()
	return []Backend{
		&docxBackend{
			opts: docx.Options{
				Font:        cfg.Document.Font,
				PageBreaks:  cfg.Document.PageBreaks,
				EmbedImages: cfg.Document.EmbedImages,
				FixZip:      cfg.FixZip,
				AppName:     generator,
			},
			log: log.Named("docx"),
		},
		&htmlBackend{
			stylesheetPath: cfg.HTML.StylesheetPath,
			defaultBlock:   cfg.HTML.DefaultSection,
			generator:      generator,
			log:            log.Named("html"),
		},
		&markdownBackend{
			navColumns: cfg.Markdown.NavColumns,
			log:        log.Named("markdown"),
		},
	}
}

type docxBackend struct {
	opts docx.Options
	log  *zap.Logger
}

func (b *docxBackend) Format() common.ArtifactFormat {
	return common.ArtifactFormatDocx
}

func (b *docxBackend) Probe(ctx context.Context) error {
	return docx.Probe()
}

func (b *docxBackend) Render(ctx context.Context, doc *content.Document, t *Target) ([]byte, error) {
	opts := b.opts
	opts.Root = t.Root
	return docx.Render(ctx, doc, &opts, b.log)
}

type htmlBackend struct {
	stylesheetPath string
	stylesheet     []byte
	defaultBlock   string
	generator      string
	log            *zap.Logger
}

func (b *htmlBackend) Format() common.ArtifactFormat {
	return common.ArtifactFormatHtml
}

// Probe loads configured stylesheet, page can not be produced without it.
func (b *htmlBackend) Probe(ctx context.Context) error {
	if b.stylesheetPath != "" {
		data, err := os.ReadFile(b.stylesheetPath)
		if err != nil {
			return fmt.Errorf("unable to read stylesheet from %q: %w", b.stylesheetPath, err)
		}
		b.stylesheet = data
	}
	return html.Probe(b.stylesheet, b.log)
}

func (b *htmlBackend) Render(ctx context.Context, doc *content.Document, t *Target) ([]byte, error) {
	return html.Render(ctx, doc, &html.Options{
		DefaultBlock: b.defaultBlock,
		Stylesheet:   b.stylesheet,
		Artifacts:    t.Names,
		Generator:    b.generator,
	}, b.log)
}

type markdownBackend struct {
	navColumns int
	log        *zap.Logger
}

func (b *markdownBackend) Format() common.ArtifactFormat {
	return common.ArtifactFormatMarkdown
}

// Probe always succeeds, readme is plain text.
func (b *markdownBackend) Probe(ctx context.Context) error {
	return nil
}

func (b *markdownBackend) Render(ctx context.Context, doc *content.Document, t *Target) ([]byte, error) {
	return markdown.Render(ctx, doc, &markdown.Options{NavColumns: b.navColumns, Artifacts: t.Names}, b.log)
}
