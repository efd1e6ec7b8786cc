package convert

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"rpkg/common"
	"rpkg/config"
	"rpkg/content"
)

// ArtifactNames returns file names artifacts get inside package directory.
// Document name comes from configured template, falling back to the title
// when template is empty or could not be expanded.
func ArtifactNames(doc *content.Document, cfg *config.PackageConfig, log *zap.Logger) map[common.ArtifactFormat]string {
	docx := documentName(doc, cfg, log)
	return map[common.ArtifactFormat]string{
		common.ArtifactFormatDocx:     docx + common.ArtifactFormatDocx.Ext(),
		common.ArtifactFormatHtml:     cleanName(cfg.HTML.Name, false),
		common.ArtifactFormatMarkdown: cleanName(cfg.Markdown.Name, false),
	}
}

func documentName(doc *content.Document, cfg *config.PackageConfig, log *zap.Logger) string {
	fallback := cleanName(strings.ReplaceAll(doc.Meta.Title, " ", "_"), cfg.FileNameTransliterate)
	if cfg.Document.NameTemplate == "" {
		return fallback
	}

	values := newValues(doc, cfg)
	values.Format = common.ArtifactFormatDocx.String()
	name, err := expandTemplate(config.DocumentNameTemplateFieldName, cfg.Document.NameTemplate, *values)
	if err != nil {
		log.Warn("Unable to prepare document name, using default", zap.Error(err))
		return fallback
	}
	name = strings.TrimSuffix(strings.TrimSpace(name), common.ArtifactFormatDocx.Ext())
	if name == "" {
		return fallback
	}
	return cleanName(name, cfg.FileNameTransliterate)
}

// ArchivePath returns location of the package archive, it is placed next to
// output directory.
func ArchivePath(doc *content.Document, cfg *config.PackageConfig, outDir string, log *zap.Logger) string {
	base := filepath.Base(outDir)
	name := base
	if cfg.ArchiveNameTemplate != "" {
		values := newValues(doc, cfg)
		values.OutputDir = base
		expanded, err := expandTemplate(config.ArchiveNameTemplateFieldName, cfg.ArchiveNameTemplate, *values)
		switch {
		case err != nil:
			log.Warn("Unable to prepare archive name, using default", zap.Error(err))
		case strings.TrimSpace(expanded) != "":
			name = strings.TrimSuffix(strings.TrimSpace(expanded), ".zip")
		}
	}
	return filepath.Join(filepath.Dir(outDir), cleanName(name, cfg.FileNameTransliterate)+".zip")
}

// cleanName makes single path element out of name, optionally transliterated.
func cleanName(name string, transliterate bool) string {
	if transliterate {
		ext := filepath.Ext(name)
		if base := slug.Make(strings.TrimSuffix(name, ext)); base != "" {
			name = base + ext
		}
	}
	return config.CleanFileName(name)
}
