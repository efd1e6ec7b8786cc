package convert

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/zap"

	"rpkg/config"
	"rpkg/content"
)

//go:embed support/*.tmpl
var supportTemplates embed.FS

// supportFiles maps package relative destination to embedded template.
var supportFiles = []struct {
	dst  string
	tmpl string
	mode os.FileMode
}{
	{"LICENSE", "LICENSE.tmpl", 0644},
	{".gitignore", "gitignore.tmpl", 0644},
	{"QUICKSTART.md", "QUICKSTART.md.tmpl", 0644},
	{"SETUP.md", "SETUP.md.tmpl", 0644},
	{"CONTRIBUTING.md", "CONTRIBUTING.md.tmpl", 0644},
	{"deploy.sh", "deploy.sh.tmpl", 0755},
	{".github/workflows/deploy.yml", "deploy.yml.tmpl", 0644},
}

// WriteSupport writes repository supporting files into outDir overwriting
// existing ones and returns their paths.
func WriteSupport(ctx context.Context, doc *content.Document, cfg *config.PackageConfig, outDir string, log *zap.Logger) ([]string, error) {
	values := newValues(doc, cfg)
	values.OutputDir = filepath.Base(outDir)

	written := make([]string, 0, len(supportFiles))
	for _, sf := range supportFiles {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		data, err := expandSupport(sf.tmpl, values)
		if err != nil {
			return written, err
		}

		dst := filepath.Join(outDir, filepath.FromSlash(sf.dst))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return written, fmt.Errorf("unable to create directory for %s: %w", sf.dst, err)
		}
		if err := os.WriteFile(dst, data, sf.mode); err != nil {
			return written, fmt.Errorf("unable to write %s: %w", sf.dst, err)
		}
		// WriteFile keeps permissions of existing file
		if err := os.Chmod(dst, sf.mode); err != nil {
			return written, fmt.Errorf("unable to set permissions of %s: %w", sf.dst, err)
		}
		log.Debug("Supporting file written", zap.String("file", dst), zap.Int("size", len(data)))
		written = append(written, dst)
	}
	return written, nil
}

func expandSupport(name string, values *Values) ([]byte, error) {
	src, err := supportTemplates.ReadFile(path.Join("support", name))
	if err != nil {
		return nil, fmt.Errorf("unable to read template %s: %w", name, err)
	}
	tmpl, err := template.New(name).Funcs(sprig.FuncMap()).Option("missingkey=error").Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("unable to parse template %s: %w", name, err)
	}

	v := *values
	v.Context = name

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("unable to expand template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
