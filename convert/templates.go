package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"rpkg/config"
	"rpkg/content"
)

// Values is a struct that holds variables we make available for template
// expansion in file names and supporting files.
type Values struct {
	Context      string
	Title        string
	Subtitle     string
	Author       string
	ID           string
	Affiliation  string
	Organization string
	Year         int
	Language     string
	Format       string
	OutputDir    string
	Repository   string
}

func newValues(doc *content.Document, cfg *config.PackageConfig) *Values {
	return &Values{
		Title:        doc.Meta.Title,
		Subtitle:     doc.Meta.Subtitle,
		Author:       doc.Meta.Author,
		ID:           doc.Meta.AuthorID,
		Affiliation:  doc.Meta.Affiliation,
		Organization: doc.Meta.Organization,
		Year:         doc.Meta.Year,
		Language:     doc.Meta.Lang.String(),
		OutputDir:    filepath.Base(cfg.OutputDir),
		Repository:   cfg.Support.Repository,
	}
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Option("missingkey=error").Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values.Context = string(name)

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to expand template field %s: %w", name, err)
	}
	return buf.String(), nil
}
