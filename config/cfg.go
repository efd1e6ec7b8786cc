package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"rpkg/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	PhotosConfig struct {
		SourceDir    string `yaml:"source_dir,omitempty" sanitize:"path_clean"`
		Count        int    `yaml:"count" validate:"min=0,max=64"`
		Width        int    `yaml:"width" validate:"min=0,max=8192"`
		JPEGQuality  int    `yaml:"jpeq_quality_level" validate:"min=40,max=100"`
		Placeholders bool   `yaml:"placeholders"`
	}

	DocumentConfig struct {
		NameTemplate string `yaml:"name_template"`
		Font         string `yaml:"font" validate:"required"`
		PageBreaks   bool   `yaml:"page_breaks"`
		EmbedImages  bool   `yaml:"embed_images"`
	}

	HTMLConfig struct {
		Name           string `yaml:"name" validate:"required"`
		DefaultSection string `yaml:"default_section"`
		StylesheetPath string `yaml:"stylesheet_path" sanitize:"path_clean"`
	}

	MarkdownConfig struct {
		Name       string `yaml:"name" validate:"required"`
		NavColumns int    `yaml:"nav_columns" validate:"min=1,max=8"`
	}

	SupportConfig struct {
		Enable     bool   `yaml:"enable"`
		Repository string `yaml:"repository" validate:"required_if=Enable true"`
	}

	PackageConfig struct {
		OutputDir             string                  `yaml:"output_dir" sanitize:"path_clean" validate:"required"`
		Formats               []common.ArtifactFormat `yaml:"formats" validate:"min=1"`
		Archive               bool                    `yaml:"archive"`
		ArchiveNameTemplate   string                  `yaml:"archive_name_template"`
		FixZip                bool                    `yaml:"fix_zip"`
		FileNameTransliterate bool                    `yaml:"file_name_transliterate"`
		Document              DocumentConfig          `yaml:"document"`
		HTML                  HTMLConfig              `yaml:"html"`
		Markdown              MarkdownConfig          `yaml:"markdown"`
		Photos                PhotosConfig            `yaml:"photos"`
		Support               SupportConfig           `yaml:"support"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Package   PackageConfig  `yaml:"package"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, these fields are expanded
	// later with report values and gencfg must leave them alone
	DocumentNameTemplateFieldName TemplateFieldName = "name_template"
	ArchiveNameTemplateFieldName  TemplateFieldName = "archive_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(DocumentNameTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(ArchiveNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
		for _, f := range cfg.Package.Formats {
			if !f.IsValid() {
				return nil, fmt.Errorf("unsupported artifact format %d", f)
			}
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file, lists are replaced
	// rather than merged
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

// EnabledFormats returns requested formats without duplicates in the order
// they were configured.
func (conf *PackageConfig) EnabledFormats() []common.ArtifactFormat {
	seen := make(map[common.ArtifactFormat]bool, len(conf.Formats))
	res := make([]common.ArtifactFormat, 0, len(conf.Formats))
	for _, f := range conf.Formats {
		if !seen[f] {
			seen[f] = true
			res = append(res, f)
		}
	}
	return res
}
