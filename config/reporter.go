package config

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/maruel/natural"
	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"

	"rpkg/misc"
)

// ManifestName is the name of the report entry listing everything stored.
const ManifestName = "MANIFEST.yaml"

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates initialized empty reporter. When destination can not be
// created report goes to temporary directory.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{entries: make(map[string]entry), file: f}, nil
}

// entry is either a path on disk (file or whole directory) collected when
// report is closed, or data captured at the moment of storing.
type entry struct {
	source string
	data   []byte
	stamp  time.Time
}

type manifestItem struct {
	Name   string    `yaml:"name"`
	Source string    `yaml:"source,omitempty"`
	Size   int       `yaml:"size,omitempty"`
	Stamp  time.Time `yaml:"stamp,omitempty"`
}

// Report accumulates everything which may help troubleshooting: logs,
// effective configuration, content dump and produced artifacts. Not safe for
// concurrent use.
type Report struct {
	entries map[string]entry
	file    *os.File
}

// Close writes the report archive. Nil report is valid and does nothing.
func (r *Report) Close() (err error) {
	if r == nil || r.file == nil {
		return nil
	}
	defer func() {
		err = multierr.Append(err, r.file.Close())
	}()
	return r.finalize()
}

// Name returns absolute name of the report archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store records file or directory to be put into report under name. Paths
// are resolved on Close, so files may still be written after storing.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if p, err := filepath.Abs(path); err == nil {
		path = p
	}
	if old, exists := r.entries[name]; exists && old.source != path {
		panic(fmt.Sprintf("report entry %q stored twice: was %s, now %s", name, old.source, path))
	}
	r.entries[name] = entry{source: path}
}

// StoreData records data to be put into report as a file under name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	if _, exists := r.entries[name]; exists {
		panic(fmt.Sprintf("report entry %q stored twice", name))
	}
	r.entries[name] = entry{data: data, stamp: time.Now()}
}

func (r *Report) names() []string {
	names := slices.Collect(maps.Keys(r.entries))
	sort.Sort(natural.StringSlice(names))
	return names
}

func (r *Report) finalize() (err error) {
	arc := zip.NewWriter(r.file)
	defer func() {
		err = multierr.Append(err, arc.Close())
	}()

	names := r.names()
	manifest := make([]manifestItem, 0, len(names))
	for _, name := range names {
		e := r.entries[name]
		if e.source == "" {
			if err := writeEntry(arc, name, e.stamp, e.data); err != nil {
				return err
			}
			manifest = append(manifest, manifestItem{Name: name, Size: len(e.data), Stamp: e.stamp.UTC()})
			continue
		}
		item := manifestItem{Name: name, Source: e.source}
		if info, err := os.Stat(e.source); err == nil {
			// absent files are only listed
			if err := copyPath(arc, name, e.source, info); err != nil {
				return err
			}
			item.Stamp = info.ModTime().UTC()
		}
		manifest = append(manifest, item)
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("unable to prepare report manifest: %w", err)
	}
	return writeEntry(arc, ManifestName, time.Now(), data)
}

func writeEntry(arc *zip.Writer, name string, stamp time.Time, data []byte) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: stamp})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func copyFile(arc *zip.Writer, name, path string, stamp time.Time) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: stamp})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

// copyPath stores regular file or every regular file under directory, links
// and other special files are ignored.
func copyPath(arc *zip.Writer, name, path string, info fs.FileInfo) error {
	if info.Mode().IsRegular() {
		return copyFile(arc, name, path, info.ModTime())
	}
	if !info.IsDir() {
		return nil
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		return copyFile(arc, filepath.ToSlash(filepath.Join(name, rel)), p, fi.ModTime())
	})
}
