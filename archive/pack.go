package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	fixzip "github.com/hidez8891/zip"
	"github.com/maruel/natural"
	"go.uber.org/multierr"
)

// Timestamp returns modification time stamped on archive entries produced
// for content dated by year. Zip can not represent years before 1980.
func Timestamp(year int) time.Time {
	return time.Date(max(year, 1980), time.January, 1, 0, 0, 0, 0, time.UTC)
}

// Pack zips every regular file under dir into dst. Entries use slash
// separated paths relative to dir, come in natural order and carry modified
// time, so identical trees produce identical archives. Executable files are
// stored with 0755 permissions, the rest with 0644. dst itself is skipped
// when it is located under dir.
func Pack(ctx context.Context, dir, dst string, modified time.Time, fix bool) (err error) {
	names, err := listFiles(dir, dst)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := addFile(zw, dir, name, modified); err != nil {
			return fmt.Errorf("unable to add %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("unable to close archive: %w", err)
	}

	data := buf.Bytes()
	if fix {
		if data, err = StripDataDescriptors(data); err != nil {
			return err
		}
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("unable to create archive: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("unable to write archive: %w", err)
	}
	return nil
}

func listFiles(dir, skip string) ([]string, error) {
	skipAbs, _ := filepath.Abs(skip)

	var names []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if abs, _ := filepath.Abs(path); abs == skipAbs {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list %s: %w", dir, err)
	}
	sort.Sort(natural.StringSlice(names))
	return names, nil
}

func addFile(zw *zip.Writer, dir, name string, modified time.Time) (err error) {
	f, err := os.Open(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified}
	// only executable bit is carried over
	if info.Mode().Perm()&0111 != 0 {
		hdr.SetMode(0755)
	} else {
		hdr.SetMode(0644)
	}
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

// StripDataDescriptors rewrites archive clearing data descriptor flag on
// every entry, some readers choke on them.
func StripDataDescriptors(data []byte) ([]byte, error) {
	r, err := fixzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("unable to read archive: %w", err)
	}

	var out bytes.Buffer
	w := fixzip.NewWriter(&out)
	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		// copy zip entry
		if err := w.CopyFile(file); err != nil {
			return nil, fmt.Errorf("unable to copy archive entry (%s): %w", file.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("unable to close archive: %w", err)
	}
	return out.Bytes(), nil
}
