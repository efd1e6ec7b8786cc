package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	yaml "gopkg.in/yaml.v3"
)

func readReport(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer zr.Close()

	res := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		res[f.Name] = string(data)
	}
	return res
}

func TestReport_StoreAndClose(t *testing.T) {
	tmp := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(tmp, "report.zip")}

	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	single := filepath.Join(tmp, "single.txt")
	if err := os.WriteFile(single, []byte("single"), 0644); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(tmp, "dir")
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "inner.txt"), []byte("inner"), 0644); err != nil {
		t.Fatal(err)
	}

	r.Store("file.txt", single)
	r.Store("tree", dir)
	r.Store("missing", filepath.Join(tmp, "does-not-exist"))
	r.StoreData("config/data.yaml", []byte("version: 1\n"))

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	got := readReport(t, conf.Destination)
	if got["file.txt"] != "single" {
		t.Errorf("file.txt = %q", got["file.txt"])
	}
	if got["tree/sub/inner.txt"] != "inner" {
		t.Errorf("tree/sub/inner.txt = %q", got["tree/sub/inner.txt"])
	}
	if got["config/data.yaml"] != "version: 1\n" {
		t.Errorf("config/data.yaml = %q", got["config/data.yaml"])
	}
	if _, ok := got["missing"]; ok {
		t.Error("absent file must not be archived")
	}

	var manifest []manifestItem
	if err := yaml.Unmarshal([]byte(got[ManifestName]), &manifest); err != nil {
		t.Fatalf("bad manifest: %v", err)
	}
	var names []string
	for _, m := range manifest {
		names = append(names, m.Name)
	}
	// natural order
	if want := []string{"config/data.yaml", "file.txt", "missing", "tree"}; !slices.Equal(names, want) {
		t.Errorf("manifest names = %v, want %v", names, want)
	}
	if manifest[0].Size != len("version: 1\n") || manifest[0].Source != "" {
		t.Errorf("data entry = %+v", manifest[0])
	}
	if manifest[2].Source != filepath.Join(tmp, "does-not-exist") || !manifest[2].Stamp.IsZero() {
		t.Errorf("missing entry = %+v", manifest[2])
	}
}

func TestReport_StorePanicsOnConflict(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("name", "/a")
	r.Store("name", "/a") // same path is fine

	defer func() {
		if recover() == nil {
			t.Error("expected panic when overwriting entry with different path")
		}
	}()
	r.Store("name", "/b")
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("nil Report.Close() error = %v", err)
	}
	if r.Name() != "" {
		t.Errorf("nil Report.Name() = %q", r.Name())
	}
	r.Store("ignored", "/nowhere")
	r.StoreData("ignored", nil)
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Report.Close() with nil file error = %v", err)
	}
}
