package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"

	"rpkg/archive"
	"rpkg/config"
	"rpkg/state"
)

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	// few photos are enough and keep placeholder rasterization fast
	cfg.Package.Photos.Count = 2
	cfg.Package.Photos.Width = 320
	cfg.Package.OutputDir = filepath.Join(t.TempDir(), "PKL_Complete_Package")

	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = testLogger(t)
	env.Cfg = cfg
	return ctx, env
}

func archiveNames(t *testing.T, path string) []string {
	t.Helper()
	var names []string
	err := archive.Walk(context.Background(), path, "", func(_ string, f *zip.File) error {
		names = append(names, f.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", path, err)
	}
	return names
}

func TestBuild_Package(t *testing.T) {
	ctx, env := setupTestEnv(t)
	outDir := env.Cfg.Package.OutputDir

	if err := build(ctx, env, env.Log); err != nil {
		t.Fatalf("build() error = %v", err)
	}

	names := archiveNames(t, outDir+".zip")
	for _, want := range []string{
		"Laporan_PKL_Kelvin_LENGKAP.docx",
		"index.html",
		"README.md",
		"images/image_1.jpg",
		"images/image_2.jpg",
		"LICENSE",
		".gitignore",
		"QUICKSTART.md",
		"SETUP.md",
		"CONTRIBUTING.md",
		"deploy.sh",
		".github/workflows/deploy.yml",
	} {
		if !slices.Contains(names, want) {
			t.Errorf("archive has no %s: %v", want, names)
		}
	}

	readme, err := os.ReadFile(filepath.Join(outDir, "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(readme, []byte("(Laporan_PKL_Kelvin_LENGKAP.docx)")) {
		t.Error("readme does not link produced document")
	}
}

func TestBuild_Reproducible(t *testing.T) {
	ctx, env := setupTestEnv(t)
	zipPath := env.Cfg.Package.OutputDir + ".zip"

	if err := build(ctx, env, env.Log); err != nil {
		t.Fatalf("first build() error = %v", err)
	}
	first, err := os.ReadFile(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := build(ctx, env, env.Log); err != nil {
		t.Fatalf("second build() error = %v", err)
	}
	second, err := os.ReadFile(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("package archives differ between runs")
	}
}

func TestBuild_SkippedFormat(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Package.HTML.StylesheetPath = filepath.Join(t.TempDir(), "missing.css")
	env.NoArchive = true

	if err := build(ctx, env, env.Log); err != nil {
		t.Fatalf("build() must not fail on unavailable format: %v", err)
	}
	outDir := env.Cfg.Package.OutputDir
	if _, err := os.Stat(filepath.Join(outDir, "index.html")); !os.IsNotExist(err) {
		t.Error("page written although its backend is unavailable")
	}
	if _, err := os.Stat(filepath.Join(outDir, "README.md")); err != nil {
		t.Errorf("readme missing: %v", err)
	}
	if _, err := os.Stat(outDir + ".zip"); !os.IsNotExist(err) {
		t.Error("archive created although disabled")
	}
}

func TestBuild_SkippedFormatFromConfigFile(t *testing.T) {
	ctx, env := setupTestEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "rpkg.yaml")
	missing := filepath.Join(dir, "missing.css")
	data := "package:\n  html:\n    stylesheet_path: \"" + filepath.ToSlash(missing) + "\"\n"
	if err := os.WriteFile(file, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadConfiguration(file)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Package.HTML.StylesheetPath != missing {
		t.Fatalf("stylesheet path = %q, want %q", cfg.Package.HTML.StylesheetPath, missing)
	}
	cfg.Package.Photos.Count = 2
	cfg.Package.Photos.Width = 320
	cfg.Package.OutputDir = env.Cfg.Package.OutputDir
	env.Cfg = cfg
	env.NoArchive = true

	if err := build(ctx, env, env.Log); err != nil {
		t.Fatalf("build() must not fail on unavailable format: %v", err)
	}
	outDir := env.Cfg.Package.OutputDir
	if _, err := os.Stat(filepath.Join(outDir, "README.md")); err != nil {
		t.Errorf("readme missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "index.html")); !os.IsNotExist(err) {
		t.Error("page written although its stylesheet is missing")
	}
}

func TestBuild_FatalIO(t *testing.T) {
	ctx, env := setupTestEnv(t)
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	env.Cfg.Package.OutputDir = filepath.Join(file, "out")

	if err := build(ctx, env, env.Log); err == nil {
		t.Error("expected error for output directory under regular file")
	}
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:   "build",
		Action: Run,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to"},
			&cli.StringFlag{Name: "photos"},
			&cli.StringFlag{Name: "placeholder"},
			&cli.BoolFlag{Name: "no-archive"},
		},
	}
}

func TestRun(t *testing.T) {
	ctx, env := setupTestEnv(t)
	dst := filepath.Join(t.TempDir(), "custom")

	err := buildCommand().Run(ctx, []string{"build", "--to", "markdown,md", "--no-archive", dst})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if env.Cfg.Package.OutputDir != dst {
		t.Errorf("destination not applied: %q", env.Cfg.Package.OutputDir)
	}
	entries, err := os.ReadDir(dst)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if slices.Contains(names, "index.html") || !slices.Contains(names, "README.md") {
		t.Errorf("unexpected package content %v", names)
	}
	if _, err := os.Stat(dst + ".zip"); !os.IsNotExist(err) {
		t.Error("archive created with --no-archive")
	}
}

func TestRun_BadFormat(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	err := buildCommand().Run(ctx, []string{"build", "--to", "pdf"})
	if err == nil || !strings.Contains(err.Error(), "pdf") {
		t.Errorf("Run() error = %v", err)
	}
}

func TestRun_Placeholder(t *testing.T) {
	ctx, env := setupTestEnv(t)
	err := buildCommand().Run(ctx, []string{"build", "--placeholder", filepath.Join(t.TempDir(), "none.svg")})
	if err == nil {
		t.Fatal("expected error for unreadable placeholder")
	}

	svg := filepath.Join(t.TempDir(), "ph.svg")
	if err := os.WriteFile(svg, []byte(`<svg viewBox="0 0 4 3" xmlns="http://www.w3.org/2000/svg"><rect width="4" height="3" fill="#000"/></svg>`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := buildCommand().Run(ctx, []string{"build", "--no-archive", "--to", "markdown", "--placeholder", svg}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !bytes.Contains(env.Placeholder, []byte(`viewBox="0 0 4 3"`)) {
		t.Error("placeholder not replaced")
	}
	if _, err := os.Stat(filepath.Join(env.Cfg.Package.OutputDir, "images", "image_1.jpg")); err != nil {
		t.Errorf("placeholder photo missing: %v", err)
	}
}

func TestInspect(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Package.Support.Enable = false
	if err := build(ctx, env, env.Log); err != nil {
		t.Fatalf("build() error = %v", err)
	}

	var out bytes.Buffer
	inspect := func() *cli.Command {
		return &cli.Command{
			Name:   "inspect",
			Writer: &out,
			Action: Inspect,
			Flags:  []cli.Flag{&cli.StringFlag{Name: "prefix"}},
		}
	}
	if err := inspect().Run(ctx, []string{"inspect", "--prefix", "images/", env.Cfg.Package.OutputDir + ".zip"}); err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("listed %d entries, want 2:\n%s", len(lines), out.String())
	}
	for i, l := range lines {
		if !strings.HasSuffix(l, "images/image_"+string(rune('1'+i))+".jpg") {
			t.Errorf("entry %d = %q", i, l)
		}
		if !strings.Contains(l, "2025-01-01 00:00:00") {
			t.Errorf("entry %d has unexpected timestamp: %q", i, l)
		}
	}

	if err := inspect().Run(ctx, []string{"inspect"}); err == nil {
		t.Error("expected error without archive")
	}
}
