package convert

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/AnyUserName/imgconv/internal/codec"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBatch_Run(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	writeFile(t, filepath.Join(in, "logo.png"), encodePNG(t, fillNRGBA(8, 8, color.NRGBA{R: 255, A: 0})))
	writeFile(t, filepath.Join(in, "photos", "cat.png"), encodePNG(t, fillNRGBA(12, 6, color.NRGBA{G: 255, A: 255})))
	writeFile(t, filepath.Join(in, "broken.gif"), []byte("not really a gif"))
	writeFile(t, filepath.Join(in, "notes.txt"), []byte("ignored"))
	writeFile(t, filepath.Join(in, ".cache", "hidden.png"), encodePNG(t, fillNRGBA(2, 2, color.NRGBA{A: 255})))

	b := NewBatch(newTestConverter(), BatchConfig{
		InputDir:  in,
		OutputDir: out,
		Format:    "jpg",
		Workers:   2,
	}, zaptest.NewLogger(t))

	rep, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rep.Format != "jpeg" {
		t.Errorf("Format = %q", rep.Format)
	}
	if len(rep.Entries) != 2 {
		t.Fatalf("entries = %d, want 2: %+v", len(rep.Entries), rep.Entries)
	}

	logo, ok := rep.Entries["logo"]
	if !ok {
		t.Fatal("missing logo entry")
	}
	if !logo.Flattened || logo.SourceFormat != "png" || logo.Output != "logo.jpeg" {
		t.Errorf("logo entry = %+v", logo)
	}
	if len(logo.Hash) != 16 {
		t.Errorf("hash = %q", logo.Hash)
	}

	cat := rep.Entries["photos/cat"]
	if cat.Width != 12 || cat.Height != 6 || cat.Flattened {
		t.Errorf("cat entry = %+v", cat)
	}
	if _, err := os.Stat(filepath.Join(out, "photos", "cat.jpeg")); err != nil {
		t.Errorf("output missing: %v", err)
	}

	if len(rep.Failures) != 1 {
		t.Fatalf("failures = %+v", rep.Failures)
	}
	if f := rep.Failures[0]; f.Key != "broken" || f.Kind != codec.KindUnrecognizedFormat.String() {
		t.Errorf("failure = %+v", f)
	}

	if rep.Stats.Converted != 2 || rep.Stats.Failed != 1 || rep.Stats.Flattened != 1 {
		t.Errorf("stats = %+v", rep.Stats)
	}
}

func TestBatch_UnsupportedFormat(t *testing.T) {
	b := NewBatch(newTestConverter(), BatchConfig{InputDir: t.TempDir(), OutputDir: t.TempDir(), Format: "xyz"}, nil)
	if _, err := b.Run(context.Background()); codec.KindOf(err) != codec.KindUnsupportedFormat {
		t.Fatalf("err = %v, want UnsupportedFormat", err)
	}
}

func TestBatch_EmptyDir(t *testing.T) {
	b := NewBatch(newTestConverter(), BatchConfig{InputDir: t.TempDir(), OutputDir: t.TempDir(), Format: "png"}, nil)
	if _, err := b.Run(context.Background()); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestBatch_Cancelled(t *testing.T) {
	in := t.TempDir()
	writeFile(t, filepath.Join(in, "a.png"), encodePNG(t, fillNRGBA(2, 2, color.NRGBA{A: 255})))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBatch(newTestConverter(), BatchConfig{InputDir: in, OutputDir: t.TempDir(), Format: "png"}, nil)
	rep, err := b.Run(ctx)
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if rep == nil || len(rep.Failures) != 1 {
		t.Errorf("report = %+v", rep)
	}
}

func TestScanImages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.PNG"), []byte("x"))
	writeFile(t, filepath.Join(dir, "sub", "b.jpg"), []byte("x"))
	writeFile(t, filepath.Join(dir, "c.txt"), []byte("x"))
	writeFile(t, filepath.Join(dir, ".git", "d.png"), []byte("x"))

	sources, err := ScanImages(dir, []string{"png", "jpg"})
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 {
		t.Fatalf("sources = %+v", sources)
	}
	keys := map[string]bool{}
	for _, s := range sources {
		keys[s.Key] = true
	}
	if !keys["a"] || !keys["sub/b"] {
		t.Errorf("keys = %v", keys)
	}
}

func TestBatch_SameStemSources(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(in, "a.png"), encodePNG(t, fillNRGBA(4, 4, color.NRGBA{R: 255, A: 255})))
	gifData, err := os.ReadFile(filepath.Join(in, "a.png"))
	if err != nil {
		t.Fatal(err)
	}
	// PNG bytes behind a .gif name still convert; only the key clashes.
	writeFile(t, filepath.Join(in, "a.gif"), gifData)

	b := NewBatch(newTestConverter(), BatchConfig{InputDir: in, OutputDir: out, Format: "png", Workers: 2}, zaptest.NewLogger(t))
	rep, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(rep.Entries)+len(rep.Failures) != 2 {
		t.Fatalf("a source went missing: entries=%+v failures=%+v", rep.Entries, rep.Failures)
	}
	if rep.Entries["a"].Source != "a.gif" {
		t.Errorf("entry a = %+v, want source a.gif (first in walk order)", rep.Entries["a"])
	}
	if len(rep.Failures) != 1 {
		t.Fatalf("failures = %+v", rep.Failures)
	}
	f := rep.Failures[0]
	if f.Source != "a.png" || !strings.Contains(f.Error, "also produced by") || !strings.Contains(f.Error, "a.gif") {
		t.Errorf("failure = %+v", f)
	}
	if rep.Stats.Converted != 1 || rep.Stats.Failed != 1 {
		t.Errorf("stats = %+v", rep.Stats)
	}
}

func TestBatch_SkipsOutputInsideInput(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(in, "imgconv_out")
	writeFile(t, filepath.Join(in, "a.png"), encodePNG(t, fillNRGBA(2, 2, color.NRGBA{A: 255})))

	cfg := BatchConfig{InputDir: in, OutputDir: out, Format: "png", Workers: 1}
	for run := 1; run <= 2; run++ {
		rep, err := NewBatch(newTestConverter(), cfg, zaptest.NewLogger(t)).Run(context.Background())
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if len(rep.Entries) != 1 || len(rep.Failures) != 0 {
			t.Errorf("run %d: entries=%+v failures=%+v", run, rep.Entries, rep.Failures)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "imgconv_out")); !os.IsNotExist(err) {
		t.Error("earlier output was converted again")
	}
}

func TestScanImages_SkipDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.png"), []byte("x"))
	writeFile(t, filepath.Join(dir, "out", "a.png"), []byte("x"))

	sources, err := ScanImages(dir, []string{"png"}, filepath.Join(dir, "out"))
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 1 || sources[0].Key != "a" {
		t.Errorf("sources = %+v", sources)
	}
}
