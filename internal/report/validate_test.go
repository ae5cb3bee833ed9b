package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/imgconv/internal/hasher"
)

func validFixture(t *testing.T) (*Report, string) {
	t.Helper()
	dir := t.TempDir()
	data := []byte("converted bytes")
	if err := os.MkdirAll(filepath.Join(dir, "icons"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "icons", "a.png"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	r := New("png")
	r.Entries["icons/a"] = Entry{
		Source: "icons/a.gif", SourceFormat: "gif", Width: 4, Height: 4,
		Output: "icons/a.png", Size: int64(len(data)), Hash: hasher.ContentHash(data, 16),
	}
	r.ComputeStats()
	return r, dir
}

func TestValidate_OK(t *testing.T) {
	r, dir := validFixture(t)
	if errs := Validate(r, dir); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Report, dir string)
		want   string
	}{
		{"version", func(r *Report, _ string) { r.Version = 9 }, "unsupported report version"},
		{"missing file", func(r *Report, dir string) {
			os.Remove(filepath.Join(dir, "icons", "a.png"))
		}, "file not found"},
		{"size", func(r *Report, _ string) {
			e := r.Entries["icons/a"]
			e.Size++
			r.Entries["icons/a"] = e
		}, "size mismatch"},
		{"hash", func(r *Report, _ string) {
			e := r.Entries["icons/a"]
			e.Hash = "0000000000000000"
			r.Entries["icons/a"] = e
		}, "hash mismatch"},
		{"dimensions", func(r *Report, _ string) {
			e := r.Entries["icons/a"]
			e.Width = 0
			r.Entries["icons/a"] = e
		}, "invalid dimensions"},
		{"duplicate output", func(r *Report, _ string) {
			r.Entries["icons/b"] = r.Entries["icons/a"]
			r.ComputeStats()
		}, "also claimed by"},
		{"stats", func(r *Report, _ string) { r.Stats.Failed = 3 }, "stats.failed mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, dir := validFixture(t)
			tt.mutate(r, dir)
			errs := Validate(r, dir)
			if !containsSubstr(errs, tt.want) {
				t.Errorf("errors %v do not mention %q", errs, tt.want)
			}
		})
	}
}

func TestReadJSON(t *testing.T) {
	r, dir := validFixture(t)
	path := filepath.Join(dir, FileName)
	if err := WriteJSON(r, path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Entries["icons/a"].Hash != r.Entries["icons/a"].Hash {
		t.Errorf("entry mismatch: %+v", got.Entries)
	}
	if _, err := ReadJSON(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func containsSubstr(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
