package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/imgconv/internal/hasher"
)

// Validate checks r against the files under baseDir and returns one
// message per problem found. Entries are visited in key order.
func Validate(r *Report, baseDir string) []string {
	var errs []string

	if r.Version != SupportedReportVersion {
		errs = append(errs, fmt.Sprintf("unsupported report version: %d", r.Version))
	}
	if r.Format == "" {
		errs = append(errs, "missing target format")
	}

	keys := make([]string, 0, len(r.Entries))
	for k := range r.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := map[string]string{}
	for _, key := range keys {
		e := r.Entries[key]
		if e.Width <= 0 || e.Height <= 0 {
			errs = append(errs, fmt.Sprintf("entry %q: invalid dimensions %dx%d", key, e.Width, e.Height))
		}
		if e.Output == "" {
			errs = append(errs, fmt.Sprintf("entry %q: missing output path", key))
			continue
		}
		if other, dup := seen[e.Output]; dup {
			errs = append(errs, fmt.Sprintf("entry %q: output %q also claimed by %q", key, e.Output, other))
		}
		seen[e.Output] = key

		data, err := os.ReadFile(filepath.Join(baseDir, filepath.FromSlash(e.Output)))
		if err != nil {
			errs = append(errs, fmt.Sprintf("entry %q: file not found: %s", key, e.Output))
			continue
		}
		if int64(len(data)) != e.Size {
			errs = append(errs, fmt.Sprintf("entry %q: size mismatch: report=%d, disk=%d", key, e.Size, len(data)))
		}
		if e.Hash != "" && hasher.ContentHash(data, len(e.Hash)) != e.Hash {
			errs = append(errs, fmt.Sprintf("entry %q: hash mismatch", key))
		}
	}

	if r.Stats.Converted != len(r.Entries) {
		errs = append(errs, fmt.Sprintf("stats.converted mismatch: %d != %d", r.Stats.Converted, len(r.Entries)))
	}
	if r.Stats.Failed != len(r.Failures) {
		errs = append(errs, fmt.Sprintf("stats.failed mismatch: %d != %d", r.Stats.Failed, len(r.Failures)))
	}
	return errs
}
