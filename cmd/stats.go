package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgconv/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_report>",
	Short: "Display statistics for a batch output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	path, err := reportPath(args[0])
	if err != nil {
		return err
	}
	r, err := report.ReadJSON(path)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	r.ComputeStats()
	printStats(r)
	return nil
}

// reportPath accepts either a report file or the directory holding one.
func reportPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, report.FileName)
	}
	return path, nil
}

func printStats(r *report.Report) {
	fmt.Println()
	fmt.Printf("  Report version: %d\n", r.Version)
	fmt.Printf("  Generated:      %s\n", r.GeneratedAt)
	fmt.Printf("  Target format:  %s\n", r.Format)
	fmt.Println()

	s := r.Stats
	fmt.Printf("  Converted:      %d\n", s.Converted)
	fmt.Printf("  Failed:         %d\n", s.Failed)
	fmt.Printf("  Flattened:      %d\n", s.Flattened)
	fmt.Printf("  Input size:     %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:    %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Printf("  Compression:    %.1f%% of original\n", ratio)
	}
	fmt.Println()

	// Per source format breakdown.
	type fmtStat struct {
		count int
		bytes int64
	}
	bySource := map[string]fmtStat{}
	for _, e := range r.Entries {
		fs := bySource[e.SourceFormat]
		fs.count++
		fs.bytes += e.SourceSize
		bySource[e.SourceFormat] = fs
	}
	names := make([]string, 0, len(bySource))
	for f := range bySource {
		names = append(names, f)
	}
	sort.Strings(names)
	fmt.Println("  Source formats:")
	for _, f := range names {
		fs := bySource[f]
		fmt.Printf("    %-6s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
	}
	fmt.Println()

	// Failure kinds.
	if len(r.Failures) > 0 {
		byKind := map[string]int{}
		for _, f := range r.Failures {
			byKind[f.Kind]++
		}
		kinds := make([]string, 0, len(byKind))
		for k := range byKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		fmt.Println("  Failure kinds:")
		for _, k := range kinds {
			fmt.Printf("    %-20s %4d\n", k, byKind[k])
		}
		fmt.Println()
	}
}
