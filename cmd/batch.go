package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgconv/internal/convert"
	"github.com/AnyUserName/imgconv/internal/report"
)

var (
	batchOutDir  string
	batchFormat  string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Convert every image in a directory tree",
	Long: `Scans the input directory for files with a readable extension and
converts each one to --format, mirroring the directory layout under --out.

Formats are detected from content, so a mislabelled file still converts.
A report (` + report.FileName + `) listing every output and failure is
written to the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "./imgconv_out", "output directory")
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", "", "target format")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	_ = batchCmd.MarkFlagRequired("format")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	start := time.Now()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(batchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := convert.NewBatch(newConverter(), convert.BatchConfig{
		InputDir:  absInput,
		OutputDir: absOutput,
		Format:    batchFormat,
		Workers:   batchWorkers,
	}, logger)

	rep, runErr := b.Run(ctx)
	if rep == nil {
		return runErr
	}

	reportPath := filepath.Join(absOutput, report.FileName)
	if err := report.WriteJSON(rep, reportPath); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	printBatchReport(rep, reportPath, time.Since(start))
	return runErr
}

func printBatchReport(r *report.Report, path string, elapsed time.Duration) {
	s := r.Stats
	ratio := float64(0)
	if s.TotalInputBytes > 0 {
		ratio = float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
	}

	fmt.Println()
	fmt.Printf("  Target:      %s\n", r.Format)
	fmt.Printf("  Converted:   %d\n", s.Converted)
	if s.Flattened > 0 {
		fmt.Printf("  Flattened:   %d (alpha removed)\n", s.Flattened)
	}
	fmt.Printf("  Failed:      %d\n", s.Failed)
	fmt.Printf("  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Printf("  Ratio:       %.1f%% of original\n", ratio)
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("  Workers:     %d\n", r.Workers)
	fmt.Println()

	if len(r.Entries) > 0 {
		type entrySize struct {
			key        string
			inputSize  int64
			outputSize int64
		}
		items := make([]entrySize, 0, len(r.Entries))
		for key, e := range r.Entries {
			items = append(items, entrySize{key, e.SourceSize, e.Size})
		}
		sort.Slice(items, func(i, j int) bool {
			if items[i].inputSize != items[j].inputSize {
				return items[i].inputSize > items[j].inputSize
			}
			return items[i].key < items[j].key
		})
		n := min(len(items), 10)
		fmt.Printf("  Top %d heaviest (original -> converted):\n", n)
		for _, it := range items[:n] {
			fmt.Printf("    %-40s %8s -> %8s\n",
				truncKey(it.key, 40),
				formatBytes(it.inputSize),
				formatBytes(it.outputSize),
			)
		}
		fmt.Println()
	}

	if len(r.Failures) > 0 {
		fmt.Printf("  Failures (%d):\n", len(r.Failures))
		for _, f := range r.Failures {
			fmt.Printf("    %-40s %s: %s\n", truncKey(f.Source, 40), f.Kind, f.Error)
		}
		fmt.Println()
	}

	fmt.Printf("  Report:      %s\n", path)
	fmt.Println()
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
