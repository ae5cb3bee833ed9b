package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var formatsJSON bool

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List readable and writeable formats",
	Args:  cobra.NoArgs,
	RunE:  runFormats,
}

func init() {
	formatsCmd.Flags().BoolVar(&formatsJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(_ *cobra.Command, _ []string) error {
	conv := newConverter()
	readable, writeable := conv.ReadableFormats(), conv.WriteableFormats()

	if formatsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string][]string{
			"readable":  readable,
			"writeable": writeable,
		})
	}

	fmt.Printf("  Readable:  %s\n", joinOrNone(readable))
	fmt.Printf("  Writeable: %s\n", joinOrNone(writeable))
	return nil
}

func joinOrNone(list []string) string {
	if len(list) == 0 {
		return "none"
	}
	return strings.Join(list, ", ")
}
