package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AnyUserName/imgconv/internal/codec"
)

var convertFormat string

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert a single image",
	Long: `Converts one image. The target format defaults to the output file's
extension. Use "-" for stdin or stdout; writing to stdout requires --format.

The output file is only created when the conversion succeeds.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "target format (default: output extension)")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(_ *cobra.Command, args []string) error {
	in, out := args[0], args[1]

	format := convertFormat
	if format == "" && out != "-" {
		format = strings.TrimPrefix(filepath.Ext(out), ".")
	}
	if format == "" {
		return errors.New("cannot infer target format; pass --format")
	}

	var r io.Reader = os.Stdin
	if in != "-" {
		f, err := os.Open(in)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	var buf bytes.Buffer
	res, err := newConverter().Do(r, &buf, format)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	if out == "-" {
		if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
			return codec.NewWriteFailure(res.TargetFormat, err)
		}
	} else if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return codec.NewWriteFailure(res.TargetFormat, err)
	}

	logger.Info("converted",
		zap.String("input", in),
		zap.String("output", out),
		zap.String("from", res.SourceFormat),
		zap.String("to", res.TargetFormat),
		zap.Int("width", res.Width),
		zap.Int("height", res.Height),
		zap.Bool("flattened", res.Flattened),
		zap.Int("bytes", res.Bytes),
	)
	return nil
}
