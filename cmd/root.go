package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AnyUserName/imgconv/internal/codec"
	"github.com/AnyUserName/imgconv/internal/config"
	"github.com/AnyUserName/imgconv/internal/convert"
	"github.com/AnyUserName/imgconv/internal/logging"
)

var (
	version = "0.1.0"
	verbose bool
	cfgFile string

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "imgconv",
	Short: "Convert untrusted images between formats",
	Long: `imgconv detects an image's format from its bytes, decodes it,
strips any transparency onto a black background and re-encodes it
in the requested format.

Run it as an HTTP service (serve), on single files (convert), or
across a directory tree (batch).`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { _ = logger.Sync() },
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ./imgconv.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: console or json")
	pf.IntP("quality", "q", 0, "encoder quality 1-100 for lossy formats")
	pf.Bool("auto-orient", false, "apply EXIF orientation to JPEG input")

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"imgconv %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// setup loads configuration and builds the logger before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if verbose {
		c.Log.Level = "debug"
	}
	l, err := logging.New(c.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	cfg, logger = c, l
	return nil
}

// newConverter builds a converter from the loaded configuration.
func newConverter() *convert.Converter {
	reg := codec.NewRegistry(
		codec.WithJPEGAutoOrientation(cfg.Convert.AutoOrient),
		codec.WithExternalEncoders(cfg.Convert.ExternalEncoders),
	)
	logger.Debug("codecs ready", zap.Stringer("registry", reg))
	return convert.New(reg,
		convert.WithQuality(cfg.Convert.Quality),
		convert.WithLogger(logger),
	)
}
