package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgconv/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP conversion service",
	Long: `Starts an HTTP server exposing:

  POST /api/v1/images/        multipart "file" + "format", returns the converted image
  GET  /api/v1/images/formats readable and writeable formats
  GET  /healthz               liveness probe

Stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().Int("max-upload-mb", 0, "maximum upload size in MB")
	serveCmd.Flags().Bool("uniform-errors", false, "answer every conversion failure with 500")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(newConverter(), cfg.Server, logger)
	return srv.Run(ctx)
}
