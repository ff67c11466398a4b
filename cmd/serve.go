package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KaramelBytes/sheetlens/internal/server"
	"github.com/spf13/cobra"
)

var (
	srvAddr        string
	srvUploadDir   string
	srvMaxUploadMB int
	srvCORSOrigin  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload-and-analyze HTTP service",
	Long: `Starts an HTTP server exposing:
  GET  /api/health   liveness probe
  POST /api/upload   multipart field "file" (.csv, .xlsx, .xls); responds with the analysis as JSON`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		opt, err := analysisOptions("", 0)
		if err != nil {
			return err
		}
		sc := server.Config{
			Addr:            c.ListenAddr,
			UploadDir:       c.UploadDir,
			MaxUploadBytes:  c.MaxUploadBytes,
			CORSOrigin:      c.CORSOrigin,
			ShutdownTimeout: time.Duration(c.ShutdownTimeoutSec) * time.Second,
			Options:         opt,
			Logger:          newLogger(),
		}
		if srvAddr != "" {
			sc.Addr = srvAddr
		}
		if srvUploadDir != "" {
			sc.UploadDir = srvUploadDir
		}
		if srvMaxUploadMB > 0 {
			sc.MaxUploadBytes = int64(srvMaxUploadMB) << 20
		}
		if cmd.Flags().Changed("cors-origin") {
			sc.CORSOrigin = srvCORSOrigin
		}
		if err := os.MkdirAll(sc.UploadDir, 0o700); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.New(sc).Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().StringVar(&srvUploadDir, "upload-dir", "", "root directory for per-request scratch space")
	serveCmd.Flags().IntVar(&srvMaxUploadMB, "max-upload-mb", 0, "maximum upload size in MiB (default 10)")
	serveCmd.Flags().StringVar(&srvCORSOrigin, "cors-origin", "*", "Access-Control-Allow-Origin value; empty disables CORS headers")
}
