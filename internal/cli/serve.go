package cli

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/essayfb/internal/server"
)

var (
	serveAddr  string
	serveDebug bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the feedback HTTP API",
	Long: `Serve starts the HTTP API used by the review UI:
  GET  /healthcheck
  POST /api/segment   {"text": "..."}
  POST /api/feedback  {"text": "..."} or {"sentences": [...]}
  POST /api/summary   {"items": [...]}

Example:
  essayfb serve --addr :8080
  ESSAYFB_CACHE_BACKEND=redis ESSAYFB_CACHE_REDIS_ADDR=localhost:6379 essayfb serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().BoolVar(&serveDebug, "gin-debug", false, "run gin in debug mode")
	addProviderFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	if serveDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	p, logger, cleanup, err := setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("starting essayfb API",
		zap.String("addr", cfg.Server.Addr),
		zap.String("provider", cfg.LLM.Provider),
		zap.String("cache", cfg.Cache.Backend),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout))

	return server.New(p, cfg.Server, logger).ListenAndServe(ctx)
}
