package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"xmlsearch/internal/logging"
	"xmlsearch/internal/server"
	"xmlsearch/internal/util"
	"xmlsearch/internal/version"
)

type serveOptions struct {
	port      int
	devMode   bool
	noBrowser bool
}

func newServeCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.port, "port", 0, "listen port (only applies when config.toml does not set one)")
	f.BoolVar(&opts.devMode, "dev", false, "development mode")
	f.BoolVar(&opts.noBrowser, "no-browser", false, "do not open a browser on start")

	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	rt := runtimeFrom(cmd.Context())
	cfg := rt.cfg
	logger := logging.FromContext(cmd.Context())

	// 命令行参数覆盖配置
	if opts.port > 0 && !rt.info.PortSpecified {
		cfg.Server.Port = opts.port
	}
	if opts.devMode {
		cfg.Server.DevMode = true
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(cfg, logger, version.GetInfo().Version)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	if cfg.Server.OpenBrowser && !cfg.Server.DevMode && !opts.noBrowser {
		go func() {
			if err := util.OpenBrowser(url); err != nil {
				logger.Warn("could not open browser", slog.String("url", url), slog.Any("error", err))
			}
		}()
	}

	if err := srv.Run(ctx, addr); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
