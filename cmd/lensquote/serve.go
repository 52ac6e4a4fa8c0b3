package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/lensquote/internal/auth"
	"github.com/rgehrsitz/lensquote/internal/config"
	"github.com/rgehrsitz/lensquote/internal/datasource"
	"github.com/rgehrsitz/lensquote/internal/logging"
	"github.com/rgehrsitz/lensquote/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sheet proxy and the quoting session API",
		Long: `Serve /api/sheets (the spreadsheet proxy) and /api/sessions (authenticated
quoting sessions). Requires LENSQUOTE_TOKEN_SECRET and LENSQUOTE_ALLOWED_EMAILS.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.ValidateServer(); err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				return runServer(cmd.Context(), cfg, addr)
			}
			return runServer(cmd.Context(), cfg, fmt.Sprintf(":%d", cfg.Port))
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default :PORT)")
	return cmd
}

// runServer wires the gate, the upstream sheet source and the session loader,
// then serves until interrupted.
func runServer(ctx context.Context, cfg *config.AppConfig, addr string) error {
	logger := logging.NewStdLogger(os.Stderr, "lensquote ", cfg.Debug)

	verifier, err := auth.NewTokenVerifier(cfg.TokenSecret)
	if err != nil {
		return err
	}
	gate := &auth.Gate{Verifier: verifier, Allow: auth.NewAllowList(cfg.AllowedEmails...)}

	src, closeSrc, err := cfg.BuildSource(ctx, logger)
	if err != nil {
		return err
	}
	defer closeSrc()

	// /api/sheets always reads the sheet directly and needs both the ID and the key
	var upstream datasource.Source
	if cfg.SheetID != "" && cfg.APIKey != "" {
		g := datasource.NewGvizClient(cfg.SheetID, cfg.APIKey)
		g.Logger = logger
		upstream = g
	} else {
		logger.Warnf("SHEET_ID or GOOGLE_API_KEY not set; /api/sheets will answer 500")
	}

	srv := server.New(gate, upstream, datasource.NewLoader(src, logger), logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, addr)
}
