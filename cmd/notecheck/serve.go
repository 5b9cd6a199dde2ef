package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jtejido/notecheck/config"
	"github.com/jtejido/notecheck/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP detection API",
		Long: `Serve exposes detection over HTTP. Clients create a session, upload an image
and ask for a verdict, or post a single image to /detect.`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}
	cmd.Flags().StringP("addr", "a", "", "Listen address (default from config, :9090)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	if addr == "" {
		addr = config.Config.Server.Addr
	}

	templates, err := loadTemplates(cmd.Context())
	if err != nil {
		return err
	}
	matcher, err := newMatcher()
	if err != nil {
		return err
	}

	srv, err := server.New(templates,
		server.WithThreshold(config.Config.Threshold),
		server.WithCurrency(config.Config.Currency),
		server.WithBodyLimit(config.Config.Server.BodyLimit),
		server.WithSessionTTL(config.Config.Server.SessionTTL),
		server.WithMaxSessions(config.Config.Server.MaxSessions),
		server.WithMatcher(matcher),
		server.WithLogger(log.Logger),
		server.WithAccessLog(log.Logger),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := srv.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	return srv.Listen(addr)
}
