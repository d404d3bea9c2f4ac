package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/badgeworks/issuebadge/internal/auth"
	"github.com/badgeworks/issuebadge/internal/config"
	githubclient "github.com/badgeworks/issuebadge/internal/github"
	"github.com/badgeworks/issuebadge/internal/logging"
	"github.com/badgeworks/issuebadge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the badge HTTP server",
	Long: `Start the HTTP server exposing the badge detail route:

  /{issues|pulls}/detail/{property}/{user}/{repo}/{number}

When GH_CLIENT_ID and GH_CLIENT_SECRET are configured the OAuth acceptor
routes /github-auth and /github-auth/done are mounted as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			cfg.Server.ListenAddr = listen
		}

		client, err := githubclient.NewClient(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize GitHub client: %w", err)
		}

		r := chi.NewRouter()
		r.Mount("/", server.New(client).Routes())

		if cfg.OAuth.ClientID != "" || cfg.OAuth.ClientSecret != "" {
			if err := config.ValidateOAuthConfig(cfg); err != nil {
				return err
			}
			acceptor := auth.New(cfg, auth.TokenAcceptorFunc(func(token string) {
				// The default deployment has no downstream consumer; the
				// token is acknowledged in the log and dropped.
				logging.Info("received github access token",
					"token", logging.MaskSensitive(token))
			}))
			acceptor.Mount(r)
			logging.Info("oauth acceptor mounted",
				"client_id", cfg.OAuth.ClientID,
				"redirect_base", cfg.Server.BaseURL)
		}

		httpServer := &http.Server{
			Addr:    cfg.Server.ListenAddr,
			Handler: r,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- httpServer.ListenAndServe()
		}()
		logging.Info("listening", "addr", cfg.Server.ListenAddr)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			logging.Info("shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(ctx)
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringP("listen", "l", "", "Listen address (overrides LISTEN_ADDR)")
}
