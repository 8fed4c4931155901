package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/screensync/internal/config"
	"github.com/iudanet/screensync/internal/logging"
	"github.com/iudanet/screensync/internal/server"
	"github.com/iudanet/screensync/internal/server/jwt"
	"github.com/iudanet/screensync/internal/server/middleware"
	"github.com/iudanet/screensync/internal/server/storage/sqlite"
	"github.com/iudanet/screensync/internal/validation"
	"github.com/iudanet/screensync/pkg/api"
)

// rootFlags флаги, общие для всех команд syncd
type rootFlags struct {
	loader  *config.Loader
	cfgFile string
}

func newRootCommand(out io.Writer) *cobra.Command {
	f := &rootFlags{loader: config.NewLoader()}

	root := &cobra.Command{
		Use:           "syncd",
		Short:         "screensync backend server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&f.cfgFile, "config", "", "config file (yaml, toml or json)")
	flags.String("db", "", "path to the SQLite database")
	flags.String("jwt-secret", "", "HMAC secret for access tokens, at least 16 bytes")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")

	for key, name := range map[string]string{
		"server.db_path":    "db",
		"server.jwt_secret": "jwt-secret",
		"logging.level":     "log-level",
		"logging.format":    "log-format",
	} {
		if err := f.loader.BindFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(
		f.serveCommand(),
		f.tokenCommand(),
		versionCommand(),
	)
	return root
}

func (f *rootFlags) load() (*config.Config, *slog.Logger, error) {
	cfg, err := f.loader.Load(f.cfgFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func (f *rootFlags) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := f.load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().String("addr", "", "listen address, e.g. :8080")
	if err := f.loader.BindFlag("server.addr", cmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Starting syncd",
		"version", Version,
		"build_date", BuildDate,
		"git_commit", GitCommit)

	tokens, err := jwt.NewService(cfg.Server.JWTSecret, cfg.Server.TokenTTL)
	if err != nil {
		return err
	}

	store, err := sqlite.New(ctx, cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage", "error", err)
		}
	}()

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow, logger)
	go limiter.Run(ctx)

	handler := server.NewRouter(server.RouterConfig{
		Logger:      logger,
		Store:       store,
		Tokens:      tokens,
		Limiter:     limiter,
		Version:     Version,
		Parallelism: cfg.Server.BatchParallelism,
	})

	srv := server.New(cfg.Server.Addr, handler, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, logger)
	if err := srv.Run(ctx); err != nil {
		return err
	}
	logger.Info("syncd stopped")
	return nil
}

func (f *rootFlags) tokenCommand() *cobra.Command {
	var (
		subject string
		scopes  []string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a device",
		Example: `  syncd token --subject kiosk_01
  syncd token --subject dashboard --scopes read --ttl 720h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := f.load()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.Server.TokenTTL
			}
			resp, err := issueToken(cfg.Server.JWTSecret, ttl, subject, scopes)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "device or user the token is issued to")
	cmd.Flags().StringSliceVar(&scopes, "scopes", []string{jwt.ScopeRead, jwt.ScopeWrite}, "granted scopes")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, defaults to server.token_ttl")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func issueToken(secret string, ttl time.Duration, subject string, scopes []string) (*api.TokenResponse, error) {
	if err := validation.ValidateSubject(subject); err != nil {
		return nil, err
	}
	if len(scopes) == 0 {
		return nil, errors.New("at least one scope is required")
	}
	for _, s := range scopes {
		if s != jwt.ScopeRead && s != jwt.ScopeWrite {
			return nil, fmt.Errorf("unknown scope %q: use %s or %s", s, jwt.ScopeRead, jwt.ScopeWrite)
		}
	}

	tokens, err := jwt.NewService(secret, ttl)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := tokens.Issue(subject, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &api.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Subject:     subject,
		Scopes:      scopes,
	}, nil
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "syncd\n")
			fmt.Fprintf(out, "Version:    %s\n", Version)
			fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
			fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
		},
	}
}
