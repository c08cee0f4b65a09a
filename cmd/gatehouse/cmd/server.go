package cmd

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/jmcleod/gatehouse/api"
	"github.com/jmcleod/gatehouse/auth"
	"github.com/jmcleod/gatehouse/auth/postgres"
	"github.com/jmcleod/gatehouse/session"
	bboltstorage "github.com/jmcleod/gatehouse/storage/bbolt"
)

var (
	port        int
	dataDir     string
	tlsCert     string
	tlsKey      string
	databaseURL string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the authentication service server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(dataDir, 0o700); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}

		logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
		cfg := api.ConfigFromEnv()

		var hasherOpts []auth.HasherOption
		if pepper := os.Getenv("GATEHOUSE_PEPPER"); pepper != "" {
			hasherOpts = append(hasherOpts, auth.WithPepper([]byte(pepper)))
		}

		var users auth.Repository
		if databaseURL != "" {
			repo, err := postgres.NewRepositoryFromDSN(cmd.Context(), databaseURL)
			if err != nil {
				return fmt.Errorf("failed to open user database: %w", err)
			}
			defer repo.Close()
			users = repo
		} else {
			repo, err := auth.NewBoltRepositoryFromFile(dataDir+"/users.db", nil)
			if err != nil {
				return fmt.Errorf("failed to open user storage: %w", err)
			}
			defer repo.Close()
			users = repo
		}

		svc := auth.NewService(users, auth.WithHasher(auth.NewPasswordHasher(hasherOpts...)))

		strategy, cleanup, err := buildStrategy(svc, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		a := api.New(svc, strategy, cfg, api.WithLogger(logger))

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Mount("/api/v1", a.Router())

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		useTLS := tlsCert != "" && tlsKey != ""
		if useTLS {
			cert, err := tls.LoadX509KeyPair(tlsCert, tlsKey)
			if err != nil {
				return fmt.Errorf("failed to load TLS key pair: %w", err)
			}
			server.TLSConfig = &tls.Config{
				Certificates: []tls.Certificate{cert},
				MinVersion:   tls.VersionTLS12,
			}
		}

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan error, 1)
		go func() {
			var err error
			if useTLS {
				err = server.ListenAndServeTLS("", "")
			} else {
				err = server.ListenAndServe()
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("server failed: %w", err)
				return
			}
			done <- nil
		}()

		fmt.Printf("Starting server on port %d (auth: %s, data: %s)...\n", port, cfg.AuthType, dataDir)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			fmt.Printf("\nReceived %s, shutting down...\n", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

// buildStrategy wires the authentication strategy selected by AUTH_TYPE.
// The returned cleanup closes any storage the strategy opened.
func buildStrategy(svc *auth.Service, cfg api.Config, logger *slog.Logger) (api.Strategy, func() error, error) {
	noop := func() error { return nil }
	switch cfg.AuthType {
	case api.AuthTypeBasic:
		return api.NewBasicStrategy(svc), noop, nil
	case api.AuthTypeSession:
		return api.NewSessionStrategy(svc, session.NewMemoryStore(), cfg.SessionName), noop, nil
	case api.AuthTypeSessionExpiring:
		store := session.NewExpiringStore(cfg.SessionDuration)
		return api.NewSessionStrategy(svc, store, cfg.SessionName), noop, nil
	case api.AuthTypeSessionPersistent:
		records, err := bboltstorage.NewRepositoryFromFile(dataDir+"/sessions.db", nil)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open session storage: %w", err)
		}
		store := session.NewPersistentStore(records, cfg.SessionDuration, logger)
		return api.NewSessionStrategy(svc, store, cfg.SessionName), records.Close, nil
	case api.AuthTypeService:
		return api.NewServiceStrategy(svc, cfg.SessionName), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown auth type %q", cfg.AuthType)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	serverCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Directory for persistent data")
	serverCmd.Flags().StringVar(&tlsCert, "tls-cert", "", "Path to TLS certificate file")
	serverCmd.Flags().StringVar(&tlsKey, "tls-key", "", "Path to TLS key file")
	serverCmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string for user storage")
}
