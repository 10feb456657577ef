package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"aiqr-api/credential"
	"aiqr-api/handlers"
	"aiqr-api/integrity"
	"aiqr-api/passkey"
	"aiqr-api/routes"
	"aiqr-api/store"
	"aiqr-api/token"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeDB(db, log)

	tokens, err := token.NewService(token.Secrets{
		Authorizer: cfg.AuthorizerSecret,
		Vendor:     cfg.VendorSecret,
		Consumer:   cfg.ConsumerSecret,
	})
	if err != nil {
		return err
	}

	s := store.NewGormStore(db)
	h := &handlers.Handler{
		Store:           s,
		Tokens:          tokens,
		Hasher:          credential.NewHasher(cfg.BcryptCost),
		Passkeys:        passkey.New(s, log),
		Integrity:       integrity.New(s, log),
		Log:             log,
		AllowedContacts: cfg.AllowedContacts,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(h, tokens, log, cfg.CORSOrigin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.SweepInterval > 0 {
		g.Go(func() error {
			integrity.NewSweeper(s, log, cfg.SweepMinAge).Run(ctx, cfg.SweepInterval)
			return nil
		})
	}
	return g.Wait()
}
