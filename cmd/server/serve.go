package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
	"github.com/spf13/cobra"

	"github.com/ahmednasr/namastebot/internal/config"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP chat API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			di, err := newInjector(ctx)
			if err != nil {
				return err
			}
			defer func() {
				slog.Info("Waiting for services to finish...")
				if err := di.Shutdown(); err != nil {
					slog.Error("Shutdown failed", "error", err)
				}
			}()

			cfg := do.MustInvoke[*config.Config](di)
			app, err := do.Invoke[*fiber.App](di)
			if err != nil {
				return err
			}

			go func() {
				<-ctx.Done()
				slog.Info("Shutting down...")
				_ = app.ShutdownWithContext(context.Background())
			}()

			slog.Info("Server starting", "port", cfg.Port)
			return app.Listen(":" + cfg.Port)
		},
	}
}
