// Package logging configures the process-wide slog handler.
package logging

import (
	"context"
	"log/slog"
	"os"

	"github.com/phsym/console-slog"
	slogmulti "github.com/samber/slog-multi"
	slogtelegram "github.com/samber/slog-telegram/v2"

	"github.com/ahmednasr/namastebot/internal/config"
)

// AlertKey forces a record to the Telegram sink regardless of level.
const AlertKey = "telegram"

// Preinit installs a console logger so config loading can log.
func Preinit() {
	slog.SetDefault(slog.New(consoleHandler()))
}

// Init routes records to the console and, when a Telegram token is set,
// sends errors and flagged records to the configured chat.
func Init(cfg config.Config) error {
	router := slogmulti.Router().Add(consoleHandler())

	if cfg.TelegramToken != "" {
		router = router.Add(
			slogtelegram.Option{
				Level:     slog.LevelDebug,
				Token:     cfg.TelegramToken,
				Username:  cfg.TelegramChatID,
				AddSource: true,
			}.NewTelegramHandler(),
			shouldAlert,
		)
	}

	slog.SetDefault(slog.New(router.Handler()))

	return nil
}

func consoleHandler() slog.Handler {
	return console.NewHandler(os.Stderr, &console.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	})
}

func shouldAlert(_ context.Context, r slog.Record) bool {
	if r.Level >= slog.LevelError {
		return true
	}

	flagged := false
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == AlertKey {
			flagged = true
			return false
		}
		return true
	})

	return flagged
}
