package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ahmednasr/namastebot/internal/logging"
)

func main() {
	logging.Preinit()

	rootCmd := &cobra.Command{
		Use:   "namastebot",
		Short: "A multilingual travel assistant",
		Long: `NamasteBot answers travel questions from an indexed travel guide, asks a
clarifying question when a request is vague, and falls back to live web search
and a general model when the guide has nothing useful.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd(), newChatCmd(), newTranscriptCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}
