package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/spf13/cobra"

	"github.com/ahmednasr/namastebot/internal/session"
)

func newChatCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			di, err := newInjector(cmd.Context())
			if err != nil {
				return err
			}
			defer di.Shutdown()

			registry, err := do.Invoke[*session.Registry](di)
			if err != nil {
				return err
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Namaste! Ask me anything about your trip. Type 'exit' to quit.")

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					return scanner.Err()
				}

				text := strings.TrimSpace(scanner.Text())
				switch text {
				case "":
					continue
				case "exit", "quit":
					return nil
				}

				reply, err := registry.Handle(cmd.Context(), sessionID, text)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, reply)
			}
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session id (random when empty)")
	return cmd
}
