package main

import (
	"errors"
	"fmt"

	"github.com/samber/do"
	"github.com/spf13/cobra"

	"github.com/ahmednasr/namastebot/internal/repository"
)

func newTranscriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transcript <session-id>",
		Short: "Print the archived transcript of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			di, err := newInjector(cmd.Context())
			if err != nil {
				return err
			}
			defer di.Shutdown()

			transcripts, err := do.Invoke[*repository.TranscriptRepository](di)
			if err != nil {
				return err
			}

			t, err := transcripts.Find(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(t.Turns) == 0 {
				return errors.New("no transcript for session " + args[0])
			}

			out := cmd.OutOrStdout()
			for _, turn := range t.Turns {
				fmt.Fprintf(out, "[%s] %s: %s\n", turn.At.Format("2006-01-02 15:04:05"), turn.Speaker, turn.Text)
			}
			return nil
		},
	}
}
