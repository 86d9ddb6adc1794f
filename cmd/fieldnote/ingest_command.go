package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fieldnote/internal/ingest"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var projectID string
	var title string

	cmd := &cobra.Command{
		Use:   "ingest <audio-file>",
		Short: "Upload an interview recording and transcribe it",
		Long: `Uploads the recording to storage, submits it for transcription, waits
for the transcript, and creates the interview record. When transcription
fails the record is still created with an empty transcript.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectID) == "" || strings.TrimSpace(title) == "" {
				return errors.New("both --project and --title are required")
			}
			pipeline, err := ctx.ingestPipeline()
			if err != nil {
				return err
			}
			result, err := pipeline.Run(cmd.Context(), ingest.Request{
				ProjectID: projectID,
				Title:     title,
				AudioPath: args[0],
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created interview %s\n", result.Interview.ID)
			if result.TranscriptionErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: transcription failed: %v\n", result.TranscriptionErr)
				fmt.Fprintln(out, "The interview was saved without a transcript.")
				return nil
			}
			fmt.Fprintf(out, "Transcript: %s\n", summarize(result.Interview.Transcript, 120))
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectID, "project", "p", "", "Project the interview belongs to")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Interview title")
	return cmd
}

func summarize(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + "..."
}
