package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newInterviewCommand(ctx *commandContext) *cobra.Command {
	interviewCmd := &cobra.Command{
		Use:   "interview",
		Short: "Manage recorded interviews",
	}

	interviewCmd.AddCommand(newInterviewListCommand(ctx))
	interviewCmd.AddCommand(newInterviewShowCommand(ctx))
	interviewCmd.AddCommand(newInterviewRemoveCommand(ctx))
	interviewCmd.AddCommand(newInterviewRemoveAudioCommand(ctx))

	return interviewCmd
}

func newInterviewListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "List a project's interviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.projectService()
			if err != nil {
				return err
			}
			interviews, err := service.ListInterviews(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(interviews) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No interviews yet")
				return nil
			}
			rows := make([][]string, 0, len(interviews))
			for _, iv := range interviews {
				audio := "yes"
				if iv.AudioFileID == "" {
					audio = "no"
				}
				rows = append(rows, []string{iv.ID, iv.Title, iv.DateTime, audio})
			}
			printRows(cmd.OutOrStdout(), []string{"ID", "Title", "Recorded", "Audio"}, rows, nil)
			return nil
		},
	}
}

func newInterviewShowCommand(ctx *commandContext) *cobra.Command {
	var showTranscript bool

	cmd := &cobra.Command{
		Use:   "show <interview-id>",
		Short: "Show one interview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.projectService()
			if err != nil {
				return err
			}
			iv, err := service.GetInterview(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:       %s\n", iv.ID)
			fmt.Fprintf(out, "Project:  %s\n", iv.ProjectID)
			fmt.Fprintf(out, "Title:    %s\n", iv.Title)
			fmt.Fprintf(out, "Recorded: %s\n", iv.DateTime)
			if iv.AudioFileID != "" {
				fmt.Fprintf(out, "Audio:    %s\n", service.AudioURL(iv))
			} else {
				fmt.Fprintln(out, "Audio:    (removed)")
			}
			if showTranscript {
				fmt.Fprintln(out)
				if strings.TrimSpace(iv.Transcript) == "" {
					fmt.Fprintln(out, "(no transcript)")
				} else {
					fmt.Fprintln(out, iv.Transcript)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showTranscript, "transcript", "t", false, "Print the full transcript")
	return cmd
}

func newInterviewRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <interview-id>",
		Short: "Delete an interview and its audio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.projectService()
			if err != nil {
				return err
			}
			iv, err := service.GetInterview(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := service.DeleteInterview(cmd.Context(), iv); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted interview %s\n", iv.ID)
			return nil
		},
	}
}

func newInterviewRemoveAudioCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-audio <interview-id>",
		Short: "Delete an interview's stored audio, keeping the record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.projectService()
			if err != nil {
				return err
			}
			iv, err := service.GetInterview(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := service.DeleteInterviewAudio(cmd.Context(), iv); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted audio for interview %s (transcript kept)\n", iv.ID)
			return nil
		},
	}
}
