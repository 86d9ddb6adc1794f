package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newNotesCommand(ctx *commandContext) *cobra.Command {
	notesCmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage per-project research notes",
	}

	notesCmd.AddCommand(newNotesShowCommand(ctx))
	notesCmd.AddCommand(newNotesSaveCommand(ctx))
	notesCmd.AddCommand(newNotesUndoCommand(ctx))
	notesCmd.AddCommand(newNotesRemoveCommand(ctx))

	return notesCmd
}

func newNotesShowCommand(ctx *commandContext) *cobra.Command {
	var withHistory bool

	cmd := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Print a project's notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.notesService()
			if err != nil {
				return err
			}
			notes, found, err := service.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !found {
				fmt.Fprintln(out, "No notes yet")
				return nil
			}
			fmt.Fprintf(out, "Last saved %s\n\n%s\n", notes.Timestamp, notes.Content)
			if withHistory {
				fmt.Fprintf(out, "\nHistory (%d revisions):\n", len(notes.History))
				for i, revision := range notes.History {
					fmt.Fprintf(out, "  %d. %s  %s\n", i+1, revision.Timestamp, summarize(revision.Content, 60))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withHistory, "history", false, "List saved revisions")
	return cmd
}

func newNotesSaveCommand(ctx *commandContext) *cobra.Command {
	var message string
	var fromFile string

	cmd := &cobra.Command{
		Use:   "save <project-id>",
		Short: "Save a new revision of the notes",
		Long:  "Reads the content from --message, --file, or standard input, in that order of preference.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := noteContent(cmd.InOrStdin(), message, fromFile)
			if err != nil {
				return err
			}
			service, err := ctx.notesService()
			if err != nil {
				return err
			}
			notes, err := service.Save(cmd.Context(), args[0], content)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved revision %d\n", len(notes.History))
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Note content")
	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "Read note content from a file")
	return cmd
}

func noteContent(stdin io.Reader, message, fromFile string) (string, error) {
	if message != "" {
		return message, nil
	}
	if fromFile != "" {
		raw, err := os.ReadFile(fromFile)
		if err != nil {
			return "", fmt.Errorf("read notes file: %w", err)
		}
		return string(raw), nil
	}
	raw, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	content := strings.TrimRight(string(raw), "\n")
	if content == "" {
		return "", errors.New("no content: pass --message, --file, or pipe text on stdin")
	}
	return content, nil
}

func newNotesUndoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <project-id>",
		Short: "Revert the notes to the previous revision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.notesService()
			if err != nil {
				return err
			}
			notes, undone, err := service.Undo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !undone {
				fmt.Fprintln(out, "Nothing to undo")
				return nil
			}
			fmt.Fprintf(out, "Restored revision from %s\n", notes.Timestamp)
			return nil
		},
	}
}

func newNotesRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <project-id>",
		Short: "Delete the notes and their history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.notesService()
			if err != nil {
				return err
			}
			if err := service.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Notes deleted")
			return nil
		},
	}
}
