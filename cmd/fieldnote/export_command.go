package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <project-id>",
		Short: "Export a project and its analyses to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exporter, err := ctx.exporter()
			if err != nil {
				return err
			}
			target := strings.TrimSpace(outPath)
			if target == "" {
				target = args[0] + "-export.json"
			}
			bundle, err := exporter.Write(cmd.Context(), args[0], target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %q (%s) to %s\n",
				bundle.Project.Name, pluralize(len(bundle.Interviews), "interview"), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination file (defaults to <project-id>-export.json)")
	return cmd
}
