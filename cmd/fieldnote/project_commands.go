package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Manage research projects",
	}

	projectCmd.AddCommand(newProjectCreateCommand(ctx))
	projectCmd.AddCommand(newProjectListCommand(ctx))
	projectCmd.AddCommand(newProjectRenameCommand(ctx))
	projectCmd.AddCommand(newProjectRemoveCommand(ctx))

	return projectCmd
}

func newProjectCreateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.projectService()
			if err != nil {
				return err
			}
			project, err := service.CreateProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", project.Name, project.ID)
			return nil
		},
	}
}

func newProjectListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.projectService()
			if err != nil {
				return err
			}
			projectList, err := service.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			if len(projectList) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects yet")
				return nil
			}
			rows := make([][]string, 0, len(projectList))
			for _, project := range projectList {
				rows = append(rows, []string{project.ID, project.Name, project.CreatedAt})
			}
			printRows(cmd.OutOrStdout(), []string{"ID", "Name", "Created"}, rows, nil)
			return nil
		},
	}
}

func newProjectRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <project-id> <name>",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.projectService()
			if err != nil {
				return err
			}
			project, err := service.RenameProject(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Project %s is now %q\n", project.ID, project.Name)
			return nil
		},
	}
}

func newProjectRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <project-id>",
		Short: "Delete a project record",
		Long:  "Deletes the project record only. Its interviews, caches, and notes are left in place.",
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
			if err := service.DeleteProject(cmd.Context(), args[0]); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Deleted project %s\n", args[0])
			if len(interviews) > 0 {
				fmt.Fprintf(out, "Note: %s still reference it\n", pluralize(len(interviews), "interview"))
			}
			return nil
		},
	}
}

func pluralize(count int, noun string) string {
	if count == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(count) + " " + noun + "s"
}
