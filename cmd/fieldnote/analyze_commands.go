package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fieldnote/internal/analysis"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run analyses over a project's transcripts",
	}

	analyzeCmd.AddCommand(newAnalyzeThemesCommand(ctx))
	analyzeCmd.AddCommand(newAnalyzeKeywordsCommand(ctx))
	analyzeCmd.AddCommand(newAnalyzeContextCommand(ctx))

	return analyzeCmd
}

func newAnalyzeThemesCommand(ctx *commandContext) *cobra.Command {
	var refresh bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "themes <project-id>",
		Short: "Identify recurring themes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := ctx.analyzer()
			if err != nil {
				return err
			}
			result, err := analyzer.Themes(cmd.Context(), args[0], refresh)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printThemes(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Recompute instead of serving the cache")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw result as JSON")
	return cmd
}

func newAnalyzeKeywordsCommand(ctx *commandContext) *cobra.Command {
	var refresh bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "keywords <project-id>",
		Short: "Extract categorized keywords",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := ctx.analyzer()
			if err != nil {
				return err
			}
			result, err := analyzer.Keywords(cmd.Context(), args[0], refresh)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printKeywords(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Recompute instead of serving the cache")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw result as JSON")
	return cmd
}

func newAnalyzeContextCommand(ctx *commandContext) *cobra.Command {
	var refresh bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "context <project-id>",
		Short: "Fetch external context for the project's themes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireSearchKey(); err != nil {
				return err
			}
			analyzer, err := ctx.analyzer()
			if err != nil {
				return err
			}
			result, err := analyzer.Context(cmd.Context(), args[0], refresh)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printContext(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refetch instead of serving the cache")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw result as JSON")
	return cmd
}

func printThemes(out io.Writer, result analysis.ThemesResult) {
	fmt.Fprintf(out, "Themes (analyzed %s)\n", result.LastAnalysis)
	for _, theme := range result.Themes {
		fmt.Fprintf(out, "\n%s\n", theme.Theme)
		for _, point := range theme.Subpoints {
			fmt.Fprintf(out, "  - %s\n", point)
		}
	}
}

func printKeywords(out io.Writer, result analysis.KeywordsResult) {
	fmt.Fprintf(out, "Keywords (analyzed %s)\n", result.LastAnalysis)
	for _, category := range result.Keywords {
		fmt.Fprintf(out, "\n%s\n", category.Category)
		for _, keyword := range category.Keywords {
			fmt.Fprintf(out, "  %s: %s\n", keyword.Term, keyword.Description)
			if keyword.Quote != "" {
				fmt.Fprintf(out, "    %q\n", keyword.Quote)
			}
		}
	}
}

func printContext(out io.Writer, result analysis.ContextResult) {
	fmt.Fprintf(out, "Theme context (fetched %s)\n", result.LastFetch)
	for _, entry := range result.Data {
		fmt.Fprintf(out, "\n%s\n  %s\n", entry.Theme, entry.Context)
	}
}
