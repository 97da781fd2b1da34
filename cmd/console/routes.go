package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/moufette/console/internal/router"
)

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print and validate the page route tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printRoutes(cmd.OutOrStdout())
		},
	}
}

func printRoutes(out io.Writer) error {
	if err := router.RootTable.Validate(); err != nil {
		return fmt.Errorf("root table: %w", err)
	}
	if err := router.ContentTable.Validate(); err != nil {
		return fmt.Errorf("content table: %w", err)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tMATCH\tPATTERN\tACCESS\tPAGE")
	for _, rule := range router.RootTable.Rules() {
		fmt.Fprintf(tw, "root\t%s\t%s\t%s\t%s\n", rule.Kind, pattern(rule.Pattern), rule.Target.Access, rule.Target.Page)
	}
	for _, rule := range router.ContentTable.Rules() {
		fmt.Fprintf(tw, "content\t%s\t%s\t%s\t%s\n", rule.Kind, pattern(rule.Pattern), router.Private, rule.Target)
	}
	return tw.Flush()
}

func pattern(p string) string {
	if p == "" {
		return "*"
	}
	return p
}
