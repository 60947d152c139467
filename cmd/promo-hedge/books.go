package main

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newBooksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "books",
		Short: "List the known bookmakers",
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Key", "Name")
			for _, b := range registry.All() {
				table.Append(b.Key, b.Title)
			}
			return table.Render()
		},
	}
}
