package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archsketch/engine/catalog"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the built-in spec templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, t := range catalog.Default().All() {
			g := t.Graph()
			fmt.Printf("%-18s %s %s\n",
				t.ID,
				t.Name,
				dimStyle.Render(fmt.Sprintf("(%d nodes, %d connections)", len(g.Nodes), len(g.Connections))))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
