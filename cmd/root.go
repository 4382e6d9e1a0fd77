// Package cmd implements the CLI commands for cardpipe using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cardpipe",
	Short: "cardpipe — Flesh and Blood card search as MCP tools",
	Long: `cardpipe adapts the fabtcg.com card database into a small set of MCP
tool calls: search cards, list printings, and extract localized card
details from the site's HTML pages.

Usage:
  cardpipe serve [flags]`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
