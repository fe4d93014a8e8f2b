// Package cmd wires the atlas CLI: the HTTP API server, an interactive
// terminal chat, connectivity checks and configuration management.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "AI assistant for DHS-Atlas business records",
	Long: `Atlas answers natural-language questions about clients, quotations
and service pricing stored in MongoDB. It gives an LLM a fixed set of
data-access tools and round-trips tool results back into the
conversation until a final answer is produced.

Run without arguments to start the interactive terminal chat, or use
'atlas serve' to expose the agent over HTTP for the frontend.`,
	Run: runChat,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
