package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the fathom-mcp application
var rootCmd = &cobra.Command{
	Use:   "fathom-mcp",
	Short: "MCP server for Fathom meeting recordings",
	Long: `fathom-mcp exposes the Fathom meeting API (meeting search, AI summaries
and transcripts) to AI assistants over the Model Context Protocol.

It can run as:
  - An MCP server over stdio or streamable HTTP (serve)
  - A terminal tool for searching meetings (meetings search)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// globalFlags are shared by every command that talks to Fathom
var globalFlags configFlags

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "fathom-mcp version %s\n" .Version}}`)

	// Without a subcommand fathom-mcp runs as an MCP server on stdio
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	globalFlags.register(rootCmd)

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMeetingsCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
