package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fentz26/crewmux/internal/config"
	"github.com/fentz26/crewmux/internal/logging"
)

// version is set via -ldflags at release time.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "crewmux",
	Short: "crewmux - MCP sub-agent multiplexer",
	Long: `crewmux turns the flat tool catalog of multiple upstream MCP servers into a
small set of named sub-agents, each owning a coherent subset of tools, and
re-exposes those sub-agents as a new MCP server.`,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	configPath string
	debugMode  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.crewmux/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")

	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the crewmux version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

// loadConfig resolves the configuration from --config or the home default.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadFromHome()
}

func newLogger() (*zap.Logger, error) {
	return logging.New(debugMode)
}

func main() {
	// API keys may live in a local .env during development.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
