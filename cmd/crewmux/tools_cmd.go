package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fentz26/crewmux/internal/discovery"
)

var toolsCatalogOut string

func init() {
	toolsCmd.Flags().StringVar(&toolsCatalogOut, "save", "", "also write the catalog to a JSON file")
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List every tool exposed by the configured upstream MCP servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		mgr := discovery.NewManager(cfg.Servers, logger)
		tools, err := mgr.DiscoverAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("discovering tools: %w", err)
		}

		for _, t := range tools {
			fmt.Printf("%-40s %s\n", t.Key(), t.Description)
		}
		fmt.Printf("\n%d tools from %d servers\n", len(tools), len(cfg.Servers))

		if toolsCatalogOut != "" {
			if err := discovery.SaveCatalog(toolsCatalogOut, tools); err != nil {
				return err
			}
			fmt.Printf("catalog written to %s\n", toolsCatalogOut)
		}
		return nil
	},
}
