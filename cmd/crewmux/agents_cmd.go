package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fentz26/crewmux/internal/agent"
	"github.com/fentz26/crewmux/internal/groupstore"
	"github.com/fentz26/crewmux/internal/store"
	"github.com/fentz26/crewmux/internal/tui"
)

func init() {
	agentsCmd.AddCommand(agentsInspectCmd)
	agentsCmd.AddCommand(agentsRunsCmd)
}

func loadRegistry() (*agent.Registry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	groups, err := groupstore.Load(cfg.GroupsPath)
	if err != nil {
		return nil, fmt.Errorf("loading groups: %w", err)
	}
	return agent.NewRegistry(groups)
}

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the registered sub-agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry()
		if err != nil {
			return err
		}
		for _, sa := range registry.List() {
			fmt.Printf("%-24s %-30s %d tools  score %.2f\n", sa.ID, sa.Name, len(sa.Tools), sa.ComplementarityScore)
		}
		return nil
	},
}

var agentsInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Browse sub-agents, their tools, and prompts interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry()
		if err != nil {
			return err
		}
		return tui.Run(registry)
	},
}

var agentsRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent grouping build runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := store.New(cfg.DBPath)
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.ListRuns(20)
		if err != nil {
			return err
		}
		for _, r := range runs {
			line := fmt.Sprintf("%s  %-9s  %3d tools -> %2d groups  %s", r.ID, r.Status, r.ToolCount, r.GroupCount, r.StartedAt.Format("2006-01-02 15:04:05"))
			if r.Error != "" {
				line += "  " + r.Error
			}
			fmt.Println(line)
		}
		return nil
	},
}
