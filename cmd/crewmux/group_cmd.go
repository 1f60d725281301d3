package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fentz26/crewmux/internal/discovery"
	"github.com/fentz26/crewmux/internal/grouping"
	"github.com/fentz26/crewmux/internal/groupstore"
	"github.com/fentz26/crewmux/internal/llm"
	"github.com/fentz26/crewmux/internal/models"
	"github.com/fentz26/crewmux/internal/store"
)

var (
	groupCatalogPath string
	groupDirLayout   bool
)

func init() {
	groupCmd.Flags().StringVar(&groupCatalogPath, "catalog", "", "group a pre-discovered catalog file instead of connecting upstream")
	groupCmd.Flags().BoolVar(&groupDirLayout, "dir-layout", false, "persist groups as a directory per group instead of one JSON file")
}

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Partition the discovered tools into sub-agent groups",
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

		ctx := cmd.Context()

		var tools []models.Tool
		if groupCatalogPath != "" {
			tools, err = discovery.LoadCatalog(groupCatalogPath)
		} else {
			tools, err = discovery.NewManager(cfg.Servers, logger).DiscoverAll(ctx)
		}
		if err != nil {
			return fmt.Errorf("collecting tools: %w", err)
		}

		provider, err := llm.NewProvider(cfg.Provider.Name, cfg.Provider.Model)
		if err != nil {
			return err
		}

		gcfg := grouping.DefaultConfig()
		gcfg.CallTimeout = time.Duration(cfg.Grouping.CallTimeoutSec) * time.Second
		gcfg.Enforcement = grouping.Enforcement(cfg.Grouping.Enforcement)
		grouper := grouping.NewGrouper(provider, gcfg, logger)

		started := time.Now().UTC()
		groups, groupErr := grouper.GroupTools(ctx, tools, cfg.Grouping.Constraints, &cfg.Context)
		ended := time.Now().UTC()

		run := store.Run{
			ToolCount: len(tools),
			StartedAt: started,
			EndedAt:   ended,
			Status:    store.RunSucceeded,
		}
		if groupErr != nil {
			run.Status = store.RunFailed
			run.Error = groupErr.Error()
		} else {
			run.GroupCount = len(groups)
		}
		if s, err := store.New(cfg.DBPath); err == nil {
			if recorded, err := s.RecordRun(run); err == nil {
				fmt.Printf("run %s recorded\n", recorded.ID)
			}
			s.Close()
		}

		if groupErr != nil {
			return fmt.Errorf("grouping: %w", groupErr)
		}

		if groupDirLayout {
			dir := strings.TrimSuffix(cfg.GroupsPath, ".json")
			if err := groupstore.SaveDir(dir, groups); err != nil {
				return err
			}
			fmt.Printf("%d groups written to %s/\n", len(groups), dir)
		} else {
			if err := groupstore.SaveFile(cfg.GroupsPath, groups); err != nil {
				return err
			}
			fmt.Printf("%d groups written to %s\n", len(groups), cfg.GroupsPath)
		}

		for _, g := range groups {
			fmt.Printf("  %-24s %-30s %d tools\n", g.ID, g.Name, len(g.Tools))
		}
		return nil
	},
}
