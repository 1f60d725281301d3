package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fentz26/crewmux/internal/agent"
	"github.com/fentz26/crewmux/internal/groupstore"
	"github.com/fentz26/crewmux/internal/llm"
	"github.com/fentz26/crewmux/internal/mcpserver"
)

var serveHTTPAddr string

func init() {
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http", "", "additionally serve MCP over HTTP on this address")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the persisted sub-agents as an MCP server on stdio",
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

		groups, err := groupstore.Load(cfg.GroupsPath)
		if err != nil {
			return fmt.Errorf("loading groups: %w", err)
		}
		registry, err := agent.NewRegistry(groups)
		if err != nil {
			return fmt.Errorf("building registry: %w", err)
		}

		provider, err := llm.NewProvider(cfg.Provider.Name, cfg.Provider.Model)
		if err != nil {
			return err
		}
		executor := agent.NewCompletionExecutor(provider)

		adapter := mcpserver.NewAdapter(registry, executor, mcpserver.CallSchema(cfg.Serve.CallSchema), logger)
		server := mcpserver.NewServer(adapter, version, logger)

		httpAddr := serveHTTPAddr
		if httpAddr == "" {
			httpAddr = cfg.Serve.HTTPAddr
		}
		if httpAddr != "" {
			httpSrv := mcpserver.NewHTTPServer(server, httpAddr, logger)
			go func() {
				if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http transport stopped", zap.Error(err))
				}
			}()
			defer httpSrv.Shutdown(cmd.Context())
		}

		return server.Serve(cmd.Context(), os.Stdin, os.Stdout)
	},
}
