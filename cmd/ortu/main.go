// ortu: background clipboard history manager.
//
// ortu watches the system clipboard, classifies what you copy and keeps a
// searchable history in a local SQLite database. The history is exposed to
// AI tools as an MCP server over stdio.
//
// Usage:
//
//	ortu serve                      # capture + MCP server (stdio transport)
//	ortu cleanup                    # run one retention sweep
//	ortu backup <file> [--groups]   # write a JSON backup
//	ortu restore <file> --mode      # restore a JSON backup
//	ortu version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/ortu/internal/config"
	"github.com/HendryAvila/ortu/internal/history"
	"github.com/HendryAvila/ortu/internal/logger"
	"github.com/HendryAvila/ortu/internal/retention"
	"github.com/HendryAvila/ortu/internal/server"
)

var (
	backupGroups []string
	restoreMode  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ortu",
	Short: "Background clipboard history manager",
	Long: "ortu keeps a categorized history of everything you copy and\n" +
		"serves it to AI tools over MCP.\n\n" +
		"Add to your AI tool's MCP config:\n\n" +
		`  {"mcpServers": {"ortu": {"command": "ortu", "args": ["serve"]}}}`,
	SilenceUsage: true,
}

func init() {
	backupCmd.Flags().StringSliceVar(&backupGroups, "groups", nil, "only back up members of these groups")
	restoreCmd.Flags().StringVar(&restoreMode, "mode", string(history.RestoreMerge), "replace or merge")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and builds the process logger.
func setup() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.PrettyLog)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, log, nil
}

func openStore() (*history.Store, logger.Logger, error) {
	cfg, log, err := setup()
	if err != nil {
		return nil, nil, err
	}
	store, err := server.OpenStore(cfg, nil, log)
	if err != nil {
		return nil, nil, err
	}
	return store, log, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Capture the clipboard and serve MCP over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		app, err := server.New(cfg, log)
		if err != nil {
			log.Error("startup failed", logger.Error(err))
			return err
		}
		defer func() {
			if err := app.Close(); err != nil {
				log.Error("shutdown failed", logger.Error(err))
			}
		}()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := app.Run(ctx); err != nil {
			return err
		}
		log.Info("ortu stopped")
		return nil
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete unpinned items older than the retention window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, log, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := retention.NewSweeper(store, log, 0).Sweep()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired items\n", n)
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup <file>",
	Short: "Write a JSON backup of the history and groups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.BackupToFile(args[0], backupGroups); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", args[0])
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Restore a JSON backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := history.ParseRestoreMode(restoreMode)
		if err != nil {
			return err
		}
		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		res, err := store.RestoreFromFile(args[0], mode)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored (%s): %d items inserted, %d merged, %d groups created\n",
			mode, res.ItemsInserted, res.ItemsMerged, res.GroupsCreated)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ortu version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ortu v%s\n", server.Version)
	},
}
