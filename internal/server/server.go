// Package server wires all ortu components and runs them.
//
// This is the composition root: it creates concrete implementations
// and injects them into the capture loop, the retention sweeper and the
// MCP tools that depend on them. No business logic lives here, only
// wiring and lifecycle.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gofrs/flock"
	"github.com/mark3labs/mcp-go/server"

	"github.com/HendryAvila/ortu/internal/capture"
	"github.com/HendryAvila/ortu/internal/classifier"
	"github.com/HendryAvila/ortu/internal/cliptools"
	"github.com/HendryAvila/ortu/internal/config"
	"github.com/HendryAvila/ortu/internal/history"
	"github.com/HendryAvila/ortu/internal/logger"
	"github.com/HendryAvila/ortu/internal/prompts"
	"github.com/HendryAvila/ortu/internal/resources"
	"github.com/HendryAvila/ortu/internal/retention"
)

// Version is set at build time via ldflags.
var Version = "dev"

// App owns every long-lived component of the daemon.
type App struct {
	cfg     *config.Config
	log     logger.Logger
	store   *history.Store
	monitor *capture.Monitor
	sweeper *retention.Sweeper
	mcp     *server.MCPServer

	// primary is true for the one process per data dir that captures
	// and sweeps. Other processes only serve tools.
	lock    *flock.Flock
	primary bool
}

// Option customizes App construction.
type Option func(*options)

type options struct {
	reader capture.Reader
}

// WithReader replaces the system clipboard. The platform probe is skipped.
func WithReader(r capture.Reader) Option {
	return func(o *options) { o.reader = r }
}

// New builds the App. Startup failures (clipboard unavailable, store
// cannot be opened, rules file invalid) are returned as errors and are
// fatal to the process.
//
// Only the first process per data dir captures the clipboard, purges
// ephemeral history and runs the sweeper. Later processes, typically one
// per MCP client, share the store and serve tools only.
func New(cfg *config.Config, log logger.Logger, opts ...Option) (*App, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.reader == nil {
		if err := capture.Probe(); err != nil {
			return nil, err
		}
		o.reader = capture.SystemReader{}
	}

	cls, buckets, err := loadClassifier(cfg)
	if err != nil {
		return nil, err
	}
	ignore, err := capture.NewIgnoreList(cfg.IgnorePatterns)
	if err != nil {
		return nil, err
	}

	lock, primary, err := acquireInstance(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(cfg, buckets, log)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	if primary {
		// Unpinned entries never outlive the process that captured them.
		if err := retention.PurgeOnStart(store, log); err != nil {
			_ = store.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("clearing ephemeral history: %w", err)
		}
	} else {
		log.Warn("another ortu instance is capturing; serving tools only",
			logger.String("data_dir", cfg.DataDir))
	}

	sweeper := retention.NewSweeper(store, log, cfg.SweepInterval)
	monitor := capture.NewMonitor(o.reader, cls, store, log, cfg.PollInterval, cfg.MaxContentBytes)
	monitor.SetIgnore(ignore)

	s := server.NewMCPServer(
		"ortu",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)
	registerTools(s, store, sweeper)
	registerPrompts(s)
	registerResources(s, store)

	return &App{
		cfg:     cfg,
		log:     log,
		store:   store,
		monitor: monitor,
		sweeper: sweeper,
		mcp:     s,
		lock:    lock,
		primary: primary,
	}, nil
}

// OpenStore opens the history store described by cfg. buckets may be nil
// for the built-in table.
func OpenStore(cfg *config.Config, buckets history.Buckets, log logger.Logger) (*history.Store, error) {
	store, err := history.New(history.Config{
		DataDir:         cfg.DataDir,
		HistoryLimit:    cfg.HistoryLimit,
		RetentionWindow: cfg.RetentionWindow,
		Buckets:         buckets,
		Log:             log,
	})
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}
	return store, nil
}

func loadClassifier(cfg *config.Config) (*classifier.Classifier, history.Buckets, error) {
	if cfg.RulesFile == "" {
		c, err := classifier.Default()
		return c, nil, err
	}
	set, err := classifier.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, nil, err
	}
	c, err := classifier.New(set.Rules)
	if err != nil {
		return nil, nil, err
	}
	return c, set.Buckets, nil
}

// MCP returns the configured MCP server.
func (a *App) MCP() *server.MCPServer { return a.mcp }

// Primary reports whether this process owns capture for its data dir.
func (a *App) Primary() bool { return a.primary }

// Store returns the history store.
func (a *App) Store() *history.Store { return a.store }

// Run starts the capture loop and the retention sweeper (primary only),
// then serves MCP over stdio until ctx is cancelled or stdin closes.
func (a *App) Run(ctx context.Context) error {
	return a.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve is Run over arbitrary streams.
func (a *App) Serve(parent context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var wg sync.WaitGroup
	if a.primary {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.monitor.Run(ctx)
		}()

		a.sweeper.Start(ctx)
		defer a.sweeper.Stop()
	}

	a.log.Info("ortu started",
		logger.String("version", Version),
		logger.String("data_dir", a.cfg.DataDir),
		logger.Bool("capturing", a.primary))

	stdio := server.NewStdioServer(a.mcp)
	err := stdio.Listen(ctx, in, out)

	cancel()
	wg.Wait()

	if err != nil && parent.Err() == nil {
		return fmt.Errorf("serving mcp: %w", err)
	}
	return nil
}

// Close releases the store and the instance lock. It must be called once
// Run has returned.
func (a *App) Close() error {
	if err := a.store.Close(); err != nil {
		_ = a.lock.Unlock()
		return fmt.Errorf("closing history store: %w", err)
	}
	if err := a.lock.Unlock(); err != nil {
		return fmt.Errorf("releasing instance lock: %w", err)
	}
	return nil
}

// registerTools registers every command surface tool with the server.
func registerTools(s *server.MCPServer, store *history.Store, sweeper *retention.Sweeper) {
	// --- Query ---
	getHistory := cliptools.NewGetHistoryTool(store)
	s.AddTool(getHistory.Definition(), getHistory.Handle)

	getCategories := cliptools.NewGetCategoriesTool(store)
	s.AddTool(getCategories.Definition(), getCategories.Handle)

	stats := cliptools.NewStatsTool(store)
	s.AddTool(stats.Definition(), stats.Handle)

	// --- Items ---
	deleteEntry := cliptools.NewDeleteEntryTool(store)
	s.AddTool(deleteEntry.Definition(), deleteEntry.Handle)

	togglePermanent := cliptools.NewTogglePermanentTool(store)
	s.AddTool(togglePermanent.Definition(), togglePermanent.Handle)

	setCategory := cliptools.NewSetCategoryTool(store)
	s.AddTool(setCategory.Definition(), setCategory.Handle)

	// --- Groups ---
	createGroup := cliptools.NewCreateGroupTool(store)
	s.AddTool(createGroup.Definition(), createGroup.Handle)

	deleteGroup := cliptools.NewDeleteGroupTool(store)
	s.AddTool(deleteGroup.Definition(), deleteGroup.Handle)

	renameGroup := cliptools.NewRenameGroupTool(store)
	s.AddTool(renameGroup.Definition(), renameGroup.Handle)

	addToGroup := cliptools.NewAddToGroupTool(store)
	s.AddTool(addToGroup.Definition(), addToGroup.Handle)

	removeFromGroup := cliptools.NewRemoveFromGroupTool(store)
	s.AddTool(removeFromGroup.Definition(), removeFromGroup.Handle)

	// --- Import / export ---
	exportGroup := cliptools.NewExportGroupTool(store)
	s.AddTool(exportGroup.Definition(), exportGroup.Handle)

	importGroup := cliptools.NewImportGroupTool(store)
	s.AddTool(importGroup.Definition(), importGroup.Handle)

	exportAll := cliptools.NewExportAllTextTool(store)
	s.AddTool(exportAll.Definition(), exportAll.Handle)

	backup := cliptools.NewBackupDataTool(store)
	s.AddTool(backup.Definition(), backup.Handle)

	restore := cliptools.NewRestoreDataTool(store)
	s.AddTool(restore.Definition(), restore.Handle)

	// --- Maintenance ---
	cleanup := cliptools.NewManualCleanupTool(sweeper)
	s.AddTool(cleanup.Definition(), cleanup.Handle)
}

func registerPrompts(s *server.MCPServer) {
	recall := prompts.NewRecallPrompt()
	s.AddPrompt(recall.Definition(), recall.Handle)

	organize := prompts.NewOrganizePrompt()
	s.AddPrompt(organize.Definition(), organize.Handle)
}

func registerResources(s *server.MCPServer, store *history.Store) {
	h := resources.NewHandler(store)
	s.AddResource(h.StatsResource(), h.HandleStats)
	s.AddResource(h.GroupsResource(), h.HandleGroups)
}

// serverInstructions returns the system instructions that tell the client
// how to use ortu.
func serverInstructions() string {
	return `ortu keeps a local history of everything copied to the clipboard.

Unpinned items live until the daemon restarts or until they are older than
the retention window (24h by default). Pin an item with ortu_toggle_permanent
to keep it.

Items are auto-categorized from their first command word (docker, kubectl,
git, npm, curl, ...). Every category is also a group; items may belong to any
number of groups.

Search with ortu_get_history:
- plain text matches content or category
- category:<group> <text> lists members of one group
- group:<bucket> <text> lists a virtual bucket: Dev, Code, URL, Images, Text

Use ortu_backup_data / ortu_restore_data for JSON backups and
ortu_export_group / ortu_import_group for plain text snippet files.`
}
