package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"

	tea "github.com/charmbracelet/bubbletea"

	"stridelog/internal/config"
	"stridelog/internal/remote"
	"stridelog/internal/service"
	"stridelog/internal/store"
	"stridelog/internal/tui"
)

func main() {
	importFile := flag.String("import", "", "import records from a JSON file and exit")
	exportFile := flag.String("export", "", "export records to a JSON file and exit")
	flag.Parse()

	if err := run(*importFile, *exportFile); err != nil {
		log.Fatal(err)
	}
}

func run(importFile, exportFile string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nPlease edit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("Set remote.base_url, remote.access_token and account.id,")
		fmt.Println("or leave remote.base_url empty to track runs locally only.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	logger, logFile, err := openLogger()
	if err != nil {
		return err
	}
	defer logFile.Close()

	// Open database
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Remote client, unless running local-only
	var remoteClient *remote.Client
	if cfg.Remote.BaseURL != "" {
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Remote.AccessToken})
		remoteClient = remote.NewClient(cfg.Remote.BaseURL, tokenSource)
	}

	opts := service.Options{
		Local:        db,
		AccountID:    cfg.Account.ID,
		CoachID:      cfg.Account.CoachID,
		BodyWeightKg: cfg.Account.BodyWeightKg,
		DefaultPace:  cfg.DefaultPaceSeconds(),
		Logger:       logger,
	}
	if remoteClient != nil {
		opts.Remote = remoteClient
	}

	tracker := service.NewTracker(opts)
	if err := tracker.Bootstrap(); err != nil {
		return fmt.Errorf("loading cached records: %w", err)
	}

	// Headless one-shot modes
	if importFile != "" {
		return runImport(ctx, tracker, importFile)
	}
	if exportFile != "" {
		return runExport(tracker, exportFile)
	}

	configDir, err := config.GetConfigDir()
	if err != nil {
		return err
	}

	// Launch TUI
	app := tui.NewApp(tracker, filepath.Join(configDir, "export.json"))
	p := tea.NewProgram(app, tea.WithAltScreen())

	// Change watcher: any remote head change triggers a reconcile in the
	// running program.
	if remoteClient != nil {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		interval := time.Duration(cfg.Remote.PollSeconds) * time.Second
		watcher := remote.NewWatcher(remoteClient, cfg.Account.ID, interval, logger)

		notify := make(chan struct{}, 1)
		go watcher.Run(watchCtx, notify)
		go func() {
			for range notify {
				p.Send(tui.RemoteChangedMsg{})
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func runImport(ctx context.Context, tracker *service.Tracker, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading import file: %w", err)
	}

	if err := tracker.Reconcile(ctx); err != nil {
		return fmt.Errorf("syncing before import: %w", err)
	}

	n, err := tracker.Import(ctx, data)
	if err != nil {
		return fmt.Errorf("importing records: %w", err)
	}
	fmt.Printf("Imported %d new records.\n", n)
	return nil
}

func runExport(tracker *service.Tracker, path string) error {
	data, err := tracker.Export()
	if err != nil {
		return fmt.Errorf("exporting records: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	fmt.Printf("Exported to %s.\n", path)
	return nil
}

func openLogger() (*log.Logger, *os.File, error) {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "stridelog.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return log.New(f, "", log.LstdFlags), f, nil
}
