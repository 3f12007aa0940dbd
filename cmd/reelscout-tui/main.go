package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/reelscout/reelscout/internal/config"
	"github.com/reelscout/reelscout/internal/logger"
	"github.com/reelscout/reelscout/internal/search"
	"github.com/reelscout/reelscout/internal/tmdb"
	"github.com/reelscout/reelscout/internal/tmdb/mock"
	"github.com/reelscout/reelscout/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the program, so logs only go to the file.
	logCfg := logger.ConfigFrom(cfg.Logging, cfg.DeveloperMode)
	logCfg.Format = "json"
	logCfg.FileOnly = true
	log := logger.New(logCfg)
	defer log.Close()

	var lookup search.Lookup
	if cfg.DeveloperMode {
		lookup = mock.NewTMDBClient()
	} else {
		client := tmdb.NewClient(cfg.TMDB, log.Logger)
		if !client.IsConfigured() {
			fmt.Fprintln(os.Stderr, "TMDB credentials are not configured; set REELSCOUT_TMDB_API_KEY or enable developer_mode")
			os.Exit(1)
		}
		lookup = client
	}

	uiLog := log.WithComponent("tui")
	uiLog.Info().Str("version", config.Version).Msg("starting reelscout terminal UI")

	model := tui.New(lookup, tui.Options{
		PageSize: cfg.Search.PageSize,
		Timeout:  cfg.Search.LookupTimeout,
	})
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		uiLog.Error().Err(err).Msg("terminal UI exited with error")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
