package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reelscout/reelscout/internal/api"
	"github.com/reelscout/reelscout/internal/config"
	"github.com/reelscout/reelscout/internal/logger"
	"github.com/reelscout/reelscout/internal/reporting"
	"github.com/reelscout/reelscout/internal/scheduler"
	"github.com/reelscout/reelscout/internal/scheduler/tasks"
	"github.com/reelscout/reelscout/internal/tmdb"
	"github.com/reelscout/reelscout/internal/tmdb/mock"
	"github.com/reelscout/reelscout/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "Path to config file")
	printConfig := flag.Bool("print-config", false, "Print the effective configuration and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *printConfig {
		out, err := cfg.YAML()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Print(out)
		return
	}

	log := logger.New(logger.ConfigFrom(cfg.Logging, cfg.DeveloperMode))
	defer log.Close()

	log.Info().
		Str("version", config.Version).
		Str("logLevel", log.GetLevel().String()).
		Str("logFile", log.FilePath()).
		Bool("developerMode", cfg.DeveloperMode).
		Msg("starting reelscout")

	if enabled, err := reporting.Init(cfg.Sentry, config.Version); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	} else if enabled {
		log.Info().Str("environment", cfg.Sentry.Environment).Msg("error reporting enabled")
		defer reporting.Flush()
	}

	provider := newProvider(cfg, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := websocket.NewHub(log.Logger)

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}

	server, err := api.NewServer(cfg, api.Deps{
		Provider:  provider,
		Hub:       hub,
		Scheduler: sched,
		Logs:      log,
	}, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	if err := tasks.RegisterSessionSweepTask(sched, server.Sessions()); err != nil {
		log.Fatal().Err(err).Msg("failed to register session sweep task")
	}
	if err := tasks.RegisterProviderHealthTask(sched, server.Health(), provider); err != nil {
		log.Fatal().Err(err).Msg("failed to register provider health task")
	}

	// the message handler is installed by NewServer, so the hub starts after it
	go hub.Run(ctx)
	sched.Start()

	go func() {
		addr := cfg.Server.Address()
		log.Info().Str("address", addr).Msg("HTTP server listening")
		if err := server.Start(addr); err != nil {
			log.Info().Err(err).Msg("server stopped")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("received shutdown signal")

	if err := hub.Broadcast(api.MessageServerShutdown, nil); err != nil {
		log.Warn().Err(err).Msg("failed to notify clients of shutdown")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	if err := sched.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown error")
	}
	cancel()

	log.Info().Msg("server stopped")
}

// newProvider returns the offline catalogue in developer mode and the TMDB
// client otherwise.
func newProvider(cfg *config.Config, log *logger.Logger) api.Provider {
	if cfg.DeveloperMode {
		log.Warn().Msg("developer mode: searches are answered from the offline catalogue")
		return mock.NewTMDBClient()
	}

	client := tmdb.NewClient(cfg.TMDB, log.Logger)
	if !client.IsConfigured() {
		log.Warn().Msg("TMDB credentials are not configured, every search will fail")
	}
	return client
}
