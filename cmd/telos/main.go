package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/telos-app/telos/internal/cli"
	"github.com/telos-app/telos/internal/db"
	"github.com/telos-app/telos/internal/intelligence"
	"github.com/telos-app/telos/internal/llm"
	"github.com/telos-app/telos/internal/repository"
	"github.com/telos-app/telos/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.telos/telos.db
	dbPath := os.Getenv("TELOS_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".telos", "telos.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	goalRepo := repository.NewSQLiteGoalRepo(database)
	sessionRepo := repository.NewSQLiteDiscoveryRepo(database)
	roadmapRepo := repository.NewSQLiteRoadmapRepo(database)
	progressRepo := repository.NewSQLiteProgressRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Generation is optional. With it disabled every surface still works
	// through its deterministic path.
	llmCfg := llm.LoadConfig()
	var client llm.Client
	if llmCfg.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		if llmCfg.LogCalls {
			observer = llm.NewLogObserver(os.Stderr)
		}
		client = llm.NewOllamaClient(llmCfg, observer)
	} else {
		client = llm.NewDisabledClient()
	}

	var useCaseObserver service.UseCaseObserver = service.NoopUseCaseObserver{}
	if llmCfg.LogCalls {
		useCaseObserver = service.NewLogUseCaseObserver(os.Stderr)
	}

	engine := intelligence.NewDiscoveryEngine(client)
	synthesizer := intelligence.NewRoadmapSynthesizer(client)

	app := &cli.App{
		Goals:     service.NewGoalService(goalRepo),
		Discovery: service.NewDiscoveryFlowService(goalRepo, sessionRepo, engine, useCaseObserver),
		Roadmaps:  service.NewRoadmapFlowService(goalRepo, sessionRepo, roadmapRepo, progressRepo, uow, synthesizer, useCaseObserver),
		Progress:  service.NewProgressFlowService(roadmapRepo, progressRepo, uow, useCaseObserver),
		Chat:      intelligence.NewChatService(client),
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}
