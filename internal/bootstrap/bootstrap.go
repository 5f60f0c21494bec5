package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dealdesk/dealdocs/internal/config"
	"github.com/dealdesk/dealdocs/internal/core/domain"
	"github.com/dealdesk/dealdocs/internal/core/ports"
	"github.com/dealdesk/dealdocs/internal/core/usecase"
	"github.com/dealdesk/dealdocs/internal/infrastructure/chunking"
	"github.com/dealdesk/dealdocs/internal/infrastructure/llm/mock"
	"github.com/dealdesk/dealdocs/internal/infrastructure/llm/oracle"
	"github.com/dealdesk/dealdocs/internal/infrastructure/placement"
	"github.com/dealdesk/dealdocs/internal/infrastructure/preprocess"
	"github.com/dealdesk/dealdocs/internal/infrastructure/queue/nats"
	"github.com/dealdesk/dealdocs/internal/infrastructure/reference"
	"github.com/dealdesk/dealdocs/internal/infrastructure/repository/postgres"
	"github.com/dealdesk/dealdocs/internal/infrastructure/resilience"
	"github.com/dealdesk/dealdocs/internal/infrastructure/skills"
)

// App wires the full dependency graph once for both processes; api uses the
// request store and queue, worker additionally runs the pipeline.
type App struct {
	Config config.Config

	Queue        ports.MessageQueue
	RequestStore ports.BatchRequestStore
	Skills       ports.SkillLoader
	References   ports.ReferenceResolver
	Pipeline     ports.BatchPipeline
	Persister    ports.ResultPersister
	Folders      []domain.FolderOption

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	store := postgres.NewAnalysisStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	requestStore := postgres.NewBatchRequestStore(db)

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	resolver := reference.NewResolver(postgres.NewReferenceSource(db), reference.Options{
		TTL:  cfg.ReferenceTTL,
		TopK: cfg.ReferenceTopK,
	})
	skillLoader := skills.NewDefaultLoader()

	chunker := chunking.NewBudgetChunker(cfg.ChunkMaxDocs, cfg.ChunkTokenBudget, cfg.ChunkSystemOverhead)
	extractChunker := chunking.NewCountChunker(cfg.ExtractDocsPerCall)

	classifier, extractor, err := buildClassifier(ctx, cfg, executor, skillLoader, logger)
	if err != nil {
		return nil, err
	}

	folders := folderOptions()
	pipeline := usecase.NewBatchPipelineUseCase(
		preprocess.New(),
		resolver,
		skillLoader,
		chunker,
		extractChunker,
		classifier,
		extractor,
		placement.NewResolver(),
		folders,
		cfg.BatchTimeout,
		logger,
	)
	persister := usecase.NewResultMapper(store, logger)

	return &App{
		Config:       cfg,
		Queue:        queue,
		RequestStore: requestStore,
		Skills:       skillLoader,
		References:   resolver,
		Pipeline:     pipeline,
		Persister:    persister,
		Folders:      folders,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

// buildClassifier picks the live oracle when credentials are present and the
// mock is not forced; otherwise the deterministic mock serves both roles.
func buildClassifier(
	ctx context.Context,
	cfg config.Config,
	executor *resilience.Executor,
	skillLoader ports.SkillLoader,
	logger *slog.Logger,
) (ports.ChunkClassifier, ports.IntelligenceExtractor, error) {
	if cfg.OracleForceMock || cfg.OracleAPIKey == "" {
		logger.Info("classifier_selected", "mode", "mock")
		return mock.NewClassifier(), mock.NewExtractor(), nil
	}

	extractionSkill, err := skillLoader.Load(ctx, "intelligence-extraction")
	if err != nil {
		return nil, nil, fmt.Errorf("load extraction skill: %w", err)
	}

	client := oracle.New(cfg.OracleBaseURL, cfg.OracleAPIKey, cfg.OracleModel, executor)
	logger.Info("classifier_selected", "mode", "oracle", "model", cfg.OracleModel)
	return oracle.NewClassifier(client), oracle.NewExtractor(client, extractionSkill), nil
}

func folderOptions() []domain.FolderOption {
	defined := placement.Folders()
	options := make([]domain.FolderOption, 0, len(defined))
	for _, folder := range defined {
		options = append(options, domain.FolderOption{
			Key:   folder.Key,
			Name:  folder.Name,
			Level: string(folder.Level),
		})
	}
	return options
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
