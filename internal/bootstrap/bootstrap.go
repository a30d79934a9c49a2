// Package bootstrap wires the assistant together: storage, queue,
// collaborators, both indexes, the handler registry and every use
// case. The api and worker binaries share one App.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/classify"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/config"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/agents"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/ports"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/usecase"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/infrastructure/chunking"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/infrastructure/extractor"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/infrastructure/extractor/pdfextract"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/infrastructure/extractor/plaintext"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/infrastructure/llm/ollama"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/infrastructure/queue/nats"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/infrastructure/repository/postgres"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/infrastructure/resilience"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/infrastructure/scraper"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/infrastructure/storage/localfs"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/infrastructure/structured"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/infrastructure/vector/memory"
	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config

	Queue ports.MessageQueue
	Repo  ports.DocumentRepository

	IngestUC   ports.DocumentIngestor
	ProcessUC  ports.DocumentProcessor
	RouteUC    ports.QueryRouter
	EvaluateUC ports.RetrievalEvaluator
	RefreshUC  ports.PageRefresher

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSIngestSubject, cfg.NATSRefreshSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, executor)
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	classifier := buildClassifier(cfg, embedder)
	vectorStore := buildVectorStore(cfg)

	structuredIndex := structured.NewIndex()
	if err := loadStructuredData(ctx, cfg, db, classifier, structuredIndex, log); err != nil {
		return nil, fmt.Errorf("load structured data: %w", err)
	}

	prompts, err := agents.LoadPrompts(cfg.PromptsPath)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	registry, err := buildRegistry(generator, structuredIndex, prompts)
	if err != nil {
		return nil, fmt.Errorf("build handler registry: %w", err)
	}

	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	textExtractor := extractor.NewComposite(
		plaintext.NewExtractor(storage),
		pdfextract.NewExtractor(storage),
	)
	pageScraper := scraper.New(scraper.Config{
		Timeout:            time.Duration(cfg.ScrapeTimeoutSeconds) * time.Second,
		RequestsPerSecond:  cfg.ScrapeRatePerSecond,
		UserAgent:          cfg.ScrapeUserAgent,
		ResilienceExecutor: executor,
	})

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, textExtractor, classifier, chunker, embedder, vectorStore)
	retrieveUC := usecase.NewRetrieveUseCase(embedder, vectorStore, structuredIndex)
	routeUC := usecase.NewRouteUseCase(classifier, retrieveUC, registry)
	evaluateUC := usecase.NewEvaluateUseCase(classifier, retrieveUC, cfg.TopK)
	refreshUC := usecase.NewRefreshPageUseCase(pageScraper, ingestUC)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:   ingestUC,
		ProcessUC:  processUC,
		RouteUC:    routeUC,
		EvaluateUC: evaluateUC,
		RefreshUC:  refreshUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

func buildClassifier(cfg config.Config, embedder ports.Embedder) ports.DomainClassifier {
	if strings.EqualFold(cfg.ClassifierMode, "centroid") {
		return classify.NewCentroidClassifier(embedder)
	}
	return classify.NewKeywordClassifier()
}

func buildVectorStore(cfg config.Config) ports.VectorStore {
	if strings.EqualFold(cfg.VectorBackend, "memory") {
		return memory.NewStore()
	}
	return qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
}

func buildRegistry(generator ports.AnswerGenerator, index ports.StructuredIndex, prompts *agents.PromptSet) (*agents.Registry, error) {
	registry, err := agents.NewRegistry(agents.NewGeneralHandler(generator, prompts))
	if err != nil {
		return nil, err
	}
	handlers := []agents.Handler{
		agents.NewBillingHandler(generator, index, prompts),
		agents.NewLicensingHandler(generator, index, prompts),
		agents.NewIncidentHandler(generator, prompts),
	}
	for _, handler := range handlers {
		if err := registry.Register(handler); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// loadStructuredData fills the structured index from the data
// directory (JSON arrays, xlsx workbooks) and the configured Postgres
// tables. A missing data directory is fine; a broken file is not.
func loadStructuredData(
	ctx context.Context,
	cfg config.Config,
	db *sql.DB,
	classifier ports.DomainClassifier,
	index *structured.Index,
	log *slog.Logger,
) error {
	var records []domain.StructuredRecord

	entries, err := os.ReadDir(cfg.StructuredDataDir)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read structured data dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(cfg.StructuredDataDir, entry.Name())
		var loaded []domain.StructuredRecord
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json":
			loaded, err = structured.LoadJSONFile(ctx, path, classifier)
		case ".xlsx":
			loaded, err = structured.LoadXLSXFile(ctx, path, classifier)
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("load %s: %w", entry.Name(), err)
		}
		records = append(records, loaded...)
	}

	if len(cfg.StructuredTables) > 0 {
		tableRecords, err := structured.NewPostgresLoader(db, cfg.StructuredTables).Load(ctx, classifier)
		if err != nil {
			// Structured tables are optional on a fresh database.
			log.Warn("structured tables unavailable", "error", err)
		} else {
			records = append(records, tableRecords...)
		}
	}

	if err := index.Load(ctx, records); err != nil {
		return fmt.Errorf("load structured index: %w", err)
	}
	log.Info("structured index loaded", "records", len(records))
	return nil
}
