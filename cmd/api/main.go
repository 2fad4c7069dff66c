package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"alfredoptarigan/resume-ranker/internal/config"
	"alfredoptarigan/resume-ranker/internal/handlers"
	"alfredoptarigan/resume-ranker/internal/repositories"
	"alfredoptarigan/resume-ranker/internal/services"
)

func main() {
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rankingRepo repositories.RankingRepository
	switch cfg.Database.Driver {
	case "postgres":
		db, err := config.InitDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to initialize database: %v", err)
		}
		rankingRepo = repositories.NewRankingRepository(db)
	case "memory":
		rankingRepo = repositories.NewMemoryRankingRepository()
	default:
		log.Fatalf("❌ Unknown DB_DRIVER %q (expected memory or postgres)", cfg.Database.Driver)
	}
	log.Printf("✅ Ranking repository initialized (%s)\n", cfg.Database.Driver)

	var storageService services.StorageService
	if cfg.Storage.KeepUploads {
		storageService = services.NewStorageService(cfg.Storage.UploadPath)
		if err := storageService.EnsureUploadDir(); err != nil {
			log.Fatalf("❌ Failed to create upload directory: %v", err)
		}
	}

	parser := services.NewDocumentParserService(cfg.Ranker.ExtractTimeout)
	rankingService := services.NewRankingService(parser, cfg.Ranker)
	log.Println("✅ Ranking service initialized")

	var geminiService services.GeminiService
	if cfg.Gemini.APIKey != "" {
		g, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
		}
		geminiService = g
		log.Println("✅ Gemini AI initialized successfully")
	}

	var indexer services.CandidateIndexer
	var worker services.Worker
	if cfg.IndexEnabled() {
		candidateIndex, err := services.NewCandidateIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := candidateIndex.InitCollection(ctx); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		log.Println("✅ Qdrant initialized successfully")

		indexer = services.NewCandidateIndexer(geminiService, candidateIndex, cfg.Worker.RetryMaxAttempts)
		worker = services.NewWorker(indexer, cfg.Worker.Concurrency, cfg.Worker.QueueSize)
		worker.Start(ctx)
	}

	var archive services.ReportArchive
	if cfg.ArchiveEnabled() {
		a, err := services.NewReportArchive(ctx, cfg.Archive)
		if err != nil {
			log.Fatalf("❌ Failed to initialize report archive: %v", err)
		}
		archive = a
		log.Printf("✅ Reports archived to bucket %s\n", cfg.Archive.Bucket)
	}

	app := handlers.NewApp(handlers.Handlers{
		Rank: handlers.NewRankHandler(
			rankingService,
			rankingRepo,
			storageService,
			archive,
			worker,
			cfg.Storage.MaxFileSize,
		),
		Result:     handlers.NewResultHandler(rankingRepo, indexer),
		Transcribe: handlers.NewTranscribeHandler(services.NewTranscriptionService(geminiService)),
		Search:     handlers.NewSearchHandler(indexer),
	}, bodyLimit(cfg.Storage.MaxFileSize))
	log.Println("✅ Handlers initialized")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if worker != nil {
			worker.Stop()
		}
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// bodyLimit leaves room for several resumes in one multipart request.
func bodyLimit(maxFileSize int64) int {
	const maxFilesPerRequest = 20
	return int(maxFileSize) * maxFilesPerRequest
}
