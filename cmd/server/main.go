package main

import (
	"context"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	openai "github.com/sashabaranov/go-openai"

	"vitrinebot/internal/answer"
	"vitrinebot/internal/catalog"
	"vitrinebot/internal/config"
	"vitrinebot/internal/db"
	"vitrinebot/internal/observability"
	"vitrinebot/internal/repository"
	"vitrinebot/internal/server"
	"vitrinebot/internal/session"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	fetcher := catalog.NewHTTPFetcher(cfg.FetchTimeout, cfg.FetchPerSecond, cfg.DetailBatchSize)
	cache := catalog.New(fetcher, catalog.Options{
		BaseURL:     cfg.StoreBaseURL,
		ListingURLs: cfg.ListingURLs,
		TTL:         cfg.CatalogTTL,
		BatchSize:   cfg.DetailBatchSize,
	})

	if cfg.DatabaseURL != "" {
		recorder := &repository.CycleRecorder{}

		sqlDB, err := db.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Erro ao conectar no Postgres: %v", err)
		}
		history := &repository.HistoryRepository{DB: sqlDB}
		if err := history.EnsureSchema(ctx); err != nil {
			log.Fatalf("Erro ao criar schema do histórico: %v", err)
		}
		recorder.History = history

		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Erro ao conectar no Postgres (pgxpool): %v", err)
		}
		defer pool.Close()
		snapshots := &repository.SnapshotRepository{DB: pool}
		if err := snapshots.EnsureSchema(ctx); err != nil {
			log.Fatalf("Erro ao criar schema do catálogo: %v", err)
		}
		recorder.Snapshots = snapshots

		cache.SetRecorder(recorder)
	}

	var sessions *session.Store
	if cfg.RedisURL != "" {
		sessions = &session.Store{
			Client: redis.NewClient(&redis.Options{Addr: cfg.RedisURL}),
		}
	}

	var rewriter *answer.Rewriter
	if cfg.OpenAIKey != "" {
		rewriter = answer.NewRewriter(openai.NewClient(cfg.OpenAIKey), cfg.RewriteModel)
	}

	observability.Start(cfg.MetricsPort)

	if cfg.RefreshCron != "" {
		c := cron.New()
		_, err := c.AddFunc(cfg.RefreshCron, func() {
			rep := cache.EnsureFresh(context.Background(), false)
			if !rep.Skipped {
				log.Printf("[Cron] Ciclo %s: %d produtos", rep.CycleID, rep.Products)
			}
		})
		if err != nil {
			log.Fatalf("Erro no agendamento %q: %v", cfg.RefreshCron, err)
		}
		c.Start()
		defer c.Stop()
	}

	h := &server.Handler{Catalog: cache, Sessions: sessions, Rewriter: rewriter}
	corsWrapper := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})

	log.Println("Vitrine bot rodando :" + cfg.ServerPort)
	if err := http.ListenAndServe(":"+cfg.ServerPort, corsWrapper.Handler(h.Routes())); err != nil {
		log.Fatalf("Erro no servidor HTTP: %v", err)
	}
}
