package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"vitrinebot/internal/catalog"
	"vitrinebot/internal/config"
	"vitrinebot/internal/db"
	"vitrinebot/internal/model"
	"vitrinebot/internal/repository"
)

// go run cmd/refresh/main.go -force
// go run cmd/refresh/main.go -json > catalogo.json
// go run cmd/refresh/main.go -history
// go run cmd/refresh/main.go -cycle <id>
func main() {
	force := flag.Bool("force", false, "Refaz o ciclo mesmo com catálogo fresco")
	asJSON := flag.Bool("json", false, "Imprime o catálogo em JSON")
	showHistory := flag.Bool("history", false, "Mostra os últimos ciclos gravados no Postgres")
	cycleID := flag.String("cycle", "", "Imprime os produtos materializados de um ciclo gravado")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	if *showHistory {
		if cfg.DatabaseURL == "" {
			log.Fatal("DATABASE_URL não configurada")
		}
		sqlDB, err := db.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Erro ao conectar no Postgres: %v", err)
		}
		cycles, err := (&repository.HistoryRepository{DB: sqlDB}).LastCycles(ctx, 10)
		if err != nil {
			log.Fatalf("Erro ao ler ciclos: %v", err)
		}
		for _, c := range cycles {
			fmt.Printf("%s  %s  %3d produtos  %2d descartados  %2d falhas de detalhe\n",
				c.StartedAt.Format(time.RFC3339), c.CycleID, c.Products, c.Discarded, c.DetailFail)
		}
		return
	}

	if *cycleID != "" {
		if cfg.DatabaseURL == "" {
			log.Fatal("DATABASE_URL não configurada")
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Erro ao conectar no Postgres (pgxpool): %v", err)
		}
		defer pool.Close()
		products, err := (&repository.SnapshotRepository{DB: pool}).ProductsByCycle(ctx, *cycleID)
		if err != nil {
			log.Fatalf("Erro ao ler produtos do ciclo %s: %v", *cycleID, err)
		}
		for _, p := range products {
			fmt.Printf("%-14s %s\n               %s\n", p.Price, p.Name, p.URL)
		}
		return
	}

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

	report := cache.EnsureFresh(ctx, *force)
	snap := cache.Snapshot()

	if *asJSON {
		out := struct {
			Products []model.Product      `json:"products"`
			Report   *model.RefreshReport `json:"report"`
		}{snap.Products, report}
		if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
			log.Fatalf("Erro ao serializar catálogo: %v", err)
		}
	} else {
		for _, p := range snap.Products {
			fmt.Printf("%-14s %s\n               %s\n", p.Price, p.Name, p.URL)
		}
	}

	log.Printf("Ciclo %s: %d listagens ok, %d produtos, %d descartados, %d falhas de detalhe",
		report.CycleID, report.ListingOK, report.Products, report.Discarded, report.DetailFail)
}
