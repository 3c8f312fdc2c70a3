package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	StoreBaseURL string
	ListingURLs  []string

	DatabaseURL  string
	RedisURL     string
	OpenAIKey    string
	RewriteModel string

	ServerPort  string
	MetricsPort string
	RefreshCron string

	DetailBatchSize int
	FetchTimeout    time.Duration
	FetchPerSecond  float64
	CatalogTTL      time.Duration
}

func Load() *Config {
	// Carrega .env da raiz do projeto
	_ = godotenv.Load("../../.env")
	// Se não encontrar, tenta no diretório atual
	_ = godotenv.Load()

	base := strings.TrimRight(getEnv("STORE_BASE_URL", "https://www.minhalojinha.com.br"), "/")
	cfg := &Config{
		StoreBaseURL:    base,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		RewriteModel:    os.Getenv("REWRITE_MODEL"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		MetricsPort:     getEnv("METRICS_PORT", "9090"),
		RefreshCron:     os.Getenv("REFRESH_CRON"),
		DetailBatchSize: getEnvInt("DETAIL_BATCH_SIZE", 6),
		FetchTimeout:    time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 20)) * time.Second,
		FetchPerSecond:  float64(getEnvInt("FETCH_PER_SECOND", 4)),
		CatalogTTL:      time.Duration(getEnvInt("CATALOG_TTL_MINUTES", 60)) * time.Minute,
	}

	// Listagens separadas por vírgula; caminho relativo resolve na base
	for _, part := range strings.Split(getEnv("STORE_LISTING_URLS", "/collections/all"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "/") {
			part = base + part
		}
		cfg.ListingURLs = append(cfg.ListingURLs, part)
	}
	return cfg
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}
