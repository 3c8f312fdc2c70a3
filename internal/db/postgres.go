package db

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
)

// New abre a conexão database/sql usada pelo histórico de ciclos.
func New(url string) (*sql.DB, error) {
	return sql.Open("postgres", url)
}

// NewPool abre o pool pgx usado pela materialização do catálogo, que
// grava em lote a cada ciclo.
func NewPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, url)
}
