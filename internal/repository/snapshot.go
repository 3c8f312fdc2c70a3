package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vitrinebot/internal/model"
)

// SnapshotRepository materializa o catálogo de cada ciclo no Postgres,
// um registro por URL canônica. Produto que sumiu da loja continua na
// tabela com o cycle_id antigo; quem consome decide o que é atual.
type SnapshotRepository struct {
	DB *pgxpool.Pool
}

func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS catalog_products (
			url         TEXT PRIMARY KEY,
			cycle_id    UUID NOT NULL,
			name        TEXT NOT NULL,
			price       TEXT NOT NULL,
			price_value NUMERIC(12,2) NOT NULL,
			seen_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// SaveProducts grava o snapshot inteiro num único batch.
func (r *SnapshotRepository) SaveProducts(ctx context.Context, cycleID string, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(`
			INSERT INTO catalog_products (url, cycle_id, name, price, price_value, seen_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (url) DO UPDATE SET
				cycle_id = EXCLUDED.cycle_id,
				name = EXCLUDED.name,
				price = EXCLUDED.price,
				price_value = EXCLUDED.price_value,
				seen_at = NOW()
		`, p.URL, cycleID, p.Name, p.Price, p.PriceValue)
	}
	return r.DB.SendBatch(ctx, batch).Close()
}

// ProductsByCycle lê de volta o que um ciclo materializou, na ordem de
// nome. Útil para conferência manual; o caminho quente nunca lê daqui.
func (r *SnapshotRepository) ProductsByCycle(ctx context.Context, cycleID string) ([]model.Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT url, name, price, price_value
		FROM catalog_products
		WHERE cycle_id = $1
		ORDER BY name
	`, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.URL, &p.Name, &p.Price, &p.PriceValue); err != nil {
			continue
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
