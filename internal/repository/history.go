package repository

import (
	"context"
	"database/sql"

	"vitrinebot/internal/model"
)

// HistoryRepository guarda um registro por ciclo de refresh. É a
// memória durável do catálogo: o snapshot em si vive em memória, mas o
// que cada ciclo rendeu fica consultável aqui.
type HistoryRepository struct {
	DB *sql.DB
}

func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS refresh_cycles (
			cycle_id     UUID PRIMARY KEY,
			started_at   TIMESTAMPTZ NOT NULL,
			duration_ms  BIGINT NOT NULL,
			listing_ok   INT NOT NULL,
			listing_fail INT NOT NULL,
			detail_ok    INT NOT NULL,
			detail_fail  INT NOT NULL,
			discarded    INT NOT NULL,
			products     INT NOT NULL
		)
	`)
	return err
}

func (r *HistoryRepository) SaveCycle(ctx context.Context, rep *model.RefreshReport) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO refresh_cycles
		(cycle_id, started_at, duration_ms, listing_ok, listing_fail, detail_ok, detail_fail, discarded, products)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (cycle_id) DO NOTHING
	`, rep.CycleID, rep.StartedAt, rep.DurationMS, rep.ListingOK, rep.ListingFail,
		rep.DetailOK, rep.DetailFail, rep.Discarded, rep.Products)
	return err
}

func (r *HistoryRepository) LastCycles(ctx context.Context, limit int) ([]model.RefreshReport, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT cycle_id, started_at, duration_ms, listing_ok, listing_fail, detail_ok, detail_fail, discarded, products
		FROM refresh_cycles
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.RefreshReport
	for rows.Next() {
		var rep model.RefreshReport
		if err := rows.Scan(&rep.CycleID, &rep.StartedAt, &rep.DurationMS, &rep.ListingOK, &rep.ListingFail,
			&rep.DetailOK, &rep.DetailFail, &rep.Discarded, &rep.Products); err != nil {
			continue
		}
		list = append(list, rep)
	}
	return list, rows.Err()
}
