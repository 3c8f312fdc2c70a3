package repository

import (
	"context"
	"log"

	"vitrinebot/internal/model"
)

// CycleRecorder liga o fim de um ciclo às duas tabelas: relatório no
// histórico, produtos na materialização. Qualquer um dos dois pode
// estar desligado. Falha de banco vira log: o snapshot em memória já
// foi publicado quando o recorder roda, e é ele quem atende.
type CycleRecorder struct {
	History   *HistoryRepository
	Snapshots *SnapshotRepository
}

func (c *CycleRecorder) RecordCycle(ctx context.Context, rep *model.RefreshReport, snap *model.Snapshot) {
	if c.History != nil {
		if err := c.History.SaveCycle(ctx, rep); err != nil {
			log.Printf("[Repository] Falha ao gravar ciclo %s: %v", rep.CycleID, err)
		}
	}
	if c.Snapshots != nil {
		if err := c.Snapshots.SaveProducts(ctx, rep.CycleID, snap.Products); err != nil {
			log.Printf("[Repository] Falha ao materializar ciclo %s: %v", rep.CycleID, err)
		}
	}
}
