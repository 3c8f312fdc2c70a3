package model

import "time"

// RefreshReport agrega o resultado de um ciclo de refresh. Nenhuma falha
// individual de fetch aborta um ciclo; tudo que deu errado fica contado
// aqui para log, métrica e histórico.
type RefreshReport struct {
	CycleID     string    `json:"cycle_id"`
	StartedAt   time.Time `json:"started_at"`
	DurationMS  int64     `json:"duration_ms"`
	ListingOK   int       `json:"listing_ok"`
	ListingFail int       `json:"listing_fail"`
	DetailOK    int       `json:"detail_ok"`
	DetailFail  int       `json:"detail_fail"`
	Discarded   int       `json:"discarded"`
	Products    int       `json:"products"`
	// Skipped indica que o catálogo ainda estava fresco e o ciclo nem rodou.
	Skipped bool `json:"skipped"`
}

// AskRecord é uma entrada do histórico de perguntas de uma sessão.
type AskRecord struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}
