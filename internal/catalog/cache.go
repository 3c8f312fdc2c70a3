// Package catalog mantém o catálogo da loja em memória dentro de uma
// janela de frescor, refazendo o ciclo de scraping sob demanda. Leitores
// sempre enxergam um snapshot completo: ciclos montam o catálogo novo à
// parte e só então trocam o ponteiro.
package catalog

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"vitrinebot/internal/extract"
	"vitrinebot/internal/model"
	"vitrinebot/internal/observability"
	"vitrinebot/internal/price"
	"vitrinebot/internal/textutil"
)

const (
	defaultTTL       = time.Hour
	defaultBatchSize = 6
)

// Recorder recebe o resultado de cada ciclo para persistência. Falha de
// persistência é problema do Recorder: o catálogo em memória já foi
// publicado quando ele roda.
type Recorder interface {
	RecordCycle(ctx context.Context, report *model.RefreshReport, snap *model.Snapshot)
}

type Options struct {
	BaseURL     string
	ListingURLs []string
	TTL         time.Duration
	BatchSize   int
}

// Cache é o dono do snapshot do catálogo. Todo acesso de leitura passa
// por Snapshot(); todo ciclo passa por EnsureFresh.
type Cache struct {
	fetcher  Fetcher
	opts     Options
	recorder Recorder

	mu         sync.RWMutex
	snap       *model.Snapshot
	lastReport *model.RefreshReport

	// serializa ciclos: nunca dois em voo, e quem esperou reaproveita
	// o resultado de quem rodou.
	refreshMu sync.Mutex
}

func New(fetcher Fetcher, opts Options) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	return &Cache{
		fetcher: fetcher,
		opts:    opts,
		snap:    &model.Snapshot{ByURL: map[string]int{}},
	}
}

func (c *Cache) SetRecorder(r Recorder) {
	c.recorder = r
}

// Snapshot devolve o catálogo publicado. O snapshot é imutável; quem
// segura o ponteiro pode ler à vontade enquanto ciclos novos acontecem.
func (c *Cache) Snapshot() *model.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// freshLocked exige c.mu. Catálogo vazio nunca é fresco: um ciclo que
// não rendeu produto carimba a hora, mas não segura os próximos.
func (c *Cache) freshLocked(now time.Time) bool {
	return c.snap.Len() > 0 && now.Sub(c.snap.LastRefreshedAt) <= c.opts.TTL
}

// EnsureFresh garante catálogo dentro da janela de frescor, rodando um
// ciclo completo se preciso. force refaz o ciclo mesmo fresco. Falhas
// individuais nunca viram erro: o pior resultado é um catálogo menor, e
// o relatório conta tudo que aconteceu.
func (c *Cache) EnsureFresh(ctx context.Context, force bool) *model.RefreshReport {
	if rep := c.skipIfFresh(force); rep != nil {
		return rep
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// outro ciclo pode ter publicado enquanto este esperava a vez
	if rep := c.skipIfFresh(force); rep != nil {
		return rep
	}

	// o ciclo não herda cancelamento do chamador; quem limita cada
	// fetch é o timeout do fetcher
	cycleCtx := context.WithoutCancel(ctx)
	report, snap := c.runCycle(cycleCtx)

	c.mu.Lock()
	c.snap = snap
	c.lastReport = report
	c.mu.Unlock()

	observability.RefreshCycles.Inc()
	observability.RefreshDuration.Observe(float64(report.DurationMS) / 1000)
	observability.CatalogProducts.Set(float64(report.Products))

	if c.recorder != nil {
		c.recorder.RecordCycle(cycleCtx, report, snap)
	}
	return report
}

func (c *Cache) skipIfFresh(force bool) *model.RefreshReport {
	if force {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.freshLocked(time.Now()) {
		return nil
	}
	return &model.RefreshReport{
		CycleID:   c.snap.CycleID,
		StartedAt: c.snap.LastRefreshedAt,
		Products:  c.snap.Len(),
		Skipped:   true,
	}
}

// pending acumula o estado de um produto entre as fases do ciclo. O
// detalhe só sobrescreve o que de fato resolveu: nome da listagem fica
// valendo se a página não rendeu nome, e nunca um valor presente é
// trocado por vazio.
type pending struct {
	name       string
	priceValue *float64
}

func (c *Cache) runCycle(ctx context.Context) (*model.RefreshReport, *model.Snapshot) {
	started := time.Now()
	report := &model.RefreshReport{
		CycleID:   uuid.New().String(),
		StartedAt: started,
	}
	log.Printf("[Catalog] Iniciando ciclo %s", report.CycleID)

	var order []string
	byURL := make(map[string]*pending)
	for _, listingURL := range c.opts.ListingURLs {
		html, err := c.fetcher.Fetch(ctx, listingURL)
		if err != nil {
			log.Printf("[Catalog] Falha na listagem %s: %v", listingURL, err)
			report.ListingFail++
			observability.FetchErrors.WithLabelValues("listing").Inc()
			continue
		}
		entries, err := extract.ListingEntries(html, c.opts.BaseURL)
		if err != nil {
			log.Printf("[Catalog] Falha ao ler listagem %s: %v", listingURL, err)
			report.ListingFail++
			continue
		}
		report.ListingOK++
		for _, e := range entries {
			if p, ok := byURL[e.URL]; ok {
				if p.name == "" {
					p.name = e.Name
				}
				continue
			}
			byURL[e.URL] = &pending{name: e.Name}
			order = append(order, e.URL)
		}
	}

	c.fetchDetails(ctx, order, byURL, report)

	snap := &model.Snapshot{
		ByURL:           make(map[string]int),
		LastRefreshedAt: time.Now(),
		CycleID:         report.CycleID,
	}
	for _, u := range order {
		p := byURL[u]
		if p.name == "" || p.priceValue == nil {
			report.Discarded++
			continue
		}
		snap.ByURL[u] = len(snap.Products)
		snap.Products = append(snap.Products, model.Product{
			Name:           p.name,
			URL:            u,
			Price:          price.FormatBRL(*p.priceValue),
			PriceValue:     *p.priceValue,
			NormalizedName: textutil.Normalize(p.name),
		})
	}
	report.Products = len(snap.Products)
	report.DurationMS = time.Since(started).Milliseconds()
	log.Printf("[Catalog] Ciclo %s: %d produtos, %d descartados, %d falhas de detalhe",
		report.CycleID, report.Products, report.Discarded, report.DetailFail)
	return report, snap
}

// fetchDetails visita as páginas de produto em lotes de tamanho fixo,
// cada lote inteiro concorrente. Um lote só começa quando o anterior
// terminou, para a loja nunca ver mais que BatchSize conexões.
func (c *Cache) fetchDetails(ctx context.Context, order []string, byURL map[string]*pending, report *model.RefreshReport) {
	var mu sync.Mutex
	for i := 0; i < len(order); i += c.opts.BatchSize {
		end := i + c.opts.BatchSize
		if end > len(order) {
			end = len(order)
		}
		var wg sync.WaitGroup
		for _, u := range order[i:end] {
			wg.Add(1)
			go func(u string) {
				defer wg.Done()
				html, err := c.fetcher.Fetch(ctx, u)
				if err != nil {
					log.Printf("[Catalog] Falha no produto %s: %v", u, err)
					observability.FetchErrors.WithLabelValues("detail").Inc()
					mu.Lock()
					report.DetailFail++
					mu.Unlock()
					return
				}
				det, err := extract.ProductDetails(html, u)
				if err != nil {
					log.Printf("[Catalog] Falha ao ler produto %s: %v", u, err)
					mu.Lock()
					report.DetailFail++
					mu.Unlock()
					return
				}
				mu.Lock()
				report.DetailOK++
				p := byURL[u]
				if det.Name != "" {
					p.name = det.Name
				}
				if det.PriceValue != nil {
					p.priceValue = det.PriceValue
				}
				mu.Unlock()
			}(u)
		}
		wg.Wait()
	}
}

// LastReport devolve o relatório do último ciclo executado, ou nil se
// nenhum rodou ainda.
func (c *Cache) LastReport() *model.RefreshReport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastReport
}
