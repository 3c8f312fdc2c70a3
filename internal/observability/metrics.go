package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RefreshCycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vitrinebot_refresh_cycles_total",
			Help: "Total de ciclos de refresh executados",
		},
	)
	RefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vitrinebot_refresh_duration_seconds",
			Help:    "Duração de cada ciclo de refresh",
			Buckets: prometheus.DefBuckets,
		},
	)
	FetchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitrinebot_fetch_errors_total",
			Help: "Falhas de fetch por fase do ciclo",
		},
		[]string{"phase"},
	)
	CatalogProducts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vitrinebot_catalog_products",
			Help: "Produtos no snapshot publicado",
		},
	)
	QuestionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vitrinebot_questions_total",
			Help: "Total de perguntas respondidas",
		},
	)
)

func Start(port string) {
	prometheus.MustRegister(RefreshCycles, RefreshDuration, FetchErrors, CatalogProducts, QuestionsTotal)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, nil)
}
