package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrinebot/internal/model"
)

type fakeCatalog struct {
	snap      *model.Snapshot
	report    *model.RefreshReport
	ensured   int
	lastForce bool
}

func (f *fakeCatalog) EnsureFresh(_ context.Context, force bool) *model.RefreshReport {
	f.ensured++
	f.lastForce = force
	return f.report
}

func (f *fakeCatalog) Snapshot() *model.Snapshot {
	return f.snap
}

func (f *fakeCatalog) LastReport() *model.RefreshReport {
	return f.report
}

func fixtureCatalog() *fakeCatalog {
	products := []model.Product{
		{
			Name:           "Sapatênis Azul",
			URL:            "https://loja.test/products/sapatenis-azul",
			Price:          "R$ 100,00",
			PriceValue:     100,
			NormalizedName: "sapatenis azul",
		},
		{
			Name:           "Sapatênis Verde",
			URL:            "https://loja.test/products/sapatenis-verde",
			Price:          "R$ 80,00",
			PriceValue:     80,
			NormalizedName: "sapatenis verde",
		},
	}
	byURL := make(map[string]int, len(products))
	for i, p := range products {
		byURL[p.URL] = i
	}
	snap := &model.Snapshot{
		Products:        products,
		ByURL:           byURL,
		LastRefreshedAt: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		CycleID:         "ciclo-teste",
	}
	return &fakeCatalog{
		snap:   snap,
		report: &model.RefreshReport{CycleID: "ciclo-teste", Products: len(products)},
	}
}

func postJSON(t *testing.T, h http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAskRespondeComCatalogo(t *testing.T) {
	fc := fixtureCatalog()
	h := &Handler{Catalog: fc}

	rec := postJSON(t, h.Routes(), "/ask", AskRequest{Question: "quanto custa um sapatênis?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Answer, "Sapatênis Verde")
	assert.Contains(t, resp.Answer, "R$ 80,00")
	require.Len(t, resp.Matches, 2)
	assert.Equal(t, "Sapatênis Verde", resp.Matches[0].Name, "empate de pontuação ordena pelo menor preço")
	assert.Equal(t, fc.snap.LastRefreshedAt, resp.LastRefreshedAt)
	assert.Equal(t, 1, fc.ensured, "toda pergunta passa pelo EnsureFresh")
	assert.False(t, fc.lastForce)
}

func TestAskPerguntaVazia(t *testing.T) {
	fc := fixtureCatalog()
	h := &Handler{Catalog: fc}

	rec := postJSON(t, h.Routes(), "/ask", AskRequest{Question: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
	assert.Equal(t, 0, fc.ensured, "pergunta vazia não dispara refresh")
}

func TestAskForceRefresh(t *testing.T) {
	fc := fixtureCatalog()
	h := &Handler{Catalog: fc}

	postJSON(t, h.Routes(), "/ask", AskRequest{Question: "tem bota?", ForceRefresh: true})
	assert.True(t, fc.lastForce)
}

func TestAskSemResultadoAindaResponde(t *testing.T) {
	fc := fixtureCatalog()
	h := &Handler{Catalog: fc}

	rec := postJSON(t, h.Routes(), "/ask", AskRequest{Question: "tem patinete elétrico?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Answer)
	assert.Empty(t, resp.Matches)
	assert.Contains(t, rec.Body.String(), `"matches":[]`, "lista vazia sai como array, não null")
}

func TestAskNaoVazaCampoInterno(t *testing.T) {
	fc := fixtureCatalog()
	h := &Handler{Catalog: fc}

	rec := postJSON(t, h.Routes(), "/ask", AskRequest{Question: "sapatênis"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "NormalizedName")
}

func TestAskMetodoErrado(t *testing.T) {
	h := &Handler{Catalog: fixtureCatalog()}
	req := httptest.NewRequest(http.MethodGet, "/ask", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRefresh(t *testing.T) {
	fc := fixtureCatalog()
	h := &Handler{Catalog: fc}

	rec := postJSON(t, h.Routes(), "/refresh", RefreshRequest{Force: true})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RefreshResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.ProductCount)
	assert.Equal(t, "ciclo-teste", resp.Report.CycleID)
	assert.True(t, fc.lastForce)
}

func TestHistorySemSessionID(t *testing.T) {
	h := &Handler{Catalog: fixtureCatalog()}
	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistorySemRedisRespondeVazio(t *testing.T) {
	h := &Handler{Catalog: fixtureCatalog()}
	req := httptest.NewRequest(http.MethodGet, "/history?session_id=abc", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestHealthz(t *testing.T) {
	h := &Handler{Catalog: fixtureCatalog()}
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"products":2`)
	assert.Contains(t, rec.Body.String(), `"cycle_id":"ciclo-teste"`, "o último ciclo sai no healthz")
}

func TestHealthzAntesDoPrimeiroCiclo(t *testing.T) {
	fc := fixtureCatalog()
	fc.report = nil
	h := &Handler{Catalog: fc}
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"last_cycle":null`)
}
