// Package server expõe o catálogo e as perguntas por HTTP. O handler
// não conhece scraping nem matching por dentro: recebe o cache, o
// histórico e o reescritor prontos e só orquestra a sequência.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"vitrinebot/internal/answer"
	"vitrinebot/internal/match"
	"vitrinebot/internal/model"
	"vitrinebot/internal/observability"
	"vitrinebot/internal/session"
)

// Catalog é o que o handler precisa do cache. Interface para os testes
// servirem um catálogo fixo sem rede.
type Catalog interface {
	EnsureFresh(ctx context.Context, force bool) *model.RefreshReport
	Snapshot() *model.Snapshot
	LastReport() *model.RefreshReport
}

type Handler struct {
	Catalog  Catalog
	Sessions *session.Store   // opcional; sem Redis fica nil
	Rewriter *answer.Rewriter // opcional; sem chave do modelo fica nil
}

type AskRequest struct {
	Question     string `json:"question"`
	SessionID    string `json:"session_id"`
	ForceRefresh bool   `json:"force_refresh"`
}

type AskResponse struct {
	Answer          string          `json:"answer"`
	Matches         []model.Product `json:"matches"`
	LastRefreshedAt time.Time       `json:"last_refreshed_at"`
}

type RefreshRequest struct {
	Force bool `json:"force"`
}

type RefreshResponse struct {
	ProductCount    int                  `json:"product_count"`
	LastRefreshedAt time.Time            `json:"last_refreshed_at"`
	Report          *model.RefreshReport `json:"report"`
}

func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ask", h.handleAsk)
	mux.HandleFunc("/refresh", h.handleRefresh)
	mux.HandleFunc("/history", h.handleHistory)
	mux.HandleFunc("/healthz", h.handleHealthz)
	return mux
}

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	var req AskRequest
	json.NewDecoder(r.Body).Decode(&req)
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "pergunta vazia")
		return
	}

	h.Catalog.EnsureFresh(r.Context(), req.ForceRefresh)
	snap := h.Catalog.Snapshot()

	matches := match.Match(req.Question, snap.Products)
	baseline := answer.Compose(req.Question, matches)

	final := baseline
	if h.Rewriter != nil {
		out, err := h.Rewriter.Rewrite(r.Context(), req.Question, baseline)
		if err != nil {
			log.Printf("[Ask] Reescrita falhou, respondendo com a base: %v", err)
		} else if strings.TrimSpace(out) != "" {
			final = out
		}
	}

	observability.QuestionsTotal.Inc()

	if h.Sessions != nil && req.SessionID != "" {
		rec := model.AskRecord{Question: req.Question, Answer: final, AskedAt: time.Now()}
		if err := h.Sessions.Append(r.Context(), req.SessionID, rec); err != nil {
			log.Printf("[Ask] Falha ao gravar histórico da sessão %s: %v", req.SessionID, err)
		}
	}

	if matches == nil {
		matches = []model.Product{}
	}
	writeJSON(w, http.StatusOK, AskResponse{
		Answer:          final,
		Matches:         matches,
		LastRefreshedAt: snap.LastRefreshedAt,
	})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	var req RefreshRequest
	json.NewDecoder(r.Body).Decode(&req)

	report := h.Catalog.EnsureFresh(r.Context(), req.Force)
	snap := h.Catalog.Snapshot()

	writeJSON(w, http.StatusOK, RefreshResponse{
		ProductCount:    snap.Len(),
		LastRefreshedAt: snap.LastRefreshedAt,
		Report:          report,
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id obrigatório")
		return
	}
	if h.Sessions == nil {
		writeJSON(w, http.StatusOK, []model.AskRecord{})
		return
	}
	recs, err := h.Sessions.Get(r.Context(), sessionID)
	if err != nil {
		log.Printf("[History] Falha ao ler sessão %s: %v", sessionID, err)
		writeError(w, http.StatusInternalServerError, "histórico indisponível")
		return
	}
	if recs == nil {
		recs = []model.AskRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	snap := h.Catalog.Snapshot()
	// last_cycle fica null até o primeiro ciclo rodar
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ok",
		"products":          snap.Len(),
		"last_refreshed_at": snap.LastRefreshedAt,
		"last_cycle":        h.Catalog.LastReport(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
