package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Fetcher busca o HTML bruto de uma URL. Falha de fetch é rotina aqui:
// o chamador conta e segue, nunca aborta o ciclo por causa de uma URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher implementa Fetcher sobre net/http com um limitador global
// de requisições, para não martelar a loja durante os lotes.
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

func NewHTTPFetcher(timeout time.Duration, perSecond float64, burst int) *HTTPFetcher {
	if perSecond <= 0 {
		perSecond = 4
	}
	if burst < 1 {
		burst = 1
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; vitrinebot/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d em %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
