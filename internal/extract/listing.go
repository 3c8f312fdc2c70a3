package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vitrinebot/internal/price"
	"vitrinebot/internal/textutil"
)

// Listagens são fonte de nome e URL, nunca de preço: o valor exibido nos
// cartões mistura parcela, preço riscado e promoção conforme o template.
// O preço sai sempre da página de detalhe.

const productPathMarker = "/products/"

var promoPhraseRe = regexp.MustCompile(`(?i)(frete\s+gr[áa]tis|promo[çc][ãa]o|oferta\s+rel[âa]mpago|oferta|lan[çc]amento|novidade|esgotado|[úu]ltimas\s+unidades|\d+%\s*off|sem\s+juros|cupom)`)

// ListingEntry é um produto descoberto numa página de listagem.
type ListingEntry struct {
	Name string
	URL  string
}

// ListingEntries extrai os produtos anunciados numa página de listagem,
// na ordem do documento, um por URL canônica. Entradas que ficam sem
// nome depois da limpeza são descartadas.
func ListingEntries(html, baseURL string) ([]ListingEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse da listagem: %w", err)
	}
	seen := make(map[string]bool)
	var out []ListingEntry
	doc.Find("a[href*='" + productPathMarker + "']").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		u := CanonicalURL(href, baseURL)
		if u == "" || !strings.Contains(u, productPathMarker) || seen[u] {
			return
		}
		name := listingName(a)
		if name == "" {
			return
		}
		seen[u] = true
		out = append(out, ListingEntry{Name: name, URL: u})
	})
	return out, nil
}

// listingName escolhe o texto mais provável de ser o título do cartão:
// um filho com cara de título, depois o atributo title, depois o texto
// inteiro da âncora.
func listingName(a *goquery.Selection) string {
	raw := ""
	if t := a.Find("h1, h2, h3, [class*='title'], [class*='name']").First(); t.Length() > 0 {
		raw = t.Text()
	}
	if strings.TrimSpace(raw) == "" {
		if title, ok := a.Attr("title"); ok {
			raw = title
		}
	}
	if strings.TrimSpace(raw) == "" {
		raw = a.Text()
	}
	return CleanListingName(raw)
}

// CleanListingName tira do texto de um cartão tudo que não é nome:
// fragmentos de parcelamento, valores soltos, chamadas promocionais.
// Depois trunca no primeiro separador " - " ou " | ", que nesses cartões
// introduz variante ou nome da loja.
func CleanListingName(raw string) string {
	s := price.RemoveInstallments(raw)
	s = price.RemoveTokens(s)
	s = promoPhraseRe.ReplaceAllString(s, " ")
	s = textutil.Collapse(s)
	s = truncateAtDelimiter(s)
	return strings.TrimSpace(s)
}

func truncateAtDelimiter(s string) string {
	cut := len(s)
	for _, d := range []string{" - ", " | "} {
		if i := strings.Index(s, d); i >= 0 && i < cut {
			cut = i
		}
	}
	return s[:cut]
}

// CanonicalURL resolve href contra a base e normaliza a identidade do
// produto: sem query string, sem fragmento, sem barra final. Variantes
// da mesma página ("?variant=123") colapsam na mesma URL.
func CanonicalURL(href, base string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if !u.IsAbs() {
		b, err := url.Parse(base)
		if err != nil {
			return ""
		}
		u = b.ResolveReference(u)
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String()
}
