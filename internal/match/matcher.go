// Package match casa perguntas livres em português com produtos do
// catálogo. Todo o processo é lexical e determinístico: mesma pergunta
// sobre o mesmo snapshot devolve sempre a mesma lista, na mesma ordem.
package match

import (
	"sort"
	"strings"

	"vitrinebot/internal/model"
	"vitrinebot/internal/textutil"
)

// maxResults é o tamanho máximo da lista devolvida por Match.
const maxResults = 8

// Match pontua o catálogo contra a pergunta e devolve os melhores, já
// ordenados. Pontuação maior primeiro; empate decide pelo menor preço;
// persistindo o empate, vale a ordem de descoberta do catálogo.
func Match(question string, products []model.Product) []model.Product {
	normalized := textutil.Normalize(question)
	if normalized == "" {
		return nil
	}

	candidates := products
	if term, ok := detectCategory(normalized); ok {
		candidates = filterByCategory(products, term)
	}

	tokens := dropStopwords(strings.Fields(normalized))
	if len(tokens) == 0 {
		return nil
	}

	type scored struct {
		product model.Product
		score   int
	}
	var ranked []scored
	for _, p := range candidates {
		score := 0
		for _, tok := range tokens {
			if strings.Contains(p.NormalizedName, tok) {
				score += 2
			}
			if variant, ok := synonyms[tok]; ok && strings.Contains(p.NormalizedName, variant) {
				score++
			}
		}
		if score > 0 {
			ranked = append(ranked, scored{product: p, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].product.PriceValue < ranked[j].product.PriceValue
	})

	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	out := make([]model.Product, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.product)
	}
	return out
}

// filterByCategory é o filtro duro: detectada uma categoria, produtos de
// fora dela somem da disputa, por mais que pontuassem em outros tokens.
// O sinônimo registrado da categoria também conta como dentro.
func filterByCategory(products []model.Product, term string) []model.Product {
	variant := synonyms[term]
	var out []model.Product
	for _, p := range products {
		if strings.Contains(p.NormalizedName, term) {
			out = append(out, p)
			continue
		}
		if variant != "" && strings.Contains(p.NormalizedName, variant) {
			out = append(out, p)
		}
	}
	return out
}

func dropStopwords(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		if !stopwords[t] {
			out = append(out, t)
		}
	}
	return out
}
