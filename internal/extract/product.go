package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vitrinebot/internal/price"
	"vitrinebot/internal/textutil"
)

// Details é o resultado da extração de uma página de produto. PriceValue
// nil significa que nenhuma fonte da página rendeu preço utilizável; o
// chamador decide o que fazer com o buraco.
type Details struct {
	Name       string
	URL        string
	PriceValue *float64
}

// ProductDetails resolve nome e preço de uma página de produto. O preço
// passa por todas as fontes conhecidas da página e pelo Reconcile; o
// nome sai do og:title ou, na falta dele, do primeiro h1.
func ProductDetails(html, pageURL string) (Details, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Details{}, fmt.Errorf("parse da página de produto: %w", err)
	}
	d := Details{URL: pageURL}
	d.Name = productName(doc)

	var cands []PriceCandidate
	cands = append(cands, storeJSONCandidates(doc)...)
	cands = append(cands, saleClassCandidates(doc)...)
	cands = append(cands, jsonLDCandidates(doc)...)
	cands = append(cands, metaCandidates(doc)...)
	// por último: esta estratégia remove os scripts do DOM
	cands = append(cands, textCandidates(doc)...)

	d.PriceValue = Reconcile(cands)
	return d, nil
}

func productName(doc *goquery.Document) string {
	if og, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
		if n := textutil.Collapse(og); n != "" {
			return n
		}
	}
	return textutil.Collapse(doc.Find("h1").First().Text())
}

// storeJSONCandidates lê os blocos JSON embutidos pelo template da loja
// (script type="application/json" ou data-product-json) atrás do array
// de variantes. Nas variantes, price é o valor de venda e
// compare_at_price o valor de tabela riscado.
func storeJSONCandidates(doc *goquery.Document) []PriceCandidate {
	var out []PriceCandidate
	doc.Find("script[type='application/json'], script[data-product-json]").Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" || !strings.Contains(raw, "variants") {
			return
		}
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.UseNumber()
		var node interface{}
		if err := dec.Decode(&node); err != nil {
			return
		}
		walkVariants(node, &out)
	})
	return out
}

func walkVariants(node interface{}, out *[]PriceCandidate) {
	switch v := node.(type) {
	case map[string]interface{}:
		if vars, ok := v["variants"].([]interface{}); ok {
			for _, item := range vars {
				m, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				if f, ok := moneyFromJSON(m["price"]); ok {
					*out = append(*out, PriceCandidate{Value: f, Tier: TierSale})
				}
				if f, ok := moneyFromJSON(m["compare_at_price"]); ok {
					*out = append(*out, PriceCandidate{Value: f, Tier: TierGeneral})
				}
			}
			return
		}
		for _, val := range v {
			walkVariants(val, out)
		}
	case []interface{}:
		for _, item := range v {
			walkVariants(item, out)
		}
	}
}

// moneyFromJSON converte um valor de variante em reais. Números inteiros
// nesses blocos vêm em centavos; números com casa decimal e strings
// "139.90" vêm em reais.
func moneyFromJSON(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		s := n.String()
		if strings.Contains(s, ".") {
			f, err := n.Float64()
			if err != nil {
				return 0, false
			}
			return f, f >= 0
		}
		i, err := n.Int64()
		if err != nil || i < 0 {
			return 0, false
		}
		return float64(i) / 100, true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, f >= 0
		}
		if f, ok := price.ParseBRL(s); ok {
			return f, true
		}
	}
	return 0, false
}

// saleClassCandidates colhe valores em elementos cuja classe anuncia
// promoção. Só elementos pequenos de preço; containers largos com
// "sale" no nome trariam a página inteira junto.
func saleClassCandidates(doc *goquery.Document) []PriceCandidate {
	var out []PriceCandidate
	sel := "span[class*='sale'], span[class*='promo'], span[class*='oferta'], .price--sale, .preco-promocional, ins"
	doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
		for _, v := range price.FindTextPrices(s.Text()) {
			out = append(out, PriceCandidate{Value: v, Tier: TierSale})
		}
	})
	return out
}

var metaPriceSelectors = []string{
	"meta[property='product:price:amount']",
	"meta[property='og:price:amount']",
	"meta[itemprop='price']",
}

func metaCandidates(doc *goquery.Document) []PriceCandidate {
	var out []PriceCandidate
	for _, sel := range metaPriceSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			content, ok := s.Attr("content")
			if !ok {
				return
			}
			if f, ok := linkedDataNumber(content); ok {
				out = append(out, PriceCandidate{Value: f, Tier: TierGeneral})
			}
		})
	}
	return out
}

// textCandidates é a rede de segurança: varre o texto visível da página
// atrás de "R$ 1.234,56". Remove script e style antes, senão JSON
// embutido viraria preço.
func textCandidates(doc *goquery.Document) []PriceCandidate {
	doc.Find("script, style, noscript").Remove()
	var out []PriceCandidate
	for _, v := range price.FindTextPrices(doc.Find("body").Text()) {
		out = append(out, PriceCandidate{Value: v, Tier: TierGeneral})
	}
	return out
}
