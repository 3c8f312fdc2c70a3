package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vitrinebot/internal/price"
)

// jsonLDCandidates lê os blocos schema.org da página. Ofertas carregam
// price e lowPrice como valor de venda e highPrice como valor de tabela.
func jsonLDCandidates(doc *goquery.Document) []PriceCandidate {
	var out []PriceCandidate
	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		var node interface{}
		if err := json.Unmarshal([]byte(s.Text()), &node); err != nil {
			return
		}
		walkLinkedData(node, &out)
	})
	return out
}

// walkLinkedData desce por objetos e listas sem distinção: blocos
// ld+json aparecem como objeto único, como lista e como @graph, às
// vezes tudo na mesma página.
func walkLinkedData(node interface{}, out *[]PriceCandidate) {
	switch v := node.(type) {
	case map[string]interface{}:
		for key, val := range v {
			switch key {
			case "price", "lowPrice":
				if f, ok := linkedDataNumber(val); ok {
					*out = append(*out, PriceCandidate{Value: f, Tier: TierSale})
				}
			case "highPrice":
				if f, ok := linkedDataNumber(val); ok {
					*out = append(*out, PriceCandidate{Value: f, Tier: TierGeneral})
				}
			default:
				walkLinkedData(val, out)
			}
		}
	case []interface{}:
		for _, item := range v {
			walkLinkedData(item, out)
		}
	}
}

// linkedDataNumber lê um preço schema.org, sempre em unidades da moeda:
// número JSON, string decimal com ponto ou, por tolerância, string
// localizada "1.234,56".
func linkedDataNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, n >= 0
	case string:
		s := strings.TrimSpace(n)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, f >= 0
		}
		if f, ok := price.ParseBRL(s); ok {
			return f, true
		}
	}
	return 0, false
}
