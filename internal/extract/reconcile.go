// Package extract transforma o HTML das páginas da loja em dados de
// catálogo: entradas de listagem (nome + URL) e detalhes de produto
// (nome + preço resolvido entre várias fontes da página).
package extract

// Tier classifica a confiabilidade da fonte de um preço candidato.
// Fontes que anunciam preço promocional valem mais que fontes genéricas.
type Tier int

const (
	TierSale    Tier = iota // preço promocional explícito
	TierGeneral             // preço cheio ou sem distinção
)

// PriceCandidate é um valor encontrado na página junto com a camada da
// fonte que o produziu.
type PriceCandidate struct {
	Value float64
	Tier  Tier
}

// Reconcile resolve o preço final entre os candidatos: existindo algum
// candidato promocional, vale o menor deles; senão, o menor dos gerais.
// Promoção menor sempre vence preço cheio, mesmo com o cheio repetido em
// mais fontes. Sem candidato nenhum, devolve nil e o produto fica sem
// preço.
func Reconcile(cands []PriceCandidate) *float64 {
	var sale, general []float64
	for _, c := range cands {
		if c.Value < 0 {
			continue
		}
		switch c.Tier {
		case TierSale:
			sale = append(sale, c.Value)
		default:
			general = append(general, c.Value)
		}
	}
	pool := sale
	if len(pool) == 0 {
		pool = general
	}
	if len(pool) == 0 {
		return nil
	}
	min := pool[0]
	for _, v := range pool[1:] {
		if v < min {
			min = v
		}
	}
	return &min
}
