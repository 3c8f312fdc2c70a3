package model

import "time"

// Product é um item do catálogo montado a partir das páginas da loja.
// Price é a forma de exibição em reais; PriceValue é o número usado em
// ordenação e comparação. NormalizedName existe só para o casamento
// lexical e não sai na API.
type Product struct {
	Name           string  `json:"name"`
	URL            string  `json:"url"`
	Price          string  `json:"price"`
	PriceValue     float64 `json:"price_value"`
	NormalizedName string  `json:"-"`
}

// Snapshot é o catálogo completo publicado por um ciclo de refresh.
// Products preserva a ordem de descoberta nas listagens; ByURL indexa
// cada URL canônica na posição correspondente. Um snapshot publicado
// nunca é alterado: ciclos novos montam outro e trocam o ponteiro.
type Snapshot struct {
	Products        []Product
	ByURL           map[string]int
	LastRefreshedAt time.Time
	CycleID         string
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Products)
}

// Lookup devolve o produto da URL canônica, se presente no snapshot.
func (s *Snapshot) Lookup(url string) (Product, bool) {
	if s == nil {
		return Product{}, false
	}
	i, ok := s.ByURL[url]
	if !ok {
		return Product{}, false
	}
	return s.Products[i], true
}
