// Package answer monta a resposta em português para uma pergunta já
// casada com o catálogo. A composição é determinística: os fatos da
// resposta saem daqui, e qualquer reescrita de tom vem depois, sem
// poder tocá-los.
package answer

import (
	"fmt"
	"strings"

	"vitrinebot/internal/model"
	"vitrinebot/internal/textutil"
)

// Intent é a classificação fechada da intenção de preço da pergunta.
// Não existe "meio termo": ou a pergunta cai numa das três formas de
// pedir preço, ou é tratada como busca de produto.
type Intent int

const (
	IntentNone Intent = iota
	IntentPrice
	IntentCheapest
	IntentMostExpensive
)

// listLimit é o máximo de itens na resposta de busca; do quarto em
// diante entra só o aviso de que existem mais opções.
const listLimit = 3

const notFoundMessage = "Não encontrei nada parecido no catálogo agora. Pode tentar descrever de outro jeito?"

// Frases já normalizadas (Normalize da pergunta). A ordem de checagem
// importa: "menor preco" contém "preco", então o mais específico vem
// primeiro.
var (
	expensivePhrases = []string{"mais caro", "mais cara", "maior preco", "maior valor"}
	cheapestPhrases  = []string{"mais barato", "mais barata", "mais em conta", "menor preco", "mais economico", "mais economica"}
	pricePhrases     = []string{"quanto custa", "quanto custam", "quanto sai", "quanto saem", "quanto esta", "quanto ta", "preco", "valor", "custa", "custam"}
)

// Classify lê a intenção de preço da pergunta crua. Pergunta de preço
// sem superlativo vale como "mais barato": quem pergunta quanto custa
// quer saber o menor valor pelo qual leva o produto.
func Classify(question string) Intent {
	q := textutil.Normalize(question)
	for _, p := range expensivePhrases {
		if strings.Contains(q, p) {
			return IntentMostExpensive
		}
	}
	for _, p := range cheapestPhrases {
		if strings.Contains(q, p) {
			return IntentCheapest
		}
	}
	for _, p := range pricePhrases {
		if strings.Contains(q, p) {
			return IntentPrice
		}
	}
	return IntentNone
}

// Compose monta a resposta base a partir da lista casada. A lista chega
// ordenada do matcher; empates de preço ficam com a primeira ocorrência,
// que é a mais bem pontuada.
func Compose(question string, matches []model.Product) string {
	if len(matches) == 0 {
		return notFoundMessage
	}
	switch Classify(question) {
	case IntentMostExpensive:
		pick := matches[0]
		for _, m := range matches[1:] {
			if m.PriceValue > pick.PriceValue {
				pick = m
			}
		}
		return fmt.Sprintf("O mais caro que encontrei foi %s, por %s.\nLink: %s", pick.Name, pick.Price, pick.URL)
	case IntentCheapest, IntentPrice:
		pick := matches[0]
		for _, m := range matches[1:] {
			if m.PriceValue < pick.PriceValue {
				pick = m
			}
		}
		return fmt.Sprintf("O %s está saindo por %s.\nConfere aqui: %s", pick.Name, pick.Price, pick.URL)
	}

	var b strings.Builder
	b.WriteString("Olha o que encontrei por aqui:")
	for i, m := range matches {
		if i == listLimit {
			b.WriteString("\nE ainda tem mais opções parecidas no site.")
			break
		}
		fmt.Fprintf(&b, "\n- %s: %s (%s)", m.Name, m.Price, m.URL)
	}
	return b.String()
}
