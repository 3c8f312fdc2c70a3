package answer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrinebot/internal/model"
	"vitrinebot/internal/price"
	"vitrinebot/internal/textutil"
)

func produto(name string, value float64) model.Product {
	slug := strings.ReplaceAll(textutil.Normalize(name), " ", "-")
	return model.Product{
		Name:           name,
		URL:            "https://loja.test/products/" + slug,
		Price:          price.FormatBRL(value),
		PriceValue:     value,
		NormalizedName: textutil.Normalize(name),
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		question string
		want     Intent
	}{
		{"quanto custa um sapatênis?", IntentPrice},
		{"qual o valor da bota", IntentPrice},
		{"qual sapatênis mais barato", IntentCheapest},
		{"qual a camiseta mais em conta", IntentCheapest},
		{"qual o menor preço de tênis", IntentCheapest},
		{"qual o tênis mais caro", IntentMostExpensive},
		{"tem sapatênis azul?", IntentNone},
		{"me mostra as botas", IntentNone},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.question), "pergunta: %q", c.question)
	}
}

func TestComposeMaisBarato(t *testing.T) {
	matches := []model.Product{
		produto("Sapatênis Azul", 100),
		produto("Sapatênis Verde", 80),
	}
	got := Compose("quanto custa um sapatênis?", matches)
	assert.Contains(t, got, "Sapatênis Verde")
	assert.Contains(t, got, "R$ 80,00")
	assert.Contains(t, got, "https://loja.test/products/sapatenis-verde")
	assert.NotContains(t, got, "Sapatênis Azul")
	assert.Len(t, strings.Split(got, "\n"), 2, "frase do preço numa linha, link na outra")
}

func TestComposeMaisCaro(t *testing.T) {
	matches := []model.Product{
		produto("Sapatênis Verde", 80),
		produto("Sapatênis Azul", 100),
	}
	got := Compose("qual o sapatênis mais caro?", matches)
	assert.Contains(t, got, "Sapatênis Azul")
	assert.Contains(t, got, "R$ 100,00")
	assert.Len(t, strings.Split(got, "\n"), 2)
}

func TestComposeEmpateFicaComPrimeiro(t *testing.T) {
	matches := []model.Product{
		produto("Sapatênis Verde", 80),
		produto("Sapatênis Cinza", 80),
	}
	got := Compose("qual sapatênis mais barato", matches)
	assert.Contains(t, got, "Sapatênis Verde", "empate de preço fica com o mais bem ranqueado")
	assert.NotContains(t, got, "Sapatênis Cinza")
}

func TestComposeListaLimitada(t *testing.T) {
	matches := []model.Product{
		produto("Sapatênis Verde", 80),
		produto("Sapatênis Azul", 100),
		produto("Sapatênis Cinza", 120),
		produto("Sapatênis Branco", 130),
	}
	got := Compose("tem sapatênis?", matches)
	assert.Contains(t, got, "Sapatênis Verde")
	assert.Contains(t, got, "Sapatênis Azul")
	assert.Contains(t, got, "Sapatênis Cinza")
	assert.NotContains(t, got, "Sapatênis Branco")
	assert.Equal(t, 5, len(strings.Split(got, "\n")), "cabeçalho, três itens e aviso de mais opções")
}

func TestComposeSemResultado(t *testing.T) {
	got := Compose("tem patinete elétrico?", nil)
	require.NotEmpty(t, got)
	assert.NotContains(t, got, "R$", "sem resultado não inventa preço")
	assert.Equal(t, Compose("outra pergunta sem nada", nil), got, "mensagem fixa")
}

func TestComposeDeterministico(t *testing.T) {
	matches := []model.Product{
		produto("Sapatênis Azul", 100),
		produto("Sapatênis Verde", 80),
	}
	primeira := Compose("quanto custa um sapatênis?", matches)
	for i := 0; i < 5; i++ {
		assert.Equal(t, primeira, Compose("quanto custa um sapatênis?", matches))
	}
}
