package price

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// As convenções de moeda pt-BR moram todas aqui: milhar separado por
// ponto, decimal por vírgula, prefixo "R$". Nenhum outro pacote deve
// conhecer esse formato.

const installmentWindow = 8

var (
	fullTokenRe = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})*,\d{2}$`)
	currencyRe  = regexp.MustCompile(`R\$[\s\p{Zs}]*(\d{1,3}(?:\.\d{3})*,\d{2})`)
	// "10x", "12 x": marca de parcelamento logo antes de um valor.
	installmentMarkRe = regexp.MustCompile(`(?i)\d+\s*x`)
	installmentFragRe = regexp.MustCompile(`(?i)\b\d+\s*x\s*(?:de\s+)?R\$[\s\p{Zs}]*\d{1,3}(?:\.\d{3})*,\d{2}(?:\s+sem\s+juros)?`)
	tokenAnywhereRe   = regexp.MustCompile(`R\$[\s\p{Zs}]*\d{1,3}(?:\.\d{3})*,\d{2}`)
)

// ParseBRL converte um token "1.234,56" (com ou sem prefixo "R$") em
// número. Devolve false para qualquer coisa fora desse formato, inclusive
// decimais com ponto, que aqui seriam separador de milhar.
func ParseBRL(text string) (float64, bool) {
	t := strings.TrimSpace(text)
	t = strings.TrimPrefix(t, "R$")
	t = strings.TrimSpace(t)
	if !fullTokenRe.MatchString(t) {
		return 0, false
	}
	t = strings.ReplaceAll(t, ".", "")
	t = strings.Replace(t, ",", ".", 1)
	v, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// FormatBRL é a inversa de ParseBRL: FormatBRL(v) sempre reparseia para o
// mesmo v. Saída no padrão "R$ 1.234,56".
func FormatBRL(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	n := len(intPart)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(intPart[i])
	}
	out := "R$ " + b.String() + "," + frac
	if neg {
		out = "R$ -" + b.String() + "," + frac
	}
	return out
}

// FindTextPrices varre um texto livre atrás de valores "R$ 1.234,56".
// Valores precedidos de marca de parcelamento ("10x", "12 x de") dentro
// de uma janela curta são fragmentos de parcela, não preço do produto,
// e ficam de fora.
func FindTextPrices(text string) []float64 {
	var out []float64
	for _, loc := range currencyRe.FindAllStringSubmatchIndex(text, -1) {
		start := loc[0]
		from := start - installmentWindow
		if from < 0 {
			from = 0
		}
		if installmentMarkRe.MatchString(text[from:start]) {
			continue
		}
		token := text[loc[2]:loc[3]]
		if v, ok := ParseBRL(token); ok {
			out = append(out, v)
		}
	}
	return out
}

// RemoveInstallments apaga fragmentos "10x de R$ 13,99" de um texto.
func RemoveInstallments(s string) string {
	return installmentFragRe.ReplaceAllString(s, " ")
}

// RemoveTokens apaga qualquer valor "R$ 1.234,56" restante de um texto.
func RemoveTokens(s string) string {
	return tokenAnywhereRe.ReplaceAllString(s, " ")
}
