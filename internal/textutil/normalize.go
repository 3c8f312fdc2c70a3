package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Decompõe em NFD, remove as marcas combinantes (acentos) e recompõe.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize prepara um texto para comparação lexical: minúsculas, sem
// acentos, só [a-z0-9] e espaços simples. O resultado é estável:
// Normalize(Normalize(s)) == Normalize(s) para qualquer entrada.
func Normalize(s string) string {
	s = strings.ToLower(s)
	if out, _, err := transform.String(stripAccents, s); err == nil {
		s = out
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Collapse só aparas e colapsa espaços, preservando caixa e acentos.
// Serve para nomes de exibição, onde Normalize seria destrutivo.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
