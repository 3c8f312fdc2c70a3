package match

import "strings"

// Vocabulário em pt-BR já normalizado (sem acento, minúsculas). Três
// camadas: stopwords que saem da pergunta, categorias que viram filtro
// duro e sinônimos que pontuam e estendem o filtro.

// stopwords: artigos, partículas de pergunta e termos genéricos de
// preço. A intenção de preço é lida pelo composer na pergunta crua;
// para o casamento essas palavras não contam.
var stopwords = map[string]bool{
	"a": true, "o": true, "as": true, "os": true,
	"um": true, "uma": true, "uns": true, "umas": true,
	"algo": true, "algum": true, "alguma": true, "alguns": true, "algumas": true,
	"de": true, "do": true, "da": true, "dos": true, "das": true,
	"no": true, "na": true, "nos": true, "nas": true,
	"em": true, "com": true, "sem": true, "para": true, "pra": true,
	"que": true, "qual": true, "quais": true, "quanto": true, "quanta": true,
	"quero": true, "queria": true, "tem": true, "ha": true, "existe": true,
	"me": true, "mostra": true, "mostre": true, "ver": true, "voces": true, "vcs": true,
	"e": true, "ou": true, "por": true, "favor": true, "ai": true, "la": true,
	"mais": true, "menos": true, "muito": true, "bem": true,
	"barato": true, "barata": true, "baratos": true, "baratas": true,
	"caro": true, "cara": true, "caros": true, "caras": true,
	"preco": true, "precos": true, "valor": true, "valores": true,
	"custa": true, "custam": true, "sai": true, "esta": true, "ta": true,
	"loja": true, "catalogo": true, "produto": true, "produtos": true,
	"vende": true, "vendem": true, "venda": true, "comprar": true,
}

// categories em ordem de verificação: termos que são substring de
// outros precisam vir depois deles ("sapatenis" antes de "tenis",
// "calcado" antes de "calca"), senão a detecção para no termo errado.
var categories = []string{
	"sapatenis",
	"chuteira",
	"mocassim",
	"sapatilha",
	"sandalia",
	"papete",
	"chinelo",
	"bota",
	"tenis",
	"sapato",
	"calcado",
	"camiseta",
	"camisa",
	"regata",
	"moletom",
	"jaqueta",
	"casaco",
	"blusa",
	"bermuda",
	"short",
	"calca",
	"vestido",
	"saia",
	"meia",
	"bone",
	"cinto",
	"mochila",
	"carteira",
}

// synonyms: variações de grafia e termos trocáveis. Valem nos dois
// sentidos que estiverem registrados; o filtro de categoria e a
// pontuação consultam o mesmo mapa.
var synonyms = map[string]string{
	"tenis":     "sapatenis",
	"sapatenis": "tenis",
	"camiseta":  "blusa",
	"blusa":     "camiseta",
	"bermuda":   "short",
	"short":     "bermuda",
	"shorts":    "bermuda",
	"calcado":   "sapato",
	"sapato":    "calcado",
	"bone":      "chapeu",
	"chapeu":    "bone",
	"casaco":    "jaqueta",
	"jaqueta":   "casaco",
}

// O plural simples de cada categoria entra como variante registrada:
// "botas" pontua como variante de "bota" sem listar plural por plural.
func init() {
	for _, term := range categories {
		plural := term + "s"
		if _, ok := synonyms[plural]; !ok {
			synonyms[plural] = term
		}
	}
}

// detectCategory encontra no máximo uma categoria na pergunta já
// normalizada, na ordem da lista. Contém, não igualdade: é o que deixa
// "botas" e "meus tenis" caírem na categoria certa.
func detectCategory(q string) (string, bool) {
	for _, term := range categories {
		if strings.Contains(q, term) {
			return term, true
		}
	}
	return "", false
}
