package answer

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// Rewriter passa a resposta base pelo modelo só para ajustar o tom. A
// base continua dona dos fatos: falhou a reescrita, por qualquer motivo,
// o chamador responde com a base como veio.
type Rewriter struct {
	client *openai.Client
	model  string
}

func NewRewriter(client *openai.Client, model string) *Rewriter {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Rewriter{client: client, model: model}
}

func RewritePrompt() string {
	return `
Você é o atendente virtual de uma loja.
Você receberá uma RESPOSTA BASE montada pelo sistema, com fatos já conferidos (nomes de produtos, preços e links).

DIRETRIZES DE REESCRITA:
1. **Fatos intocáveis:** NÃO altere nenhum nome de produto, preço ou link. Copie-os exatamente como estão.
2. **Nada de inventar:** NÃO acrescente produtos, promoções, cupons nem condições de pagamento.
3. **Nada de cortar:** toda informação da resposta base aparece na resposta final.
4. **Tom de Voz:** simpático e direto, em português, no máximo três frases além da lista de produtos.
`
}

func (r *Rewriter) Rewrite(ctx context.Context, question, baseline string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    "system",
			Content: RewritePrompt(),
		},
		{
			Role:    "system",
			Content: "RESPOSTA BASE:\n" + baseline,
		},
		{
			Role:    "user",
			Content: question,
		},
	}

	resp, err := r.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       r.model,
			Messages:    messages,
			Temperature: 0.3,
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("resposta vazia do modelo")
	}
	return resp.Choices[0].Message.Content, nil
}
