package extraction

import (
	"github.com/jhoicas/oficina-api/internal/application/ports"
	"github.com/jhoicas/oficina-api/internal/domain/extraction"
)

const singlePrompt = `Você é um assistente de uma assistência técnica de celulares e eletrônicos.
Analise a imagem da nota fiscal, cupom ou recibo de compra de UMA peça e devolva SOMENTE um objeto JSON, sem texto adicional, com esta estrutura:
{
  "nome": "<nome da peça, como aparece no documento>",
  "preco_custo": <valor unitário pago pela peça, número com ponto decimal>,
  "frete": <valor do frete, 0 se não houver>,
  "fornecedor": "<nome da loja ou fornecedor>",
  "quantidade": <quantidade comprada, número inteiro>
}
Regras:
- Valores monetários em reais, sem símbolo de moeda e sem separador de milhar.
- Se um campo não estiver visível, use "" para textos e 0 para números (quantidade 1).`

const multiPrompt = `Você é um assistente de uma assistência técnica de celulares e eletrônicos.
Analise a imagem da nota fiscal de compra de peças e devolva SOMENTE um objeto JSON, sem texto adicional, com esta estrutura:
{
  "fornecedor_geral": "<nome da loja ou fornecedor que emitiu a nota>",
  "frete_total": <valor total do frete da nota, 0 se não houver>,
  "pecas": [
    {
      "nome": "<nome da peça>",
      "quantidade": <quantidade, número inteiro>,
      "valor_unitario": <valor unitário>,
      "valor_total": <valor total da linha>
    }
  ]
}
Regras:
- Liste todas as peças da nota, na ordem em que aparecem.
- Valores monetários em reais, sem símbolo de moeda e sem separador de milhar.
- Não distribua o frete entre as peças; informe apenas o total da nota.
- Se um campo não estiver visível, use "" para textos e 0 para números (quantidade 1).`

// Parâmetros de geração: baixa aleatoriedade e amostragem quase gulosa.
// A variante multi tem mais tokens porque a lista de peças não tem limite.
var (
	singleParams = ports.GenerationParams{Temperature: 0.1, TopK: 1, TopP: 0.8, MaxOutputTokens: 1024}
	multiParams  = ports.GenerationParams{Temperature: 0.1, TopK: 1, TopP: 0.8, MaxOutputTokens: 2048}
)

// promptFor devolve o prompt e os parâmetros da variante.
func promptFor(v extraction.Variant) (string, ports.GenerationParams) {
	if v == extraction.VariantMulti {
		return multiPrompt, multiParams
	}
	return singlePrompt, singleParams
}
