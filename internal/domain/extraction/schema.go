package extraction

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Formatos que os prompts pedem ao modelo. Servem apenas para detectar respostas
// fora do formato; o normalizador continua sendo quem completa os campos.
const (
	singleShapeSchema = `{
  "type": "object",
  "required": ["nome", "preco_custo", "frete", "fornecedor", "quantidade"],
  "properties": {
    "nome":        {"type": "string", "minLength": 1},
    "preco_custo": {"type": "number", "minimum": 0},
    "frete":       {"type": "number", "minimum": 0},
    "fornecedor":  {"type": "string", "minLength": 1},
    "quantidade":  {"type": "integer", "minimum": 1}
  }
}`

	multiShapeSchema = `{
  "type": "object",
  "required": ["fornecedor_geral", "frete_total", "pecas"],
  "properties": {
    "fornecedor_geral": {"type": "string", "minLength": 1},
    "frete_total":      {"type": "number", "minimum": 0},
    "pecas": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["nome", "quantidade", "valor_unitario", "valor_total"],
        "properties": {
          "nome":           {"type": "string", "minLength": 1},
          "quantidade":     {"type": "integer", "minimum": 1},
          "valor_unitario": {"type": "number", "minimum": 0},
          "valor_total":    {"type": "number", "minimum": 0}
        }
      }
    }
  }
}`
)

var (
	singleShape = mustCompileSchema("peca_unica.json", singleShapeSchema)
	multiShape  = mustCompileSchema("nota_pecas.json", multiShapeSchema)
)

// CheckShape valida o objeto decodificado contra o formato pedido no prompt da variante.
// Devolve nil quando a resposta veio exatamente no formato esperado.
func CheckShape(variant Variant, raw map[string]any) error {
	schema := singleShape
	if variant == VariantMulti {
		schema = multiShape
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if err := schema.Validate(raw); err != nil {
		return fmt.Errorf("resposta fora do formato %s: %w", variant, err)
	}
	return nil
}

func mustCompileSchema(name, src string) *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, strings.NewReader(src)); err != nil {
		panic(fmt.Sprintf("schema %s: %v", name, err))
	}
	s, err := c.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("schema %s: %v", name, err))
	}
	return s
}
