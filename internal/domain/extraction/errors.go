package extraction

import "errors"

// Erros do pipeline de extração. Comparar sempre com errors.Is: as camadas de cima
// embrulham estes valores com contexto adicional.
var (
	ErrInvalidImage    = errors.New("imagem inválida")
	ErrExtraction      = errors.New("falha na chamada ao modelo de visão")
	ErrNoJSONFound     = errors.New("nenhum JSON encontrado na resposta do modelo")
	ErrMalformedJSON   = errors.New("JSON malformado na resposta do modelo")
	ErrEmptyExtraction = errors.New("nenhuma peça identificada na imagem")
	ErrConfiguration   = errors.New("configuração do servidor ausente")
)

// ValidationError descreve a regra de pré-condição da imagem que falhou.
// errors.Is(err, ErrInvalidImage) é verdadeiro para qualquer ValidationError.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Is permite comparar com ErrInvalidImage.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidImage }

// IsParseFailure indica se o erro nasceu da leitura da resposta do modelo
// (sem JSON, JSON malformado ou lista de peças vazia).
func IsParseFailure(err error) bool {
	return errors.Is(err, ErrNoJSONFound) ||
		errors.Is(err, ErrMalformedJSON) ||
		errors.Is(err, ErrEmptyExtraction)
}
