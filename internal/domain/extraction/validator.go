package extraction

import "strings"

// MaxImageBytes é o tamanho máximo aceito para uma imagem (10 MiB).
const MaxImageBytes = 10 * 1024 * 1024

// Mensagens de rejeição exibidas ao usuário.
const (
	ReasonNotImage        = "O arquivo deve ser uma imagem"
	ReasonUnsupportedType = "Formato não suportado. Use JPEG, PNG ou WebP"
	ReasonTooLarge        = "Imagem muito grande. Tamanho máximo: 10MB"
)

var strictMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

// Validation é o resultado da checagem de pré-condições de uma imagem.
type Validation struct {
	Valid  bool
	Reason string
}

// Err devolve nil se a imagem é válida, ou um *ValidationError com o motivo.
func (v Validation) Err() error {
	if v.Valid {
		return nil
	}
	return &ValidationError{Reason: v.Reason}
}

// ImageValidator é a assinatura comum às duas variantes de validação.
type ImageValidator func(mimeType string, sizeBytes int64) Validation

// ValidateImage aceita qualquer tipo image/* com até MaxImageBytes.
func ValidateImage(mimeType string, sizeBytes int64) Validation {
	if !strings.HasPrefix(mediaType(mimeType), "image/") {
		return Validation{Reason: ReasonNotImage}
	}
	return checkSize(sizeBytes)
}

// ValidateImageStrict aceita somente JPEG, PNG e WebP com até MaxImageBytes.
func ValidateImageStrict(mimeType string, sizeBytes int64) Validation {
	if _, ok := strictMIMETypes[mediaType(mimeType)]; !ok {
		return Validation{Reason: ReasonUnsupportedType}
	}
	return checkSize(sizeBytes)
}

func checkSize(sizeBytes int64) Validation {
	if sizeBytes > MaxImageBytes {
		return Validation{Reason: ReasonTooLarge}
	}
	return Validation{Valid: true}
}

// mediaType remove parâmetros ("; charset=...") e normaliza a caixa.
func mediaType(mimeType string) string {
	mt, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
