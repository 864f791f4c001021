package inventory

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PartKey gera a chave usada para reconhecer a mesma peça em notas diferentes:
// "Tela  iPhone 11 (Original)" e "tela iphone 11 (original)" viram a mesma chave,
// assim como "Conexão" e "conexao".
func PartKey(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
