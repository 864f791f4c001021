package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseMode define como a região JSON é localizada no texto do modelo.
type ParseMode int

const (
	// ParseGreedy usa do primeiro '{' ao último '}' do texto.
	ParseGreedy ParseMode = iota
	// ParseBalanced usa o primeiro objeto com chaves balanceadas, ignorando chaves dentro de strings.
	ParseBalanced
)

// ParseModeFromString converte o valor de configuração ("greedy" | "balanced").
// Qualquer outro valor resulta em ParseGreedy.
func ParseModeFromString(s string) ParseMode {
	if strings.EqualFold(strings.TrimSpace(s), "balanced") {
		return ParseBalanced
	}
	return ParseGreedy
}

func (m ParseMode) String() string {
	if m == ParseBalanced {
		return "balanced"
	}
	return "greedy"
}

// greedyObjectRe captura do primeiro '{' até o último '}' (inclusive), com quebras de linha.
var greedyObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// ParseResponse extrai e decodifica o objeto JSON contido na resposta livre do modelo.
// Texto sem região {...} resulta em ErrNoJSONFound; região que não decodifica, em ErrMalformedJSON.
// Números são preservados como json.Number para não perder precisão em valores monetários.
func ParseResponse(text string, mode ParseMode) (map[string]any, error) {
	var region string
	switch mode {
	case ParseBalanced:
		r, err := balancedObject(text)
		if err != nil {
			return nil, err
		}
		region = r
	default:
		region = greedyObjectRe.FindString(text)
	}
	if region == "" {
		return nil, ErrNoJSONFound
	}

	dec := json.NewDecoder(strings.NewReader(region))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	// Conteúdo após o objeto (ex.: dois objetos independentes no modo ganancioso) é inválido.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: conteúdo após o objeto JSON", ErrMalformedJSON)
	}
	if obj == nil {
		obj = map[string]any{}
	}
	return obj, nil
}

// balancedObject percorre o texto a partir do primeiro '{' acompanhando a profundidade
// e o estado de string/escape, e devolve o primeiro objeto fechado.
// Objeto aberto e nunca fechado resulta em ErrNoJSONFound.
func balancedObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", ErrNoJSONFound
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	// Sem fechamento não há região {...}, como no modo ganancioso.
	return "", ErrNoJSONFound
}
