package service

import (
	"regexp"
	"strings"
)

var (
	fenceStart = regexp.MustCompile("(?is)^\\s*```(?:json)?\\s*")
	fenceEnd   = regexp.MustCompile("(?is)\\s*```\\s*$")
)

// CleanResponse normaliza la respuesta cruda del LLM a texto parseable:
// quita BOM y fences ```json ... ```, y extrae el primer objeto balanceado
// para descartar prosa alrededor del payload ("Here is the JSON: {...} hope
// that helps!"), venga antes o despues. Total e idempotente: si no existe
// ningun span {...} completo devuelve el texto trimmeado tal cual para que
// el parser falle de forma explicita en vez de adivinar aqui.
func CleanResponse(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = strings.TrimPrefix(s, "\ufeff")

	s = fenceStart.ReplaceAllString(s, "")
	s = fenceEnd.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	if obj := extractFirstJSONObject(s); obj != "" {
		return obj
	}
	return s
}

// extractFirstJSONObject escanea el texto y devuelve el primer span {...}
// balanceado, respetando strings y escapes. "" si no hay ninguno.
func extractFirstJSONObject(input string) string {
	start := strings.IndexByte(input, '{')
	if start == -1 {
		return ""
	}

	inString := false
	escape := false
	depth := 0

	for i := start; i < len(input); i++ {
		ch := input[i]

		if inString {
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
			if depth < 0 {
				return ""
			}
		}
	}

	return ""
}
