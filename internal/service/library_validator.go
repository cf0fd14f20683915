package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"libgen-llm/internal/domain"
)

// maxExcerptLen acota el texto crudo que se adjunta a una violacion de parseo.
const maxExcerptLen = 120

// LibraryValidator mapea texto ya limpio contra el schema fijo de Library.
// Sin estado, sin reloj: el anio corriente entra como parametro para que el
// componente sea determinista y testeable.
type LibraryValidator struct{}

// fieldCheck valida un valor ya tipado y devuelve la descripcion del
// constraint incumplido, o "" si pasa.
type fieldCheck func(value any, currentYear int) string

// fieldSpec es una entrada declarativa del schema: nombre, tipo esperado y
// constraint adicional. Nada de reflection: el walk es un switch ordinario.
type fieldSpec struct {
	name     string
	expected string // "string", "integer", "array"
	check    fieldCheck
}

var libraryFields = []fieldSpec{
	{name: "name", expected: "string", check: nonEmptyString},
	{name: "books", expected: "array", check: nil},
}

var bookFields = []fieldSpec{
	{name: "title", expected: "string", check: nonEmptyString},
	{name: "author", expected: "string", check: nonEmptyString},
	{name: "year", expected: "integer", check: yearInRange},
}

func nonEmptyString(value any, _ int) string {
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return "non-empty required"
	}
	return ""
}

func yearInRange(value any, currentYear int) string {
	year, ok := value.(int)
	if !ok {
		return ""
	}
	if year < 1000 || year > currentYear {
		return fmt.Sprintf("must be between 1000 and %d", currentYear)
	}
	return ""
}

// Validate parsea el texto limpio como JSON generico y lo mapea campo a campo
// contra el schema de Library. Devuelve el objeto validado o el reporte
// completo de violaciones; nunca ambos, nunca un error Go (el reporte ES el
// resultado de fallo).
func (LibraryValidator) Validate(cleaned string, currentYear int) (domain.Library, domain.ViolationReport) {
	var parsed any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		constraint := "not syntactically valid structured data"
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			constraint = fmt.Sprintf("%s (offset %d)", constraint, syntaxErr.Offset)
		}
		return domain.Library{}, domain.ViolationReport{{
			Path:       domain.RootPath,
			Value:      excerpt(cleaned),
			Constraint: constraint,
		}}
	}

	root, ok := parsed.(map[string]any)
	if !ok {
		return domain.Library{}, domain.ViolationReport{{
			Path:       domain.RootPath,
			Value:      excerpt(cleaned),
			Constraint: fmt.Sprintf("type mismatch: expected object got %s", jsonTypeName(parsed)),
		}}
	}

	var report domain.ViolationReport

	values := walkFields("", root, libraryFields, currentYear, &report)

	library := domain.Library{}
	if name, ok := values["name"].(string); ok {
		library.Name = name
	}

	if rawBooks, ok := values["books"].([]any); ok {
		library.Books = make([]domain.Book, 0, len(rawBooks))
		for i, rawBook := range rawBooks {
			path := fmt.Sprintf("books[%d]", i)
			entry, ok := rawBook.(map[string]any)
			if !ok {
				report = append(report, domain.Violation{
					Path:       path,
					Value:      rawBook,
					Constraint: fmt.Sprintf("type mismatch: expected object got %s", jsonTypeName(rawBook)),
				})
				continue
			}
			bookValues := walkFields(path, entry, bookFields, currentYear, &report)

			book := domain.Book{}
			if title, ok := bookValues["title"].(string); ok {
				book.Title = title
			}
			if author, ok := bookValues["author"].(string); ok {
				book.Author = author
			}
			if year, ok := bookValues["year"].(int); ok {
				book.Year = year
			}
			library.Books = append(library.Books, book)
		}
	}

	if !report.OK() {
		return domain.Library{}, report
	}
	return library, nil
}

// walkFields recorre una tabla de fieldSpec contra un objeto generico,
// acumulando violaciones y devolviendo los valores ya tipados y normalizados.
// Recolecta TODAS las violaciones del objeto, no solo la primera.
func walkFields(prefix string, obj map[string]any, fields []fieldSpec, currentYear int, report *domain.ViolationReport) map[string]any {
	values := make(map[string]any, len(fields))

	for _, f := range fields {
		path := f.name
		if prefix != "" {
			path = prefix + "." + f.name
		}

		raw, present := obj[f.name]
		if !present || raw == nil {
			*report = append(*report, domain.Violation{
				Path:       path,
				Value:      nil,
				Constraint: "required field missing",
			})
			continue
		}

		typed, ok := coerce(raw, f.expected)
		if !ok {
			*report = append(*report, domain.Violation{
				Path:       path,
				Value:      raw,
				Constraint: fmt.Sprintf("type mismatch: expected %s got %s", f.expected, jsonTypeName(raw)),
			})
			continue
		}

		if f.check != nil {
			if constraint := f.check(typed, currentYear); constraint != "" {
				*report = append(*report, domain.Violation{
					Path:       path,
					Value:      typed,
					Constraint: constraint,
				})
				continue
			}
		}
		values[f.name] = typed
	}

	return values
}

// coerce lleva un valor JSON generico al tipo esperado por el schema.
// Los strings se trimean al entrar; los numeros solo son "integer" si no
// tienen parte fraccional.
func coerce(raw any, expected string) (any, bool) {
	switch expected {
	case "string":
		s, ok := raw.(string)
		if !ok {
			return nil, false
		}
		return strings.TrimSpace(s), true
	case "integer":
		n, ok := raw.(float64)
		if !ok || n != float64(int(n)) {
			return nil, false
		}
		return int(n), true
	case "array":
		arr, ok := raw.([]any)
		if !ok {
			return nil, false
		}
		return arr, true
	}
	return nil, false
}

// jsonTypeName nombra el tipo JSON de un valor generico para los mensajes
// de type mismatch.
func jsonTypeName(v any) string {
	switch t := v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		if t == float64(int(t)) {
			return "integer"
		}
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case nil:
		return "null"
	}
	return "unknown"
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxExcerptLen {
		return s
	}
	// No cortar a mitad de runa.
	cut := maxExcerptLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
