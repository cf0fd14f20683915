package service

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"libgen-llm/internal/domain"
)

const testCurrentYear = 2026

func TestValidate_HappyPath(t *testing.T) {
	v := LibraryValidator{}
	library, report := v.Validate(`{"name":"Lib","books":[{"title":"T","author":"A","year":1999}]}`, testCurrentYear)
	if !report.OK() {
		t.Fatalf("expected no violations, got:\n%s", report.Render())
	}
	if library.Name != "Lib" {
		t.Fatalf("expected name Lib, got %q", library.Name)
	}
	if len(library.Books) != 1 || library.Books[0].Year != 1999 {
		t.Fatalf("unexpected books: %+v", library.Books)
	}
}

func TestValidate_NotJSON(t *testing.T) {
	v := LibraryValidator{}
	_, report := v.Validate("not json at all", testCurrentYear)
	if len(report) != 1 {
		t.Fatalf("expected exactly one violation, got %d", len(report))
	}
	if report[0].Path != domain.RootPath {
		t.Fatalf("expected path %s, got %q", domain.RootPath, report[0].Path)
	}
	if !strings.Contains(report[0].Constraint, "not syntactically valid structured data") {
		t.Fatalf("unexpected constraint: %q", report[0].Constraint)
	}
	if report[0].Value != "not json at all" {
		t.Fatalf("expected offending value attached, got %v", report[0].Value)
	}
}

func TestValidate_SyntaxErrorIncludesOffset(t *testing.T) {
	v := LibraryValidator{}
	_, report := v.Validate(`{"name": "Lib", "books": [}`, testCurrentYear)
	if len(report) != 1 {
		t.Fatalf("expected exactly one violation, got %d", len(report))
	}
	if !strings.Contains(report[0].Constraint, "offset") {
		t.Fatalf("expected parse offset in constraint, got %q", report[0].Constraint)
	}
}

func TestValidate_LongInputExcerptBounded(t *testing.T) {
	v := LibraryValidator{}
	_, report := v.Validate(strings.Repeat("x", 500), testCurrentYear)
	if len(report) != 1 {
		t.Fatalf("expected exactly one violation, got %d", len(report))
	}
	value, ok := report[0].Value.(string)
	if !ok || len(value) > maxExcerptLen+3 {
		t.Fatalf("expected bounded excerpt, got %d bytes", len(value))
	}
}

func TestValidate_ExcerptStaysValidUTF8(t *testing.T) {
	v := LibraryValidator{}
	// "a" desalinea las runas de dos bytes respecto del limite del excerpt.
	_, report := v.Validate("a"+strings.Repeat("ñ", 200), testCurrentYear)
	if len(report) != 1 {
		t.Fatalf("expected exactly one violation, got %d", len(report))
	}
	value, ok := report[0].Value.(string)
	if !ok {
		t.Fatalf("expected string excerpt, got %T", report[0].Value)
	}
	if !utf8.ValidString(value) {
		t.Fatalf("excerpt contains invalid UTF-8: %q", value)
	}
	if len(value) > maxExcerptLen+3 {
		t.Fatalf("excerpt not bounded: %d bytes", len(value))
	}
}

func TestValidate_RootMustBeObject(t *testing.T) {
	v := LibraryValidator{}
	_, report := v.Validate(`[1,2,3]`, testCurrentYear)
	if len(report) != 1 {
		t.Fatalf("expected exactly one violation, got %d", len(report))
	}
	if report[0].Path != domain.RootPath || !strings.Contains(report[0].Constraint, "expected object got array") {
		t.Fatalf("unexpected violation: %+v", report[0])
	}
}

func TestValidate_EmptyNameRejected(t *testing.T) {
	v := LibraryValidator{}
	_, report := v.Validate(`{"name":"","books":[]}`, testCurrentYear)
	if len(report) != 1 {
		t.Fatalf("expected exactly one violation, got %d:\n%s", len(report), report.Render())
	}
	if report[0].Path != "name" || report[0].Constraint != "non-empty required" {
		t.Fatalf("unexpected violation: %+v", report[0])
	}
}

func TestValidate_EmptyBooksListIsValid(t *testing.T) {
	v := LibraryValidator{}
	library, report := v.Validate(`{"name":"Empty Shelf","books":[]}`, testCurrentYear)
	if !report.OK() {
		t.Fatalf("expected no violations, got:\n%s", report.Render())
	}
	if len(library.Books) != 0 {
		t.Fatalf("expected zero books, got %d", len(library.Books))
	}
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	v := LibraryValidator{}
	_, report := v.Validate(`{}`, testCurrentYear)
	if len(report) != 2 {
		t.Fatalf("expected two violations, got %d:\n%s", len(report), report.Render())
	}
	if report[0].Path != "name" || report[0].Constraint != "required field missing" {
		t.Fatalf("unexpected first violation: %+v", report[0])
	}
	if report[1].Path != "books" || report[1].Constraint != "required field missing" {
		t.Fatalf("unexpected second violation: %+v", report[1])
	}
}

func TestValidate_TypeMismatch(t *testing.T) {
	v := LibraryValidator{}
	_, report := v.Validate(`{"name":42,"books":[{"title":"T","author":"A","year":"1999"}]}`, testCurrentYear)
	if len(report) != 2 {
		t.Fatalf("expected two violations, got %d:\n%s", len(report), report.Render())
	}
	if report[0].Path != "name" || report[0].Constraint != "type mismatch: expected string got integer" {
		t.Fatalf("unexpected name violation: %+v", report[0])
	}
	if report[1].Path != "books[0].year" || report[1].Constraint != "type mismatch: expected integer got string" {
		t.Fatalf("unexpected year violation: %+v", report[1])
	}
}

func TestValidate_FractionalYearIsTypeMismatch(t *testing.T) {
	v := LibraryValidator{}
	_, report := v.Validate(`{"name":"Lib","books":[{"title":"T","author":"A","year":1999.5}]}`, testCurrentYear)
	if len(report) != 1 {
		t.Fatalf("expected one violation, got %d:\n%s", len(report), report.Render())
	}
	if report[0].Path != "books[0].year" || report[0].Constraint != "type mismatch: expected integer got number" {
		t.Fatalf("unexpected violation: %+v", report[0])
	}
}

func TestValidate_YearBoundaries(t *testing.T) {
	v := LibraryValidator{}
	payload := func(year int) string {
		data, _ := json.Marshal(map[string]any{
			"name":  "Lib",
			"books": []map[string]any{{"title": "T", "author": "A", "year": year}},
		})
		return string(data)
	}

	t.Run("current year passes", func(t *testing.T) {
		if _, report := v.Validate(payload(testCurrentYear), testCurrentYear); !report.OK() {
			t.Fatalf("expected pass, got:\n%s", report.Render())
		}
	})

	t.Run("lower bound passes", func(t *testing.T) {
		if _, report := v.Validate(payload(1000), testCurrentYear); !report.OK() {
			t.Fatalf("expected pass, got:\n%s", report.Render())
		}
	})

	t.Run("next year fails", func(t *testing.T) {
		_, report := v.Validate(payload(testCurrentYear+1), testCurrentYear)
		if len(report) != 1 || report[0].Constraint != "must be between 1000 and 2026" {
			t.Fatalf("expected range violation, got:\n%s", report.Render())
		}
	})

	t.Run("999 fails", func(t *testing.T) {
		_, report := v.Validate(payload(999), testCurrentYear)
		if len(report) != 1 || report[0].Path != "books[0].year" {
			t.Fatalf("expected range violation, got:\n%s", report.Render())
		}
	})
}

func TestValidate_AllBadBooksReported(t *testing.T) {
	v := LibraryValidator{}
	cleaned := `{"name":"Lib","books":[
		{"title":"First","author":"A"},
		{"title":"Second","author":"B"}
	]}`
	_, report := v.Validate(cleaned, testCurrentYear)
	if len(report) != 2 {
		t.Fatalf("expected exactly two violations, got %d:\n%s", len(report), report.Render())
	}
	if report[0].Path != "books[0].year" || report[1].Path != "books[1].year" {
		t.Fatalf("expected per-index paths, got %q and %q", report[0].Path, report[1].Path)
	}
	for _, violation := range report {
		if violation.Constraint != "required field missing" {
			t.Fatalf("unexpected constraint: %q", violation.Constraint)
		}
	}
}

func TestValidate_NonObjectBookEntry(t *testing.T) {
	v := LibraryValidator{}
	_, report := v.Validate(`{"name":"Lib","books":["oops"]}`, testCurrentYear)
	if len(report) != 1 {
		t.Fatalf("expected one violation, got %d:\n%s", len(report), report.Render())
	}
	if report[0].Path != "books[0]" || !strings.Contains(report[0].Constraint, "expected object got string") {
		t.Fatalf("unexpected violation: %+v", report[0])
	}
}

func TestValidate_StringsAreTrimmed(t *testing.T) {
	v := LibraryValidator{}
	library, report := v.Validate(`{"name":"  Lib  ","books":[{"title":" T ","author":" A ","year":1999}]}`, testCurrentYear)
	if !report.OK() {
		t.Fatalf("expected no violations, got:\n%s", report.Render())
	}
	if library.Name != "Lib" || library.Books[0].Title != "T" || library.Books[0].Author != "A" {
		t.Fatalf("expected trimmed strings, got %+v", library)
	}
}

func TestValidate_WhitespaceOnlyStringRejected(t *testing.T) {
	v := LibraryValidator{}
	_, report := v.Validate(`{"name":"   ","books":[]}`, testCurrentYear)
	if len(report) != 1 || report[0].Constraint != "non-empty required" {
		t.Fatalf("expected non-empty violation, got:\n%s", report.Render())
	}
}

func TestValidate_RoundTrip(t *testing.T) {
	v := LibraryValidator{}
	original := domain.Library{
		Name: "Round Trip",
		Books: []domain.Book{
			{Title: "First", Author: "A", Year: 1984},
			{Title: "Second", Author: "B", Year: 2001},
		},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	parsed, report := v.Validate(string(data), testCurrentYear)
	if !report.OK() {
		t.Fatalf("expected round-trip to validate, got:\n%s", report.Render())
	}
	if !reflect.DeepEqual(original, parsed) {
		t.Fatalf("round-trip mismatch:\noriginal %+v\nparsed   %+v", original, parsed)
	}
}
