package domain

import (
	"fmt"
	"strings"
	"time"
)

// Book es un libro ya validado dentro de una Library.
type Book struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
}

func (b Book) String() string {
	return fmt.Sprintf("'%s' by %s (%d)", b.Title, b.Author, b.Year)
}

// Library es el objeto terminal del pipeline: una coleccion de libros
// que ya cumple todos los constraints del schema. Inmutable una vez
// construida; su forma JSON es exactamente la de exportacion.
type Library struct {
	Name  string `json:"name"`
	Books []Book `json:"books"`
}

// LibraryRecord es una Library ya persistida, con su identidad de fila.
type LibraryRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Library
}

func (l Library) String() string {
	return fmt.Sprintf("%s (%d books)", l.Name, len(l.Books))
}

// BooksByAuthor devuelve los libros de un autor (case-insensitive).
func (l Library) BooksByAuthor(author string) []Book {
	var out []Book
	for _, b := range l.Books {
		if strings.EqualFold(b.Author, author) {
			out = append(out, b)
		}
	}
	return out
}

// BooksAfterYear devuelve los libros publicados despues del anio dado.
func (l Library) BooksAfterYear(year int) []Book {
	var out []Book
	for _, b := range l.Books {
		if b.Year > year {
			out = append(out, b)
		}
	}
	return out
}

// BooksBeforeYear devuelve los libros publicados antes del anio dado.
func (l Library) BooksBeforeYear(year int) []Book {
	var out []Book
	for _, b := range l.Books {
		if b.Year < year {
			out = append(out, b)
		}
	}
	return out
}

// AverageYear calcula el anio promedio de publicacion. 0.0 si no hay libros.
func (l Library) AverageYear() float64 {
	if len(l.Books) == 0 {
		return 0.0
	}
	sum := 0
	for _, b := range l.Books {
		sum += b.Year
	}
	return float64(sum) / float64(len(l.Books))
}

// UniqueAuthors devuelve los autores sin repetir, en orden de aparicion.
func (l Library) UniqueAuthors() []string {
	seen := make(map[string]struct{}, len(l.Books))
	var out []string
	for _, b := range l.Books {
		key := strings.ToLower(b.Author)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, b.Author)
	}
	return out
}

// CountByAuthor devuelve cuantos libros tiene cada autor.
func (l Library) CountByAuthor() map[string]int {
	counts := make(map[string]int, len(l.Books))
	for _, b := range l.Books {
		counts[b.Author]++
	}
	return counts
}
