package analysis

import (
	"fmt"
	"sort"
	"strings"

	"libgen-llm/internal/domain"
)

// LibraryAnalyzer genera estadisticas sobre una Library ya validada.
// El anio corriente entra por constructor, nunca del reloj.
type LibraryAnalyzer struct {
	currentYear int
}

func NewLibraryAnalyzer(currentYear int) *LibraryAnalyzer {
	return &LibraryAnalyzer{currentYear: currentYear}
}

// BasicStats resume la biblioteca: totales, autores y rango temporal.
type BasicStats struct {
	LibraryName    string         `json:"library_name"`
	TotalBooks     int            `json:"total_books"`
	UniqueAuthors  int            `json:"unique_authors"`
	EarliestYear   int            `json:"earliest_year"`
	LatestYear     int            `json:"latest_year"`
	AverageYear    float64        `json:"average_year"`
	MedianYear     float64        `json:"median_year"`
	BooksPerAuthor map[string]int `json:"books_per_author"`
}

// AgeStats agrupa los libros en categorias por epoca de publicacion.
type AgeStats struct {
	Classic      int         `json:"classic_books"`      // antes de 1950
	MidCentury   int         `json:"mid_century_books"`  // 1950-1979
	Modern       int         `json:"modern_books"`       // 1980-1999
	Contemporary int         `json:"contemporary_books"` // 2000 en adelante
	AverageAge   float64     `json:"average_age"`
	OldestBook   domain.Book `json:"oldest_book"`
	NewestBook   domain.Book `json:"newest_book"`
}

// BasicStatistics calcula el resumen basico de la biblioteca.
func (a *LibraryAnalyzer) BasicStatistics(library domain.Library) BasicStats {
	stats := BasicStats{
		LibraryName:    library.Name,
		TotalBooks:     len(library.Books),
		UniqueAuthors:  len(library.UniqueAuthors()),
		AverageYear:    library.AverageYear(),
		BooksPerAuthor: library.CountByAuthor(),
	}
	if len(library.Books) == 0 {
		return stats
	}

	years := make([]int, 0, len(library.Books))
	for _, b := range library.Books {
		years = append(years, b.Year)
	}
	sort.Ints(years)

	stats.EarliestYear = years[0]
	stats.LatestYear = years[len(years)-1]

	mid := len(years) / 2
	if len(years)%2 == 0 {
		stats.MedianYear = float64(years[mid-1]+years[mid]) / 2.0
	} else {
		stats.MedianYear = float64(years[mid])
	}
	return stats
}

// DecadeAnalysis cuenta libros por decada ("1990s": 2).
func (a *LibraryAnalyzer) DecadeAnalysis(library domain.Library) map[string]int {
	counts := make(map[string]int)
	for _, b := range library.Books {
		decade := (b.Year / 10) * 10
		counts[fmt.Sprintf("%ds", decade)]++
	}
	return counts
}

// AgeAnalysis clasifica los libros por categoria de antiguedad.
func (a *LibraryAnalyzer) AgeAnalysis(library domain.Library) AgeStats {
	stats := AgeStats{}
	if len(library.Books) == 0 {
		return stats
	}

	totalAge := 0
	oldest := library.Books[0]
	newest := library.Books[0]
	for _, b := range library.Books {
		switch {
		case b.Year < 1950:
			stats.Classic++
		case b.Year < 1980:
			stats.MidCentury++
		case b.Year < 2000:
			stats.Modern++
		default:
			stats.Contemporary++
		}
		totalAge += a.currentYear - b.Year
		if b.Year < oldest.Year {
			oldest = b
		}
		if b.Year > newest.Year {
			newest = b
		}
	}

	stats.AverageAge = float64(totalAge) / float64(len(library.Books))
	stats.OldestBook = oldest
	stats.NewestBook = newest
	return stats
}

// GenerateReport arma el reporte de texto completo de la biblioteca.
func (a *LibraryAnalyzer) GenerateReport(library domain.Library) string {
	basic := a.BasicStatistics(library)
	decades := a.DecadeAnalysis(library)
	ages := a.AgeAnalysis(library)

	var sb strings.Builder
	sb.WriteString("LIBRARY ANALYSIS REPORT\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")
	sb.WriteString(fmt.Sprintf("Library: %s\n", basic.LibraryName))
	sb.WriteString(fmt.Sprintf("Total Books: %d\n", basic.TotalBooks))
	sb.WriteString(fmt.Sprintf("Unique Authors: %d\n\n", basic.UniqueAuthors))

	sb.WriteString("TEMPORAL ANALYSIS\n")
	sb.WriteString(fmt.Sprintf("Publication Range: %d - %d\n", basic.EarliestYear, basic.LatestYear))
	sb.WriteString(fmt.Sprintf("Average Publication Year: %.1f\n", basic.AverageYear))
	sb.WriteString(fmt.Sprintf("Median Publication Year: %.1f\n\n", basic.MedianYear))

	sb.WriteString("BOOKS BY DECADE:\n")
	decadeKeys := make([]string, 0, len(decades))
	for k := range decades {
		decadeKeys = append(decadeKeys, k)
	}
	sort.Strings(decadeKeys)
	for _, k := range decadeKeys {
		sb.WriteString(fmt.Sprintf("  %s: %d book(s)\n", k, decades[k]))
	}

	sb.WriteString("\nAGE CATEGORIES:\n")
	sb.WriteString(fmt.Sprintf("  Classic (pre-1950): %d books\n", ages.Classic))
	sb.WriteString(fmt.Sprintf("  Mid-Century (1950-1979): %d books\n", ages.MidCentury))
	sb.WriteString(fmt.Sprintf("  Modern (1980-1999): %d books\n", ages.Modern))
	sb.WriteString(fmt.Sprintf("  Contemporary (2000+): %d books\n", ages.Contemporary))

	if basic.TotalBooks > 0 {
		sb.WriteString("\nNOTABLE BOOKS:\n")
		sb.WriteString(fmt.Sprintf("  Oldest: %s\n", ages.OldestBook))
		sb.WriteString(fmt.Sprintf("  Newest: %s\n", ages.NewestBook))
	}

	sb.WriteString("\nAUTHORS:\n")
	authors := make([]string, 0, len(basic.BooksPerAuthor))
	for author := range basic.BooksPerAuthor {
		authors = append(authors, author)
	}
	sort.Strings(authors)
	for _, author := range authors {
		sb.WriteString(fmt.Sprintf("  %s: %d book(s)\n", author, basic.BooksPerAuthor[author]))
	}

	return sb.String()
}
