package service

import (
	"fmt"
	"strings"

	"libgen-llm/internal/domain"
)

// LibraryPromptBuilder arma los prompts de generacion y de correccion.
// Sin estado; se pasa por valor igual que los demas colaboradores puros.
type LibraryPromptBuilder struct{}

// BuildGenerationPrompt pide al modelo una biblioteca con numBooks libros,
// en el formato JSON exacto que el validador espera.
func (LibraryPromptBuilder) BuildGenerationPrompt(numBooks, currentYear int) string {
	var sb strings.Builder

	sb.WriteString("Generate a JSON object representing a library with the following structure:\n")
	sb.WriteString("- A name (string) - make it creative and interesting\n")
	sb.WriteString(fmt.Sprintf("- A list of exactly %d books, where each book has:\n", numBooks))
	sb.WriteString("  - title (string)\n")
	sb.WriteString("  - author (string)\n")
	sb.WriteString(fmt.Sprintf("  - year (integer between 1000 and %d)\n\n", currentYear))
	sb.WriteString("Include books from different time periods and genres for variety.\n\n")
	sb.WriteString("IMPORTANT: Return ONLY the raw JSON, no backticks, no markdown formatting, no additional text.\n\n")
	sb.WriteString("Example format:\n")
	sb.WriteString("{\n")
	sb.WriteString("    \"name\": \"The Grand Library\",\n")
	sb.WriteString("    \"books\": [\n")
	sb.WriteString("        {\"title\": \"Example Title\", \"author\": \"Example Author\", \"year\": 1999}\n")
	sb.WriteString("    ]\n")
	sb.WriteString("}\n")

	return sb.String()
}

// BuildCorrectivePrompt reenvia el intento fallido junto con el reporte de
// violaciones renderizado, para que el modelo corrija exactamente lo que
// fallo en vez de regenerar a ciegas.
func (b LibraryPromptBuilder) BuildCorrectivePrompt(numBooks, currentYear int, previous string, report domain.ViolationReport) string {
	var sb strings.Builder

	sb.WriteString("Your previous response did not satisfy the required schema.\n\n")
	sb.WriteString("Previous response:\n")
	sb.WriteString(strings.TrimSpace(previous))
	sb.WriteString("\n\nValidation failures:\n")
	sb.WriteString(report.Render())
	sb.WriteString("\n\nFix every failure listed above and answer again.\n\n")
	sb.WriteString(b.BuildGenerationPrompt(numBooks, currentYear))

	return sb.String()
}
