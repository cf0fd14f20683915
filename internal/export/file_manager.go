package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"libgen-llm/internal/domain"
)

// FileManager escribe y lee bibliotecas validadas en el directorio de salida.
// Consume solo el objeto validado; nunca ve los intermedios del pipeline.
type FileManager struct {
	outputDir string
}

func NewFileManager(outputDir string) (*FileManager, error) {
	if outputDir == "" {
		outputDir = "output"
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &FileManager{outputDir: outputDir}, nil
}

// SaveLibraryJSON serializa la biblioteca con la forma exacta del schema:
// {"name": ..., "books": [{"title", "author", "year"}, ...]}.
func (m *FileManager) SaveLibraryJSON(library domain.Library, filename string) (string, error) {
	if filename == "" {
		filename = "library_data.json"
	}
	path := filepath.Join(m.outputDir, filename)

	data, err := json.MarshalIndent(library, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal library: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write library file: %w", err)
	}
	return path, nil
}

// LoadLibraryJSON lee una biblioteca previamente exportada.
func (m *FileManager) LoadLibraryJSON(filename string) (domain.Library, error) {
	path := filepath.Join(m.outputDir, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Library{}, fmt.Errorf("read library file: %w", err)
	}

	var library domain.Library
	if err := json.Unmarshal(data, &library); err != nil {
		return domain.Library{}, fmt.Errorf("unmarshal library file: %w", err)
	}
	return library, nil
}

// SaveBooksCSV exporta los libros como CSV (title, author, year).
func (m *FileManager) SaveBooksCSV(library domain.Library, filename string) (string, error) {
	if filename == "" {
		filename = "library_data.csv"
	}
	path := filepath.Join(m.outputDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"title", "author", "year"}); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, b := range library.Books {
		if err := w.Write([]string{b.Title, b.Author, strconv.Itoa(b.Year)}); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return path, nil
}

// ListOutputFiles devuelve los nombres de archivo en el directorio de salida.
func (m *FileManager) ListOutputFiles() ([]string, error) {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return nil, fmt.Errorf("read output dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
