package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"libgen-llm/internal/domain"
	"libgen-llm/internal/llm"
	"libgen-llm/internal/repository"
)

// ErrAttemptsExhausted indica que el modelo no produjo una biblioteca valida
// dentro del presupuesto de intentos.
var ErrAttemptsExhausted = errors.New("generation attempts exhausted")

// LibraryService orquesta el ciclo generar -> limpiar -> validar. El retry con
// prompt correctivo vive aca, NO en el pipeline: el cleaner y el validador son
// funciones puras que se invocan una vez por respuesta cruda.
type LibraryService struct {
	llmClient     llm.Client
	libraryRepo   repository.LibraryRepository
	promptBuilder LibraryPromptBuilder
	validator     LibraryValidator
	maxAttempts   int
	logger        *zap.Logger

	// now es inyectable para que los tests fijen el anio corriente.
	now func() time.Time
}

func NewLibraryService(
	llmClient llm.Client,
	libraryRepo repository.LibraryRepository,
	promptBuilder LibraryPromptBuilder,
	validator LibraryValidator,
	maxAttempts int,
	logger *zap.Logger,
) *LibraryService {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibraryService{
		llmClient:     llmClient,
		libraryRepo:   libraryRepo,
		promptBuilder: promptBuilder,
		validator:     validator,
		maxAttempts:   maxAttempts,
		logger:        logger,
		now:           time.Now,
	}
}

// ParseLibrary corre el pipeline completo sobre texto ya en mano, sin tocar
// el LLM: limpia, parsea y mapea contra el schema. Resultado discriminado:
// reporte vacio significa que la Library es valida.
func (s *LibraryService) ParseLibrary(raw string, currentYear int) (domain.Library, domain.ViolationReport) {
	cleaned := CleanResponse(raw)
	return s.validator.Validate(cleaned, currentYear)
}

// GenerateLibrary pide al LLM una biblioteca con numBooks libros y la valida.
// Si la validacion falla, reintenta con un prompt correctivo que incluye el
// reporte de violaciones, hasta maxAttempts veces.
func (s *LibraryService) GenerateLibrary(ctx context.Context, numBooks int) (domain.Library, error) {
	if numBooks <= 0 {
		numBooks = 5
	}
	currentYear := s.now().UTC().Year()

	prompt := s.promptBuilder.BuildGenerationPrompt(numBooks, currentYear)

	var lastReport domain.ViolationReport
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		raw, err := s.llmClient.Generate(ctx, prompt)
		if err != nil {
			return domain.Library{}, fmt.Errorf("llm generate: %w", err)
		}
		if strings.TrimSpace(raw) == "" {
			return domain.Library{}, llm.ErrEmptyResponse
		}

		library, report := s.ParseLibrary(raw, currentYear)
		if report.OK() {
			if attempt > 1 {
				s.logger.Info("library validated after retry", zap.Int("attempt", attempt))
			}
			return library, nil
		}

		s.logger.Warn("library validation failed",
			zap.Int("attempt", attempt),
			zap.Int("violations", len(report)),
		)
		lastReport = report
		prompt = s.promptBuilder.BuildCorrectivePrompt(numBooks, currentYear, raw, report)
	}

	return domain.Library{}, fmt.Errorf("%w after %d attempts:\n%s", ErrAttemptsExhausted, s.maxAttempts, lastReport.Render())
}

// GenerateAndSave genera una biblioteca valida y la persiste. Si no hay
// repositorio configurado devuelve la biblioteca sin identidad de fila.
func (s *LibraryService) GenerateAndSave(ctx context.Context, numBooks int) (domain.LibraryRecord, error) {
	library, err := s.GenerateLibrary(ctx, numBooks)
	if err != nil {
		return domain.LibraryRecord{}, err
	}

	if s.libraryRepo == nil {
		return domain.LibraryRecord{Library: library}, nil
	}

	record, err := s.libraryRepo.Save(ctx, library)
	if err != nil {
		return domain.LibraryRecord{}, fmt.Errorf("persist library: %w", err)
	}
	s.logger.Info("library persisted", zap.String("library_id", record.ID), zap.Int("books", len(record.Books)))
	return record, nil
}
