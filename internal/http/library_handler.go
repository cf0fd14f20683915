package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"libgen-llm/internal/repository"
	"libgen-llm/internal/service"
)

// LibraryHandler expone el pipeline de generacion y validacion via HTTP.
// Los consumidores solo ven la Library validada o el reporte renderizable;
// nunca los intermedios del pipeline.
type LibraryHandler struct {
	logger      *zap.Logger
	librarySvc  *service.LibraryService
	libraryRepo repository.LibraryRepository
}

func NewLibraryHandler(logger *zap.Logger, librarySvc *service.LibraryService, libraryRepo repository.LibraryRepository) *LibraryHandler {
	return &LibraryHandler{
		logger:      logger,
		librarySvc:  librarySvc,
		libraryRepo: libraryRepo,
	}
}

// GenerateLibrary maneja POST /libraries/generate.
func (h *LibraryHandler) GenerateLibrary(c *gin.Context) {
	var req struct {
		NumBooks int `json:"num_books"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid generate request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	record, err := h.librarySvc.GenerateAndSave(c.Request.Context(), req.NumBooks)
	if err != nil {
		h.logger.Error("generate library failed", zap.Error(err))
		status := http.StatusBadGateway
		if errors.Is(err, service.ErrAttemptsExhausted) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"library": record})
}

// ValidateLibrary maneja POST /libraries/validate: corre el pipeline sobre
// texto crudo aportado por el cliente, sin llamar al LLM.
func (h *LibraryHandler) ValidateLibrary(c *gin.Context) {
	var req struct {
		Raw string `json:"raw" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid validate request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	library, report := h.librarySvc.ParseLibrary(req.Raw, time.Now().UTC().Year())
	if !report.OK() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"violations": report,
			"rendered":   report.Render(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"library": library})
}

// ListLibraries maneja GET /libraries.
func (h *LibraryHandler) ListLibraries(c *gin.Context) {
	if h.libraryRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage not configured"})
		return
	}

	records, err := h.libraryRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list libraries failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list libraries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"libraries": records})
}

// GetLibrary maneja GET /libraries/:id.
func (h *LibraryHandler) GetLibrary(c *gin.Context) {
	if h.libraryRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage not configured"})
		return
	}

	record, err := h.libraryRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "library not found"})
			return
		}
		h.logger.Error("get library failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load library"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"library": record})
}
