package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"libgen-llm/internal/analysis"
	"libgen-llm/internal/config"
	"libgen-llm/internal/export"
	"libgen-llm/internal/llm"
	"libgen-llm/internal/service"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMMaxTokens, logger)
	librarySvc := service.NewLibraryService(
		llmClient,
		nil, // sin persistencia en el CLI; la exportacion va a archivos
		service.LibraryPromptBuilder{},
		service.LibraryValidator{},
		cfg.GenMaxAttempts,
		logger,
	)

	fmt.Println("Testing LLM connection...")
	ctxPing, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = llmClient.TestConnection(ctxPing)
	cancel()
	if err != nil {
		fmt.Printf("Connection failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Connection successful!")

	fmt.Printf("\nGenerating library data with %d books...\n", cfg.DefaultNumBooks)
	library, err := librarySvc.GenerateLibrary(ctx, cfg.DefaultNumBooks)
	if err != nil {
		fmt.Printf("Failed to generate library data:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nSuccessfully created library: %s\n", library.Name)
	fmt.Printf("Number of books: %d\n\nBooks in the library:\n", len(library.Books))
	for i, book := range library.Books {
		fmt.Printf("  %d. %s\n", i+1, book)
	}

	fileManager, err := export.NewFileManager(cfg.OutputDir)
	if err != nil {
		log.Fatal(err)
	}
	path, err := fileManager.SaveLibraryJSON(library, "library_data.json")
	if err != nil {
		fmt.Printf("Error saving JSON file: %v\n", err)
	} else {
		fmt.Printf("\nLibrary data saved to %s\n", path)
	}

	analyzer := analysis.NewLibraryAnalyzer(time.Now().UTC().Year())
	fmt.Println()
	fmt.Println(analyzer.GenerateReport(library))
}
