package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"resume-screener/internal/config"
	"resume-screener/internal/services"
)

// Bulk-indexes a directory of resumes so a screening run can rank candidates
// collected outside the upload endpoint. Candidate IDs are the filenames,
// matching what the API produces, so re-ingesting a file replaces its entry.
func main() {
	log.Println("🚀 Starting resume ingestion...")

	resumeDir := "./resumes"
	if len(os.Args) > 1 {
		resumeDir = os.Args[1]
	}

	// Load configuration
	cfg := config.Load()

	// Initialize services
	embedder, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	extractor := services.NewTextExtractorService()

	entries, err := os.ReadDir(resumeDir)
	if err != nil {
		log.Fatalf("❌ Failed to read resume directory %s: %v", resumeDir, err)
	}

	ctx := context.Background()

	successCount := 0
	failCount := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".pdf" && ext != ".docx" {
			continue
		}

		path := filepath.Join(resumeDir, entry.Name())
		log.Printf("\n📄 Processing: %s", entry.Name())

		// Extract text
		text, err := extractor.Extract(path)
		if err != nil {
			log.Printf("   ❌ Failed to extract text: %v", err)
			failCount++
			continue
		}
		log.Printf("   ✅ Extracted %d characters", len(text))

		// Generate embedding
		embedding, err := embedder.GenerateEmbedding(ctx, text)
		if err != nil {
			log.Printf("   ❌ Failed to generate embedding: %v", err)
			failCount++
			continue
		}

		// Store in Qdrant, keyed by filename
		if err := qdrantService.UpsertResume(ctx, entry.Name(), text, embedding); err != nil {
			log.Printf("   ❌ Failed to store resume: %v", err)
			failCount++
			continue
		}

		log.Printf("   ✅ Successfully ingested %s", entry.Name())
		successCount++
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d resumes", successCount)
	log.Printf("   ❌ Failed: %d resumes", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some resumes failed to ingest. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All resumes ingested successfully!")
}
