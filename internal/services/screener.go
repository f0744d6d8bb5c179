package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-screener/internal/models"
	"resume-screener/internal/repositories"
)

var (
	ErrMissingJobDescription = errors.New("job description is required")
	ErrNoDocuments           = errors.New("at least one resume is required")
)

// UploadedDocument is one saved upload awaiting screening. CandidateID is the
// original filename; StoredName is the temporary copy in the upload directory.
type UploadedDocument struct {
	CandidateID string
	StoredName  string
	FilePath    string
}

type ScreenInput struct {
	JobDescription string
	Documents      []UploadedDocument
	TopK           int
}

type ScreenerService interface {
	Screen(ctx context.Context, input *ScreenInput) (*models.Screening, error)
}

type screenerService struct {
	screeningRepo  repositories.ScreeningRepository
	embedder       EmbeddingService
	qdrantService  QdrantService
	extractor      TextExtractorService
	skillExtractor SkillExtractorService
	storageService StorageService
	snippetLength  int
}

func NewScreenerService(
	screeningRepo repositories.ScreeningRepository,
	embedder EmbeddingService,
	qdrantService QdrantService,
	extractor TextExtractorService,
	skillExtractor SkillExtractorService,
	storageService StorageService,
	snippetLength int,
) ScreenerService {
	return &screenerService{
		screeningRepo:  screeningRepo,
		embedder:       embedder,
		qdrantService:  qdrantService,
		extractor:      extractor,
		skillExtractor: skillExtractor,
		storageService: storageService,
		snippetLength:  snippetLength,
	}
}

// Screen runs one batch of uploaded resumes against a job description: index
// every resume, retrieve the batch from the vector index, score each retrieved
// candidate, and persist the full ranked list. The pass is sequential and one
// unreadable document never aborts the batch, but embedding or index failures
// do.
func (s *screenerService) Screen(ctx context.Context, input *ScreenInput) (*models.Screening, error) {
	if strings.TrimSpace(input.JobDescription) == "" {
		return nil, ErrMissingJobDescription
	}
	if len(input.Documents) == 0 {
		return nil, ErrNoDocuments
	}

	screening := &models.Screening{
		ID:             uuid.New(),
		JobDescription: input.JobDescription,
		TopK:           input.TopK,
		Status:         models.StatusProcessing,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := s.screeningRepo.Create(screening); err != nil {
		return nil, fmt.Errorf("failed to create screening: %w", err)
	}

	log.Printf("🔄 Starting screening %s with %d resumes\n", screening.ID, len(input.Documents))

	// Step 1: Extract and index each resume. extractDocument removes its own
	// temp copy, so a fatal failure only leaves the not-yet-reached documents
	// behind; sweep those before returning.
	for i, doc := range input.Documents {
		text := s.extractDocument(doc)

		embedding, err := s.embedder.GenerateEmbedding(ctx, text)
		if err != nil {
			s.removeDocuments(input.Documents[i+1:])
			return nil, s.fail(screening.ID, fmt.Errorf("failed to embed resume %s: %w", doc.CandidateID, err))
		}

		if err := s.qdrantService.UpsertResume(ctx, doc.CandidateID, text, embedding); err != nil {
			s.removeDocuments(input.Documents[i+1:])
			return nil, s.fail(screening.ID, fmt.Errorf("failed to index resume %s: %w", doc.CandidateID, err))
		}
	}

	// Step 2: Retrieve the batch by the job description's embedding
	jdEmbedding, err := s.embedder.GenerateEmbedding(ctx, input.JobDescription)
	if err != nil {
		return nil, s.fail(screening.ID, fmt.Errorf("failed to embed job description: %w", err))
	}

	matches, err := s.qdrantService.Search(ctx, jdEmbedding, len(input.Documents))
	if err != nil {
		return nil, s.fail(screening.ID, fmt.Errorf("failed to query index: %w", err))
	}

	// Step 3: Score each retrieved candidate
	jdSkills := s.skillExtractor.ExtractSkills(input.JobDescription)

	results := make([]models.CandidateResult, 0, len(matches))
	for _, match := range matches {
		docEmbedding, err := s.embedder.GenerateEmbedding(ctx, match.Text)
		if err != nil {
			return nil, s.fail(screening.ID, fmt.Errorf("failed to embed candidate %s: %w", match.CandidateID, err))
		}

		similarityPct := SimilarityPercentage(CosineSimilarity(jdEmbedding, docEmbedding))

		resumeSkills := s.skillExtractor.ExtractSkills(match.Text)
		matched, missing := partitionSkills(jdSkills, resumeSkills)

		// Match ratio and keyword coverage share the same formula; both feed
		// the blend with their own weight.
		ratio := 0.0
		if len(jdSkills) > 0 {
			ratio = float64(len(matched)) / float64(len(jdSkills))
		}

		results = append(results, models.CandidateResult{
			ID:            uuid.New(),
			ScreeningID:   screening.ID,
			CandidateID:   match.CandidateID,
			ATSScore:      ATSScore(ratio, ratio, similarityPct),
			SimilarityPct: similarityPct,
			MatchedSkills: strings.Join(matched, ", "),
			MissingSkills: strings.Join(missing, ", "),
			ResumeText:    match.Text,
			SnippetHTML:   HighlightSnippet(match.Text, jdSkills, s.snippetLength),
			CreatedAt:     time.Now(),
		})
	}

	// Step 4: Rank descending by blended score; ties keep retrieval order
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ATSScore > results[j].ATSScore
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	// Step 5: Persist the full list; topK truncation happens at display time
	if err := s.screeningRepo.SaveResults(screening.ID, results); err != nil {
		return nil, s.fail(screening.ID, err)
	}

	screening.Status = models.StatusCompleted
	screening.Results = results

	log.Printf("✅ Screening %s completed with %d candidates\n", screening.ID, len(results))
	return screening, nil
}

// extractDocument converts one upload into text, removing the temporary copy
// before moving on. An unreadable document degrades to an error-marker string
// that the rest of the pipeline treats as ordinary text.
func (s *screenerService) extractDocument(doc UploadedDocument) string {
	defer func() {
		if err := s.storageService.DeleteFile(doc.StoredName); err != nil {
			log.Printf("⚠️  Failed to remove temp file %s: %v\n", doc.StoredName, err)
		}
	}()

	text, err := s.extractor.Extract(doc.FilePath)
	if err != nil {
		var extractErr *ExtractError
		if errors.As(err, &extractErr) {
			log.Printf("⚠️  Extraction failed for %s: %v\n", doc.CandidateID, err)
			return fmt.Sprintf("ERROR reading %s: %v", extractErr.Format, extractErr.Err)
		}
		return fmt.Sprintf("ERROR reading DOCUMENT: %v", err)
	}

	return text
}

func (s *screenerService) removeDocuments(docs []UploadedDocument) {
	for _, doc := range docs {
		if err := s.storageService.DeleteFile(doc.StoredName); err != nil {
			log.Printf("⚠️  Failed to remove temp file %s: %v\n", doc.StoredName, err)
		}
	}
}

func (s *screenerService) fail(id uuid.UUID, cause error) error {
	if err := s.screeningRepo.UpdateError(id, cause.Error()); err != nil {
		log.Printf("⚠️  Failed to mark screening %s as failed: %v\n", id, err)
	}
	return cause
}

// partitionSkills splits the job-description skill set by presence in the
// resume skill set. Both outputs stay sorted; together they always cover the
// whole job-description set.
func partitionSkills(jdSkills, resumeSkills []string) (matched, missing []string) {
	present := make(map[string]struct{}, len(resumeSkills))
	for _, skill := range resumeSkills {
		present[skill] = struct{}{}
	}

	for _, skill := range jdSkills {
		if _, ok := present[skill]; ok {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	return matched, missing
}
