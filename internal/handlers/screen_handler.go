package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"resume-screener/internal/config"
	"resume-screener/internal/models"
	"resume-screener/internal/services"
)

type ScreenHandler struct {
	screenerService services.ScreenerService
	storageService  services.StorageService
	indexService    services.QdrantService
	maxFileSize     int64
	screeningCfg    config.ScreeningConfig
}

func NewScreenHandler(
	screenerService services.ScreenerService,
	storageService services.StorageService,
	indexService services.QdrantService,
	maxFileSize int64,
	screeningCfg config.ScreeningConfig,
) *ScreenHandler {
	return &ScreenHandler{
		screenerService: screenerService,
		storageService:  storageService,
		indexService:    indexService,
		maxFileSize:     maxFileSize,
		screeningCfg:    screeningCfg,
	}
}

// HandleScreen handles POST /screen. One multipart request carries the job
// description, the resume files, and the display options; the response is the
// ranked top-K list for that batch.
func (h *ScreenHandler) HandleScreen(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	jobDescription := c.FormValue("job_description")
	if strings.TrimSpace(jobDescription) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description is required",
		})
	}

	resumeFiles := form.File["resumes"]
	if len(resumeFiles) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No resumes uploaded. Please upload 'resumes' as PDF or DOCX files.",
		})
	}

	topK := h.parseTopK(c.FormValue("top_k"))
	includeFullText := c.FormValue("full_text") == "true" || c.FormValue("full_text") == "1"

	// Save uploads before processing; reject the whole batch on any invalid
	// file so nothing half-indexed is left behind.
	var documents []services.UploadedDocument
	cleanup := func() {
		for _, doc := range documents {
			h.storageService.DeleteFile(doc.StoredName)
		}
	}

	for _, file := range resumeFiles {
		if file.Size > h.maxFileSize {
			cleanup()
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("File %s too large. Max size: %d bytes", file.Filename, h.maxFileSize),
			})
		}

		storedName, filePath, err := h.storageService.SaveFile(file)
		if err != nil {
			cleanup()
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to save %s: %v", file.Filename, err),
			})
		}

		documents = append(documents, services.UploadedDocument{
			CandidateID: file.Filename,
			StoredName:  storedName,
			FilePath:    filePath,
		})
	}

	screening, err := h.screenerService.Screen(c.Context(), &services.ScreenInput{
		JobDescription: jobDescription,
		Documents:      documents,
		TopK:           topK,
	})
	if err != nil {
		if errors.Is(err, services.ErrMissingJobDescription) || errors.Is(err, services.ErrNoDocuments) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("screening failed: %v", err),
		})
	}

	display := screening.Results
	if len(display) > topK {
		display = display[:topK]
	}

	return c.Status(fiber.StatusOK).JSON(models.ScreenResponse{
		ID:         screening.ID.String(),
		Status:     string(screening.Status),
		TopK:       topK,
		Total:      len(screening.Results),
		Candidates: toRankedCandidates(display, includeFullText),
	})
}

// HandleDeleteResume handles DELETE /resumes/:candidate, removing a candidate
// from the vector index so later screenings no longer retrieve it. Stored
// screening results are historical and stay untouched.
func (h *ScreenHandler) HandleDeleteResume(c *fiber.Ctx) error {
	candidateID, err := url.PathUnescape(c.Params("candidate"))
	if err != nil || candidateID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID",
		})
	}

	if err := h.indexService.DeleteResume(c.Context(), candidateID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to delete resume: %v", err),
		})
	}

	return c.JSON(fiber.Map{
		"message":      "resume removed from index",
		"candidate_id": candidateID,
	})
}

// parseTopK clamps the requested result count to the configured [1, max]
// range, falling back to the default when absent or unparseable.
func (h *ScreenHandler) parseTopK(raw string) int {
	topK := h.screeningCfg.DefaultTopK
	if raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			topK = v
		}
	}

	if topK < 1 {
		topK = 1
	}
	if topK > h.screeningCfg.MaxTopK {
		topK = h.screeningCfg.MaxTopK
	}
	return topK
}

func toRankedCandidates(results []models.CandidateResult, includeFullText bool) []models.RankedCandidate {
	candidates := make([]models.RankedCandidate, 0, len(results))
	for _, r := range results {
		candidate := models.RankedCandidate{
			Rank:          r.Rank,
			CandidateID:   r.CandidateID,
			ATSScore:      r.ATSScore,
			SimilarityPct: r.SimilarityPct,
			MatchedSkills: splitSkills(r.MatchedSkills),
			MissingSkills: splitSkills(r.MissingSkills),
			SnippetHTML:   r.SnippetHTML,
		}
		if includeFullText {
			candidate.ResumeText = r.ResumeText
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}

func splitSkills(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, ", ")
}
