package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resume-screener/internal/models"
	"resume-screener/internal/repositories"
)

type ResultHandler struct {
	screeningRepo repositories.ScreeningRepository
}

func NewResultHandler(screeningRepo repositories.ScreeningRepository) *ResultHandler {
	return &ResultHandler{
		screeningRepo: screeningRepo,
	}
}

// HandleGetScreening handles GET /screenings/:id. Unlike the screen response,
// this returns the full stored list, not just the top-K slice.
func (h *ResultHandler) HandleGetScreening(c *fiber.Ctx) error {
	screening, ok := h.findScreening(c)
	if !ok {
		return nil
	}

	response := models.ScreeningResponse{
		ID:             screening.ID.String(),
		Status:         string(screening.Status),
		JobDescription: screening.JobDescription,
		TopK:           screening.TopK,
		Total:          len(screening.Results),
		Candidates:     toRankedCandidates(screening.Results, false),
	}

	if screening.Status == models.StatusFailed && screening.ErrorMessage != nil {
		response.ErrorMessage = screening.ErrorMessage
	}

	return c.JSON(response)
}

// HandleExportCSV handles GET /screenings/:id/export.csv over the full ranked
// list.
func (h *ResultHandler) HandleExportCSV(c *fiber.Ctx) error {
	screening, ok := h.findScreening(c)
	if !ok {
		return nil
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	records := [][]string{
		{"candidate_id", "ats_score", "similarity_pct", "matched_skills", "missing_skills"},
	}
	for _, r := range screening.Results {
		records = append(records, []string{
			r.CandidateID,
			strconv.FormatFloat(r.ATSScore, 'f', 1, 64),
			strconv.FormatFloat(r.SimilarityPct, 'f', 1, 64),
			r.MatchedSkills,
			r.MissingSkills,
		})
	}

	if err := writer.WriteAll(records); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to write CSV",
		})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="ranked_results.csv"`)
	return c.Send(buf.Bytes())
}

// HandleGetCandidateText handles GET /screenings/:id/candidates/:candidate/text
// as a plain-text download of the extracted resume.
func (h *ResultHandler) HandleGetCandidateText(c *fiber.Ctx) error {
	screeningID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid screening ID format",
		})
	}

	// Candidate IDs are filenames and may carry spaces or unicode
	candidateID, err := url.PathUnescape(c.Params("candidate"))
	if err != nil || candidateID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID",
		})
	}

	result, err := h.screeningRepo.FindResult(screeningID, candidateID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.txt"`, result.CandidateID))
	return c.SendString(result.ResumeText)
}

// findScreening resolves the :id parameter. On failure it writes the error
// response itself and reports false.
func (h *ResultHandler) findScreening(c *fiber.Ctx) (*models.Screening, bool) {
	screeningID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid screening ID format",
		})
		return nil, false
	}

	screening, err := h.screeningRepo.FindByID(screeningID)
	if err != nil {
		_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Screening not found",
		})
		return nil, false
	}

	return screening, true
}
