package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener/internal/config"
	"resume-screener/internal/models"
	"resume-screener/internal/services"
)

type fakeScreener struct {
	screening *models.Screening
	err       error
	lastInput *services.ScreenInput
}

func (f *fakeScreener) Screen(ctx context.Context, input *services.ScreenInput) (*models.Screening, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return f.screening, nil
}

type fakeUploadStorage struct {
	saved   []string
	deleted []string
	saveErr error
}

func (f *fakeUploadStorage) SaveFile(file *multipart.FileHeader) (string, string, error) {
	if f.saveErr != nil {
		return "", "", f.saveErr
	}
	stored := "stored_" + file.Filename
	f.saved = append(f.saved, stored)
	return stored, "/tmp/" + stored, nil
}

func (f *fakeUploadStorage) GetFilePath(filename string) string { return filename }
func (f *fakeUploadStorage) EnsureUploadDir() error             { return nil }
func (f *fakeUploadStorage) DeleteFile(filename string) error {
	f.deleted = append(f.deleted, filename)
	return nil
}

type fakeIndex struct {
	deleted   []string
	deleteErr error
}

func (f *fakeIndex) InitCollection() error { return nil }
func (f *fakeIndex) UpsertResume(ctx context.Context, candidateID string, text string, embedding []float32) error {
	return nil
}
func (f *fakeIndex) Search(ctx context.Context, queryEmbedding []float32, limit int) ([]services.SearchResult, error) {
	return nil, nil
}
func (f *fakeIndex) DeleteResume(ctx context.Context, candidateID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, candidateID)
	return nil
}

func screeningCfg() config.ScreeningConfig {
	return config.ScreeningConfig{DefaultTopK: 5, MaxTopK: 20, SnippetLength: 900}
}

func newScreenApp(screener *fakeScreener, storage *fakeUploadStorage) *fiber.App {
	app := fiber.New()
	handler := NewScreenHandler(screener, storage, &fakeIndex{}, 1024*1024, screeningCfg())
	app.Post("/api/v1/screen", handler.HandleScreen)
	return app
}

func multipartBody(t *testing.T, jobDescription string, files map[string]string, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if jobDescription != "" {
		require.NoError(t, writer.WriteField("job_description", jobDescription))
	}
	for key, value := range extra {
		require.NoError(t, writer.WriteField(key, value))
	}
	for name, content := range files {
		part, err := writer.CreateFormFile("resumes", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func TestHandleScreenValidation(t *testing.T) {
	t.Run("missing job description", func(t *testing.T) {
		screener := &fakeScreener{}
		app := newScreenApp(screener, &fakeUploadStorage{})

		body, contentType := multipartBody(t, "", map[string]string{"a.pdf": "x"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/screen", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Nil(t, screener.lastInput, "screening must not start")
	})

	t.Run("no resumes uploaded", func(t *testing.T) {
		screener := &fakeScreener{}
		app := newScreenApp(screener, &fakeUploadStorage{})

		body, contentType := multipartBody(t, "python developer", nil, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/screen", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Nil(t, screener.lastInput)
	})

	t.Run("invalid extension rejects batch and cleans up", func(t *testing.T) {
		screener := &fakeScreener{}
		storage := &fakeUploadStorage{saveErr: errors.New("invalid file extension: .exe")}
		app := newScreenApp(screener, storage)

		body, contentType := multipartBody(t, "python developer", map[string]string{"virus.exe": "x"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/screen", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Nil(t, screener.lastInput)
	})
}

func TestHandleScreenSuccess(t *testing.T) {
	screeningID := uuid.New()
	results := []models.CandidateResult{
		{CandidateID: "alice.pdf", Rank: 1, ATSScore: 80.0, SimilarityPct: 90.0, MatchedSkills: "python, sql", ResumeText: "full text"},
		{CandidateID: "bob.pdf", Rank: 2, ATSScore: 60.0, SimilarityPct: 70.0, MissingSkills: "sql"},
		{CandidateID: "carol.pdf", Rank: 3, ATSScore: 40.0, SimilarityPct: 50.0},
	}
	screener := &fakeScreener{screening: &models.Screening{
		ID:      screeningID,
		TopK:    2,
		Status:  models.StatusCompleted,
		Results: results,
	}}
	storage := &fakeUploadStorage{}
	app := newScreenApp(screener, storage)

	body, contentType := multipartBody(t, "python developer",
		map[string]string{"alice.pdf": "a", "bob.pdf": "b", "carol.pdf": "c"},
		map[string]string{"top_k": "2"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/screen", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var response models.ScreenResponse
	require.NoError(t, json.Unmarshal(raw, &response))

	assert.Equal(t, screeningID.String(), response.ID)
	assert.Equal(t, 2, response.TopK)
	assert.Equal(t, 3, response.Total, "total reflects the full list")
	require.Len(t, response.Candidates, 2, "display list truncated to topK")
	assert.Equal(t, "alice.pdf", response.Candidates[0].CandidateID)
	assert.Equal(t, []string{"python", "sql"}, response.Candidates[0].MatchedSkills)
	assert.Empty(t, response.Candidates[0].ResumeText, "full text withheld unless requested")

	require.NotNil(t, screener.lastInput)
	assert.Len(t, screener.lastInput.Documents, 3)
	assert.Equal(t, "alice.pdf", screener.lastInput.Documents[0].CandidateID)
}

func TestHandleScreenFullText(t *testing.T) {
	screener := &fakeScreener{screening: &models.Screening{
		ID:     uuid.New(),
		Status: models.StatusCompleted,
		Results: []models.CandidateResult{
			{CandidateID: "alice.pdf", Rank: 1, ResumeText: "the whole resume"},
		},
	}}
	app := newScreenApp(screener, &fakeUploadStorage{})

	body, contentType := multipartBody(t, "python developer",
		map[string]string{"alice.pdf": "a"},
		map[string]string{"full_text": "true"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/screen", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var response models.ScreenResponse
	require.NoError(t, json.Unmarshal(raw, &response))
	require.Len(t, response.Candidates, 1)
	assert.Equal(t, "the whole resume", response.Candidates[0].ResumeText)
}

func TestParseTopK(t *testing.T) {
	handler := NewScreenHandler(nil, nil, nil, 0, screeningCfg())

	tests := []struct {
		raw  string
		want int
	}{
		{"", 5},
		{"abc", 5},
		{"3", 3},
		{"0", 1},
		{"-7", 1},
		{"20", 20},
		{"100", 20},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, handler.parseTopK(tt.raw), "raw=%q", tt.raw)
	}
}

func TestHandleDeleteResume(t *testing.T) {
	newDeleteApp := func(index *fakeIndex) *fiber.App {
		app := fiber.New()
		handler := NewScreenHandler(&fakeScreener{}, &fakeUploadStorage{}, index, 1024*1024, screeningCfg())
		app.Delete("/api/v1/resumes/:candidate", handler.HandleDeleteResume)
		return app
	}

	t.Run("removes the candidate from the index", func(t *testing.T) {
		index := &fakeIndex{}
		app := newDeleteApp(index)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/resumes/alice.pdf", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, []string{"alice.pdf"}, index.deleted)
	})

	t.Run("unescapes candidate filenames", func(t *testing.T) {
		index := &fakeIndex{}
		app := newDeleteApp(index)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/resumes/jane%20doe.pdf", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, []string{"jane doe.pdf"}, index.deleted)
	})

	t.Run("index failure surfaces as 500", func(t *testing.T) {
		index := &fakeIndex{deleteErr: errors.New("connection refused")}
		app := newDeleteApp(index)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/resumes/alice.pdf", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}
