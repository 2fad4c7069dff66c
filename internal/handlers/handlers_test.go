package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-ranker/internal/config"
	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/repositories"
	"alfredoptarigan/resume-ranker/internal/services"
)

type uploadFile struct {
	name    string
	content string
}

type fakeTranscriber struct {
	result models.TranscriptionResult
	audio  []byte
	mime   string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audio []byte, mimeType string) models.TranscriptionResult {
	f.audio = audio
	f.mime = mimeType
	return f.result
}

type fakeSearchIndexer struct {
	query   string
	limit   int
	deleted []uuid.UUID
}

func (f *fakeSearchIndexer) IndexCandidate(context.Context, services.IndexJob) error {
	return nil
}

func (f *fakeSearchIndexer) Search(_ context.Context, query string, limit int) ([]models.CandidateMatch, error) {
	f.query = query
	f.limit = limit
	return []models.CandidateMatch{{Filename: "jane.txt", Score: 0.8}}, nil
}

func (f *fakeSearchIndexer) DeleteRun(_ context.Context, runID uuid.UUID) error {
	f.deleted = append(f.deleted, runID)
	return nil
}

type testEnv struct {
	app         *fiber.App
	repo        repositories.RankingRepository
	transcriber *fakeTranscriber
}

func newTestEnv(t *testing.T, indexer services.CandidateIndexer) *testEnv {
	t.Helper()

	cfg := config.RankerConfig{Lowercase: true, SmoothIDF: true, ExtractTimeout: time.Second, Concurrency: 2}
	ranking := services.NewRankingService(services.NewDocumentParserService(cfg.ExtractTimeout), cfg)
	repo := repositories.NewMemoryRankingRepository()
	transcriber := &fakeTranscriber{}

	app := NewApp(Handlers{
		Rank:       NewRankHandler(ranking, repo, nil, nil, nil, 1024),
		Result:     NewResultHandler(repo, indexer),
		Transcribe: NewTranscribeHandler(transcriber),
		Search:     NewSearchHandler(indexer),
	}, 1<<20)

	return &testEnv{app: app, repo: repo, transcriber: transcriber}
}

func multipartRequest(t *testing.T, path, description, field string, files ...uploadFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if description != "" {
		require.NoError(t, w.WriteField("job_description", description))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(field, f.name)
		require.NoError(t, err)
		_, err = io.WriteString(part, f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHandleRank(t *testing.T) {
	env := newTestEnv(t, nil)

	req := multipartRequest(t, "/api/v1/rank", "Python, SQL, Docker", "resume_files",
		uploadFile{name: "sam.txt", content: "Sam Lee\nsam@lee.dev\nPython developer"},
		uploadFile{name: "photo.png", content: "not a resume"},
		uploadFile{name: "jane.txt", content: "Jane Doe\njane@doe.dev\nPython, SQL and Docker engineer"},
	)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	run := decode[models.RankingResponse](t, resp)
	require.Len(t, run.Entries, 3)

	assert.Equal(t, "jane.txt", run.Entries[0].Filename)
	assert.Equal(t, "Jane Doe", *run.Entries[0].Name)
	assert.InDelta(t, 100.0, run.Entries[0].Similarity, 1e-9)
	assert.Equal(t, "sam.txt", run.Entries[1].Filename)
	assert.Equal(t, []string{"SQL", "Docker"}, run.Entries[1].MissingSkills)
	assert.Equal(t, "photo.png", run.Entries[2].Filename)
	assert.Equal(t, models.StatusFailed, run.Entries[2].Status)
	assert.Equal(t, 3, run.Entries[2].Rank)

	stored, err := env.repo.FindByID(run.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Entries, 3)
}

func TestHandleRank_Validation(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name string
		req  *http.Request
		want string
	}{
		{
			name: "description too long",
			req: multipartRequest(t, "/api/v1/rank", strings.Repeat("go ", 40000), "resume_files",
				uploadFile{name: "a.txt", content: "Go"}),
			want: "job_description failed max validation",
		},
		{
			name: "no files",
			req:  multipartRequest(t, "/api/v1/rank", "Go", "resume_files"),
			want: "No files uploaded",
		},
		{
			name: "file too large",
			req: multipartRequest(t, "/api/v1/rank", "Go", "resume_files",
				uploadFile{name: "big.txt", content: strings.Repeat("x", 2048)}),
			want: "too large",
		},
		{
			name: "compare takes one file",
			req: multipartRequest(t, "/api/v1/compare", "Go", "resume_file",
				uploadFile{name: "a.txt", content: "Go"}, uploadFile{name: "b.txt", content: "Go"}),
			want: "Exactly one",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.app.Test(tt.req, -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			body := decode[map[string]string](t, resp)
			assert.Contains(t, body["error"], tt.want)
		})
	}
}

func TestHandleRank_EmptyDescriptionScoresZero(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, description := range []string{"", "   "} {
		req := multipartRequest(t, "/api/v1/rank", description, "resume_files",
			uploadFile{name: "a.txt", content: "Go developer"},
			uploadFile{name: "b.txt", content: "Rust developer"})
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode, "description %q", description)

		run := decode[models.RankingResponse](t, resp)
		require.Len(t, run.Entries, 2)
		assert.Len(t, run.Warnings, 1)
		assert.Equal(t, "a.txt", run.Entries[0].Filename)
		for _, e := range run.Entries {
			assert.Zero(t, e.Similarity)
			assert.Equal(t, models.StatusRanked, e.Status)
		}
	}
}

func TestHandleCompare(t *testing.T) {
	env := newTestEnv(t, nil)

	req := multipartRequest(t, "/api/v1/compare", "Go, Kubernetes", "resume_file",
		uploadFile{name: "cv.txt", content: "Go and Kubernetes"})
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	run := decode[models.RankingResponse](t, resp)
	require.Len(t, run.Entries, 1)
	assert.Empty(t, run.Entries[0].MissingSkills)
	assert.Greater(t, run.Entries[0].Similarity, 0.0)
}

func TestRankingLifecycle(t *testing.T) {
	indexer := &fakeSearchIndexer{}
	env := newTestEnv(t, indexer)

	resp, err := env.app.Test(multipartRequest(t, "/api/v1/rank", "Go, SQL", "resume_files",
		uploadFile{name: "jane.txt", content: "Jane Doe\njane@doe.dev\nGo developer"}), -1)
	require.NoError(t, err)
	run := decode[models.RankingResponse](t, resp)
	base := "/api/v1/rankings/" + run.ID.String()

	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, base, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decode[models.RankingRun](t, resp)
	assert.Equal(t, run.ID, got.ID)

	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, base+"/csv", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), services.ReportFilename)
	csvBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	rows, err := services.ParseCSV(bytes.NewReader(csvBody))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Jane Doe", *rows[0].Name)
	assert.Equal(t, []string{"SQL"}, rows[0].MissingSkills)

	resp, err = env.app.Test(httptest.NewRequest(http.MethodDelete, base, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []uuid.UUID{run.ID}, indexer.deleted)

	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, base, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleGetResult_InvalidID(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/rankings/not-a-uuid", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleTranscribe(t *testing.T) {
	tests := []struct {
		status models.TranscriptionStatus
		code   int
	}{
		{models.TranscriptionOK, fiber.StatusOK},
		{models.TranscriptionNoSpeech, fiber.StatusUnprocessableEntity},
		{models.TranscriptionMalformed, fiber.StatusBadGateway},
		{models.TranscriptionUnavailable, fiber.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			env := newTestEnv(t, nil)
			env.transcriber.result = models.TranscriptionResult{Status: tt.status}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/transcribe", strings.NewReader("RIFF...."))
			resp, err := env.app.Test(req, -1)
			require.NoError(t, err)

			assert.Equal(t, tt.code, resp.StatusCode)
			assert.Equal(t, "RIFF....", string(env.transcriber.audio))
			assert.Equal(t, "audio/wav", env.transcriber.mime)
		})
	}
}

func TestHandleSearch(t *testing.T) {
	indexer := &fakeSearchIndexer{}
	env := newTestEnv(t, indexer)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/candidates/search?q=go+engineer", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[models.SearchResponse](t, resp)
	assert.Equal(t, "go engineer", body.Query)
	assert.Len(t, body.Results, 1)
	assert.Equal(t, defaultSearchLimit, indexer.limit)

	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/candidates/search?q=go&limit=500", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleSearch_Disabled(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/candidates/search?q=go", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
