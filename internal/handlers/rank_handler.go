package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/repositories"
	"alfredoptarigan/resume-ranker/internal/services"
)

type RankHandler struct {
	rankingService services.RankingService
	rankingRepo    repositories.RankingRepository
	storageService services.StorageService
	archive        services.ReportArchive
	worker         services.Worker
	maxFileSize    int64
}

// NewRankHandler wires the ranking endpoints. storageService, archive and worker are
// optional and may be nil.
func NewRankHandler(
	rankingService services.RankingService,
	rankingRepo repositories.RankingRepository,
	storageService services.StorageService,
	archive services.ReportArchive,
	worker services.Worker,
	maxFileSize int64,
) *RankHandler {
	return &RankHandler{
		rankingService: rankingService,
		rankingRepo:    rankingRepo,
		storageService: storageService,
		archive:        archive,
		worker:         worker,
		maxFileSize:    maxFileSize,
	}
}

// HandleRank handles POST /rank
func (h *RankHandler) HandleRank(c *fiber.Ctx) error {
	return h.handle(c, "resume_files", false)
}

// HandleCompare handles POST /compare, the single resume variant.
func (h *RankHandler) HandleCompare(c *fiber.Ctx) error {
	return h.handle(c, "resume_file", true)
}

func (h *RankHandler) handle(c *fiber.Ctx, field string, single bool) error {
	var req models.RankRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	files := form.File[field]
	switch {
	case len(files) == 0:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("No files uploaded. Please upload '%s'.", field),
		})
	case single && len(files) > 1:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Exactly one '%s' is expected", field),
		})
	}

	docs, err := h.readUploads(files)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	h.keepUploads(docs)

	ctx := c.UserContext()
	run, err := h.rankingService.Rank(ctx, req.JobDescription, docs)
	if err != nil {
		log.Printf("❌ Ranking failed: %v\n", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to rank resumes")
	}

	if err := h.rankingRepo.Create(run); err != nil {
		log.Printf("❌ Failed to save ranking %s: %v\n", run.ID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save ranking")
	}

	response := models.RankingResponse{RankingRun: *run}
	response.ArchiveKey = h.archiveReport(ctx, run)
	h.enqueueIndexing(run)

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *RankHandler) readUploads(files []*multipart.FileHeader) ([]models.UploadedDocument, error) {
	docs := make([]models.UploadedDocument, 0, len(files))
	for _, fh := range files {
		if fh.Size > h.maxFileSize {
			return nil, fmt.Errorf("%s too large. Max size: %d bytes", fh.Filename, h.maxFileSize)
		}

		src, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file %s: %w", fh.Filename, err)
		}
		content, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded file %s: %w", fh.Filename, err)
		}

		docs = append(docs, models.UploadedDocument{
			Filename: fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Content:  content,
		})
	}
	return docs, nil
}

func (h *RankHandler) keepUploads(docs []models.UploadedDocument) {
	if h.storageService == nil {
		return
	}
	for _, doc := range docs {
		if _, _, err := h.storageService.SaveUpload(doc.Filename, doc.Content); err != nil {
			log.Printf("⚠️  Failed to keep upload %s: %v\n", doc.Filename, err)
		}
	}
}

func (h *RankHandler) archiveReport(ctx context.Context, run *models.RankingRun) string {
	if h.archive == nil {
		return ""
	}

	report, err := services.BuildCSV(run.Entries)
	if err != nil {
		log.Printf("⚠️  Failed to render report %s: %v\n", run.ID, err)
		return ""
	}

	key, err := h.archive.Upload(ctx, run.ID, report)
	if err != nil {
		log.Printf("⚠️  Failed to archive report %s: %v\n", run.ID, err)
		return ""
	}
	return key
}

func (h *RankHandler) enqueueIndexing(run *models.RankingRun) {
	if h.worker == nil {
		return
	}
	for _, entry := range run.RankedEntries() {
		h.worker.EnqueueJob(services.IndexJob{
			RunID:    run.ID,
			Filename: entry.Filename,
			Name:     deref(entry.Name),
			Email:    deref(entry.Email),
			Text:     entry.Text,
		})
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
