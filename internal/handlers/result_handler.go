package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-ranker/internal/repositories"
	"alfredoptarigan/resume-ranker/internal/services"
)

type ResultHandler struct {
	rankingRepo repositories.RankingRepository
	indexer     services.CandidateIndexer
}

// NewResultHandler serves stored runs. indexer may be nil.
func NewResultHandler(rankingRepo repositories.RankingRepository, indexer services.CandidateIndexer) *ResultHandler {
	return &ResultHandler{
		rankingRepo: rankingRepo,
		indexer:     indexer,
	}
}

// HandleGetResult handles GET /rankings/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	runID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid ranking ID format",
		})
	}

	run, err := h.rankingRepo.FindByID(runID)
	if err != nil {
		return rankingLookupError(c, err)
	}

	return c.JSON(run)
}

// HandleDownloadCSV handles GET /rankings/:id/csv
func (h *ResultHandler) HandleDownloadCSV(c *fiber.Ctx) error {
	runID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid ranking ID format",
		})
	}

	run, err := h.rankingRepo.FindByID(runID)
	if err != nil {
		return rankingLookupError(c, err)
	}

	report, err := services.BuildCSV(run.Entries)
	if err != nil {
		log.Printf("❌ Failed to render report %s: %v\n", runID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to render report")
	}

	c.Attachment(services.ReportFilename)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.SendString(report)
}

// HandleDelete handles DELETE /rankings/:id
func (h *ResultHandler) HandleDelete(c *fiber.Ctx) error {
	runID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid ranking ID format",
		})
	}

	if err := h.rankingRepo.Delete(runID); err != nil {
		return rankingLookupError(c, err)
	}

	if h.indexer != nil {
		if err := h.indexer.DeleteRun(c.UserContext(), runID); err != nil {
			log.Printf("⚠️  Failed to remove run %s from index: %v\n", runID, err)
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func rankingLookupError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repositories.ErrRankingNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Ranking not found",
		})
	}
	log.Printf("❌ Failed to load ranking: %v\n", err)
	return fiber.NewError(fiber.StatusInternalServerError, "Failed to load ranking")
}
