package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/services"
)

const defaultSearchLimit = 5

type SearchHandler struct {
	indexer services.CandidateIndexer
}

// NewSearchHandler accepts a nil indexer; searches then answer 503.
func NewSearchHandler(indexer services.CandidateIndexer) *SearchHandler {
	return &SearchHandler{indexer: indexer}
}

// HandleSearch handles GET /candidates/search?q=&limit=
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	if h.indexer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Candidate search is not enabled",
		})
	}

	var req models.SearchRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid query parameters",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}
	if req.Limit == 0 {
		req.Limit = defaultSearchLimit
	}

	results, err := h.indexer.Search(c.UserContext(), req.Query, req.Limit)
	if err != nil {
		log.Printf("❌ Candidate search failed: %v\n", err)
		return fiber.NewError(fiber.StatusBadGateway, "Candidate search failed")
	}

	return c.JSON(models.SearchResponse{
		Query:   req.Query,
		Results: results,
	})
}
