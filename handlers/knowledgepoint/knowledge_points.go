package knowledgepoint

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/curriculum-catalog/handlers"
	"github.com/sahilchouksey/curriculum-catalog/services"
	"github.com/sahilchouksey/curriculum-catalog/utils/logger"
	queryHelper "github.com/sahilchouksey/curriculum-catalog/utils/query"
	"github.com/sahilchouksey/curriculum-catalog/utils/response"
)

// KnowledgePointHandler handles knowledge point requests
type KnowledgePointHandler struct {
	knowledgePointService *services.KnowledgePointService
	log                   *logger.Logger
}

// NewKnowledgePointHandler creates a new knowledge point handler
func NewKnowledgePointHandler(knowledgePointService *services.KnowledgePointService, log *logger.Logger) *KnowledgePointHandler {
	return &KnowledgePointHandler{
		knowledgePointService: knowledgePointService,
		log:                   log,
	}
}

// ListKnowledgePoints handles GET /api/knowledge-points/?chapter=&difficulty=
func (h *KnowledgePointHandler) ListKnowledgePoints(c *fiber.Ctx) error {
	q := queryHelper.From(c)
	filter := services.KnowledgePointFilter{
		ChapterID:  q.Uint("chapter"),
		Difficulty: q.Int("difficulty"),
	}
	if written, err := handlers.QueryError(c, q); written {
		return err
	}

	points, err := h.knowledgePointService.List(c.UserContext(), filter, handlers.ListOptions(q))
	if err != nil {
		return handlers.RespondError(c, h.log, err, "fetch knowledge points")
	}
	return response.Success(c, points)
}

// ByCurriculum handles GET /api/knowledge-points/by-curriculum/:curriculum_id/
func (h *KnowledgePointHandler) ByCurriculum(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("curriculum_id"), 10, 32)
	if err != nil || id == 0 {
		return response.NotFound(c)
	}

	points, err := h.knowledgePointService.ByCurriculum(c.UserContext(), uint(id))
	if err != nil {
		return handlers.RespondError(c, h.log, err, "fetch knowledge points")
	}
	return response.Success(c, points)
}

// GetKnowledgePoint handles GET /api/knowledge-points/:id/
func (h *KnowledgePointHandler) GetKnowledgePoint(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c)
	if !ok {
		return response.NotFound(c)
	}

	point, err := h.knowledgePointService.Get(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "fetch knowledge point")
	}
	return response.Success(c, point)
}

// CreateKnowledgePoint handles POST /api/knowledge-points/. Difficulty defaults to medium.
func (h *KnowledgePointHandler) CreateKnowledgePoint(c *fiber.Ctx) error {
	req := services.NewKnowledgePointAttributes()
	if err := handlers.DecodeBody(c, &req); err != nil {
		return handlers.RespondError(c, h.log, err, "create knowledge point")
	}

	point, err := h.knowledgePointService.Create(c.UserContext(), req)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "create knowledge point")
	}
	return response.Created(c, point)
}

// UpdateKnowledgePoint handles PUT and PATCH /api/knowledge-points/:id/
func (h *KnowledgePointHandler) UpdateKnowledgePoint(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c)
	if !ok {
		return response.NotFound(c)
	}

	var req services.KnowledgePointPatch
	if err := handlers.DecodeBody(c, &req); err != nil {
		return handlers.RespondError(c, h.log, err, "update knowledge point")
	}

	point, err := h.knowledgePointService.Update(c.UserContext(), id, req, c.Method() == fiber.MethodPatch)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "update knowledge point")
	}
	return response.Success(c, point)
}

// DeleteKnowledgePoint handles DELETE /api/knowledge-points/:id/
func (h *KnowledgePointHandler) DeleteKnowledgePoint(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c)
	if !ok {
		return response.NotFound(c)
	}

	if err := h.knowledgePointService.Delete(c.UserContext(), id); err != nil {
		return handlers.RespondError(c, h.log, err, "delete knowledge point")
	}
	return response.NoContent(c)
}
