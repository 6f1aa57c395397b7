package curriculum

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/curriculum-catalog/handlers"
	"github.com/sahilchouksey/curriculum-catalog/services"
	"github.com/sahilchouksey/curriculum-catalog/utils/logger"
	queryHelper "github.com/sahilchouksey/curriculum-catalog/utils/query"
	"github.com/sahilchouksey/curriculum-catalog/utils/response"
)

// CurriculumHandler handles curriculum-related requests
type CurriculumHandler struct {
	curriculumService *services.CurriculumService
	log               *logger.Logger
}

// NewCurriculumHandler creates a new curriculum handler
func NewCurriculumHandler(curriculumService *services.CurriculumService, log *logger.Logger) *CurriculumHandler {
	return &CurriculumHandler{
		curriculumService: curriculumService,
		log:               log,
	}
}

// ListCurriculums handles GET /api/curriculums/?subject=&grade=&search=&ordering=
func (h *CurriculumHandler) ListCurriculums(c *fiber.Ctx) error {
	q := queryHelper.From(c)
	filter := services.CurriculumFilter{
		SubjectID: q.Uint("subject"),
		GradeID:   q.Uint("grade"),
	}
	if written, err := handlers.QueryError(c, q); written {
		return err
	}

	curriculums, err := h.curriculumService.List(c.UserContext(), filter, handlers.ListOptions(q))
	if err != nil {
		return handlers.RespondError(c, h.log, err, "fetch curriculums")
	}
	return response.Success(c, curriculums)
}

// GetCurriculum handles GET /api/curriculums/:id/ with full subject, grade and chapter tree
func (h *CurriculumHandler) GetCurriculum(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c)
	if !ok {
		return response.NotFound(c)
	}

	curriculum, err := h.curriculumService.Get(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "fetch curriculum")
	}
	return response.Success(c, curriculum)
}

// CreateCurriculum handles POST /api/curriculums/
func (h *CurriculumHandler) CreateCurriculum(c *fiber.Ctx) error {
	var req services.CurriculumAttributes
	if err := handlers.DecodeBody(c, &req); err != nil {
		return handlers.RespondError(c, h.log, err, "create curriculum")
	}

	curriculum, err := h.curriculumService.Create(c.UserContext(), req)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "create curriculum")
	}
	return response.Created(c, curriculum)
}

// UpdateCurriculum handles PUT and PATCH /api/curriculums/:id/
func (h *CurriculumHandler) UpdateCurriculum(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c)
	if !ok {
		return response.NotFound(c)
	}

	var req services.CurriculumPatch
	if err := handlers.DecodeBody(c, &req); err != nil {
		return handlers.RespondError(c, h.log, err, "update curriculum")
	}

	curriculum, err := h.curriculumService.Update(c.UserContext(), id, req, c.Method() == fiber.MethodPatch)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "update curriculum")
	}
	return response.Success(c, curriculum)
}

// DeleteCurriculum handles DELETE /api/curriculums/:id/
func (h *CurriculumHandler) DeleteCurriculum(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c)
	if !ok {
		return response.NotFound(c)
	}

	if err := h.curriculumService.Delete(c.UserContext(), id); err != nil {
		return handlers.RespondError(c, h.log, err, "delete curriculum")
	}
	h.log.Info("curriculum deleted", "curriculum_id", id)
	return response.NoContent(c)
}
