package grade

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/curriculum-catalog/handlers"
	"github.com/sahilchouksey/curriculum-catalog/services"
	"github.com/sahilchouksey/curriculum-catalog/utils/logger"
	queryHelper "github.com/sahilchouksey/curriculum-catalog/utils/query"
	"github.com/sahilchouksey/curriculum-catalog/utils/response"
)

// GradeHandler handles grade-related requests
type GradeHandler struct {
	gradeService *services.GradeService
	log          *logger.Logger
}

// NewGradeHandler creates a new grade handler
func NewGradeHandler(gradeService *services.GradeService, log *logger.Logger) *GradeHandler {
	return &GradeHandler{
		gradeService: gradeService,
		log:          log,
	}
}

// ListGrades handles GET /api/grades/
func (h *GradeHandler) ListGrades(c *fiber.Ctx) error {
	q := queryHelper.From(c)

	grades, err := h.gradeService.List(c.UserContext(), handlers.ListOptions(q))
	if err != nil {
		return handlers.RespondError(c, h.log, err, "fetch grades")
	}
	return response.Success(c, grades)
}

// GetGrade handles GET /api/grades/:id/
func (h *GradeHandler) GetGrade(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c)
	if !ok {
		return response.NotFound(c)
	}

	grade, err := h.gradeService.Get(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "fetch grade")
	}
	return response.Success(c, grade)
}

// CreateGrade handles POST /api/grades/
func (h *GradeHandler) CreateGrade(c *fiber.Ctx) error {
	var req services.GradeAttributes
	if err := handlers.DecodeBody(c, &req); err != nil {
		return handlers.RespondError(c, h.log, err, "create grade")
	}

	grade, err := h.gradeService.Create(c.UserContext(), req)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "create grade")
	}
	return response.Created(c, grade)
}

// UpdateGrade handles PUT and PATCH /api/grades/:id/
func (h *GradeHandler) UpdateGrade(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c)
	if !ok {
		return response.NotFound(c)
	}

	var req services.GradePatch
	if err := handlers.DecodeBody(c, &req); err != nil {
		return handlers.RespondError(c, h.log, err, "update grade")
	}

	grade, err := h.gradeService.Update(c.UserContext(), id, req, c.Method() == fiber.MethodPatch)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "update grade")
	}
	return response.Success(c, grade)
}

// DeleteGrade handles DELETE /api/grades/:id/ and removes every curriculum for the grade
func (h *GradeHandler) DeleteGrade(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c)
	if !ok {
		return response.NotFound(c)
	}

	if err := h.gradeService.Delete(c.UserContext(), id); err != nil {
		return handlers.RespondError(c, h.log, err, "delete grade")
	}
	h.log.Info("grade deleted", "grade_id", id)
	return response.NoContent(c)
}
