package subject

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/curriculum-catalog/handlers"
	"github.com/sahilchouksey/curriculum-catalog/services"
	"github.com/sahilchouksey/curriculum-catalog/utils/logger"
	queryHelper "github.com/sahilchouksey/curriculum-catalog/utils/query"
	"github.com/sahilchouksey/curriculum-catalog/utils/response"
)

// SubjectHandler handles subject-related requests
type SubjectHandler struct {
	subjectService *services.SubjectService
	log            *logger.Logger
}

// NewSubjectHandler creates a new subject handler
func NewSubjectHandler(subjectService *services.SubjectService, log *logger.Logger) *SubjectHandler {
	return &SubjectHandler{
		subjectService: subjectService,
		log:            log,
	}
}

// ListSubjects handles GET /api/subjects/
func (h *SubjectHandler) ListSubjects(c *fiber.Ctx) error {
	q := queryHelper.From(c)

	subjects, err := h.subjectService.List(c.UserContext(), handlers.ListOptions(q))
	if err != nil {
		return handlers.RespondError(c, h.log, err, "fetch subjects")
	}
	return response.Success(c, subjects)
}

// GetSubject handles GET /api/subjects/:id/
func (h *SubjectHandler) GetSubject(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c)
	if !ok {
		return response.NotFound(c)
	}

	subject, err := h.subjectService.Get(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "fetch subject")
	}
	return response.Success(c, subject)
}

// CreateSubject handles POST /api/subjects/
func (h *SubjectHandler) CreateSubject(c *fiber.Ctx) error {
	var req services.SubjectAttributes
	if err := handlers.DecodeBody(c, &req); err != nil {
		return handlers.RespondError(c, h.log, err, "create subject")
	}

	subject, err := h.subjectService.Create(c.UserContext(), req)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "create subject")
	}
	return response.Created(c, subject)
}

// UpdateSubject handles PUT and PATCH /api/subjects/:id/
func (h *SubjectHandler) UpdateSubject(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c)
	if !ok {
		return response.NotFound(c)
	}

	var req services.SubjectPatch
	if err := handlers.DecodeBody(c, &req); err != nil {
		return handlers.RespondError(c, h.log, err, "update subject")
	}

	subject, err := h.subjectService.Update(c.UserContext(), id, req, c.Method() == fiber.MethodPatch)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "update subject")
	}
	return response.Success(c, subject)
}

// DeleteSubject handles DELETE /api/subjects/:id/ and removes every curriculum under it
func (h *SubjectHandler) DeleteSubject(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c)
	if !ok {
		return response.NotFound(c)
	}

	if err := h.subjectService.Delete(c.UserContext(), id); err != nil {
		return handlers.RespondError(c, h.log, err, "delete subject")
	}
	h.log.Info("subject deleted", "subject_id", id)
	return response.NoContent(c)
}
