package resource

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/curriculum-catalog/handlers"
	"github.com/sahilchouksey/curriculum-catalog/services"
	"github.com/sahilchouksey/curriculum-catalog/utils/logger"
	queryHelper "github.com/sahilchouksey/curriculum-catalog/utils/query"
	"github.com/sahilchouksey/curriculum-catalog/utils/response"
)

// LearningResourceHandler handles learning resource requests
type LearningResourceHandler struct {
	resourceService *services.LearningResourceService
	log             *logger.Logger
}

// NewLearningResourceHandler creates a new learning resource handler
func NewLearningResourceHandler(resourceService *services.LearningResourceService, log *logger.Logger) *LearningResourceHandler {
	return &LearningResourceHandler{
		resourceService: resourceService,
		log:             log,
	}
}

// ListResources handles GET /api/learning-resources/?knowledge_point=&resource_type=&is_recommended=
func (h *LearningResourceHandler) ListResources(c *fiber.Ctx) error {
	q := queryHelper.From(c)
	filter := services.LearningResourceFilter{
		KnowledgePointID: q.Uint("knowledge_point"),
		ResourceType:     q.String("resource_type"),
		IsRecommended:    q.Bool("is_recommended"),
	}
	if written, err := handlers.QueryError(c, q); written {
		return err
	}

	resources, err := h.resourceService.List(c.UserContext(), filter, handlers.ListOptions(q))
	if err != nil {
		return handlers.RespondError(c, h.log, err, "fetch learning resources")
	}
	return response.Success(c, resources)
}

func (h *LearningResourceHandler) GetResource(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c)
	if !ok {
		return response.NotFound(c)
	}

	res, err := h.resourceService.Get(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "fetch learning resource")
	}
	return response.Success(c, res)
}

func (h *LearningResourceHandler) CreateResource(c *fiber.Ctx) error {
	var req services.LearningResourceAttributes
	if err := handlers.DecodeBody(c, &req); err != nil {
		return handlers.RespondError(c, h.log, err, "create learning resource")
	}

	res, err := h.resourceService.Create(c.UserContext(), req)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "create learning resource")
	}
	return response.Created(c, res)
}

func (h *LearningResourceHandler) UpdateResource(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c)
	if !ok {
		return response.NotFound(c)
	}

	var req services.LearningResourcePatch
	if err := handlers.DecodeBody(c, &req); err != nil {
		return handlers.RespondError(c, h.log, err, "update learning resource")
	}

	res, err := h.resourceService.Update(c.UserContext(), id, req, c.Method() == fiber.MethodPatch)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "update learning resource")
	}
	return response.Success(c, res)
}

func (h *LearningResourceHandler) DeleteResource(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c)
	if !ok {
		return response.NotFound(c)
	}

	if err := h.resourceService.Delete(c.UserContext(), id); err != nil {
		return handlers.RespondError(c, h.log, err, "delete learning resource")
	}
	return response.NoContent(c)
}
