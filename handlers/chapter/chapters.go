package chapter

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/curriculum-catalog/handlers"
	"github.com/sahilchouksey/curriculum-catalog/services"
	"github.com/sahilchouksey/curriculum-catalog/utils/logger"
	queryHelper "github.com/sahilchouksey/curriculum-catalog/utils/query"
	"github.com/sahilchouksey/curriculum-catalog/utils/response"
)

// ChapterHandler handles chapter-related requests
type ChapterHandler struct {
	chapterService *services.ChapterService
	log            *logger.Logger
}

func NewChapterHandler(chapterService *services.ChapterService, log *logger.Logger) *ChapterHandler {
	return &ChapterHandler{
		chapterService: chapterService,
		log:            log,
	}
}

// ListChapters handles GET /api/chapters/?curriculum=
func (h *ChapterHandler) ListChapters(c *fiber.Ctx) error {
	q := queryHelper.From(c)
	filter := services.ChapterFilter{CurriculumID: q.Uint("curriculum")}
	if written, err := handlers.QueryError(c, q); written {
		return err
	}

	chapters, err := h.chapterService.List(c.UserContext(), filter, handlers.ListOptions(q))
	if err != nil {
		return handlers.RespondError(c, h.log, err, "fetch chapters")
	}
	return response.Success(c, chapters)
}

func (h *ChapterHandler) GetChapter(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c)
	if !ok {
		return response.NotFound(c)
	}

	chapter, err := h.chapterService.Get(c.UserContext(), id)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "fetch chapter")
	}
	return response.Success(c, chapter)
}

func (h *ChapterHandler) CreateChapter(c *fiber.Ctx) error {
	var req services.ChapterAttributes
	if err := handlers.DecodeBody(c, &req); err != nil {
		return handlers.RespondError(c, h.log, err, "create chapter")
	}

	chapter, err := h.chapterService.Create(c.UserContext(), req)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "create chapter")
	}
	return response.Created(c, chapter)
}

// UpdateChapter serves both PUT and PATCH; PATCH leaves absent fields alone.
func (h *ChapterHandler) UpdateChapter(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c)
	if !ok {
		return response.NotFound(c)
	}

	var req services.ChapterPatch
	if err := handlers.DecodeBody(c, &req); err != nil {
		return handlers.RespondError(c, h.log, err, "update chapter")
	}

	chapter, err := h.chapterService.Update(c.UserContext(), id, req, c.Method() == fiber.MethodPatch)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "update chapter")
	}
	return response.Success(c, chapter)
}

func (h *ChapterHandler) DeleteChapter(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c)
	if !ok {
		return response.NotFound(c)
	}

	if err := h.chapterService.Delete(c.UserContext(), id); err != nil {
		return handlers.RespondError(c, h.log, err, "delete chapter")
	}
	return response.NoContent(c)
}
