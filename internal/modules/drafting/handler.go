package drafting

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/postflow/core/internal/modules/generation"
	"github.com/postflow/core/internal/modules/preview"
	"github.com/postflow/core/internal/pkg/response"
)

type Handler struct {
	mgr *Manager
}

func NewHandler(mgr *Manager) *Handler {
	return &Handler{mgr: mgr}
}

// RegisterRoutes mounts the draft lifecycle endpoints. Every route is gated
// behind an active writer session.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, activeMW gin.HandlerFunc) {
	g := rg.Group("/drafts", activeMW)

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.POST("/:id/refine", h.refine)
	g.DELETE("/:id", h.delete)
	g.GET("/:id/preview", h.preview)
}

// GET /drafts — the collection in recency order
func (h *Handler) list(c *gin.Context) {
	response.OK(c, h.mgr.List())
}

// POST /drafts — generate a new draft
func (h *Handler) create(c *gin.Context) {
	var dto CreateDraftDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	record, err := h.mgr.Create(c.Request.Context(), dto.Idea, dto.Platform, dto.Tone, dto.Length)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, record)
}

// GET /drafts/:id — lookup and select
func (h *Handler) get(c *gin.Context) {
	record, err := h.mgr.Select(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, record)
}

// POST /drafts/:id/refine — rewrite content per instruction
func (h *Handler) refine(c *gin.Context) {
	var dto RefineDraftDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	record, err := h.mgr.Refine(c.Request.Context(), c.Param("id"), dto.Instruction)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, record)
}

// DELETE /drafts/:id — idempotent removal
func (h *Handler) delete(c *gin.Context) {
	if err := h.mgr.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

// GET /drafts/:id/preview — draft body rendered as HTML
func (h *Handler) preview(c *gin.Context) {
	record, ok := h.mgr.Get(c.Param("id"))
	if !ok {
		response.NotFoundMsg(c, ErrNotFound.Error())
		return
	}
	html, err := preview.Render(record.Content)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, previewResponse{ID: record.ID, HTML: html})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, err.Error())
	case errors.Is(err, ErrSessionEnded):
		response.Conflict(c, err.Error())
	case generation.IsError(err):
		response.BadGateway(c, generation.UserMessage(err))
	default:
		response.InternalError(c, err)
	}
}
