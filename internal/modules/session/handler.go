package session

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/postflow/core/internal/modules/drafting"
	"github.com/postflow/core/internal/pkg/response"
)

type EstablishSessionDTO struct {
	Name string `json:"name" binding:"required"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/session")

	g.GET("", h.current)
	g.POST("", h.establish)
	g.DELETE("", h.end)
	g.POST("/theme/toggle", h.toggleTheme)
}

// GET /session
func (h *Handler) current(c *gin.Context) {
	name, theme := h.svc.Snapshot()
	response.OK(c, gin.H{
		"name":      name,
		"theme":     theme,
		"onboarded": name != "",
	})
}

// POST /session — onboarding
func (h *Handler) establish(c *gin.Context) {
	var dto EstablishSessionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.Establish(c.Request.Context(), dto.Name); err != nil {
		switch {
		case errors.Is(err, drafting.ErrValidation):
			response.BadRequest(c, err.Error())
		case errors.Is(err, ErrSessionActive):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	name, theme := h.svc.Snapshot()
	response.Created(c, gin.H{"name": name, "theme": theme})
}

// DELETE /session — sign out and wipe drafts
func (h *Handler) end(c *gin.Context) {
	if err := h.svc.End(c.Request.Context()); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// POST /session/theme/toggle
func (h *Handler) toggleTheme(c *gin.Context) {
	theme := h.svc.ToggleTheme(c.Request.Context())
	response.OK(c, gin.H{"theme": theme})
}
