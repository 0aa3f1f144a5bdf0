package app

import (
	"github.com/gin-gonic/gin"
	"github.com/postflow/core/internal/middleware"
	"github.com/postflow/core/internal/models"
	"github.com/postflow/core/internal/modules/drafting"
	"github.com/postflow/core/internal/modules/session"
	"github.com/postflow/core/internal/pkg/response"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes() {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":    "postflow-core",
		"version": "1.0.0",
	}
	r.GET("/", func(c *gin.Context) {
		response.OK(c, appInfo)
	})

	api := r.Group(apiPrefix)

	activeMW := middleware.RequireActiveSession(a.sess.Active)

	session.NewHandler(a.sess).RegisterRoutes(api)
	drafting.NewHandler(a.drafts).RegisterRoutes(api, activeMW)

	// Enum option sets the client builds its pickers from.
	api.GET("/options", func(c *gin.Context) {
		response.OK(c, gin.H{
			"platforms": models.Platforms(),
			"tones":     models.Tones(),
			"lengths":   models.Lengths(),
		})
	})
}
