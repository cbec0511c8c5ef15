package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every endpoint on the engine. Shared by the
// standalone server and the serverless adapter.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "SecOps Shift Board API",
			"version": "1.0.0",
		})
	})

	r.POST("/login", h.Login)

	api := r.Group("/api")
	api.Use(h.AuthMiddleware())
	{
		api.GET("/schedule", h.GetSchedule)
		api.PUT("/schedule/cell", h.EditCell)
		api.GET("/overview", h.Overview)
		api.GET("/coverage", h.Coverage)
		api.POST("/bulk/preflight", h.BulkPreflight)
		api.POST("/bulk/apply", h.BulkApply)
		api.GET("/audit", h.AuditList)
	}

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware(), h.RequireAdmin())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	export := r.Group("/export")
	export.Use(h.APIKeyMiddleware())
	{
		export.GET("/json", h.ExportJSON)
		export.GET("/csv", h.ExportCSV)
	}
}
