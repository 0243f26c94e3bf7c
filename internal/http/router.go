package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.Library, cfg.SessionManager)
	preferencesController := NewPreferencesController(cfg.Library, cfg.SessionManager)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Collection operations
	router.GET("/api/books", booksController.ListBooks)
	router.POST("/api/books", booksController.AddBook)
	router.PUT("/api/books", booksController.UpdateBook)
	router.DELETE("/api/books", booksController.DeleteBook)
	router.PUT("/api/search", booksController.SetSearch)

	// Preference operations
	router.GET("/api/preferences", preferencesController.GetPreferences)
	router.POST("/api/preferences/filters", preferencesController.SetFilter)
	router.POST("/api/preferences/languages", preferencesController.SetLanguage)
	router.POST("/api/preferences/sort", preferencesController.SetSort)
	router.POST("/api/preferences/font-scale", preferencesController.SetFontScale)
	router.GET("/api/languages", preferencesController.GetLanguages)

	// Background tasks
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		router.POST("/api/tasks/export/run", tasksController.RunExport)
	}

	return router
}
