package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"resumebuilder/internal/analytics"
	"resumebuilder/internal/api/middleware"
	"resumebuilder/internal/auth"
	"resumebuilder/internal/mailer"
	"resumebuilder/internal/resume"
	"resumebuilder/internal/storage"
)

// RegisterRoutes wires up the API routes under /v1.
func RegisterRoutes(
	router *gin.Engine,
	db *gorm.DB,
	authService *auth.AuthService,
	uploads storage.ObjectStore,
	m *mailer.Mailer,
	generator PDFGenerator,
	tempDir string,
	clamdAddr string,
	logger *slog.Logger,
) {
	store := resume.NewStore(db)
	recorder := analytics.NewRecorder(db)

	authHandler := NewAuthHandler(db, authService, m, logger)
	resumeHandler := NewResumeHandler(db, store, uploads, recorder, m, generator, tempDir, clamdAddr)
	authMiddleware := middleware.AuthMiddleware(authService)

	v1 := router.Group("/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		resumeGroup := v1.Group("/resumes")
		resumeGroup.Use(authMiddleware)
		{
			resumeGroup.POST("", resumeHandler.CreateResume)
			resumeGroup.GET("", resumeHandler.ListResumes)
			resumeGroup.GET("/search", resumeHandler.SearchResumes)
			resumeGroup.GET("/dashboard", resumeHandler.Dashboard)
			resumeGroup.GET("/:id", resumeHandler.GetResume)
			resumeGroup.PUT("/:id", resumeHandler.UpdateResume)
			resumeGroup.DELETE("/:id", resumeHandler.DeleteResume)
			resumeGroup.GET("/:id/download", resumeHandler.DownloadResume)
			resumeGroup.GET("/:id/export", resumeHandler.ExportResumeJSON)
			resumeGroup.GET("/:id/stats", resumeHandler.ResumeStats)
		}
	}
}
