package sim

import (
	"github.com/gin-gonic/gin"
)

// Configures all API routes
func (s *Server) setupRoutes(router *gin.Engine) {
	// API version prefix
	v1 := router.Group("/api/v1")

	// Authorization tokens
	v1.POST("/token", s.handleToken)

	// Submission path
	v1.POST("/dryrun", s.handleDryRun)
	v1.POST("/submissions", s.handleSubmit)
	v1.POST("/receipts/status", s.handleStatus)

	// Read path
	v1.POST("/entries/read", s.handleRead)

	// Admin hooks for tests and demos
	admin := v1.Group("/admin")
	{
		admin.POST("/expire-tokens", s.handleExpireTokens)
	}
}
