package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every API route onto the router. main and the handler
// tests share this so the tested surface is the served surface.
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	// CORS middleware (for web app)
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.POST("/auth/forgot-password", h.ForgotPassword)
		api.POST("/auth/reset-password", h.ResetPassword)
		api.GET("/setup", h.GetSetupStatus)
		api.POST("/setup", h.Setup)
		api.GET("/ideas/public", h.ListPublicIdeas)
		api.GET("/uploads/*filepath", h.ServeUpload)
		api.GET("/vapid-public-key", h.GetVAPIDPublicKey)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(h.AuthMiddleware())
	{
		protected.GET("/me", h.GetMe)
		protected.GET("/profile", h.GetProfile)
		protected.PUT("/profile", h.UpdateProfile)

		protected.GET("/ideas", h.ListIdeas)
		protected.POST("/ideas", h.CreateIdea)
		protected.GET("/ideas/:id", h.GetIdea)
		protected.PUT("/ideas/:id", h.UpdateIdea)
		protected.POST("/ideas/:id/group", h.CreateGroupForIdea)

		protected.GET("/projects", h.ListProjects)
		protected.POST("/projects", h.CreateProject)
		protected.GET("/projects/:id", h.GetProject)
		protected.PUT("/projects/:id", h.UpdateProject)

		protected.POST("/likes", h.CreateLike)
		protected.POST("/likes/:id/ignore", h.IgnoreLike)
		protected.GET("/invitations", h.GetInvitations)
		protected.GET("/matches", h.GetMatches)

		protected.GET("/groups", h.ListGroups)
		protected.POST("/groups/:id/join", h.JoinGroup)
		protected.GET("/groups/:id/messages", h.GetGroupMessages)
		protected.POST("/groups/:id/messages", h.PostGroupMessage)
		protected.POST("/groups/:id/read", h.MarkGroupRead)

		protected.POST("/trends", h.GetTrends)
		protected.POST("/uploads", h.UploadFile)

		protected.POST("/push/subscribe", h.SubscribePush)
		protected.DELETE("/push/subscribe", h.UnsubscribePush)
	}

	// Admin routes
	admin := protected.Group("/admin")
	admin.Use(h.AdminMiddleware())
	{
		admin.GET("/stats", h.GetPlatformStats)
		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:id/role", h.UpdateUserRole)
		admin.POST("/groups/bulk", h.BulkCreateGroups)
		admin.GET("/settings", h.GetSettings)
		admin.PUT("/settings", h.UpdateSettings)
	}

	// WebSocket route
	router.GET("/ws", h.HandleWebSocket)

	// Crawler discovery
	router.GET("/robots.txt", h.RobotsTxt)
	router.GET("/sitemap.xml", h.Sitemap)
}
