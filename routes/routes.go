package routes

import (
	"time"

	"inkdrop/handlers"
	"inkdrop/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Signup and login are the only endpoints worth brute forcing.
	authLimiter := middleware.NewIPRateLimiter(10, time.Minute)
	router.POST("/api/signup", middleware.RateLimit(authLimiter), handlers.Signup)
	router.POST("/api/login", middleware.RateLimit(authLimiter), handlers.Login)

	// Public reads.
	public := router.Group("/api")
	{
		public.GET("/vapid-public-key", handlers.GetVapidPublicKey)

		public.GET("/posts", handlers.GetAllPosts)
		public.GET("/posts/search", handlers.SearchPosts)
		public.GET("/posts/:id", handlers.GetPost)
		public.GET("/posts/:id/comments", handlers.GetComments)
		public.GET("/posts/:id/likes", handlers.GetPostLikes)

		public.GET("/categories", handlers.ListCategories)
		public.GET("/categories/counts", handlers.CategoryCounts)
		public.GET("/categories/:id/posts", handlers.GetPostsByCategory)

		public.GET("/users/:id", handlers.GetUser)
		public.GET("/users/:id/posts", handlers.GetUserPosts)
		public.GET("/users/:id/likes", handlers.GetUserLikes)
		public.GET("/users/:id/followers", handlers.GetFollowers)
		public.GET("/users/:id/following", handlers.GetFollowing)
		public.GET("/users/:id/follow-counts", handlers.GetFollowCounts)
	}

	// Everything below requires a valid token.
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/me", handlers.GetMyProfile)
		protected.PUT("/me", handlers.UpdateMyProfile)
		protected.POST("/me/photo", handlers.UploadProfilePhoto)
		protected.DELETE("/me/photo", handlers.DeleteProfilePhoto)

		protected.POST("/posts", handlers.CreatePost)
		protected.PUT("/posts/:id", handlers.UpdatePost)
		protected.DELETE("/posts/:id", handlers.DeletePost)
		protected.GET("/feed", handlers.GetFollowingFeed)

		protected.POST("/posts/:id/comments", handlers.AddComment)
		protected.PUT("/comments/:id", handlers.UpdateComment)
		protected.DELETE("/comments/:id", handlers.DeleteComment)

		protected.POST("/posts/:id/like", handlers.LikePost)
		protected.DELETE("/posts/:id/like", handlers.UnlikePost)
		protected.GET("/posts/:id/like", handlers.GetLikeStatus)

		protected.POST("/users/:id/follow", handlers.FollowUser)
		protected.DELETE("/users/:id/follow", handlers.UnfollowUser)
		protected.GET("/users/:id/follow", handlers.GetFollowStatus)

		protected.POST("/subscribe", handlers.SubscribePush)
		protected.DELETE("/subscribe", handlers.UnsubscribePush)
	}

	// Admin dashboard endpoints. Role changes need the super admin.
	admin := router.Group("/api/admin")
	admin.Use(middleware.JWTAuthMiddleware(), middleware.RequireAdmin())
	{
		admin.GET("/users", handlers.ListUsers)
		admin.PUT("/users/:id/ban", handlers.SetBanStatus)
		admin.PUT("/users/:id/role", middleware.RequireSuperAdmin(), handlers.UpdateUserRole)

		admin.POST("/categories", handlers.CreateCategory)
		admin.PUT("/categories/:id", handlers.UpdateCategory)
		admin.DELETE("/categories/:id", handlers.DeleteCategory)

		admin.GET("/analytics", handlers.GetAnalytics)
		admin.GET("/analytics/engagement", handlers.GetEngagement)
		admin.GET("/analytics/growth", handlers.GetGrowth)
		admin.GET("/analytics/chart", handlers.GetChart)
	}

	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
