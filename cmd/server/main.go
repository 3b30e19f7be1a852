package main

import (
	"context"
	"log"

	"github.com/fortaxe/finlook-backend/internal/api/api_auth"
	"github.com/fortaxe/finlook-backend/internal/api/api_blog"
	"github.com/fortaxe/finlook-backend/internal/api/api_comment"
	"github.com/fortaxe/finlook-backend/internal/api/api_course"
	"github.com/fortaxe/finlook-backend/internal/api/api_dev"
	"github.com/fortaxe/finlook-backend/internal/api/api_post"
	"github.com/fortaxe/finlook-backend/internal/api/api_reel"
	"github.com/fortaxe/finlook-backend/internal/api/api_upload"
	"github.com/fortaxe/finlook-backend/internal/api/api_waitlist"
	"github.com/fortaxe/finlook-backend/internal/cache"
	"github.com/fortaxe/finlook-backend/internal/database"
	"github.com/fortaxe/finlook-backend/internal/jobs/jobs_blog"
	"github.com/fortaxe/finlook-backend/internal/middleware"
	"github.com/fortaxe/finlook-backend/internal/models"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_ai"
	"github.com/fortaxe/finlook-backend/internal/utils/utils_s3"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

func main() {
	log.Println("Starting server...")
	database.InitDB()
	cache.InitRedis()

	s3Client, err := utils_s3.NewClient(context.Background())
	if err != nil {
		log.Fatalf("failed to initialize s3 client: %v", err)
	}

	aiClient, err := utils_ai.NewClient()
	if err != nil {
		log.Fatalf("failed to initialize ai client: %v", err)
	}

	generator := jobs_blog.NewGenerator(database.DB, s3Client, aiClient)
	scheduler := cron.New()
	if err := generator.Schedule(scheduler); err != nil {
		log.Fatalf("failed to schedule blog generation: %v", err)
	}
	scheduler.Start()

	r := gin.New()
	r.Use(
		middleware.CORS(),
		middleware.RequestIDProvider(),
		middleware.PanicRecovery(),
		middleware.ErrorLogging(),
		middleware.ErrorHandler(),
		middleware.DBProvider(database.DB),
		middleware.CacheProvider(cache.Client),
		middleware.S3Provider(s3Client),
	)

	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	api := r.Group("/api")
	{
		api.GET("/healthcheck", api_dev.HealthCheck)
		api.GET("/authcheck", middleware.Auth(), api_dev.AuthCheck)

		auth := api.Group("/auth")
		auth.POST("/signup", api_auth.SignUp)
		auth.POST("/send-otp", api_auth.SendOTP)
		auth.POST("/verify-otp", api_auth.VerifyOTP)
		auth.POST("/admin/signin", api_auth.AdminSignIn)
		auth.POST("/admin/create", middleware.Auth(), adminOnly, api_auth.AdminCreate)
		auth.GET("/profile", middleware.Auth(), api_auth.Profile)

		posts := api.Group("/posts")
		posts.POST("", middleware.Auth(), api_post.New)
		posts.POST("/retweet", middleware.Auth(), api_post.Retweet)
		posts.GET("", middleware.OptionalAuth(), api_post.List)
		posts.GET("/:id", api_post.GetByID)
		posts.PUT("/:id", middleware.Auth(), api_post.Update)
		posts.DELETE("/:id", middleware.Auth(), api_post.Delete)
		posts.POST("/:id/like", middleware.Auth(), api_post.ToggleLike)
		posts.POST("/:id/bookmark", middleware.Auth(), api_post.ToggleBookmark)
		posts.GET("/:id/comments", api_comment.List)
		posts.POST("/:id/comments", middleware.Auth(), api_comment.New)
		posts.PUT("/comments/:id", middleware.Auth(), api_comment.Update)
		posts.DELETE("/comments/:id", middleware.Auth(), api_comment.Delete)
		posts.POST("/comments/:id/like", middleware.Auth(), api_comment.ToggleLike)

		reels := api.Group("/reels")
		reels.POST("", middleware.Auth(), api_reel.New)
		reels.GET("", middleware.OptionalAuth(), api_reel.List)
		reels.GET("/:id", api_reel.GetByID)
		reels.PUT("/:id", middleware.Auth(), api_reel.Update)
		reels.DELETE("/:id", middleware.Auth(), api_reel.Delete)
		reels.POST("/:id/like", middleware.Auth(), api_reel.ToggleLike)
		reels.GET("/:id/comments", api_reel.ListComments)
		reels.POST("/:id/comments", middleware.Auth(), api_reel.NewComment)
		reels.PUT("/comments/:id", middleware.Auth(), api_reel.UpdateComment)
		reels.DELETE("/comments/:id", middleware.Auth(), api_reel.DeleteComment)
		reels.POST("/comments/:id/like", middleware.Auth(), api_reel.ToggleCommentLike)

		courses := api.Group("/courses")
		courses.GET("", api_course.List)
		courses.POST("", middleware.Auth(), adminOnly, api_course.New)
		courses.GET("/:id", api_course.GetByID)
		courses.PUT("/:id", middleware.Auth(), adminOnly, api_course.Update)
		courses.DELETE("/:id", middleware.Auth(), adminOnly, api_course.Delete)
		courses.POST("/:id/purchase", middleware.Auth(), api_course.Purchase)
		courses.GET("/user/purchased", middleware.Auth(), api_course.Purchased)
		courses.GET("/:id/videos", middleware.OptionalAuth(), api_course.ListVideos)
		courses.POST("/:id/videos", middleware.Auth(), adminOnly, api_course.NewVideo)
		courses.GET("/videos/:id", middleware.OptionalAuth(), api_course.GetVideoByID)
		courses.PUT("/videos/:id", middleware.Auth(), adminOnly, api_course.UpdateVideo)
		courses.DELETE("/videos/:id", middleware.Auth(), adminOnly, api_course.DeleteVideo)
		courses.GET("/admin/stats", middleware.Auth(), adminOnly, api_course.Stats)
		courses.POST("/admin/seed", middleware.Auth(), adminOnly, api_course.Seed)

		blogs := api.Group("/blogs")
		blogs.GET("", api_blog.List)
		blogs.GET("/:id", api_blog.GetByID)
		blogs.POST("/generate", middleware.Auth(), adminOnly, api_blog.Generate(generator))

		waitlist := api.Group("/waitlist")
		waitlist.POST("/join", api_waitlist.Join)
		waitlist.GET("/count", api_waitlist.CountEntries)
		waitlist.GET("/admin/users", middleware.Auth(), adminOnly, api_waitlist.AdminList)
		waitlist.DELETE("/admin/users/:id", middleware.Auth(), adminOnly, api_waitlist.AdminDelete)

		uploads := api.Group("/uploads")
		uploads.POST("/presigned-url", middleware.Auth(), api_upload.PresignedURL(s3Client))
	}

	r.Run()
}
