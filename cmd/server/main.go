package main

import (
	"fmt"
	"log"
	"net/http"

	"openbook/backend/internal/auth"
	"openbook/backend/internal/config"
	"openbook/backend/internal/database"
	"openbook/backend/internal/handler"
	"openbook/backend/internal/social"
	"openbook/backend/internal/store"
	"openbook/backend/internal/upload"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "openbook/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Openbook API
// @version         1.0
// @description     This is the API for the Openbook social network.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	entities := store.Store{
		Users:    store.NewUsers(database.DB),
		Posts:    store.NewPosts(database.DB),
		Comments: store.NewComments(database.DB),
	}

	// Core services: graph state machine, cascade deletes, like toggles
	graph := social.NewGraph(entities.Users)
	cascade := social.NewCascade(entities, graph)
	likes := social.NewLikes(entities.Posts, entities.Comments)

	uploads := &upload.Saver{
		Dir:     config.AppConfig.UploadDir,
		BaseURL: config.AppConfig.BaseURL,
	}

	authHandler := handler.NewAuthHandler(entities.Users, uploads)
	userHandler := handler.NewUserHandler(entities, graph, cascade, uploads)
	postHandler := handler.NewPostHandler(entities, cascade, likes, uploads)
	commentHandler := handler.NewCommentHandler(entities, cascade, likes)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Uploaded images
	router.Static("/public/images", config.AppConfig.UploadDir)

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("", userHandler.ListUsers)
			userRoutes.POST("/search", userHandler.SearchUsers)

			// Friendship routes (must be before /:id)
			userRoutes.POST("/request", userHandler.SendFriendRequest)
			userRoutes.PUT("/accept", userHandler.AcceptFriendRequest)
			userRoutes.DELETE("/deny", userHandler.DenyFriendRequest)

			userRoutes.GET("/:id", userHandler.GetUserByID)
			userRoutes.PUT("/:id", userHandler.UpdateUser)
			userRoutes.POST("/:id/picture", userHandler.UpdateProfilePicture)
			userRoutes.DELETE("/:id", userHandler.DeleteUser)
		}

		// Post routes (protected)
		postRoutes := apiV1.Group("/posts")
		postRoutes.Use(auth.AuthMiddleware())
		{
			postRoutes.GET("", postHandler.GetFeed)
			postRoutes.POST("", postHandler.CreatePost)
			postRoutes.GET("/:postId", postHandler.GetPostByID)
			postRoutes.PUT("/:postId", postHandler.UpdatePost)
			postRoutes.DELETE("/:postId", postHandler.DeletePost)
			postRoutes.PUT("/:postId/like", postHandler.TogglePostLike)

			// Comment routes
			postRoutes.POST("/:postId/comments", commentHandler.CreateComment)
			postRoutes.GET("/:postId/comments/:commentId", commentHandler.GetComment)
			postRoutes.PUT("/:postId/comments/:commentId", commentHandler.UpdateComment)
			postRoutes.DELETE("/:postId/comments/:commentId", commentHandler.DeleteComment)
			postRoutes.PUT("/:postId/comments/:commentId/like", commentHandler.ToggleCommentLike)
		}
	}

	fmt.Println("Server is running on :" + config.AppConfig.Port)
	fmt.Println("Swagger UI is available at http://localhost:" + config.AppConfig.Port + "/swagger/index.html")
	log.Fatal(router.Run(":" + config.AppConfig.Port))
}
