package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/jam/config"
	_ "github.com/d60-Lab/jam/docs"
	"github.com/d60-Lab/jam/internal/api/handler"
	"github.com/d60-Lab/jam/internal/api/middleware"
	"github.com/d60-Lab/jam/internal/identity"
	"github.com/d60-Lab/jam/internal/presence"
)

// NewRouter 组装全部路由与中间件
func NewRouter(cfg *config.Config, h *handler.Handler, verifier identity.TokenVerifier, tracker *presence.Tracker) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLog())
	r.Use(otelgin.Middleware("jam-api"))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.RateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authn := middleware.Auth(verifier, tracker)
	anon := middleware.OptionalAuth(verifier, tracker)

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/me", authn, h.Me)
	}

	profiles := r.Group("/profiles")
	{
		profiles.GET("/me", authn, h.MyProfile)
		profiles.PATCH("/me", authn, h.UpdateMyProfile)
		profiles.GET("/:username", h.ProfileByUsername)
		profiles.GET("/:username/posts", anon, h.PostsByUsername)
	}

	posts := r.Group("/posts")
	{
		posts.POST("", authn, h.CreatePost)
		posts.GET("/feed", anon, h.Feed)
		posts.GET("/:postId", anon, h.GetPost)
		posts.DELETE("/:postId", authn, h.DeletePost)
		posts.POST("/:postId/like", authn, h.ToggleLike)
		posts.GET("/:postId/likes", h.PostLikes)
		posts.GET("/:postId/comments", anon, h.Comments)
		posts.POST("/:postId/comments", authn, h.CreateComment)
	}

	follows := r.Group("/follows")
	{
		follows.GET("/following", authn, h.MyFollowing)
		follows.GET("/followers", authn, h.MyFollowers)
		follows.POST("/:userId", authn, h.FollowUser)
		follows.DELETE("/:userId", authn, h.UnfollowUser)
		follows.GET("/:userId/following", h.UserFollowing)
		follows.GET("/:userId/followers", h.UserFollowers)
	}

	friends := r.Group("/friends", authn)
	{
		friends.GET("", h.MyFriends)
		friends.GET("/requests", h.FriendRequests)
		friends.POST("/:userId/request", h.SendFriendRequest)
		friends.POST("/:userId/accept", h.AcceptFriendRequest)
		friends.DELETE("/:userId", h.RemoveFriend)
	}

	blocks := r.Group("/blocks", authn)
	{
		blocks.GET("", h.BlockedUsers)
		blocks.POST("/:userId", h.BlockUser)
		blocks.DELETE("/:userId", h.UnblockUser)
	}

	messages := r.Group("/messages", authn)
	{
		messages.POST("/send", h.SendMessage)
		messages.GET("/conversations", h.Conversations)
		messages.GET("/conversation/:userId", h.MessagesWith)
		messages.DELETE("/:messageId", h.DeleteMessage)
	}

	users := r.Group("/users")
	{
		users.GET("", middleware.OptionalAuth(verifier, tracker), h.Users)
		users.GET("/online", authn, h.OnlineUsers)
	}

	return r
}
