package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Nova_Community/internal/handler"
	"Nova_Community/internal/middleware"
	"Nova_Community/internal/repository/memory"
	"Nova_Community/internal/service"
)

func InitRouter(store *memory.Store, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog(log))

	user := handler.NewUserHandler(service.NewUserService(store))
	graph := handler.NewGraphHandler(service.NewGraphService(store))
	community := handler.NewCommunityHandler(service.NewCommunityService(store))
	message := handler.NewMessageHandler(service.NewMessageService(store))
	dm := handler.NewDirectChatHandler(service.NewDirectChatService(store))

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.GET("/search", user.Search)
		userGroup.GET("/:id", user.Get)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.PUT("/profile", user.UpdateProfile)
	}

	// 好友图相关接口
	friendGroup := r.Group("/api/friend")
	friendGroup.Use(middleware.AuthMiddleware())
	{
		friendGroup.GET("/", graph.Friends)
		friendGroup.POST("/request/:id", graph.SendRequest)
		friendGroup.POST("/accept/:id", graph.AcceptRequest)
		friendGroup.POST("/decline/:id", graph.DeclineRequest)
		friendGroup.GET("/pending", graph.Pending)
		friendGroup.DELETE("/:id", graph.RemoveFriend)
		friendGroup.GET("/status/:id", graph.Status)
	}

	// 图算法接口
	graphGroup := r.Group("/api/graph")
	graphGroup.Use(middleware.AuthMiddleware())
	{
		graphGroup.GET("/degree/:id", graph.Degree)
		graphGroup.GET("/connections", graph.Connections)
		graphGroup.GET("/recommendations", graph.Recommend)
	}

	// 社区相关接口
	communityGroup := r.Group("/api/community")
	communityGroup.Use(middleware.AuthMiddleware())
	{
		communityGroup.POST("/create", community.Create)
		communityGroup.GET("/list", community.List)
		communityGroup.GET("/popular", community.Popular)
		communityGroup.GET("/joined", community.Joined)
		communityGroup.GET("/recommendations", community.Recommend)
		communityGroup.GET("/:id", community.Get)
		communityGroup.GET("/:id/members", community.Members)
		communityGroup.POST("/:id/join", community.Join)
		communityGroup.POST("/:id/leave", community.Leave)

		// 治理接口：结果一律 200，详见 ModResult 注释
		communityGroup.POST("/:id/ban", community.Ban)
		communityGroup.POST("/:id/unban", community.Unban)
		communityGroup.POST("/:id/promote", community.PromoteAdmin)
		communityGroup.POST("/:id/demote", community.DemoteAdmin)
		communityGroup.POST("/:id/transfer", community.TransferOwnership)

		// 消息与投票
		communityGroup.GET("/:id/messages", message.History)
		communityGroup.POST("/:id/messages", message.Post)
		communityGroup.POST("/:id/messages/:msgId/upvote", message.Upvote)
		communityGroup.POST("/:id/messages/:msgId/pin", message.TogglePin)
		communityGroup.DELETE("/:id/messages/:msgId", message.Delete)
		communityGroup.POST("/:id/polls", message.CreatePoll)
		communityGroup.POST("/:id/messages/:msgId/vote/:optionId", message.ToggleVote)
	}

	// 私聊相关接口
	dmGroup := r.Group("/api/dm")
	dmGroup.Use(middleware.AuthMiddleware())
	{
		dmGroup.GET("/active", dm.Active)
		dmGroup.GET("/:id", dm.List)
		dmGroup.POST("/:id", dm.Send)
		dmGroup.POST("/:id/messages/:msgId/react", dm.React)
		dmGroup.DELETE("/:id/messages/:msgId", dm.Delete)
	}

	return r
}
