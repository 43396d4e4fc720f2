package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/posttag-api/internal/controller"
	"github.com/nsxzhou1114/posttag-api/internal/logger"
	"github.com/nsxzhou1114/posttag-api/internal/middleware"
)

// Options 路由依赖
type Options struct {
	PostTagApi *controller.PostTagApi
	AuthApi    *controller.AuthApi
	Metrics    *middleware.HTTPMetrics
}

// New 创建gin引擎并注册中间件和路由
func New(opts Options) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Cors())
	r.Use(middleware.RequestID())
	r.Use(logger.GinLogger())
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", opts.Metrics.Handler())
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	Setup(r, opts)
	return r
}

// Setup 设置API路由
func Setup(r *gin.Engine, opts Options) {
	api := r.Group("/api")

	// 文章相关路由
	setupPostRoutes(api, opts.PostTagApi)

	// 标签相关路由
	setupTagRoutes(api, opts.PostTagApi)

	// 令牌相关路由
	if opts.AuthApi != nil {
		setupAuthRoutes(api, opts.AuthApi)
	}
}

// setupPostRoutes 设置文章标签相关路由
func setupPostRoutes(api *gin.RouterGroup, postTagApi *controller.PostTagApi) {
	// 公开路由
	postRoutes := api.Group("/posts")
	{
		// 批量获取文章标签
		postRoutes.GET("/tags", postTagApi.ListTagsByPosts)
		// 获取文章标签
		postRoutes.GET("/:id/tags", postTagApi.ListTags)
		// 获取文章标签ID
		postRoutes.GET("/:id/tag-ids", postTagApi.ListTagIDs)
		// 获取文章关联记录
		postRoutes.GET("/:id/post-tags", postTagApi.ListPostLinks)
	}

	// 管理员路由
	adminPostRoutes := api.Group("/posts", middleware.AdminAuth())
	{
		// 更新文章标签
		adminPostRoutes.PUT("/:id/tags", postTagApi.UpdateTags)
		// 清空文章标签
		adminPostRoutes.DELETE("/:id/tags", postTagApi.RemovePostLinks)
	}
}

// setupTagRoutes 设置标签文章相关路由
func setupTagRoutes(api *gin.RouterGroup, postTagApi *controller.PostTagApi) {
	tagRoutes := api.Group("/tags")
	{
		// 获取全部标签及文章数
		tagRoutes.GET("/with-count", postTagApi.ListTagsWithCount)
		// 按标签名搜索文章
		tagRoutes.GET("/search-posts", postTagApi.SearchPosts)
		// 获取标签下的文章
		tagRoutes.GET("/:id/posts", postTagApi.ListPosts)
		// 获取标签关联记录
		tagRoutes.GET("/:id/post-tags", postTagApi.ListTagLinks)
	}

	adminTagRoutes := api.Group("/tags", middleware.AdminAuth())
	{
		// 删除标签的全部文章关联
		adminTagRoutes.DELETE("/:id/posts", postTagApi.RemoveTagLinks)
	}
}

// setupAuthRoutes 设置令牌相关路由
func setupAuthRoutes(api *gin.RouterGroup, authApi *controller.AuthApi) {
	authRoutes := api.Group("/auth", middleware.JWTAuth())
	{
		// 当前令牌信息
		authRoutes.GET("/me", authApi.Me)
		// 撤销当前令牌
		authRoutes.POST("/logout", authApi.Logout)
	}
}
