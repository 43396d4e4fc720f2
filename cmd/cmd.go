package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/posttag-api/internal/config"
	"github.com/nsxzhou1114/posttag-api/internal/controller"
	"github.com/nsxzhou1114/posttag-api/internal/database"
	"github.com/nsxzhou1114/posttag-api/internal/job"
	"github.com/nsxzhou1114/posttag-api/internal/logger"
	"github.com/nsxzhou1114/posttag-api/internal/middleware"
	"github.com/nsxzhou1114/posttag-api/internal/model"
	"github.com/nsxzhou1114/posttag-api/internal/router"
	"github.com/nsxzhou1114/posttag-api/internal/service"
	"github.com/nsxzhou1114/posttag-api/pkg/auth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var configPath string

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "posttag-api",
	Short: "文章标签服务",
	Long:  `维护文章与标签的多对多关联，提供查询、批量调整和按标签搜索文章的接口`,
}

// serveCmd 启动服务命令
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP服务",
	Long:  `启动文章标签服务的HTTP服务器和定时任务`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config", "配置文件路径")

	rootCmd.AddCommand(serveCmd)
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// initializeBase 初始化配置和日志
func initializeBase() error {
	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("配置初始化失败: %w", err)
	}

	if err := logger.Init(); err != nil {
		return fmt.Errorf("日志初始化失败: %w", err)
	}

	if auth.BlacklistType(config.GetConfig().JWT.Blacklist) == auth.RedisBlacklist {
		auth.SetBlacklist(auth.NewRedisBlacklist(database.GetRedis()))
	}
	return nil
}

// initializeSystem 初始化配置、日志、数据库表和搜索索引
func initializeSystem() error {
	if err := initializeBase(); err != nil {
		return err
	}

	cfg := config.GetConfig()

	db := database.GetDB()
	if err := model.InitTables(db); err != nil {
		return fmt.Errorf("初始化数据库表失败: %w", err)
	}

	if cfg.Elasticsearch.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := model.InitESIndices(ctx, database.GetES()); err != nil {
			return fmt.Errorf("初始化Elasticsearch索引失败: %w", err)
		}
	}
	return nil
}

// indexer 未启用Elasticsearch时返回空实现
func indexer() service.PostTagIndexer {
	if !config.GetConfig().Elasticsearch.Enabled {
		return service.NopPostTagIndexer()
	}
	return service.GetPostTagIndexService()
}

// startServer 启动HTTP服务
func startServer() {
	if err := initializeSystem(); err != nil {
		fmt.Printf("系统初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.GetConfig()
	gin.SetMode(cfg.App.Mode)

	// 配置热更新只调整日志级别，其余配置需要重启
	config.Watch(func(c *config.Config) {
		logger.SetLevel(c.Log.Level)
	})

	r := router.New(router.Options{
		PostTagApi: controller.NewPostTagApi(service.GetPostTagService(), indexer()),
		AuthApi:    controller.NewAuthApi(),
		Metrics:    middleware.NewHTTPMetrics("posttag"),
	})

	var scheduler *job.Scheduler
	if cfg.Cron.Enabled && cfg.Elasticsearch.Enabled {
		var err error
		scheduler, err = job.NewScheduler(cfg.Cron, service.GetPostTagIndexService())
		if err != nil {
			logger.Fatal("定时任务初始化失败", zap.Error(err))
		}
		scheduler.Start()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("服务已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP服务启动失败: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// 收到退出信号或服务启动失败时开始关闭
		<-gctx.Done()
		logger.Info("关闭服务...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if scheduler != nil {
			scheduler.Stop(shutdownCtx)
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("服务异常退出", zap.Error(err))
	}
	logger.Info("服务已关闭")
}
