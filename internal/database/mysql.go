package database

import (
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/nsxzhou1114/posttag-api/internal/config"
	"github.com/nsxzhou1114/posttag-api/internal/logger"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DB 全局数据库实例
var (
	db    *gorm.DB
	dbOne sync.Once
)

// GormConfig 返回统一的GORM配置，测试中的sqlite连接也使用它
func GormConfig(logLevel string) *gorm.Config {
	return &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true, // 使用单数表名
		},
		DisableForeignKeyConstraintWhenMigrating: true, // 禁用外键约束
		Logger:                                   gormlogger.Default.LogMode(gormLogLevel(logLevel)),
	}
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// InitMySQL 初始化MySQL数据库连接
func InitMySQL(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	conn, err := gorm.Open(mysql.Open(cfg.DSN()), GormConfig(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("连接MySQL数据库失败: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库连接池失败: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	// 默认连接最大生命周期为一小时
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 数据库可能晚于服务启动，重试几次
	err = retry.Do(
		sqlDB.Ping,
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("MySQL连接重试", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("测试数据库连接失败: %w", err)
	}

	logger.Info("MySQL数据库连接成功", zap.String("host", cfg.Host), zap.String("database", cfg.Database))
	return conn, nil
}

// GetDB 获取数据库实例
func GetDB() *gorm.DB {
	var err error
	dbOne.Do(func() {
		db, err = InitMySQL(&config.GetConfig().MySQL)
		if err != nil {
			panic(fmt.Sprintf("MySQL数据库初始化失败: %v", err))
		}
	})
	return db
}
