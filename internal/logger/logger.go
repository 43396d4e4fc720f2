package logger

import (
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/natefinch/lumberjack"
	"github.com/nsxzhou1114/posttag-api/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDKey 请求ID在gin上下文中的键
const RequestIDKey = "requestID"

var (
	// Logger 全局日志实例
	Logger = zap.NewNop()
	// SugaredLogger 语法糖日志实例
	SugaredLogger = Logger.Sugar()
	loggerOnce    sync.Once
	// atomicLevel 日志级别，支持运行时修改
	atomicLevel = zap.NewAtomicLevel()
)

// Init 初始化日志
func Init() error {
	cfg := config.GetConfig().Log
	loggerOnce.Do(func() {
		InitLogger(&cfg)
	})
	return nil
}

// Sync 同步日志
func Sync() error {
	return Logger.Sync()
}

// parseLevel 解析日志级别，未知级别按info处理
func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// InitLogger 初始化日志
func InitLogger(cfg *config.LogConfig) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	atomicLevel.SetLevel(parseLevel(cfg.Level))

	var writeSyncer zapcore.WriteSyncer
	if cfg.Filename != "" {
		// 使用lumberjack进行日志轮转
		lumberjackLogger := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize, // MB
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge, // days
			Compress:   cfg.Compress,
		}

		if cfg.Stdout {
			writeSyncer = zapcore.NewMultiWriteSyncer(
				zapcore.AddSync(lumberjackLogger),
				zapcore.AddSync(os.Stdout),
			)
		} else {
			writeSyncer = zapcore.AddSync(lumberjackLogger)
		}
	} else {
		writeSyncer = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		writeSyncer,
		atomicLevel,
	)

	Logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	SugaredLogger = Logger.Sugar()
}

// SetLevel 修改日志级别，配置热更新时调用
func SetLevel(level string) {
	if atomicLevel.Level() == parseLevel(level) {
		return
	}
	atomicLevel.SetLevel(parseLevel(level))
	Infof("日志级别已调整为 %s", parseLevel(level))
}

// Level 当前日志级别
func Level() zapcore.Level {
	return atomicLevel.Level()
}

// GetLogger 获取日志实例
func GetLogger() *zap.Logger {
	return Logger
}

// GetSugaredLogger 获取语法糖日志实例
func GetSugaredLogger() *zap.SugaredLogger {
	return SugaredLogger
}

// GinLogger 返回Gin中间件日志处理函数
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		cost := time.Since(start)
		Logger.Info("HTTP请求",
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.Duration("cost", cost),
			zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()),
		)
	}
}

// Debug 调试日志
func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

// Info 信息日志
func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

// Warn 警告日志
func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

// Error 错误日志
func Error(msg string, fields ...zap.Field) {
	Logger.Error(msg, fields...)
}

// Fatal 致命错误日志
func Fatal(msg string, fields ...zap.Field) {
	Logger.Fatal(msg, fields...)
}

// Infof 格式化信息日志
func Infof(format string, args ...interface{}) {
	SugaredLogger.Infof(format, args...)
}

// Warnf 格式化警告日志
func Warnf(format string, args ...interface{}) {
	SugaredLogger.Warnf(format, args...)
}

// Errorf 格式化错误日志
func Errorf(format string, args ...interface{}) {
	SugaredLogger.Errorf(format, args...)
}
