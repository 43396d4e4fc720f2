package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	MySQL         DatabaseConfig      `mapstructure:"mysql"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Log           LogConfig           `mapstructure:"log"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Cron          CronConfig          `mapstructure:"cron"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name string `mapstructure:"name"`
	Mode string `mapstructure:"mode"`
	Port int    `mapstructure:"port"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	SecretKey           string `mapstructure:"secret_key"`
	AccessExpireSeconds int    `mapstructure:"access_expire_seconds"`
	BufferSeconds       int    `mapstructure:"buffer_seconds"`
	Issuer              string `mapstructure:"issuer"`
	// Blacklist 令牌黑名单类型: memory / redis
	Blacklist string `mapstructure:"blacklist"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	Charset      string `mapstructure:"charset"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	LogLevel     string `mapstructure:"log_level"`
}

// DSN 获取数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database, c.Charset)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

// Addr 获取Redis地址
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ElasticsearchConfig Elasticsearch配置
type ElasticsearchConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	URLs     []string `mapstructure:"urls"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
	Stdout     bool   `mapstructure:"stdout"`
}

// CronConfig 定时任务配置
type CronConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// ReindexSpec 全量重建文章标签索引的cron表达式（含秒）
	ReindexSpec string `mapstructure:"reindex_spec"`
	Timezone    string `mapstructure:"timezone"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
	// 配置Viper实例
	viperInstance *viper.Viper
	configMu      sync.RWMutex
)

// Init 初始化配置
func Init(configPath string) error {
	v := viper.New()
	v.AddConfigPath(configPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return fmt.Errorf("解析配置文件失败: %w", err)
	}

	configMu.Lock()
	GlobalConfig = &config
	viperInstance = v
	configMu.Unlock()
	return nil
}

// setDefaults 设置默认配置
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "posttag-api")
	v.SetDefault("app.mode", "release")
	v.SetDefault("app.port", 8080)
	v.SetDefault("mysql.charset", "utf8mb4")
	v.SetDefault("mysql.max_idle_conns", 10)
	v.SetDefault("mysql.max_open_conns", 100)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.access_expire_seconds", 7200)
	v.SetDefault("jwt.blacklist", "memory")
	v.SetDefault("cron.reindex_spec", "0 0 3 * * *")
	v.SetDefault("cron.timezone", "Asia/Shanghai")
}

// Watch 监听配置文件变化，变化后重新解析到全局配置
func Watch(onChange func(*Config)) {
	configMu.RLock()
	v := viperInstance
	configMu.RUnlock()
	if v == nil {
		return
	}

	v.OnConfigChange(func(in fsnotify.Event) {
		var config Config
		if err := v.Unmarshal(&config); err != nil {
			return
		}
		configMu.Lock()
		GlobalConfig = &config
		configMu.Unlock()
		if onChange != nil {
			onChange(&config)
		}
	})
	v.WatchConfig()
}

// GetString 获取字符串配置
func GetString(key string) string {
	return viperInstance.GetString(key)
}

// GetInt 获取整数配置
func GetInt(key string) int {
	return viperInstance.GetInt(key)
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return GlobalConfig
}
