package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/nsxzhou1114/posttag-api/internal/config"
	"github.com/nsxzhou1114/posttag-api/internal/logger"
	"go.uber.org/zap"
)

// ES 全局Elasticsearch客户端实例
var (
	ES    *elasticsearch.Client
	esOne sync.Once
)

// InitElasticsearch 初始化Elasticsearch连接
func InitElasticsearch() (*elasticsearch.Client, error) {
	cfg := config.GetConfig().Elasticsearch

	esConfig := elasticsearch.Config{
		Addresses: cfg.URLs,
	}

	// 如果设置了用户名和密码，则添加基本认证
	if cfg.Username != "" && cfg.Password != "" {
		esConfig.Username = cfg.Username
		esConfig.Password = cfg.Password
	}

	client, err := elasticsearch.NewClient(esConfig)
	if err != nil {
		return nil, fmt.Errorf("连接elasticsearch失败: %w", err)
	}

	ctx := context.Background()
	err = retry.Do(
		func() error {
			info, err := client.Info(client.Info.WithContext(ctx))
			if err != nil {
				return err
			}
			defer info.Body.Close()
			if info.IsError() {
				return fmt.Errorf("elasticsearch返回错误: %s", info.String())
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch健康检查失败: %w", err)
	}

	logger.Info("elasticsearch连接成功", zap.Strings("addresses", cfg.URLs))
	return client, nil
}

// GetES 获取Elasticsearch客户端实例
func GetES() *elasticsearch.Client {
	var err error
	esOne.Do(func() {
		ES, err = InitElasticsearch()
		if err != nil {
			panic(fmt.Sprintf("elasticsearch初始化失败: %v", err))
		}
	})
	return ES
}
