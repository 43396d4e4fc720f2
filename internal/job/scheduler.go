package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nsxzhou1114/posttag-api/internal/config"
	"github.com/nsxzhou1114/posttag-api/internal/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// reindexTimeout 单次全量重建的超时时间
const reindexTimeout = 30 * time.Minute

// Reindexer 全量重建文章标签索引
type Reindexer interface {
	Reindex(ctx context.Context) (int, error)
}

// Scheduler 定时任务调度器
//
// 常用表达式（含秒）:
//
//	"0 */5 * * * *"  每隔5分钟
//	"0 0 * * * *"    每小时整点
//	"0 0 3 * * *"    每天凌晨3点
type Scheduler struct {
	cron      *cron.Cron
	reindexer Reindexer
	log       *zap.SugaredLogger
	running   sync.Mutex
}

// NewScheduler 创建调度器并注册全量重建任务
func NewScheduler(cfg config.CronConfig, reindexer Reindexer) (*Scheduler, error) {
	location := time.Local
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("加载时区 %s 失败: %w", cfg.Timezone, err)
		}
		location = loc
	}

	s := &Scheduler{
		cron:      cron.New(cron.WithSeconds(), cron.WithLocation(location)),
		reindexer: reindexer,
		log:       logger.GetSugaredLogger(),
	}

	if _, err := s.cron.AddFunc(cfg.ReindexSpec, s.runScheduledReindex); err != nil {
		return nil, fmt.Errorf("注册索引重建任务失败, 表达式 %q: %w", cfg.ReindexSpec, err)
	}
	return s, nil
}

// Start 启动调度
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("定时任务已启动, 共 %d 个任务", len(s.cron.Entries()))
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("等待定时任务结束超时")
	}
}

func (s *Scheduler) runScheduledReindex() {
	ctx, cancel := context.WithTimeout(context.Background(), reindexTimeout)
	defer cancel()
	if _, err := s.RunReindex(ctx); err != nil {
		s.log.Errorf("定时重建文章标签索引失败: %v", err)
	}
}

// RunReindex 执行一次全量重建，上一次未结束时跳过
func (s *Scheduler) RunReindex(ctx context.Context) (int, error) {
	if !s.running.TryLock() {
		s.log.Warn("上一次索引重建尚未结束，跳过本次")
		return 0, nil
	}
	defer s.running.Unlock()

	start := time.Now()
	total, err := s.reindexer.Reindex(ctx)
	if err != nil {
		return total, err
	}
	s.log.Infof("文章标签索引重建完成, 文章数: %d, 耗时: %s", total, time.Since(start))
	return total, nil
}
