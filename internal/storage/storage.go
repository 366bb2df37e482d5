package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"career-guide-go/internal/config"
	"career-guide-go/internal/logger"
)

// Storage 存储管理器，聚合所有存储相关依赖
type Storage struct {
	// 对象存储，用于拉取模型工件
	MinIO *MinIO

	// 键值存储，用于推荐结果缓存
	Redis *Redis

	// 院校数据集内存快照
	Colleges *CollegeStore
}

// NewStorage 创建存储管理器。
// Redis 和 MinIO 是可选组件，初始化失败只记警告；
// 院校数据集加载失败同样不阻塞启动，但院校推荐会持续返回空结果。
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	storage := &Storage{}
	var err error
	var initErrors []string

	// 初始化MinIO（如果配置了）
	if cfg.MinIO.Endpoint != "" {
		storage.MinIO, err = NewMinIO(&cfg.MinIO)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化MinIO失败")
			initErrors = append(initErrors, fmt.Sprintf("MinIO: %v", err))
		} else {
			logger.Info().Msg("MinIO客户端初始化成功")
		}
	}

	// 初始化Redis（如果配置了）
	if cfg.Redis.Address != "" {
		storage.Redis, err = NewRedis(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Str("address", cfg.Redis.Address).Msg("初始化Redis失败，结果缓存不可用")
			initErrors = append(initErrors, fmt.Sprintf("Redis: %v", err))
		} else {
			logger.Info().Str("address", cfg.Redis.Address).Msg("Redis客户端初始化成功")
		}
	} else {
		logger.Info().Msg("Redis未配置，跳过初始化")
	}

	// 加载院校数据集
	storage.Colleges, err = NewCollegeStore(cfg.Colleges.CSVPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.Colleges.CSVPath).Msg("院校数据集加载失败，院校推荐将返回空结果")
		initErrors = append(initErrors, fmt.Sprintf("Colleges: %v", err))
		storage.Colleges = &CollegeStore{csvPath: cfg.Colleges.CSVPath}
	} else if cfg.Colleges.RefreshIntervalMinutes > 0 {
		storage.Colleges.StartRefresh(ctx, time.Duration(cfg.Colleges.RefreshIntervalMinutes)*time.Minute)
	}

	if len(initErrors) > 0 {
		logger.Warn().Str("errors", strings.Join(initErrors, "; ")).Msg("部分存储组件初始化失败")
	}

	return storage, nil
}

// Close 关闭所有连接
func (s *Storage) Close() {
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Error().Err(err).Msg("关闭Redis连接失败")
		}
	}
	// MinIO 客户端无需显式关闭
}
