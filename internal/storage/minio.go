package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"career-guide-go/internal/config"
	"career-guide-go/internal/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIO 提供模型工件的对象存储访问
type MinIO struct {
	client *minio.Client
	cfg    *config.MinIOConfig
}

// NewMinIO 创建MinIO客户端
func NewMinIO(cfg *config.MinIOConfig) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("MinIO endpoint 不能为空")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	return &MinIO{
		client: client,
		cfg:    cfg,
	}, nil
}

// BucketExists 检查存储桶是否存在
func (m *MinIO) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return m.client.BucketExists(ctx, bucketName)
}

// DownloadToFile 将对象下载到本地文件。目标文件已存在时直接跳过，
// 模型工件内容不可变，按文件名判断足够。
func (m *MinIO) DownloadToFile(ctx context.Context, bucketName string, objectName string, destPath string) error {
	if bucketName == "" || objectName == "" {
		return fmt.Errorf("bucket 和 object 名称不能为空")
	}

	if _, err := os.Stat(destPath); err == nil {
		logger.Info().
			Str("dest", destPath).
			Msg("模型工件已存在，跳过下载")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("创建目标目录失败: %w", err)
	}

	if err := m.client.FGetObject(ctx, bucketName, objectName, destPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("下载对象 %s/%s 失败: %w", bucketName, objectName, err)
	}

	logger.Info().
		Str("bucket", bucketName).
		Str("object", objectName).
		Str("dest", destPath).
		Msg("模型工件下载完成")
	return nil
}

// EnsureModelArtifacts 按配置从对象存储拉取分类器模型和标签文件。
// 未配置bucket时认为工件已随部署分发，直接返回。
func (m *MinIO) EnsureModelArtifacts(ctx context.Context, modelCfg *config.ModelConfig) error {
	if modelCfg == nil || modelCfg.Bucket == "" {
		return nil
	}

	exists, err := m.BucketExists(ctx, modelCfg.Bucket)
	if err != nil {
		return fmt.Errorf("检查存储桶失败: %w", err)
	}
	if !exists {
		return fmt.Errorf("存储桶不存在: %s", modelCfg.Bucket)
	}

	if modelCfg.ModelObject != "" {
		if err := m.DownloadToFile(ctx, modelCfg.Bucket, modelCfg.ModelObject, modelCfg.Path); err != nil {
			return err
		}
	}
	if modelCfg.LabelsObject != "" {
		if err := m.DownloadToFile(ctx, modelCfg.Bucket, modelCfg.LabelsObject, modelCfg.LabelsPath); err != nil {
			return err
		}
	}
	return nil
}
