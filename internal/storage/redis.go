package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"career-guide-go/internal/config"
	"career-guide-go/internal/constants"
	"career-guide-go/internal/tracing"
	"career-guide-go/internal/types"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotFound is returned when a key is not found in Redis.
// It wraps the underlying redis.Nil error for abstraction.
var ErrNotFound = redis.Nil

// 为Redis操作定义专用tracer
var redisTracer = otel.Tracer("career-guide-go/storage/redis")

// Redis wraps the Redis client
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedis creates a new Redis client connection
func NewRedis(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		// 连接池设置
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// 超时设置
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	}

	client := redis.NewClient(opt)

	// 添加OpenTelemetry钩子, 记录所有Redis操作
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	// Ping to check connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return &Redis{
		Client: client,
		config: cfg,
	}, nil
}

// Close closes the Redis client connection
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping checks the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Ping(ctx).Err()
}

// ResultExpireDuration 返回完整推荐结果的缓存时长
func (r *Redis) ResultExpireDuration() time.Duration {
	hours := r.config.ResultExpireHours
	if hours <= 0 {
		return constants.ResultCacheDuration
	}
	return time.Duration(hours) * time.Hour
}

// GetRecommendationResult 按 画像哈希+职业 读取缓存的完整推荐结果。
// 未命中返回 ErrNotFound。
func (r *Redis) GetRecommendationResult(ctx context.Context, profileHash string, career string) (*types.RecommendationResult, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("redis client is not initialized")
	}

	key := fmt.Sprintf(constants.KeyRecommendationResult, profileHash, career)

	ctx, span := redisTracer.Start(ctx, "redis.GetRecommendationResult",
		trace.WithAttributes(
			attribute.String("redis.key", tracing.TruncateString(key, tracing.MaxRedisLength)),
		))
	defer span.End()

	data, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			span.SetAttributes(attribute.Bool("cache.hit", false))
			return nil, ErrNotFound
		}
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return nil, fmt.Errorf("读取推荐结果缓存失败: %w", err)
	}

	var result types.RecommendationResult
	if err := json.Unmarshal(data, &result); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return nil, fmt.Errorf("反序列化推荐结果缓存失败: %w", err)
	}

	span.SetAttributes(attribute.Bool("cache.hit", true))
	return &result, nil
}

// SetRecommendationResult 缓存完整推荐结果
func (r *Redis) SetRecommendationResult(ctx context.Context, profileHash string, career string, result *types.RecommendationResult) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	if result == nil {
		return fmt.Errorf("推荐结果不能为空")
	}

	key := fmt.Sprintf(constants.KeyRecommendationResult, profileHash, career)

	ctx, span := redisTracer.Start(ctx, "redis.SetRecommendationResult",
		trace.WithAttributes(
			attribute.String("redis.key", tracing.TruncateString(key, tracing.MaxRedisLength)),
		))
	defer span.End()

	data, err := json.Marshal(result)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return fmt.Errorf("序列化推荐结果失败: %w", err)
	}

	if err := r.Client.Set(ctx, key, data, r.ResultExpireDuration()).Err(); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return fmt.Errorf("写入推荐结果缓存失败: %w", err)
	}
	return nil
}

// GetPrediction 按画像哈希读取缓存的预测响应，未命中返回 ErrNotFound
func (r *Redis) GetPrediction(ctx context.Context, profileHash string) (*types.CareerPredictionResponse, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("redis client is not initialized")
	}

	key := fmt.Sprintf(constants.KeyPredictionCache, profileHash)
	data, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("读取预测缓存失败: %w", err)
	}

	var resp types.CareerPredictionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("反序列化预测缓存失败: %w", err)
	}
	return &resp, nil
}

// SetPrediction 缓存预测响应，复用结果缓存的过期时间
func (r *Redis) SetPrediction(ctx context.Context, profileHash string, resp *types.CareerPredictionResponse) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	if resp == nil {
		return fmt.Errorf("预测响应不能为空")
	}

	key := fmt.Sprintf(constants.KeyPredictionCache, profileHash)
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("序列化预测响应失败: %w", err)
	}
	return r.Client.Set(ctx, key, data, r.ResultExpireDuration()).Err()
}
