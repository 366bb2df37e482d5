package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTokenBucketAllow 验证容量内放行、耗尽后拒绝
func TestTokenBucketAllow(t *testing.T) {
	// 速率极低，测试期间几乎不会补充新令牌
	tb := NewTokenBucket(1, 3)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow(), "令牌耗尽后应拒绝")
}

// TestTokenBucketDefaultCapacity 验证未指定容量时按QPM的一半取值
func TestTokenBucketDefaultCapacity(t *testing.T) {
	tb := NewTokenBucket(10, 0)
	assert.Equal(t, float64(5), tb.capacity)

	// QPM很小时容量至少为1
	tb = NewTokenBucket(1, 0)
	assert.Equal(t, float64(1), tb.capacity)
}

// TestTokenBucketWaitRefill 验证Wait在令牌补充后返回
func TestTokenBucketWaitRefill(t *testing.T) {
	// 600 QPM = 每秒10个令牌，耗尽后约100ms可再取一个
	tb := NewTokenBucket(600, 1)
	require.True(t, tb.Allow())

	start := time.Now()
	err := tb.Wait(context.Background())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second, "高速率下等待不应超过2秒")
}

// TestTokenBucketWaitCancel 验证上下文取消时Wait立即返回
func TestTokenBucketWaitCancel(t *testing.T) {
	// 速率极低，令牌耗尽后需要等很久
	tb := NewTokenBucket(1, 1)
	require.True(t, tb.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := tb.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestRetryWithBackoffSuccess 验证函数成功时不重试
func TestRetryWithBackoffSuccess(t *testing.T) {
	tb := NewTokenBucket(600, 10)
	calls := 0

	err := tb.RetryWithBackoff(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

// TestRetryWithBackoffRetryable 验证可重试错误触发重试
func TestRetryWithBackoffRetryable(t *testing.T) {
	tb := NewTokenBucket(600, 10).WithRetryPolicy(time.Millisecond, 2)
	calls := 0

	err := tb.RetryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls, "前两次可重试错误后第三次成功")
}

// TestRetryWithBackoffNonRetryable 验证不可重试错误立即返回
func TestRetryWithBackoffNonRetryable(t *testing.T) {
	tb := NewTokenBucket(600, 10).WithRetryPolicy(time.Millisecond, 3)
	calls := 0

	wantErr := errors.New("invalid request payload")
	err := tb.RetryWithBackoff(context.Background(), func() error {
		calls++
		return wantErr
	})
	require.Error(t, err)
	assert.Equal(t, wantErr, err)
	assert.Equal(t, 1, calls, "不可重试错误不应重试")
}

// TestRetryWithBackoffExhausted 验证重试耗尽后返回最后一次错误
func TestRetryWithBackoffExhausted(t *testing.T) {
	tb := NewTokenBucket(600, 10).WithRetryPolicy(time.Millisecond, 2)
	calls := 0

	err := tb.RetryWithBackoff(context.Background(), func() error {
		calls++
		return errors.New("timeout while waiting for model")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls, "初次调用加两次重试")
}

// TestIsRetryableError 验证错误分类
func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(errors.New("dial tcp: connection refused")))
	assert.True(t, isRetryableError(errors.New("context deadline exceeded")))
	assert.True(t, isRetryableError(errors.New("429 Too Many Requests")))
	assert.True(t, isRetryableError(errors.New("model is loading")))

	assert.False(t, isRetryableError(nil))
	assert.False(t, isRetryableError(errors.New("invalid json payload")))
}
