package handler

import (
	"errors"
	"testing"

	"career-guide-go/internal/processor"
	"career-guide-go/internal/types"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkReader 构造一个按序吐出文本增量的流
func chunkReader(chunks []string, finalErr error) *schema.StreamReader[*schema.Message] {
	reader, writer := schema.Pipe[*schema.Message](len(chunks) + 1)
	go func() {
		defer writer.Close()
		for _, chunk := range chunks {
			if closed := writer.Send(schema.AssistantMessage(chunk, nil), nil); closed {
				return
			}
		}
		if finalErr != nil {
			writer.Send(nil, finalErr)
		}
	}()
	return reader
}

// TestForwardRoadmapChunks 验证文本增量按序下发
func TestForwardRoadmapChunks(t *testing.T) {
	reader := chunkReader([]string{"Step ", "one"}, nil)
	defer reader.Close()

	var events []types.StreamEvent
	err := forwardRoadmapChunks(reader, func(event types.StreamEvent) error {
		events = append(events, event)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, processor.StageRoadmap, events[0].Step)
	assert.Equal(t, "Step ", events[0].Message)
	assert.Equal(t, "one", events[1].Message)
}

// TestForwardRoadmapChunksClientGone 验证客户端断开后立即停止消费上游流
func TestForwardRoadmapChunksClientGone(t *testing.T) {
	reader := chunkReader([]string{"a", "b", "c"}, nil)
	defer reader.Close()

	clientGone := errors.New("connection closed")
	published := 0
	err := forwardRoadmapChunks(reader, func(event types.StreamEvent) error {
		published++
		return clientGone
	})
	require.ErrorIs(t, err, clientGone)
	assert.Equal(t, 1, published, "发布失败后不应再下发后续增量")
}

// TestForwardRoadmapChunksUpstreamError 验证上游出错时推送failed事件并返回错误
func TestForwardRoadmapChunksUpstreamError(t *testing.T) {
	upstream := errors.New("model overloaded")
	reader := chunkReader([]string{"a"}, upstream)
	defer reader.Close()

	var events []types.StreamEvent
	err := forwardRoadmapChunks(reader, func(event types.StreamEvent) error {
		events = append(events, event)
		return nil
	})
	require.ErrorIs(t, err, upstream)
	require.Len(t, events, 2)
	assert.Equal(t, processor.StageFailed, events[1].Step)
	assert.Contains(t, events[1].Error, "model overloaded")
}
