package parser

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOllamaGenerate 验证非流式对话的请求构造与响应解析
func TestOllamaGenerate(t *testing.T) {
	var gotReq ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotReq))

		resp := ollamaChatResponse{
			Model:   "llama3",
			Message: ollamaChatMessage{Role: "assistant", Content: "Hello there"},
			Done:    true,
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	m := NewOllamaChatModel(server.URL, "llama3", WithTemperature(0.2))

	msg, err := m.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("system prompt"),
		schema.UserMessage("hi"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello there", msg.Content)
	assert.Equal(t, schema.RoleType("assistant"), msg.Role)

	// 请求体应包含模型名、非流式标记和两条消息
	assert.Equal(t, "llama3", gotReq.Model)
	assert.False(t, gotReq.Stream)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "hi", gotReq.Messages[1].Content)
}

// TestOllamaGenerateAPIError 验证非200状态和错误字段的处理
func TestOllamaGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("model not found"))
	}))
	defer server.Close()

	m := NewOllamaChatModel(server.URL, "missing-model")
	_, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")

	// 200 状态但响应体携带error字段
	server2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaChatResponse{Error: "out of memory"})
	}))
	defer server2.Close()

	m = NewOllamaChatModel(server2.URL, "llama3")
	_, err = m.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of memory")
}

// TestOllamaStream 验证JSON Lines流式响应被逐块下发
func TestOllamaStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req ollamaChatRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.True(t, req.Stream, "流式调用应设置stream标记")

		chunks := []ollamaChatResponse{
			{Message: ollamaChatMessage{Role: "assistant", Content: "Hel"}},
			{Message: ollamaChatMessage{Role: "assistant", Content: "lo"}},
			{Done: true},
		}
		enc := json.NewEncoder(w)
		for _, chunk := range chunks {
			enc.Encode(chunk)
		}
	}))
	defer server.Close()

	m := NewOllamaChatModel(server.URL, "llama3")
	reader, err := m.Stream(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.NoError(t, err)
	defer reader.Close()

	var parts []string
	for {
		msg, recvErr := reader.Recv()
		if recvErr == io.EOF {
			break
		}
		require.NoError(t, recvErr)
		parts = append(parts, msg.Content)
	}
	assert.Equal(t, []string{"Hel", "lo"}, parts)
}

// TestOllamaStreamError 验证流中的错误行被转为Recv错误
func TestOllamaStreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		enc := json.NewEncoder(w)
		enc.Encode(ollamaChatResponse{Message: ollamaChatMessage{Content: "partial"}})
		enc.Encode(ollamaChatResponse{Error: "context length exceeded"})
	}))
	defer server.Close()

	m := NewOllamaChatModel(server.URL, "llama3")
	reader, err := m.Stream(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.NoError(t, err)
	defer reader.Close()

	msg, recvErr := reader.Recv()
	require.NoError(t, recvErr)
	assert.Equal(t, "partial", msg.Content)

	_, recvErr = reader.Recv()
	require.Error(t, recvErr)
	assert.Contains(t, recvErr.Error(), "context length exceeded")
}

// TestOllamaStreamCancel 验证取消上下文后流读取立即出错返回，
// 不会继续等待后端产出
func TestOllamaStreamCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		enc := json.NewEncoder(w)
		enc.Encode(ollamaChatResponse{Message: ollamaChatMessage{Content: "partial"}})
		w.(http.Flusher).Flush()
		// 挂住连接直到客户端取消
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	m := NewOllamaChatModel(server.URL, "llama3")
	reader, err := m.Stream(ctx, []*schema.Message{schema.UserMessage("hi")})
	require.NoError(t, err)
	defer reader.Close()

	msg, recvErr := reader.Recv()
	require.NoError(t, recvErr)
	assert.Equal(t, "partial", msg.Content)

	cancel()
	_, recvErr = reader.Recv()
	require.Error(t, recvErr)
	assert.NotEqual(t, io.EOF, recvErr, "取消后应返回读取错误而非正常结束")
}

// TestOllamaBindTools 验证工具绑定行为
func TestOllamaBindTools(t *testing.T) {
	m := NewOllamaChatModel("", "")
	assert.NoError(t, m.BindTools(nil))
	assert.Error(t, m.BindTools([]*schema.ToolInfo{{Name: "calculator"}}), "非空工具列表应报错")
}

// TestOllamaCheckHealthAndListModels 验证管理接口
func TestOllamaCheckHealthAndListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models": [{"name": "llama3"}, {"name": "mistral"}]}`))
	}))
	defer server.Close()

	m := NewOllamaChatModel(server.URL, "llama3")
	assert.NoError(t, m.CheckHealth(context.Background()))

	names, err := m.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3", "mistral"}, names)

	server.Close()
	assert.Error(t, m.CheckHealth(context.Background()), "服务关闭后健康检查应失败")
}

// TestOllamaDefaults 验证空参数时使用默认配置
func TestOllamaDefaults(t *testing.T) {
	m := NewOllamaChatModel("", "")
	assert.Equal(t, defaultOllamaModel, m.ModelName())
	assert.Equal(t, defaultOllamaHost, m.host)

	m = NewOllamaChatModel("http://example.com/", "custom")
	assert.Equal(t, "http://example.com", m.host, "host末尾斜杠应被去掉")
}
