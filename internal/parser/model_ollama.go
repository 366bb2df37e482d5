package parser

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	defaultOllamaHost  = "http://localhost:11434"
	defaultOllamaModel = "llama3"
)

// OllamaChatModel 实现了 model.ChatModel 接口，通过 Ollama 的 /api/chat
// 接口与本地模型交互。Generate 走非流式请求，Stream 消费 JSON Lines 流。
type OllamaChatModel struct {
	host        string
	modelName   string
	temperature float32
	httpClient  *http.Client
}

// OllamaOption 是 Ollama 模型客户端的配置选项
type OllamaOption func(*OllamaChatModel)

// WithTemperature 设置采样温度
func WithTemperature(t float32) OllamaOption {
	return func(m *OllamaChatModel) {
		m.temperature = t
	}
}

// WithHTTPTimeout 设置单次请求的HTTP超时
func WithHTTPTimeout(d time.Duration) OllamaOption {
	return func(m *OllamaChatModel) {
		m.httpClient.Timeout = d
	}
}

// NewOllamaChatModel 创建一个新的 OllamaChatModel 实例
func NewOllamaChatModel(host string, modelName string, opts ...OllamaOption) *OllamaChatModel {
	if strings.TrimSpace(host) == "" {
		host = defaultOllamaHost
	}
	if strings.TrimSpace(modelName) == "" {
		modelName = defaultOllamaModel
	}

	m := &OllamaChatModel{
		host:        strings.TrimRight(host, "/"),
		modelName:   modelName,
		temperature: 0.7,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// --- Ollama /api/chat 请求/响应结构 ---

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Options  map[string]any      `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Model     string            `json:"model"`
	Message   ollamaChatMessage `json:"message"`
	Done      bool              `json:"done"`
	Error     string            `json:"error,omitempty"`
	EvalCount int               `json:"eval_count,omitempty"`
}

func (m *OllamaChatModel) buildRequest(messages []*schema.Message, stream bool) ollamaChatRequest {
	req := ollamaChatRequest{
		Model:    m.modelName,
		Messages: make([]ollamaChatMessage, 0, len(messages)),
		Stream:   stream,
		Options: map[string]any{
			"temperature": m.temperature,
		},
	}
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		req.Messages = append(req.Messages, ollamaChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return req
}

// Generate 实现 model.ChatModel 接口，发起一次非流式对话请求
func (m *OllamaChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	for _, opt := range options {
		_ = opt // 通用选项暂不影响请求参数
	}

	jsonData, err := json.Marshal(m.buildRequest(messages, false))
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.host+"/api/chat", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("发送 HTTP 请求失败: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Ollama API 请求失败，状态 %s: %s", httpResp.Status, string(bodyBytes))
	}

	var resp ollamaChatResponse
	if err := json.Unmarshal(bodyBytes, &resp); err != nil {
		return nil, fmt.Errorf("反序列化 API 响应失败: %w。响应体: %s", err, string(bodyBytes))
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("Ollama 返回错误: %s", resp.Error)
	}

	role := resp.Message.Role
	if role == "" {
		role = "assistant"
	}
	return &schema.Message{
		Role:    schema.RoleType(role),
		Content: resp.Message.Content,
	}, nil
}

// Stream 实现 model.ChatModel 接口。Ollama 的流式响应是每行一个JSON对象，
// 这里逐行解析并桥接到 eino 的 StreamReader 上。
func (m *OllamaChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	for _, opt := range options {
		_ = opt
	}

	jsonData, err := json.Marshal(m.buildRequest(messages, true))
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.host+"/api/chat", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("发送 HTTP 请求失败: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(httpResp.Body)
		httpResp.Body.Close()
		return nil, fmt.Errorf("Ollama API 请求失败，状态 %s: %s", httpResp.Status, string(bodyBytes))
	}

	reader, writer := schema.Pipe[*schema.Message](8)

	go func() {
		defer httpResp.Body.Close()
		defer writer.Close()

		scanner := bufio.NewScanner(httpResp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			var chunk ollamaChatResponse
			if err := json.Unmarshal(line, &chunk); err != nil {
				writer.Send(nil, fmt.Errorf("解析流式响应行失败: %w", err))
				return
			}
			if chunk.Error != "" {
				writer.Send(nil, fmt.Errorf("Ollama 返回错误: %s", chunk.Error))
				return
			}

			if chunk.Message.Content != "" {
				msg := &schema.Message{
					Role:    schema.RoleType("assistant"),
					Content: chunk.Message.Content,
				}
				if closed := writer.Send(msg, nil); closed {
					return
				}
			}
			if chunk.Done {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			writer.Send(nil, fmt.Errorf("读取流式响应失败: %w", err))
		}
	}()

	return reader, nil
}

// BindTools 实现 model.ChatModel 接口。本服务不使用工具调用。
func (m *OllamaChatModel) BindTools(tools []*schema.ToolInfo) error {
	if len(tools) > 0 {
		return fmt.Errorf("OllamaChatModel 不支持工具调用")
	}
	return nil
}

// --- Ollama 管理接口 ---

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// CheckHealth 通过 /api/tags 探测 Ollama 服务是否可达
func (m *OllamaChatModel) CheckHealth(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, m.host+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}

	httpResp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("Ollama 服务不可达: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("Ollama 健康检查失败，状态 %s", httpResp.Status)
	}
	return nil
}

// ListModels 返回 Ollama 上已拉取的模型名列表
func (m *OllamaChatModel) ListModels(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, m.host+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}

	httpResp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("Ollama 服务不可达: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("获取模型列表失败，状态 %s: %s", httpResp.Status, string(bodyBytes))
	}

	var tags ollamaTagsResponse
	if err := json.Unmarshal(bodyBytes, &tags); err != nil {
		return nil, fmt.Errorf("反序列化模型列表失败: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, mdl := range tags.Models {
		names = append(names, mdl.Name)
	}
	return names, nil
}

// ModelName 返回配置的模型名
func (m *OllamaChatModel) ModelName() string {
	return m.modelName
}

var _ model.ChatModel = (*OllamaChatModel)(nil)
