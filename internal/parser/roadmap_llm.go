package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"career-guide-go/internal/constants"
	"career-guide-go/internal/logger"
	"career-guide-go/internal/types"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
)

const roadmapSystemPrompt = `You are an expert AI career counselor and curriculum planner.
Your task is to generate clear, realistic, and actionable career roadmaps.
You must not invent facts.
You must strictly follow the user context and provided data.
If data is missing, clearly state assumptions.
Use structured formatting.
Always respond in valid JSON format.`

const roadmapStrictSuffix = `

IMPORTANT: Your previous response was not valid JSON.
Respond with ONLY a single JSON object. No markdown, no explanation, no text before or after the JSON.`

// llmRoadmapPayload LLM路线图输出的JSON结构（不含career字段，由服务端补充）
type llmRoadmapPayload struct {
	Overview             string              `json:"overview"`
	Stages               []types.RoadmapStage `json:"stages"`
	ToolsAndTechnologies []string            `json:"tools_and_technologies"`
	JobRoles             []string            `json:"job_roles"`
	GrowthPaths          []string            `json:"growth_paths"`
}

// LLMRoadmapGenerator 基于LLM的职业路线图生成器。
// 解析失败时先用更严格的提示词重试一次（超时预算收紧），
// 仍失败则返回携带原始文本的单阶段降级路线图。
type LLMRoadmapGenerator struct {
	llmModel      model.ChatModel
	strictTimeout time.Duration
}

// LLMRoadmapGeneratorOption 路线图生成器的配置选项
type LLMRoadmapGeneratorOption func(*LLMRoadmapGenerator)

// WithStrictRetryTimeout 设置严格模式重试的超时预算
func WithStrictRetryTimeout(d time.Duration) LLMRoadmapGeneratorOption {
	return func(g *LLMRoadmapGenerator) {
		g.strictTimeout = d
	}
}

// NewLLMRoadmapGenerator 创建路线图生成器
func NewLLMRoadmapGenerator(llmModel model.ChatModel, options ...LLMRoadmapGeneratorOption) *LLMRoadmapGenerator {
	g := &LLMRoadmapGenerator{
		llmModel:      llmModel,
		strictTimeout: constants.StrictRetryTimeout,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// buildUserPrompt 构建路线图生成的用户提示词
func (g *LLMRoadmapGenerator) buildUserPrompt(careerName string, profile types.UserProfile) string {
	skillsStr := "Not specified"
	if len(profile.Skills) > 0 {
		skillsStr = strings.Join(profile.Skills, ", ")
	}
	interestsStr := "Not specified"
	if len(profile.Interests) > 0 {
		interestsStr = strings.Join(profile.Interests, ", ")
	}
	preferencesStr := "Not specified"
	if strings.TrimSpace(profile.Preferences) != "" {
		preferencesStr = profile.Preferences
	}

	return fmt.Sprintf(`Career Title: %s

User Profile:
- Education Level: %s
- Skills: %s
- Interests: %s
- Preferences: %s
- Location: Nepal

Task:
Create a complete career roadmap for the given career.

Roadmap Requirements:
1. Beginner -> Intermediate -> Advanced stages
2. Skills to learn at each stage
3. Recommended tools & technologies
4. Estimated learning timeline
5. Entry-level job roles
6. Long-term career growth paths

Constraints:
- Keep recommendations realistic for Nepal
- Do not suggest paid foreign universities
- Prefer online learning platforms (Coursera, edX, freeCodeCamp, YouTube)
- Output must be structured and easy to read

Output Format (respond in valid JSON):
{
    "overview": "Brief career overview",
    "stages": [
        {
            "level": "Beginner",
            "duration": "3-6 months",
            "skills": ["skill1", "skill2"],
            "resources": ["resource1", "resource2"],
            "milestones": ["milestone1", "milestone2"]
        },
        {
            "level": "Intermediate",
            "duration": "6-12 months",
            "skills": ["skill1", "skill2"],
            "resources": ["resource1", "resource2"],
            "milestones": ["milestone1", "milestone2"]
        },
        {
            "level": "Advanced",
            "duration": "12-24 months",
            "skills": ["skill1", "skill2"],
            "resources": ["resource1", "resource2"],
            "milestones": ["milestone1", "milestone2"]
        }
    ],
    "tools_and_technologies": ["tool1", "tool2"],
    "job_roles": ["role1", "role2"],
    "growth_paths": ["path1", "path2"]
}`, careerName, string(profile.EducationLevel), skillsStr, interestsStr, preferencesStr)
}

// GenerateRoadmap 生成结构化的职业路线图。
// LLM 调用本身失败时返回错误；LLM 有输出但无法解析时返回降级路线图而非错误。
func (g *LLMRoadmapGenerator) GenerateRoadmap(ctx context.Context, req types.RoadmapRequest) (*types.RoadmapResponse, error) {
	if g.llmModel == nil {
		return nil, fmt.Errorf("LLMRoadmapGenerator: llmModel 未初始化")
	}

	userPrompt := g.buildUserPrompt(req.CareerName, req.UserProfile)

	messages := []*einoschema.Message{
		einoschema.SystemMessage(roadmapSystemPrompt),
		einoschema.UserMessage(userPrompt),
	}

	response, err := g.llmModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("路线图LLM调用失败: %w", err)
	}
	if response == nil || response.Content == "" {
		return nil, fmt.Errorf("路线图LLM返回空响应")
	}

	rawResponse := response.Content
	if payload, ok := g.parsePayload(rawResponse); ok {
		return g.buildResponse(req.CareerName, payload, rawResponse), nil
	}

	logger.Ctx(ctx).Warn().
		Str("career", req.CareerName).
		Msg("路线图首次输出解析失败，进入严格模式重试")

	// 严格模式重试，超时预算收紧到45秒，避免慢速模型拖垮整条流水线
	retryCtx, cancel := context.WithTimeout(ctx, g.strictTimeout)
	defer cancel()

	strictMessages := []*einoschema.Message{
		einoschema.SystemMessage(roadmapSystemPrompt + roadmapStrictSuffix),
		einoschema.UserMessage(userPrompt),
	}

	retryResp, retryErr := g.llmModel.Generate(retryCtx, strictMessages)
	if retryErr == nil && retryResp != nil && retryResp.Content != "" {
		rawResponse = retryResp.Content
		if payload, ok := g.parsePayload(rawResponse); ok {
			return g.buildResponse(req.CareerName, payload, rawResponse), nil
		}
	}

	logger.Ctx(ctx).Warn().
		Str("career", req.CareerName).
		Msg("路线图严格重试仍无法解析，返回降级结果")

	return g.fallbackRoadmap(req.CareerName, rawResponse), nil
}

// StreamRoadmap 以流式方式生成路线图原始文本。
// 流式模式不做JSON解析，文本增量原样下发，由客户端自行呈现。
func (g *LLMRoadmapGenerator) StreamRoadmap(ctx context.Context, req types.RoadmapRequest) (*einoschema.StreamReader[*einoschema.Message], error) {
	if g.llmModel == nil {
		return nil, fmt.Errorf("LLMRoadmapGenerator: llmModel 未初始化")
	}

	messages := []*einoschema.Message{
		einoschema.SystemMessage(roadmapSystemPrompt),
		einoschema.UserMessage(g.buildUserPrompt(req.CareerName, req.UserProfile)),
	}

	stream, err := g.llmModel.Stream(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("路线图LLM流式调用失败: %w", err)
	}
	return stream, nil
}

// parsePayload 尝试从LLM输出中提取并解析路线图JSON
func (g *LLMRoadmapGenerator) parsePayload(raw string) (*llmRoadmapPayload, bool) {
	content := strings.TrimPrefix(raw, "\uFEFF")
	content = stripMarkdownFence(content)

	jsonStr := extractJSONObject(content)
	if jsonStr == "" {
		return nil, false
	}

	var payload llmRoadmapPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		// 解析失败时尝试修复字符串内部未转义的引号后再试一次
		fixed := sanitizeJSON(jsonStr)
		if err := json.Unmarshal([]byte(fixed), &payload); err != nil {
			return nil, false
		}
	}

	// 没有任何阶段的输出视为解析失败
	if len(payload.Stages) == 0 {
		return nil, false
	}
	return &payload, true
}

// buildResponse 将解析后的LLM输出组装为对外响应
func (g *LLMRoadmapGenerator) buildResponse(careerName string, payload *llmRoadmapPayload, rawResponse string) *types.RoadmapResponse {
	overview := payload.Overview
	if overview == "" {
		overview = fmt.Sprintf("Career path for %s", careerName)
	}

	resp := &types.RoadmapResponse{
		Career:               careerName,
		Overview:             overview,
		Stages:               payload.Stages,
		ToolsAndTechnologies: payload.ToolsAndTechnologies,
		JobRoles:             payload.JobRoles,
		GrowthPaths:          payload.GrowthPaths,
		RawResponse:          rawResponse,
	}
	resp.Normalize()
	return resp
}

// fallbackRoadmap 构造降级路线图：单个占位阶段，原始LLM文本放入resources，
// Degraded 标记置位，调用方据此决定是否提示用户
func (g *LLMRoadmapGenerator) fallbackRoadmap(careerName string, rawResponse string) *types.RoadmapResponse {
	resources := []string{}
	if strings.TrimSpace(rawResponse) != "" {
		resources = append(resources, rawResponse)
	}

	resp := &types.RoadmapResponse{
		Career:   careerName,
		Overview: fmt.Sprintf("A structured path to becoming a %s. The model output could not be parsed into stages; the raw guidance is included below.", careerName),
		Stages: []types.RoadmapStage{
			{
				Level:      "Unstructured",
				Duration:   "N/A",
				Skills:     []string{},
				Resources:  resources,
				Milestones: []string{},
			},
		},
		ToolsAndTechnologies: []string{},
		JobRoles:             []string{},
		GrowthPaths:          []string{},
		RawResponse:          rawResponse,
		Degraded:             true,
	}
	return resp
}
