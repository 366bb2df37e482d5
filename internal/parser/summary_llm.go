package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"career-guide-go/internal/logger"
	"career-guide-go/internal/types"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
)

const summarySystemPrompt = `You are a professional AI career guidance assistant.
Your role is to provide structured, motivational, and accurate guidance.
You must not hallucinate data.
Always respond in valid JSON format.`

// llmSummaryPayload LLM总结输出的JSON结构
type llmSummaryPayload struct {
	CareerFitExplanation string   `json:"career_fit_explanation"`
	KeySkills            []string `json:"key_skills"`
	EducationPathway     string   `json:"education_pathway"`
	ImmediateActions     []string `json:"immediate_actions"`
	MotivationMessage    string   `json:"motivation_message"`
}

// LLMSummaryGenerator 基于LLM的最终总结生成器。
// 总结是锦上添花的阶段，任何失败都退回固定文案而不阻塞整体结果。
type LLMSummaryGenerator struct {
	llmModel model.ChatModel
}

// NewLLMSummaryGenerator 创建总结生成器
func NewLLMSummaryGenerator(llmModel model.ChatModel) *LLMSummaryGenerator {
	return &LLMSummaryGenerator{llmModel: llmModel}
}

// GenerateSummary 生成最终的职业建议总结。
// 注意本方法不返回错误：LLM失败或解析失败时直接给出兜底文案。
func (g *LLMSummaryGenerator) GenerateSummary(ctx context.Context, careerName string, userName string, roadmapSummary string, collegeSummary string) (*types.CareerSummary, bool) {
	fallback := fallbackSummary(careerName)

	if g.llmModel == nil {
		return fallback, true
	}

	userPrompt := buildSummaryUserPrompt(careerName, userName, roadmapSummary, collegeSummary)
	messages := []*einoschema.Message{
		einoschema.SystemMessage(summarySystemPrompt),
		einoschema.UserMessage(userPrompt),
	}

	response, err := g.llmModel.Generate(ctx, messages)
	if err != nil || response == nil || response.Content == "" {
		logger.Ctx(ctx).Warn().
			Err(err).
			Str("career", careerName).
			Msg("总结LLM调用失败，使用兜底文案")
		return fallback, true
	}

	content := strings.TrimPrefix(response.Content, "\uFEFF")
	jsonStr := extractJSONObject(stripMarkdownFence(content))
	if jsonStr == "" {
		return fallback, true
	}

	var payload llmSummaryPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		if err := json.Unmarshal([]byte(sanitizeJSON(jsonStr)), &payload); err != nil {
			return fallback, true
		}
	}

	result := &types.CareerSummary{
		Summary:          composeSummaryText(payload, careerName),
		ImmediateActions: payload.ImmediateActions,
	}
	if len(result.ImmediateActions) == 0 {
		result.ImmediateActions = fallback.ImmediateActions
	}
	return result, false
}

// buildSummaryUserPrompt 构建总结生成的用户提示词
func buildSummaryUserPrompt(careerName string, userName string, roadmapSummary string, collegeSummary string) string {
	nameStr := userName
	if strings.TrimSpace(nameStr) == "" {
		nameStr = "the student"
	}

	return fmt.Sprintf(`Career Chosen: %s

Roadmap Summary:
%s

College Recommendations:
%s

Task:
Create a final user-facing career recommendation summary that includes:
1. Why this career suits %s
2. Key skills to focus on
3. Education pathway in Nepal
4. Next 3 immediate actions

Tone:
- Encouraging
- Clear
- Practical

Output Format (respond in valid JSON):
{
    "career_fit_explanation": "Explanation of why this career is a good fit",
    "key_skills": ["skill1", "skill2", "skill3"],
    "education_pathway": "Summary of educational steps in Nepal",
    "immediate_actions": [
        "Action 1: Description",
        "Action 2: Description",
        "Action 3: Description"
    ],
    "motivation_message": "An encouraging closing message"
}`, careerName, roadmapSummary, collegeSummary, nameStr)
}

// composeSummaryText 将结构化总结拼装为一段用户可读文本
func composeSummaryText(payload llmSummaryPayload, careerName string) string {
	parts := make([]string, 0, 4)

	if payload.CareerFitExplanation != "" {
		parts = append(parts, payload.CareerFitExplanation)
	} else {
		parts = append(parts, fmt.Sprintf("You are well-suited for a career as a %s.", careerName))
	}
	if len(payload.KeySkills) > 0 {
		parts = append(parts, "Key skills to focus on: "+strings.Join(payload.KeySkills, ", ")+".")
	}
	if payload.EducationPathway != "" {
		parts = append(parts, payload.EducationPathway)
	}
	if payload.MotivationMessage != "" {
		parts = append(parts, payload.MotivationMessage)
	}

	return strings.Join(parts, " ")
}

// fallbackSummary 总结阶段的兜底文案
func fallbackSummary(careerName string) *types.CareerSummary {
	return &types.CareerSummary{
		Summary: fmt.Sprintf("You are well-suited for a career as a %s.", careerName),
		ImmediateActions: []string{
			"Research the field and required skills",
			"Start with free online courses",
			"Connect with professionals in the field",
		},
	}
}
