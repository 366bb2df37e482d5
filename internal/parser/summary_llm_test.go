package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSummaryJSON = `{
	"career_fit_explanation": "Your analytical skills fit data science well.",
	"key_skills": ["Python", "Statistics"],
	"education_pathway": "Complete a BSc CSIT or similar program in Nepal.",
	"immediate_actions": ["Enroll in a Python course", "Build a portfolio project", "Join a local data community"],
	"motivation_message": "Keep learning every day."
}`

// TestGenerateSummaryParsesValidJSON 验证合法输出被组装为总结文本
func TestGenerateSummaryParsesValidJSON(t *testing.T) {
	llm := &fakeChatModel{responses: []string{validSummaryJSON}}
	gen := NewLLMSummaryGenerator(llm)

	summary, usedFallback := gen.GenerateSummary(context.Background(), "Data Scientist", "Sita", "roadmap text", "college text")
	require.NotNil(t, summary)
	assert.False(t, usedFallback)

	assert.Contains(t, summary.Summary, "Your analytical skills fit data science well.")
	assert.Contains(t, summary.Summary, "Python, Statistics")
	assert.Contains(t, summary.Summary, "Keep learning every day.")
	assert.Len(t, summary.ImmediateActions, 3)
}

// TestGenerateSummaryFallbackOnLLMError 验证LLM失败时返回兜底文案
func TestGenerateSummaryFallbackOnLLMError(t *testing.T) {
	llm := &fakeChatModel{errs: []error{errors.New("backend down")}}
	gen := NewLLMSummaryGenerator(llm)

	summary, usedFallback := gen.GenerateSummary(context.Background(), "Doctor", "", "", "")
	require.NotNil(t, summary, "总结阶段永远不返回nil")
	assert.True(t, usedFallback)
	assert.Contains(t, summary.Summary, "Doctor")
	assert.Len(t, summary.ImmediateActions, 3)
}

// TestGenerateSummaryFallbackOnGarbage 验证不可解析输出时返回兜底文案
func TestGenerateSummaryFallbackOnGarbage(t *testing.T) {
	llm := &fakeChatModel{responses: []string{"I cannot answer in JSON, sorry."}}
	gen := NewLLMSummaryGenerator(llm)

	summary, usedFallback := gen.GenerateSummary(context.Background(), "Nurse", "Ram", "", "")
	assert.True(t, usedFallback)
	assert.Contains(t, summary.Summary, "Nurse")
}

// TestGenerateSummaryNilModel 验证模型未配置时直接兜底
func TestGenerateSummaryNilModel(t *testing.T) {
	gen := NewLLMSummaryGenerator(nil)

	summary, usedFallback := gen.GenerateSummary(context.Background(), "Teacher", "", "", "")
	assert.True(t, usedFallback)
	assert.NotEmpty(t, summary.Summary)
}

// TestGenerateSummaryFillsMissingActions 验证缺失immediate_actions时补兜底动作
func TestGenerateSummaryFillsMissingActions(t *testing.T) {
	llm := &fakeChatModel{responses: []string{`{"career_fit_explanation": "Good fit.", "immediate_actions": []}`}}
	gen := NewLLMSummaryGenerator(llm)

	summary, usedFallback := gen.GenerateSummary(context.Background(), "Lawyer", "", "", "")
	assert.False(t, usedFallback, "有合法JSON时不算兜底")
	assert.Len(t, summary.ImmediateActions, 3, "缺失动作应补兜底动作")
}
