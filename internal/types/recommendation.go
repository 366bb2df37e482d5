package types

import "encoding/json"

// FullRecommendationRequest 完整职业指导请求
type FullRecommendationRequest struct {
	UserProfile       UserProfile `json:"user_profile"`
	PreferredLocation string      `json:"preferred_location,omitempty"`
	BudgetRange       BudgetRange `json:"budget_range,omitempty"`
	DegreeLevel       DegreeLevel `json:"degree_level,omitempty"`
}

// RecommendationResult 完整职业指导结果。构造后不再修改，
// 可按 归一化画像哈希+选中职业 作为键安全缓存。
// DegradedStages 标记降级的可选阶段（如 "roadmap"、"colleges"、"summary"）。
type RecommendationResult struct {
	RequestID        string                        `json:"request_id,omitempty"`
	PredictedCareers []PredictedCareer             `json:"predicted_careers"`
	SelectedCareer   string                        `json:"selected_career"`
	Roadmap          RoadmapResponse               `json:"roadmap"`
	Colleges         CollegeRecommendationResponse `json:"colleges"`
	Summary          string                        `json:"summary"`
	ImmediateActions []string                      `json:"immediate_actions"`
	DegradedStages   []string                      `json:"degraded_stages,omitempty"`
}

// StreamEvent 流式推荐过程中推送给客户端的单个事件，
// 与聚合器状态机的阶段转移一一对应。
type StreamEvent struct {
	Step    string          `json:"step"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// CareerSummary 面向用户的最终总结
type CareerSummary struct {
	Summary          string   `json:"summary"`
	ImmediateActions []string `json:"immediate_actions"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status         string `json:"status"`
	OllamaStatus   string `json:"ollama_status"`
	ModelLoaded    bool   `json:"model_loaded"`
	CollegesLoaded int    `json:"colleges_loaded"`
	Version        string `json:"version"`
}
