package types

// PredictedCareer 单个职业预测结果
type PredictedCareer struct {
	Career      string  `json:"career"`
	Confidence  float64 `json:"confidence"` // [0,1]
	Description string  `json:"description,omitempty"`
}

// CareerPredictionRequest 职业预测请求
type CareerPredictionRequest struct {
	UserProfile UserProfile `json:"user_profile"`
}

// CareerPredictionResponse 职业预测响应
type CareerPredictionResponse struct {
	Predictions        []PredictedCareer `json:"predictions"`
	UserProfileSummary map[string]any    `json:"user_profile_summary,omitempty"`
	Message            string            `json:"message"`
}

// CareerInsight 单个职业的静态画像信息
type CareerInsight struct {
	Career        string   `json:"career"`
	Description   string   `json:"description"`
	CommonSkills  []string `json:"common_skills"`
	GrowthOutlook string   `json:"growth_outlook"`
}
