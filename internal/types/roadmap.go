package types

// RoadmapStage 路线图中的一个阶段。
// skills/resources/milestones 允许为空，但序列化时永远不为 null。
type RoadmapStage struct {
	Level      string   `json:"level"`    // Beginner / Intermediate / Advanced
	Duration   string   `json:"duration"` // 例如 "3-6 months"
	Skills     []string `json:"skills"`
	Resources  []string `json:"resources"`
	Milestones []string `json:"milestones"`
}

// Normalize 将 nil 切片替换为空切片，保证 JSON 输出不出现 null 字段
func (s *RoadmapStage) Normalize() {
	if s.Skills == nil {
		s.Skills = []string{}
	}
	if s.Resources == nil {
		s.Resources = []string{}
	}
	if s.Milestones == nil {
		s.Milestones = []string{}
	}
}

// RoadmapRequest 路线图生成请求
type RoadmapRequest struct {
	CareerName  string      `json:"career_name"`
	UserProfile UserProfile `json:"user_profile"`
}

// RoadmapResponse 结构化的职业路线图。
// Degraded 表示 LLM 输出无法解析、本响应为兜底结果。
type RoadmapResponse struct {
	Career               string         `json:"career"`
	Overview             string         `json:"overview"`
	Stages               []RoadmapStage `json:"stages"`
	ToolsAndTechnologies []string       `json:"tools_and_technologies"`
	JobRoles             []string       `json:"job_roles"`
	GrowthPaths          []string       `json:"growth_paths"`
	RawResponse          string         `json:"raw_response,omitempty"`
	Degraded             bool           `json:"degraded,omitempty"`
}

// Normalize 对所有阶段做空值归一化
func (r *RoadmapResponse) Normalize() {
	if r.Stages == nil {
		r.Stages = []RoadmapStage{}
	}
	for i := range r.Stages {
		r.Stages[i].Normalize()
	}
	if r.ToolsAndTechnologies == nil {
		r.ToolsAndTechnologies = []string{}
	}
	if r.JobRoles == nil {
		r.JobRoles = []string{}
	}
	if r.GrowthPaths == nil {
		r.GrowthPaths = []string{}
	}
}
