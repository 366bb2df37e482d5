package types

// CollegeInfo 单所院校信息。数据集在进程启动时加载一次，之后只读。
type CollegeInfo struct {
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	University    string   `json:"university,omitempty"`
	Programs      []string `json:"programs"`
	OwnershipType string   `json:"ownership_type,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Email         string   `json:"email,omitempty"`
	Reason        string   `json:"reason,omitempty"` // 推荐理由
}

// CollegeRequest 院校推荐请求
type CollegeRequest struct {
	CareerName        string      `json:"career_name"`
	RequiredCourses   []string    `json:"required_courses,omitempty"`
	PreferredLocation string      `json:"preferred_location,omitempty"`
	BudgetRange       BudgetRange `json:"budget_range,omitempty"`
	DegreeLevel       DegreeLevel `json:"degree_level,omitempty"`
}

// CollegeRecommendationResponse 院校推荐响应。
// 匹配不到任何院校时 Recommendations 为空列表而非错误，
// Alternatives 由放宽地域/预算过滤后的结果填充。
type CollegeRecommendationResponse struct {
	Career          string        `json:"career"`
	Recommendations []CollegeInfo `json:"recommendations"`
	Alternatives    []CollegeInfo `json:"alternatives"`
	Notes           string        `json:"notes,omitempty"`
}
