package processor

import (
	"fmt"
	"strings"

	"career-guide-go/internal/types"
)

// roadmapSummaryText 将路线图压缩为供总结提示词使用的文本
func roadmapSummaryText(roadmap *types.RoadmapResponse) string {
	if roadmap == nil {
		return "No roadmap available."
	}

	parts := []string{fmt.Sprintf("Career: %s", roadmap.Career)}

	overview := roadmap.Overview
	if len(overview) > 200 {
		overview = overview[:200] + "..."
	}
	parts = append(parts, fmt.Sprintf("Overview: %s", overview))

	for _, stage := range roadmap.Stages {
		parts = append(parts, fmt.Sprintf("\n%s (%s):", stage.Level, stage.Duration))
		parts = append(parts, "  Skills: "+strings.Join(firstN(stage.Skills, 5), ", "))
	}

	parts = append(parts, "\nKey Tools: "+strings.Join(firstN(roadmap.ToolsAndTechnologies, 5), ", "))
	parts = append(parts, "Entry Roles: "+strings.Join(firstN(roadmap.JobRoles, 3), ", "))

	return strings.Join(parts, "\n")
}

// collegeSummaryText 将院校推荐压缩为供总结提示词使用的文本
func collegeSummaryText(colleges *types.CollegeRecommendationResponse) string {
	if colleges == nil || len(colleges.Recommendations) == 0 {
		return "No specific colleges recommended at this time."
	}

	parts := []string{"Recommended Colleges:"}
	for i, college := range colleges.Recommendations {
		if i >= 3 {
			break
		}
		parts = append(parts, fmt.Sprintf("%d. %s - %s", i+1, college.Name, college.Location))
		if len(college.Programs) > 0 {
			parts = append(parts, "   Programs: "+strings.Join(firstN(college.Programs, 2), ", "))
		}
	}
	return strings.Join(parts, "\n")
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
