package processor

import (
	"fmt"
	"sort"
	"strings"

	"career-guide-go/internal/constants"
	"career-guide-go/internal/types"
)

// CollegeMatcher 确定性的院校推荐器。
// 对院校数据集做关键词打分排序，不依赖LLM，
// 同一请求在同一数据快照上的输出完全可复现。
type CollegeMatcher struct {
	dataset CollegeDataset
}

// NewCollegeMatcher 创建院校推荐器
func NewCollegeMatcher(dataset CollegeDataset) *CollegeMatcher {
	return &CollegeMatcher{dataset: dataset}
}

// scoredCollege 打分中间结果
type scoredCollege struct {
	college         types.CollegeInfo
	score           int
	matchedKeywords []string
	locationMatch   bool
}

// Recommend 为指定职业推荐院校。
// 匹配不到任何院校时返回空推荐列表和说明，不返回错误。
func (m *CollegeMatcher) Recommend(req types.CollegeRequest) *types.CollegeRecommendationResponse {
	resp := &types.CollegeRecommendationResponse{
		Career:          req.CareerName,
		Recommendations: []types.CollegeInfo{},
		Alternatives:    []types.CollegeInfo{},
	}

	if m.dataset == nil || m.dataset.Count() == 0 {
		resp.Notes = "College dataset is not available at this time."
		return resp
	}

	keywords := careerKeywords(req.CareerName)
	for _, course := range req.RequiredCourses {
		if trimmed := strings.ToLower(strings.TrimSpace(course)); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}

	scored := make([]scoredCollege, 0)
	for _, college := range m.dataset.All() {
		sc := m.scoreCollege(college, keywords, req)
		if sc.score > 0 {
			scored = append(scored, sc)
		}
	}

	// 总分降序，同分按院校名字典序
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].college.Name < scored[j].college.Name
	})

	hasLocationFilter := strings.TrimSpace(req.PreferredLocation) != ""

	for _, sc := range scored {
		// 指定了地域偏好时，不在该地域的院校归入备选
		if hasLocationFilter && !sc.locationMatch {
			if len(resp.Alternatives) < constants.MaxAlternativeColleges {
				alt := sc.college
				alt.Reason = buildReason(sc, "Outside your preferred location")
				resp.Alternatives = append(resp.Alternatives, alt)
			}
			continue
		}
		if len(resp.Recommendations) < constants.MaxRecommendedColleges {
			rec := sc.college
			rec.Reason = buildReason(sc, "")
			resp.Recommendations = append(resp.Recommendations, rec)
		}
	}

	if len(resp.Recommendations) == 0 {
		if len(resp.Alternatives) > 0 {
			resp.Notes = fmt.Sprintf("No colleges matched all criteria for %s; see alternatives from other locations.", req.CareerName)
		} else {
			resp.Notes = fmt.Sprintf("No colleges in the dataset offer programs matching %s.", req.CareerName)
		}
	}
	return resp
}

// scoreCollege 给单所院校打分。
// 课程关键词每命中一个得2分，地域匹配加1分，预算与办学性质吻合加1分。
func (m *CollegeMatcher) scoreCollege(college types.CollegeInfo, keywords []string, req types.CollegeRequest) scoredCollege {
	sc := scoredCollege{college: college}

	matched := make(map[string]struct{})
	for _, kw := range keywords {
		for _, program := range college.Programs {
			if strings.Contains(strings.ToLower(program), kw) {
				matched[kw] = struct{}{}
				break
			}
		}
	}
	if len(matched) == 0 {
		return sc
	}
	for kw := range matched {
		sc.matchedKeywords = append(sc.matchedKeywords, kw)
	}
	sort.Strings(sc.matchedKeywords)
	sc.score = 2 * len(matched)

	if loc := strings.TrimSpace(req.PreferredLocation); loc != "" {
		if strings.Contains(strings.ToLower(college.Location), strings.ToLower(loc)) {
			sc.locationMatch = true
			sc.score++
		}
	} else {
		sc.locationMatch = true
	}

	if budgetMatchesOwnership(req.BudgetRange, college.OwnershipType) {
		sc.score++
	}

	if degreeMatchesPrograms(req.DegreeLevel, college.Programs) {
		sc.score++
	}

	return sc
}

// degreeLevelKeywords 学位层次在课程名中的常见写法
var degreeLevelKeywords = map[types.DegreeLevel][]string{
	types.DegreeDiploma:   {"diploma", "pcl"},
	types.DegreeBachelors: {"bachelor", "bsc", "bba", "bca", "bbs", "be ", "b.e", "llb", "mbbs", "bed"},
	types.DegreeMasters:   {"master", "msc", "mba", "med", "llm"},
	types.DegreePhD:       {"phd", "doctorate", "mphil"},
}

// degreeMatchesPrograms 学位层次与课程名吻合时加分。
// 未指定学位或课程名不含层次信息时不加分也不扣分。
func degreeMatchesPrograms(degree types.DegreeLevel, programs []string) bool {
	keywords, ok := degreeLevelKeywords[degree]
	if !ok {
		return false
	}
	for _, program := range programs {
		lower := strings.ToLower(program)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// budgetMatchesOwnership 预算与办学性质的粗略对应：
// 低预算偏向公立（constituent/community），其余预算不做限制
func budgetMatchesOwnership(budget types.BudgetRange, ownership string) bool {
	if budget != types.BudgetLow {
		return true
	}
	lower := strings.ToLower(ownership)
	return strings.Contains(lower, "constituent") || strings.Contains(lower, "community") || strings.Contains(lower, "public")
}

// careerKeywords 返回职业对应的课程关键词。
// 目录按小写子串双向匹配，目录外职业退回职业名本身。
func careerKeywords(careerName string) []string {
	careerLower := strings.ToLower(strings.TrimSpace(careerName))
	if careerLower == "" {
		return nil
	}

	// 按字典序遍历目录键，多个键可能命中时结果保持稳定
	keys := make([]string, 0, len(constants.CareerProgramKeywords))
	for careerKey := range constants.CareerProgramKeywords {
		keys = append(keys, careerKey)
	}
	sort.Strings(keys)

	for _, careerKey := range keys {
		if strings.Contains(careerLower, careerKey) || strings.Contains(careerKey, careerLower) {
			programs := constants.CareerProgramKeywords[careerKey]
			out := make([]string, len(programs))
			copy(out, programs)
			return out
		}
	}

	return []string{strings.ReplaceAll(careerLower, " ", ""), careerLower}
}

// buildReason 生成推荐理由
func buildReason(sc scoredCollege, suffix string) string {
	reason := "Offers programs matching " + strings.Join(headKeywords(sc.matchedKeywords, 3), ", ")
	if sc.locationMatch && suffix == "" {
		reason += "; located in your preferred area"
	}
	if suffix != "" {
		reason += "; " + strings.ToLower(suffix[:1]) + suffix[1:]
	}
	return reason
}

func headKeywords(keywords []string, n int) []string {
	if len(keywords) <= n {
		return keywords
	}
	return keywords[:n]
}
