package processor

import (
	"testing"

	"career-guide-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCollegeDataset 内存院校数据集
type fakeCollegeDataset struct {
	colleges []types.CollegeInfo
}

func (f *fakeCollegeDataset) All() []types.CollegeInfo {
	return f.colleges
}

func (f *fakeCollegeDataset) Count() int {
	return len(f.colleges)
}

func sampleColleges() []types.CollegeInfo {
	return []types.CollegeInfo{
		{
			Name:          "Kathmandu Engineering College",
			Location:      "Kalimati, Kathmandu",
			University:    "Tribhuvan University",
			Programs:      []string{"Computer Science", "Civil Engineering"},
			OwnershipType: "Private",
		},
		{
			Name:          "Pulchowk Campus",
			Location:      "Pulchowk, Lalitpur",
			University:    "Tribhuvan University",
			Programs:      []string{"Computer Science", "Electronics", "Civil Engineering"},
			OwnershipType: "Constituent",
		},
		{
			Name:          "Nepal Medical College",
			Location:      "Jorpati, Kathmandu",
			University:    "Kathmandu University",
			Programs:      []string{"MBBS", "Nursing"},
			OwnershipType: "Private",
		},
	}
}

// TestRecommendRanksByScore 验证关键词命中越多得分越高
func TestRecommendRanksByScore(t *testing.T) {
	matcher := NewCollegeMatcher(&fakeCollegeDataset{colleges: sampleColleges()})

	resp := matcher.Recommend(types.CollegeRequest{CareerName: "Data Scientist"})
	require.NotNil(t, resp)
	require.NotEmpty(t, resp.Recommendations, "计算机类院校应被命中")

	// 医学院不应出现在推荐中
	for _, rec := range resp.Recommendations {
		assert.NotEqual(t, "Nepal Medical College", rec.Name)
		assert.NotEmpty(t, rec.Reason, "每条推荐都应有理由")
	}
}

// TestRecommendLocationFilter 验证地域偏好：非匹配地域的院校降级为备选
func TestRecommendLocationFilter(t *testing.T) {
	matcher := NewCollegeMatcher(&fakeCollegeDataset{colleges: sampleColleges()})

	resp := matcher.Recommend(types.CollegeRequest{
		CareerName:        "Civil Engineer",
		PreferredLocation: "Kathmandu",
	})

	require.NotEmpty(t, resp.Recommendations)
	for _, rec := range resp.Recommendations {
		assert.Contains(t, rec.Location, "Kathmandu", "推荐应全部在偏好地域内")
	}

	require.NotEmpty(t, resp.Alternatives, "地域外的命中院校应进入备选")
	assert.Equal(t, "Pulchowk Campus", resp.Alternatives[0].Name)
	assert.Contains(t, resp.Alternatives[0].Reason, "outside your preferred location")
}

// TestRecommendBudgetPrefersPublic 验证低预算时公立院校得分更高
func TestRecommendBudgetPrefersPublic(t *testing.T) {
	matcher := NewCollegeMatcher(&fakeCollegeDataset{colleges: sampleColleges()})

	resp := matcher.Recommend(types.CollegeRequest{
		CareerName:  "Software Engineer",
		BudgetRange: types.BudgetLow,
	})

	require.NotEmpty(t, resp.Recommendations)
	// Pulchowk 是 Constituent，低预算下应排在 Private 的 KEC 前面
	assert.Equal(t, "Pulchowk Campus", resp.Recommendations[0].Name)
}

// TestRecommendDeterministicTieBreak 验证同分院校按名称字典序
func TestRecommendDeterministicTieBreak(t *testing.T) {
	colleges := []types.CollegeInfo{
		{Name: "Beta College", Location: "Pokhara", Programs: []string{"BCA"}, OwnershipType: "Private"},
		{Name: "Alpha College", Location: "Pokhara", Programs: []string{"BCA"}, OwnershipType: "Private"},
	}
	matcher := NewCollegeMatcher(&fakeCollegeDataset{colleges: colleges})

	first := matcher.Recommend(types.CollegeRequest{CareerName: "Web Developer"})
	second := matcher.Recommend(types.CollegeRequest{CareerName: "Web Developer"})

	require.Len(t, first.Recommendations, 2)
	assert.Equal(t, "Alpha College", first.Recommendations[0].Name, "同分按名称字典序")
	assert.Equal(t, first, second, "重复调用结果应完全一致")
}

// TestRecommendEmptyDataset 验证数据集缺失时返回说明而非错误
func TestRecommendEmptyDataset(t *testing.T) {
	matcher := NewCollegeMatcher(&fakeCollegeDataset{})

	resp := matcher.Recommend(types.CollegeRequest{CareerName: "Doctor"})
	require.NotNil(t, resp)
	assert.Empty(t, resp.Recommendations)
	assert.NotEmpty(t, resp.Notes, "数据集缺失应有说明")

	matcher = NewCollegeMatcher(nil)
	resp = matcher.Recommend(types.CollegeRequest{CareerName: "Doctor"})
	assert.NotEmpty(t, resp.Notes)
}

// TestRecommendNoMatch 验证无任何命中时的说明文案
func TestRecommendNoMatch(t *testing.T) {
	matcher := NewCollegeMatcher(&fakeCollegeDataset{colleges: sampleColleges()})

	resp := matcher.Recommend(types.CollegeRequest{CareerName: "Astronaut"})
	assert.Empty(t, resp.Recommendations)
	assert.Empty(t, resp.Alternatives)
	assert.Contains(t, resp.Notes, "Astronaut")
}

// TestRecommendRequiredCourses 验证显式课程关键词参与打分
func TestRecommendRequiredCourses(t *testing.T) {
	matcher := NewCollegeMatcher(&fakeCollegeDataset{colleges: sampleColleges()})

	resp := matcher.Recommend(types.CollegeRequest{
		CareerName:      "Astronaut",
		RequiredCourses: []string{"Nursing"},
	})

	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "Nepal Medical College", resp.Recommendations[0].Name)
}

// TestRecommendDegreeLevelBonus 验证课程名包含学位层次时加分
func TestRecommendDegreeLevelBonus(t *testing.T) {
	colleges := []types.CollegeInfo{
		{Name: "Alpha College", Location: "Pokhara", Programs: []string{"Computer Science"}, OwnershipType: "Private"},
		{Name: "Beta College", Location: "Pokhara", Programs: []string{"BSc CSIT Computer Science"}, OwnershipType: "Private"},
	}
	matcher := NewCollegeMatcher(&fakeCollegeDataset{colleges: colleges})

	resp := matcher.Recommend(types.CollegeRequest{
		CareerName:  "Software Engineer",
		DegreeLevel: types.DegreeBachelors,
	})

	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, "Beta College", resp.Recommendations[0].Name, "学位层次吻合的院校应排在前面")
}

// TestCareerKeywordsFallback 验证目录外职业退回职业名本身
func TestCareerKeywordsFallback(t *testing.T) {
	keywords := careerKeywords("Data Scientist")
	assert.Contains(t, keywords, "data science")

	fallback := careerKeywords("Quantum Plumber")
	assert.Equal(t, []string{"quantumplumber", "quantum plumber"}, fallback)

	assert.Nil(t, careerKeywords("  "))
}
