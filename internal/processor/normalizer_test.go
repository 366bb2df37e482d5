package processor

import (
	"testing"

	"career-guide-go/internal/constants"
	"career-guide-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

// TestValidateMissingFields 验证 skills/interests 缺失与空列表的区别
func TestValidateMissingFields(t *testing.T) {
	n := NewProfileNormalizer()

	// skills 为 nil 视为非法
	err := n.Validate(types.UserProfile{Interests: []string{}})
	assert.Error(t, err, "skills 缺失应返回错误")

	// interests 为 nil 视为非法
	err = n.Validate(types.UserProfile{Skills: []string{}})
	assert.Error(t, err, "interests 缺失应返回错误")

	// 两者均为空列表是合法输入
	err = n.Validate(types.UserProfile{Skills: []string{}, Interests: []string{}})
	assert.NoError(t, err, "空列表应是合法输入")
}

// TestValidateEducationLevelAndCGPA 验证学历和CGPA范围检查
func TestValidateEducationLevelAndCGPA(t *testing.T) {
	n := NewProfileNormalizer()
	base := types.UserProfile{Skills: []string{}, Interests: []string{}}

	p := base
	p.EducationLevel = "kindergarten"
	assert.Error(t, n.Validate(p), "未知学历应返回错误")

	p = base
	p.EducationLevel = types.EducationBachelors
	assert.NoError(t, n.Validate(p))

	p = base
	p.CGPA = floatPtr(120)
	assert.Error(t, n.Validate(p), "CGPA超出范围应返回错误")

	p = base
	p.CGPA = floatPtr(-1)
	assert.Error(t, n.Validate(p))

	p = base
	p.CGPA = floatPtr(3.5)
	assert.NoError(t, n.Validate(p))
}

// TestBuildFeatureVectorLayout 验证特征列布局与词表顺序一致
func TestBuildFeatureVectorLayout(t *testing.T) {
	n := NewProfileNormalizer()

	profile := types.UserProfile{
		Gender:         "Male",
		EducationLevel: types.EducationBachelors,
		Skills:         []string{"Python", "some exotic skill"},
		Interests:      []string{},
		CGPA:           floatPtr(3.2),
		Certifications: []string{"AWS"},
	}

	fv := n.BuildFeatureVector(profile)
	expectedDim := 4 + len(constants.SkillVocabulary) + 1 + len(constants.InterestVocabulary) + 1
	require.Equal(t, expectedDim, fv.Dim(), "特征维度应与词表长度一致")
	require.Equal(t, len(fv.Columns), len(fv.Values))

	// 固定前缀列
	assert.Equal(t, "education_level", fv.Columns[0])
	assert.Equal(t, "gender_encoded", fv.Columns[1])
	assert.Equal(t, "cgpa", fv.Columns[2])
	assert.Equal(t, "has_certification", fv.Columns[3])

	assert.Equal(t, float32(1), fv.Values[1], "male 应编码为1")
	assert.InDelta(t, 3.2/4, fv.Values[2], 1e-6, "4分制CGPA应除以4")
	assert.Equal(t, float32(1), fv.Values[3], "有证书时应置1")

	// one-hot 与 other 桶
	byName := make(map[string]float32, len(fv.Columns))
	for i, col := range fv.Columns {
		byName[col] = fv.Values[i]
	}
	assert.Equal(t, float32(1), byName["skill_python"], "python 应命中词表")
	assert.Equal(t, float32(1), byName["skill_other"], "词表外技能应落入other桶")
	assert.Equal(t, float32(0), byName["interest_other"])
}

// TestEncodeCGPAScales 验证两种量纲的CGPA归一化
func TestEncodeCGPAScales(t *testing.T) {
	n := NewProfileNormalizer()
	base := types.UserProfile{Skills: []string{}, Interests: []string{}}

	p := base
	p.CGPA = floatPtr(85)
	fv := n.BuildFeatureVector(p)
	assert.InDelta(t, 0.85, fv.Values[2], 1e-6, "百分制CGPA应除以100")

	p.CGPA = nil
	fv = n.BuildFeatureVector(p)
	assert.InDelta(t, 0.7, fv.Values[2], 1e-6, "缺失CGPA应按训练填充值70/100编码")
}

// TestProfileHashStableUnderLexicalVariation 验证词法等价画像哈希一致
func TestProfileHashStableUnderLexicalVariation(t *testing.T) {
	n := NewProfileNormalizer()

	a := types.UserProfile{
		Gender:    "Female",
		Skills:    []string{"Python", "  SQL "},
		Interests: []string{"Data Science", "AI"},
	}
	b := types.UserProfile{
		Gender:    "female",
		Skills:    []string{"sql", "python", "PYTHON"},
		Interests: []string{"ai", "data science"},
	}

	assert.Equal(t, n.ProfileHash(a), n.ProfileHash(b), "大小写、顺序、空白差异不应影响哈希")

	c := b
	c.Skills = []string{"sql", "python", "golang"}
	assert.NotEqual(t, n.ProfileHash(a), n.ProfileHash(c), "技能集不同应产生不同哈希")
}

// TestFeatureColumnsMatchesVector 验证列名访问器与编码输出一致
func TestFeatureColumnsMatchesVector(t *testing.T) {
	n := NewProfileNormalizer()

	columns := n.FeatureColumns()
	fv := n.BuildFeatureVector(types.UserProfile{Skills: []string{"python"}, Interests: []string{"ai"}})
	assert.Equal(t, columns, fv.Columns, "任意画像的特征列布局都应相同")
}

// TestSafeColumnName 验证列名清洗规则
func TestSafeColumnName(t *testing.T) {
	assert.Equal(t, "machine_learning", safeColumnName("machine learning"))
	assert.Equal(t, "problem_solving", safeColumnName("problem-solving"))

	long := safeColumnName("a very long skill name that exceeds the column limit")
	assert.LessOrEqual(t, len(long), 30, "列名应截断到30字符")
}
