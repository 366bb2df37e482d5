package processor

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"career-guide-go/internal/constants"
	"career-guide-go/internal/types"
)

// ProfileNormalizer 将用户画像校验并编码为定长特征向量。
// 词表来自 constants 包，列顺序固定，与分类器训练时保持一致。
type ProfileNormalizer struct{}

// NewProfileNormalizer 创建归一化器
func NewProfileNormalizer() *ProfileNormalizer {
	return &ProfileNormalizer{}
}

// Validate 校验用户画像。
// skills 和 interests 字段缺失（nil）视为非法，空列表是合法输入。
func (n *ProfileNormalizer) Validate(profile types.UserProfile) error {
	if profile.Skills == nil {
		return fmt.Errorf("skills 字段缺失")
	}
	if profile.Interests == nil {
		return fmt.Errorf("interests 字段缺失")
	}
	if profile.EducationLevel != "" && !profile.EducationLevel.Valid() {
		return fmt.Errorf("education_level 非法: %q", profile.EducationLevel)
	}
	if profile.CGPA != nil {
		cgpa := *profile.CGPA
		if cgpa < 0 || cgpa > 100 {
			return fmt.Errorf("cgpa 超出范围: %v", cgpa)
		}
	}
	return nil
}

// NormalizeProfile 返回词法归一化后的画像副本：
// 技能和兴趣去首尾空白、转小写、去重并排序，保证同义输入产生相同哈希。
func (n *ProfileNormalizer) NormalizeProfile(profile types.UserProfile) types.UserProfile {
	normalized := profile
	normalized.Skills = normalizeTerms(profile.Skills)
	normalized.Interests = normalizeTerms(profile.Interests)
	normalized.Gender = strings.ToLower(strings.TrimSpace(profile.Gender))
	normalized.Location = strings.TrimSpace(profile.Location)
	return normalized
}

// normalizeTerms 去空白、小写、去重、排序
func normalizeTerms(terms []string) []string {
	if terms == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		cleaned := strings.ToLower(strings.TrimSpace(t))
		if cleaned == "" {
			continue
		}
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		out = append(out, cleaned)
	}
	sort.Strings(out)
	return out
}

// BuildFeatureVector 将归一化画像编码为特征向量。
// 列布局: education_level, gender_encoded, cgpa, has_certification,
// 然后是技能词表的one-hot列和 skill_other 桶，
// 最后是兴趣词表的one-hot列和 interest_other 桶。
func (n *ProfileNormalizer) BuildFeatureVector(profile types.UserProfile) types.FeatureVector {
	normalized := n.NormalizeProfile(profile)

	numCols := 4 + len(constants.SkillVocabulary) + 1 + len(constants.InterestVocabulary) + 1
	columns := make([]string, 0, numCols)
	values := make([]float32, 0, numCols)

	push := func(col string, val float32) {
		columns = append(columns, col)
		values = append(values, val)
	}

	push("education_level", normalized.EducationLevel.Ordinal())
	push("gender_encoded", encodeGender(normalized.Gender))
	push("cgpa", encodeCGPA(normalized.CGPA))
	if len(normalized.Certifications) > 0 {
		push("has_certification", 1)
	} else {
		push("has_certification", 0)
	}

	skillSet := toSet(normalized.Skills)
	otherSkills := len(skillSet)
	for _, skill := range constants.SkillVocabulary {
		col := "skill_" + safeColumnName(skill)
		if _, ok := skillSet[skill]; ok {
			push(col, 1)
			otherSkills--
		} else {
			push(col, 0)
		}
	}
	push("skill_other", float32(otherSkills))

	interestSet := toSet(normalized.Interests)
	otherInterests := len(interestSet)
	for _, interest := range constants.InterestVocabulary {
		col := "interest_" + safeColumnName(interest)
		if _, ok := interestSet[interest]; ok {
			push(col, 1)
			otherInterests--
		} else {
			push(col, 0)
		}
	}
	push("interest_other", float32(otherInterests))

	return types.FeatureVector{Columns: columns, Values: values}
}

// FeatureColumns 返回特征列名，顺序与 BuildFeatureVector 的输出一致。
// 分类器加载时可据此校验模型的输入维度。
func (n *ProfileNormalizer) FeatureColumns() []string {
	return n.BuildFeatureVector(types.UserProfile{Skills: []string{}, Interests: []string{}}).Columns
}

// ProfileHash 计算归一化画像的SHA-256哈希，作为缓存键的一部分。
// 词法等价的画像（大小写、顺序、空白差异）产生相同哈希。
func (n *ProfileNormalizer) ProfileHash(profile types.UserProfile) string {
	normalized := n.NormalizeProfile(profile)

	// 只纳入影响推荐结果的字段
	canonical := struct {
		EducationLevel types.EducationLevel `json:"education_level"`
		Gender         string               `json:"gender"`
		UGCourse       string               `json:"ug_course"`
		Specialization string               `json:"specialization"`
		Skills         []string             `json:"skills"`
		Interests      []string             `json:"interests"`
		Preferences    string               `json:"preferences"`
		CGPA           *float64             `json:"cgpa"`
		Certifications []string             `json:"certifications"`
	}{
		EducationLevel: normalized.EducationLevel,
		Gender:         normalized.Gender,
		UGCourse:       normalized.UGCourse,
		Specialization: normalized.Specialization,
		Skills:         normalized.Skills,
		Interests:      normalized.Interests,
		Preferences:    normalized.Preferences,
		CGPA:           normalized.CGPA,
		Certifications: normalizeTerms(normalized.Certifications),
	}

	data, _ := json.Marshal(canonical)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// encodeGender 性别编码，未知取0
func encodeGender(gender string) float32 {
	switch gender {
	case "male":
		return 1
	case "female":
		return 2
	}
	return 0
}

// encodeCGPA 将CGPA归一到 [0,1]，兼容百分制和4分制两种量纲。
// 缺失值按训练数据的填充值 70/100 编码。
func encodeCGPA(cgpa *float64) float32 {
	if cgpa == nil {
		return 0.7
	}
	v := *cgpa
	if v > 4 {
		return float32(v / 100)
	}
	return float32(v / 4)
}

// safeColumnName 列名中的空格和连字符统一替换为下划线
func safeColumnName(name string) string {
	replaced := strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(name)
	if len(replaced) > 30 {
		replaced = replaced[:30]
	}
	return replaced
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
