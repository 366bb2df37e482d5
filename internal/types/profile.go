package types

import "fmt"

// EducationLevel 教育水平枚举
type EducationLevel string

const (
	EducationHighSchool EducationLevel = "high_school"
	EducationPlusTwo    EducationLevel = "plus_two"
	EducationBachelors  EducationLevel = "bachelors"
	EducationMasters    EducationLevel = "masters"
	EducationPhD        EducationLevel = "phd"
)

// Valid 判断教育水平是否为合法枚举值
func (e EducationLevel) Valid() bool {
	switch e {
	case EducationHighSchool, EducationPlusTwo, EducationBachelors, EducationMasters, EducationPhD:
		return true
	}
	return false
}

// Ordinal 返回教育水平的序数编码，用于特征向量
func (e EducationLevel) Ordinal() float32 {
	switch e {
	case EducationHighSchool:
		return 0
	case EducationPlusTwo:
		return 1
	case EducationBachelors:
		return 2
	case EducationMasters:
		return 3
	case EducationPhD:
		return 4
	}
	return 2 // 未知值按本科处理
}

// DegreeLevel 院校推荐使用的学位层次
type DegreeLevel string

const (
	DegreeDiploma   DegreeLevel = "diploma"
	DegreeBachelors DegreeLevel = "bachelors"
	DegreeMasters   DegreeLevel = "masters"
	DegreePhD       DegreeLevel = "phd"
)

// BudgetRange 预算区间（NPR）
type BudgetRange string

const (
	BudgetLow    BudgetRange = "low"    // < 50,000
	BudgetMedium BudgetRange = "medium" // 50,000 - 200,000
	BudgetHigh   BudgetRange = "high"   // > 200,000
)

// UserProfile 用户画像。提交到流水线后视为不可变，由调用方持有。
type UserProfile struct {
	Name           string         `json:"name,omitempty"`
	Gender         string         `json:"gender,omitempty"`
	EducationLevel EducationLevel `json:"education_level"`
	UGCourse       string         `json:"ug_course,omitempty"`
	Specialization string         `json:"specialization,omitempty"`
	Skills         []string       `json:"skills"`
	Interests      []string       `json:"interests"`
	Preferences    string         `json:"preferences,omitempty"`
	CGPA           *float64       `json:"cgpa,omitempty"` // 0-10 或 0-100 两种量纲
	Certifications []string       `json:"certifications,omitempty"`
	Location       string         `json:"location,omitempty"`
}

// FeatureVector 归一化后的定长特征向量，列顺序与分类器训练时一致。
type FeatureVector struct {
	Columns []string  `json:"columns"`
	Values  []float32 `json:"values"`
}

// Dim 返回特征维度
func (fv *FeatureVector) Dim() int {
	return len(fv.Values)
}

// String 便于日志输出
func (fv *FeatureVector) String() string {
	return fmt.Sprintf("FeatureVector(dim=%d)", len(fv.Values))
}
