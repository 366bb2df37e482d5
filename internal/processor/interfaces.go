package processor

import (
	"context"

	"career-guide-go/internal/types"

	"github.com/cloudwego/eino/schema"
)

//
// 职业预测相关接口
//

// CareerClassifier 职业分类器接口。
// Predict 返回与 Labels() 对齐的置信度切片，每个值都在 [0,1]。
type CareerClassifier interface {
	Predict(ctx context.Context, features types.FeatureVector) ([]float64, error)

	// Labels 返回类别标签，顺序与置信度切片一一对应
	Labels() []string

	// NumFeatures 返回模型期望的特征维度，动态维度返回-1
	NumFeatures() int
}

//
// LLM生成相关接口
//

// RoadmapGenerator 路线图生成器接口
type RoadmapGenerator interface {
	// GenerateRoadmap 生成结构化路线图。解析失败返回降级结果，
	// 只有LLM调用本身失败才返回错误。
	GenerateRoadmap(ctx context.Context, req types.RoadmapRequest) (*types.RoadmapResponse, error)

	// StreamRoadmap 流式生成路线图原始文本
	StreamRoadmap(ctx context.Context, req types.RoadmapRequest) (*schema.StreamReader[*schema.Message], error)
}

// SummaryGenerator 最终总结生成器接口。
// 第二个返回值表示结果是否为兜底文案。
type SummaryGenerator interface {
	GenerateSummary(ctx context.Context, careerName string, userName string, roadmapSummary string, collegeSummary string) (*types.CareerSummary, bool)
}

//
// 院校推荐相关接口
//

// CollegeDataset 院校数据源接口，由存储层的CSV快照实现
type CollegeDataset interface {
	All() []types.CollegeInfo
	Count() int
}
