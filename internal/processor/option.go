package processor

import "career-guide-go/internal/storage"

// PipelineOption 流水线选项函数类型
type PipelineOption func(*RecommendationPipeline)

// WithRoadmapGenerator 设置路线图生成器
func WithRoadmapGenerator(g RoadmapGenerator) PipelineOption {
	return func(p *RecommendationPipeline) {
		p.roadmaps = g
	}
}

// WithSummaryGenerator 设置总结生成器
func WithSummaryGenerator(g SummaryGenerator) PipelineOption {
	return func(p *RecommendationPipeline) {
		p.summaries = g
	}
}

// WithResultCache 设置推荐结果缓存
func WithResultCache(r *storage.Redis) PipelineOption {
	return func(p *RecommendationPipeline) {
		p.cache = r
	}
}
