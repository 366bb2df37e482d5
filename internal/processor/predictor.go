package processor

import (
	"context"
	"fmt"
	"sort"

	"career-guide-go/internal/constants"
	"career-guide-go/internal/types"
)

// CareerPredictor 基于分类器的职业预测器。
// 同一画像的预测结果是确定性的：置信度降序，同分按职业名字典序。
type CareerPredictor struct {
	classifier CareerClassifier
	normalizer *ProfileNormalizer
	topK       int
}

// NewCareerPredictor 创建职业预测器
func NewCareerPredictor(classifier CareerClassifier, normalizer *ProfileNormalizer, topK int) *CareerPredictor {
	if topK <= 0 {
		topK = constants.DefaultTopK
	}
	if topK > constants.MaxTopK {
		topK = constants.MaxTopK
	}
	if normalizer == nil {
		normalizer = NewProfileNormalizer()
	}
	return &CareerPredictor{
		classifier: classifier,
		normalizer: normalizer,
		topK:       topK,
	}
}

// TopK 返回配置的预测条数
func (p *CareerPredictor) TopK() int {
	return p.topK
}

// Predict 对用户画像做TopK职业预测
func (p *CareerPredictor) Predict(ctx context.Context, profile types.UserProfile) ([]types.PredictedCareer, error) {
	return p.PredictN(ctx, profile, p.topK)
}

// PredictN 对用户画像做TopN职业预测，n超出上限时截断
func (p *CareerPredictor) PredictN(ctx context.Context, profile types.UserProfile, n int) ([]types.PredictedCareer, error) {
	if p.classifier == nil {
		return nil, NewModelUnavailableError("", "分类器未加载")
	}
	if err := p.normalizer.Validate(profile); err != nil {
		return nil, NewValidationError("", err.Error())
	}

	if n <= 0 {
		n = p.topK
	}
	if n > constants.MaxTopK {
		n = constants.MaxTopK
	}

	features := p.normalizer.BuildFeatureVector(profile)
	scores, err := p.classifier.Predict(ctx, features)
	if err != nil {
		return nil, NewPredictionError("", err.Error())
	}

	labels := p.classifier.Labels()
	if len(scores) != len(labels) {
		return nil, NewPredictionError("", fmt.Sprintf("得分数量 %d 与标签数量 %d 不一致", len(scores), len(labels)))
	}

	predictions := make([]types.PredictedCareer, 0, len(labels))
	for i, label := range labels {
		confidence := scores[i]
		if confidence < 0 || confidence > 1 {
			return nil, NewPredictionError("", fmt.Sprintf("职业 %q 的置信度 %v 超出 [0,1]", label, confidence))
		}
		predictions = append(predictions, types.PredictedCareer{
			Career:      label,
			Confidence:  confidence,
			Description: constants.CareerDescriptions[label],
		})
	}

	// 置信度降序，同分按职业名字典序，保证结果可复现
	sort.Slice(predictions, func(i, j int) bool {
		if predictions[i].Confidence != predictions[j].Confidence {
			return predictions[i].Confidence > predictions[j].Confidence
		}
		return predictions[i].Career < predictions[j].Career
	})

	if len(predictions) > n {
		predictions = predictions[:n]
	}
	return predictions, nil
}

// ProfileHash 暴露归一化哈希，供缓存键使用
func (p *CareerPredictor) ProfileHash(profile types.UserProfile) string {
	return p.normalizer.ProfileHash(profile)
}

// Categories 返回分类器支持的全部职业类别，字典序排序
func (p *CareerPredictor) Categories() []string {
	if p.classifier == nil {
		return []string{}
	}
	labels := p.classifier.Labels()
	out := make([]string, len(labels))
	copy(out, labels)
	sort.Strings(out)
	return out
}

// Insight 返回指定职业的静态画像信息。
// 目录外的职业也给出兜底描述，不报错。
func (p *CareerPredictor) Insight(career string) types.CareerInsight {
	description, ok := constants.CareerDescriptions[career]
	if !ok {
		description = fmt.Sprintf("Career information for %s", career)
	}

	skills, ok := constants.CareerCommonSkills[career]
	if !ok {
		skills = constants.DefaultCommonSkills
	}

	return types.CareerInsight{
		Career:        career,
		Description:   description,
		CommonSkills:  skills,
		GrowthOutlook: "Growing demand in Nepal and internationally",
	}
}
