package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"career-guide-go/internal/logger"
	"career-guide-go/internal/storage"
	"career-guide-go/internal/tracing"
	"career-guide-go/internal/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// 流水线阶段名，同时作为流式事件的step字段
const (
	StageNormalizing = "normalizing"
	StagePredicting  = "predicting"
	StageRoadmap     = "roadmap"
	StageColleges    = "colleges"
	StageAggregating = "aggregating"
	StageDone        = "done"
	StageFailed      = "failed"
)

var pipelineTracer = otel.Tracer("career-guide-go/processor/pipeline")

// RecommendationPipeline 完整职业指导流水线：
// 归一化 -> 预测 -> (路线图 ∥ 院校推荐) -> 汇总。
// 路线图和总结属于可选阶段，失败时降级而不使整个请求失败；
// 归一化和预测属于必选阶段，失败即整体失败。
type RecommendationPipeline struct {
	predictor *CareerPredictor
	matcher   *CollegeMatcher
	roadmaps  RoadmapGenerator
	summaries SummaryGenerator
	cache     *storage.Redis
}

// NewRecommendationPipeline 创建推荐流水线
func NewRecommendationPipeline(predictor *CareerPredictor, matcher *CollegeMatcher, opts ...PipelineOption) *RecommendationPipeline {
	p := &RecommendationPipeline{
		predictor: predictor,
		matcher:   matcher,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// emitFunc 流式事件回调。多个阶段并发完成时由流水线内部串行化调用。
type emitFunc func(event types.StreamEvent)

// Run 执行完整流水线并返回聚合结果
func (p *RecommendationPipeline) Run(ctx context.Context, req types.FullRecommendationRequest) (*types.RecommendationResult, error) {
	return p.run(ctx, req, nil)
}

// RunStream 执行完整流水线，阶段转移通过emit回调推送
func (p *RecommendationPipeline) RunStream(ctx context.Context, req types.FullRecommendationRequest, emit emitFunc) (*types.RecommendationResult, error) {
	return p.run(ctx, req, emit)
}

func (p *RecommendationPipeline) run(ctx context.Context, req types.FullRecommendationRequest, emit emitFunc) (*types.RecommendationResult, error) {
	requestID := uuid.New().String()

	ctx, span := pipelineTracer.Start(ctx, "pipeline.Run")
	defer span.End()
	span.SetAttributes(attribute.String("request.id", requestID))

	// 事件回调可能被并发的阶段协程调用，这里统一加锁串行化
	var emitMu sync.Mutex
	send := func(event types.StreamEvent) {
		if emit == nil {
			return
		}
		emitMu.Lock()
		defer emitMu.Unlock()
		emit(event)
	}

	// 1. 归一化与校验
	send(types.StreamEvent{Step: StageNormalizing, Message: "Validating profile"})
	if err := p.predictor.normalizer.Validate(req.UserProfile); err != nil {
		wrapped := NewValidationError(requestID, err.Error())
		tracing.RecordError(span, wrapped, tracing.ErrorTypeValidation)
		send(types.StreamEvent{Step: StageFailed, Error: wrapped.Error()})
		return nil, wrapped
	}

	// 2. 职业预测
	send(types.StreamEvent{Step: StagePredicting, Message: "Predicting careers"})
	predictions, err := p.predictor.Predict(ctx, req.UserProfile)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeModel)
		send(types.StreamEvent{Step: StageFailed, Error: err.Error()})
		return nil, withRequestID(err, requestID)
	}
	if len(predictions) == 0 {
		wrapped := NewPredictionError(requestID, "分类器没有返回任何职业")
		send(types.StreamEvent{Step: StageFailed, Error: wrapped.Error()})
		return nil, wrapped
	}
	selectedCareer := predictions[0].Career
	span.SetAttributes(attribute.String("career.selected", selectedCareer))
	send(types.StreamEvent{
		Step:    StagePredicting,
		Message: fmt.Sprintf("Selected career: %s", selectedCareer),
		Data:    mustJSON(predictions),
	})

	// 3. 缓存命中直接返回
	profileHash := p.predictor.ProfileHash(req.UserProfile)
	if p.cache != nil {
		cached, cacheErr := p.cache.GetRecommendationResult(ctx, profileHash, selectedCareer)
		if cacheErr == nil && cached != nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			logger.Ctx(ctx).Info().
				Str("request_id", requestID).
				Str("career", selectedCareer).
				Msg("推荐结果缓存命中")
			send(types.StreamEvent{Step: StageDone, Data: mustJSON(cached)})
			return cached, nil
		}
		if cacheErr != nil && !errors.Is(cacheErr, storage.ErrNotFound) {
			// 缓存故障只影响性能，继续走完整流水线
			logger.Ctx(ctx).Warn().Err(cacheErr).Msg("读取推荐结果缓存失败")
		}
	}

	// 4. 路线图与院校推荐并行执行
	var (
		wg       sync.WaitGroup
		roadmap  *types.RoadmapResponse
		colleges *types.CollegeRecommendationResponse
		degraded []string
		degMu    sync.Mutex
	)

	markDegraded := func(stage string) {
		degMu.Lock()
		degraded = append(degraded, stage)
		degMu.Unlock()
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		roadmap = p.generateRoadmap(ctx, requestID, selectedCareer, req.UserProfile, markDegraded)
		send(types.StreamEvent{Step: StageRoadmap, Message: "Roadmap ready", Data: mustJSON(roadmap)})
	}()
	go func() {
		defer wg.Done()
		colleges = p.matcher.Recommend(types.CollegeRequest{
			CareerName:        selectedCareer,
			PreferredLocation: req.PreferredLocation,
			BudgetRange:       req.BudgetRange,
			DegreeLevel:       req.DegreeLevel,
		})
		send(types.StreamEvent{Step: StageColleges, Message: "College recommendations ready", Data: mustJSON(colleges)})
	}()
	wg.Wait()

	// 5. 汇总
	send(types.StreamEvent{Step: StageAggregating, Message: "Generating summary"})
	summary := p.generateSummary(ctx, selectedCareer, req.UserProfile.Name, roadmap, colleges, markDegraded)

	sort.Strings(degraded)
	result := &types.RecommendationResult{
		RequestID:        requestID,
		PredictedCareers: predictions,
		SelectedCareer:   selectedCareer,
		Roadmap:          *roadmap,
		Colleges:         *colleges,
		Summary:          summary.Summary,
		ImmediateActions: summary.ImmediateActions,
		DegradedStages:   degraded,
	}

	// 6. 只缓存完整结果，降级结果下次重算
	if p.cache != nil && len(degraded) == 0 {
		if err := p.cache.SetRecommendationResult(ctx, profileHash, selectedCareer, result); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("写入推荐结果缓存失败")
		}
	}

	send(types.StreamEvent{Step: StageDone, Data: mustJSON(result)})
	return result, nil
}

// Quick 快速路径：只做职业预测，跳过路线图、院校和总结阶段。
// 命中预测缓存时直接返回缓存结果。
func (p *RecommendationPipeline) Quick(ctx context.Context, profile types.UserProfile) (*types.CareerPredictionResponse, error) {
	ctx, span := pipelineTracer.Start(ctx, "pipeline.Quick")
	defer span.End()

	if err := p.predictor.normalizer.Validate(profile); err != nil {
		wrapped := NewValidationError("", err.Error())
		tracing.RecordError(span, wrapped, tracing.ErrorTypeValidation)
		return nil, wrapped
	}

	profileHash := p.predictor.ProfileHash(profile)
	if p.cache != nil {
		cached, err := p.cache.GetPrediction(ctx, profileHash)
		if err == nil && cached != nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached, nil
		}
	}

	predictions, err := p.predictor.Predict(ctx, profile)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeModel)
		return nil, err
	}

	resp := &types.CareerPredictionResponse{
		Predictions: predictions,
		Message:     fmt.Sprintf("Top %d career predictions", len(predictions)),
	}

	if p.cache != nil {
		if err := p.cache.SetPrediction(ctx, profileHash, resp); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("写入预测缓存失败")
		}
	}
	return resp, nil
}

// generateRoadmap 执行路线图阶段。生成器未配置或调用失败时降级。
func (p *RecommendationPipeline) generateRoadmap(ctx context.Context, requestID string, career string, profile types.UserProfile, markDegraded func(string)) *types.RoadmapResponse {
	if p.roadmaps == nil {
		markDegraded(StageRoadmap)
		return degradedRoadmap(career, "roadmap generation is not configured")
	}

	roadmap, err := p.roadmaps.GenerateRoadmap(ctx, types.RoadmapRequest{
		CareerName:  career,
		UserProfile: profile,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = NewBackendTimeoutError(requestID, StageRoadmap, err.Error())
		}
		logger.Ctx(ctx).Warn().
			Err(err).
			Str("request_id", requestID).
			Str("career", career).
			Msg("路线图生成失败，返回降级结果")
		markDegraded(StageRoadmap)
		return degradedRoadmap(career, "the language model backend was unavailable")
	}

	if roadmap.Degraded {
		markDegraded(StageRoadmap)
	}
	return roadmap
}

// generateSummary 执行总结阶段，失败时由生成器内部兜底
func (p *RecommendationPipeline) generateSummary(ctx context.Context, career string, userName string, roadmap *types.RoadmapResponse, colleges *types.CollegeRecommendationResponse, markDegraded func(string)) *types.CareerSummary {
	if p.summaries == nil {
		return &types.CareerSummary{
			Summary: fmt.Sprintf("You are well-suited for a career as a %s.", career),
			ImmediateActions: []string{
				"Research the field and required skills",
				"Start with free online courses",
				"Connect with professionals in the field",
			},
		}
	}

	summary, usedFallback := p.summaries.GenerateSummary(ctx, career, userName,
		roadmapSummaryText(roadmap), collegeSummaryText(colleges))
	if usedFallback {
		markDegraded("summary")
	}
	return summary
}

// degradedRoadmap 路线图阶段整体失败时的占位结果
func degradedRoadmap(career string, reason string) *types.RoadmapResponse {
	resp := &types.RoadmapResponse{
		Career:   career,
		Overview: fmt.Sprintf("A roadmap for %s could not be generated: %s.", career, reason),
		Degraded: true,
	}
	resp.Normalize()
	return resp
}

// withRequestID 给还没携带请求ID的流水线错误补上ID
func withRequestID(err error, requestID string) error {
	var pe *PipelineError
	if errors.As(err, &pe) && pe.RequestID == "" {
		pe.RequestID = requestID
	}
	return err
}

// mustJSON 序列化事件数据。事件类型都是本包可控的结构体，失败视为编程错误。
func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}
