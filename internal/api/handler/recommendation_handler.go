package handler

import (
	"context"
	"encoding/json"

	"career-guide-go/internal/constants"
	"career-guide-go/internal/logger"
	"career-guide-go/internal/processor"
	"career-guide-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/sse"
)

// RecommendationHandler 完整职业指导流水线接口
type RecommendationHandler struct {
	pipeline *processor.RecommendationPipeline
}

// NewRecommendationHandler 创建推荐处理器
func NewRecommendationHandler(pipeline *processor.RecommendationPipeline) *RecommendationHandler {
	return &RecommendationHandler{pipeline: pipeline}
}

// HandleFull 执行完整流水线并一次性返回聚合结果
func (h *RecommendationHandler) HandleFull(c context.Context, ctx *app.RequestContext) {
	var req types.FullRecommendationRequest
	if err := ctx.BindAndValidate(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体解析失败: " + err.Error()})
		return
	}

	result, err := h.pipeline.Run(c, req)
	if err != nil {
		logger.Ctx(c).Warn().Err(err).Msg("完整推荐流水线失败")
		ctx.JSON(statusFromError(err), errorBody(err))
		return
	}

	ctx.JSON(consts.StatusOK, result)
}

// HandleQuick 快速路径：只返回职业预测
func (h *RecommendationHandler) HandleQuick(c context.Context, ctx *app.RequestContext) {
	var req types.FullRecommendationRequest
	if err := ctx.BindAndValidate(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体解析失败: " + err.Error()})
		return
	}

	resp, err := h.pipeline.Quick(c, req.UserProfile)
	if err != nil {
		logger.Ctx(c).Warn().Err(err).Msg("快速预测失败")
		ctx.JSON(statusFromError(err), errorBody(err))
		return
	}

	ctx.JSON(consts.StatusOK, resp)
}

// HandleStream 执行完整流水线，阶段转移实时通过SSE下发。
// 事件名为阶段名，最后以 [DONE] 哨兵事件结束。
func (h *RecommendationHandler) HandleStream(c context.Context, ctx *app.RequestContext) {
	var req types.FullRecommendationRequest
	if err := ctx.BindAndValidate(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体解析失败: " + err.Error()})
		return
	}

	stream := sse.NewStream(ctx)

	// 客户端断开后发布会失败，取消流水线上下文，
	// 让仍在执行的LLM调用尽快停止
	streamCtx, cancel := context.WithCancel(c)
	defer cancel()

	// 事件回调由流水线串行化调用，这里的标记无需加锁
	disconnected := false
	_, err := h.pipeline.RunStream(streamCtx, req, func(event types.StreamEvent) {
		if disconnected {
			return
		}
		if pubErr := publishStreamEvent(stream, event); pubErr != nil {
			disconnected = true
			cancel()
		}
	})
	if err != nil {
		// 失败事件已经由流水线推送，这里只记日志
		logger.Ctx(c).Warn().Err(err).Msg("流式推荐流水线失败")
		return
	}
	if disconnected {
		logger.Ctx(c).Info().Msg("客户端断开，流式推荐提前终止")
		return
	}

	_ = stream.Publish(&sse.Event{
		Event: processor.StageDone,
		Data:  []byte(constants.SSEDoneSentinel),
	})
}

// publishStreamEvent 将流水线事件编码为SSE事件发布。
// 返回的错误表示连接已不可写。
func publishStreamEvent(stream *sse.Stream, event types.StreamEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return nil
	}
	return stream.Publish(&sse.Event{
		Event: event.Step,
		Data:  data,
	})
}
