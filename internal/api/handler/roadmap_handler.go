package handler

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"career-guide-go/internal/constants"
	"career-guide-go/internal/logger"
	"career-guide-go/internal/processor"
	"career-guide-go/internal/types"

	"github.com/cloudwego/eino/schema"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/sse"
)

// RoadmapHandler 职业路线图相关接口
type RoadmapHandler struct {
	generator processor.RoadmapGenerator
	timeout   time.Duration
}

// NewRoadmapHandler 创建路线图处理器
func NewRoadmapHandler(generator processor.RoadmapGenerator, timeout time.Duration) *RoadmapHandler {
	if timeout <= 0 {
		timeout = constants.DefaultOllamaTimeout
	}
	return &RoadmapHandler{
		generator: generator,
		timeout:   timeout,
	}
}

// HandleGenerate 生成结构化路线图
func (h *RoadmapHandler) HandleGenerate(c context.Context, ctx *app.RequestContext) {
	var req types.RoadmapRequest
	if err := ctx.BindAndValidate(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体解析失败: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.CareerName) == "" {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "career_name 不能为空"})
		return
	}

	genCtx, cancel := context.WithTimeout(c, h.timeout)
	defer cancel()

	roadmap, err := h.generator.GenerateRoadmap(genCtx, req)
	if err != nil {
		logger.Ctx(c).Warn().Err(err).Str("career", req.CareerName).Msg("路线图生成失败")
		if errors.Is(err, context.DeadlineExceeded) {
			ctx.JSON(consts.StatusGatewayTimeout, utils.H{"error": "路线图生成超时"})
			return
		}
		ctx.JSON(consts.StatusServiceUnavailable, utils.H{"error": err.Error()})
		return
	}

	ctx.JSON(consts.StatusOK, roadmap)
}

// HandleStream 流式生成路线图，文本增量通过SSE下发，
// 以 [DONE] 哨兵事件结束
func (h *RoadmapHandler) HandleStream(c context.Context, ctx *app.RequestContext) {
	var req types.RoadmapRequest
	if err := ctx.BindAndValidate(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体解析失败: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.CareerName) == "" {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "career_name 不能为空"})
		return
	}

	genCtx, cancel := context.WithTimeout(c, h.timeout)
	defer cancel()

	reader, err := h.generator.StreamRoadmap(genCtx, req)
	if err != nil {
		logger.Ctx(c).Warn().Err(err).Str("career", req.CareerName).Msg("路线图流式生成失败")
		ctx.JSON(consts.StatusServiceUnavailable, utils.H{"error": err.Error()})
		return
	}
	defer reader.Close()

	stream := sse.NewStream(ctx)
	if err := forwardRoadmapChunks(reader, func(event types.StreamEvent) error {
		return publishStreamEvent(stream, event)
	}); err != nil {
		// 客户端断开或上游出错，取消上下文让后端停止生成
		cancel()
		logger.Ctx(c).Info().Err(err).Str("career", req.CareerName).Msg("路线图流提前终止")
		return
	}

	_ = stream.Publish(&sse.Event{
		Event: processor.StageDone,
		Data:  []byte(constants.SSEDoneSentinel),
	})
}

// forwardRoadmapChunks 将LLM文本增量逐个发布。
// 发布失败说明客户端已断开，立即停止消费上游流。
func forwardRoadmapChunks(reader *schema.StreamReader[*schema.Message], publish func(types.StreamEvent) error) error {
	for {
		msg, recvErr := reader.Recv()
		if recvErr == io.EOF {
			return nil
		}
		if recvErr != nil {
			_ = publish(types.StreamEvent{
				Step:  processor.StageFailed,
				Error: recvErr.Error(),
			})
			return recvErr
		}
		if err := publish(types.StreamEvent{
			Step:    processor.StageRoadmap,
			Message: msg.Content,
		}); err != nil {
			return err
		}
	}
}
