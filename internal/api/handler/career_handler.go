package handler

import (
	"context"
	"strings"

	"career-guide-go/internal/logger"
	"career-guide-go/internal/processor"
	"career-guide-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// CareerHandler 职业预测相关接口
type CareerHandler struct {
	pipeline  *processor.RecommendationPipeline
	predictor *processor.CareerPredictor
}

// NewCareerHandler 创建职业预测处理器
func NewCareerHandler(pipeline *processor.RecommendationPipeline, predictor *processor.CareerPredictor) *CareerHandler {
	return &CareerHandler{
		pipeline:  pipeline,
		predictor: predictor,
	}
}

// HandlePredict 处理职业预测请求
func (h *CareerHandler) HandlePredict(c context.Context, ctx *app.RequestContext) {
	var req types.CareerPredictionRequest
	if err := ctx.BindAndValidate(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体解析失败: " + err.Error()})
		return
	}

	resp, err := h.pipeline.Quick(c, req.UserProfile)
	if err != nil {
		logger.Ctx(c).Warn().Err(err).Msg("职业预测失败")
		ctx.JSON(statusFromError(err), errorBody(err))
		return
	}

	ctx.JSON(consts.StatusOK, resp)
}

// HandleCategories 返回分类器支持的全部职业类别
func (h *CareerHandler) HandleCategories(c context.Context, ctx *app.RequestContext) {
	categories := h.predictor.Categories()
	ctx.JSON(consts.StatusOK, utils.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// HandleInsight 返回指定职业的静态画像信息
func (h *CareerHandler) HandleInsight(c context.Context, ctx *app.RequestContext) {
	career := strings.TrimSpace(ctx.Param("career"))
	if career == "" {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "career 参数不能为空"})
		return
	}

	ctx.JSON(consts.StatusOK, h.predictor.Insight(career))
}
