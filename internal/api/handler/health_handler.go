package handler

import (
	"context"
	"time"

	"career-guide-go/internal/constants"
	"career-guide-go/internal/storage"
	"career-guide-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// OllamaHealthChecker LLM后端健康探测接口
type OllamaHealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// HealthHandler 健康检查接口
type HealthHandler struct {
	ollama      OllamaHealthChecker
	modelLoaded bool
	store       *storage.CollegeStore
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(ollama OllamaHealthChecker, modelLoaded bool, store *storage.CollegeStore) *HealthHandler {
	return &HealthHandler{
		ollama:      ollama,
		modelLoaded: modelLoaded,
		store:       store,
	}
}

// HandleHealth 返回服务整体健康状态。
// LLM后端不可达只降级状态，不影响200响应，预测与院校推荐仍然可用。
func (h *HealthHandler) HandleHealth(c context.Context, ctx *app.RequestContext) {
	resp := types.HealthResponse{
		Status:      "healthy",
		ModelLoaded: h.modelLoaded,
		Version:     constants.AppVersion,
	}

	if h.store != nil {
		resp.CollegesLoaded = h.store.Count()
	}

	resp.OllamaStatus = "unknown"
	if h.ollama != nil {
		checkCtx, cancel := context.WithTimeout(c, 3*time.Second)
		defer cancel()
		if err := h.ollama.CheckHealth(checkCtx); err != nil {
			resp.OllamaStatus = "unreachable"
			resp.Status = "degraded"
		} else {
			resp.OllamaStatus = "connected"
		}
	}

	if !h.modelLoaded {
		resp.Status = "degraded"
	}

	ctx.JSON(consts.StatusOK, resp)
}
