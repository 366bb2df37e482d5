package handler

import (
	"context"
	"errors"

	"career-guide-go/internal/processor"

	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// ErrorResponse 统一的错误响应体
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFromError 将流水线错误映射到HTTP状态码
func statusFromError(err error) int {
	switch {
	case errors.Is(err, processor.ErrValidation):
		return consts.StatusBadRequest
	case errors.Is(err, processor.ErrModelUnavailable):
		return consts.StatusServiceUnavailable
	case errors.Is(err, processor.ErrBackendTimeout), errors.Is(err, context.DeadlineExceeded):
		return consts.StatusGatewayTimeout
	default:
		return consts.StatusInternalServerError
	}
}

// errorBody 构造错误响应，流水线错误会带上请求ID便于排查
func errorBody(err error) ErrorResponse {
	resp := ErrorResponse{Error: err.Error()}
	var pe *processor.PipelineError
	if errors.As(err, &pe) {
		resp.RequestID = pe.RequestID
	}
	return resp
}
