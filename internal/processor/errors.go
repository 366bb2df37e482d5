package processor

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	ErrValidation       = errors.New("画像校验失败")
	ErrModelUnavailable = errors.New("分类器模型不可用")
	ErrPrediction       = errors.New("职业预测失败")
	ErrRoadmap          = errors.New("路线图生成失败")
	ErrCollege          = errors.New("院校推荐失败")
	ErrBackendTimeout   = errors.New("LLM后端调用超时")
)

// PipelineError 包含详细错误信息的自定义错误
type PipelineError struct {
	RequestID string
	Stage     string
	BaseErr   error
	Detail    string
}

func (e *PipelineError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (阶段:%s, 请求:%s): %s", e.BaseErr, e.Stage, e.RequestID, e.Detail)
	}
	return fmt.Sprintf("%s (阶段:%s, 请求:%s)", e.BaseErr, e.Stage, e.RequestID)
}

func (e *PipelineError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *PipelineError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数
func NewValidationError(requestID, detail string) error {
	return &PipelineError{
		RequestID: requestID,
		Stage:     "normalize",
		BaseErr:   ErrValidation,
		Detail:    detail,
	}
}

func NewPredictionError(requestID, detail string) error {
	return &PipelineError{
		RequestID: requestID,
		Stage:     "predict",
		BaseErr:   ErrPrediction,
		Detail:    detail,
	}
}

func NewModelUnavailableError(requestID, detail string) error {
	return &PipelineError{
		RequestID: requestID,
		Stage:     "predict",
		BaseErr:   ErrModelUnavailable,
		Detail:    detail,
	}
}

func NewRoadmapError(requestID, detail string) error {
	return &PipelineError{
		RequestID: requestID,
		Stage:     "roadmap",
		BaseErr:   ErrRoadmap,
		Detail:    detail,
	}
}

func NewCollegeError(requestID, detail string) error {
	return &PipelineError{
		RequestID: requestID,
		Stage:     "colleges",
		BaseErr:   ErrCollege,
		Detail:    detail,
	}
}

func NewBackendTimeoutError(requestID, stage, detail string) error {
	return &PipelineError{
		RequestID: requestID,
		Stage:     stage,
		BaseErr:   ErrBackendTimeout,
		Detail:    detail,
	}
}
