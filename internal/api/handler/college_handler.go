package handler

import (
	"context"
	"strconv"
	"strings"

	"career-guide-go/internal/constants"
	"career-guide-go/internal/processor"
	"career-guide-go/internal/storage"
	"career-guide-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// CollegeHandler 院校数据与推荐接口
type CollegeHandler struct {
	matcher *processor.CollegeMatcher
	store   *storage.CollegeStore
}

// NewCollegeHandler 创建院校处理器
func NewCollegeHandler(matcher *processor.CollegeMatcher, store *storage.CollegeStore) *CollegeHandler {
	return &CollegeHandler{
		matcher: matcher,
		store:   store,
	}
}

// HandleRecommend 按职业和偏好推荐院校
func (h *CollegeHandler) HandleRecommend(c context.Context, ctx *app.RequestContext) {
	var req types.CollegeRequest
	if err := ctx.BindAndValidate(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体解析失败: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.CareerName) == "" {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "career_name 不能为空"})
		return
	}

	ctx.JSON(consts.StatusOK, h.matcher.Recommend(req))
}

// HandleForCareer 按路径参数中的职业推荐院校
func (h *CollegeHandler) HandleForCareer(c context.Context, ctx *app.RequestContext) {
	career := strings.TrimSpace(ctx.Param("career"))
	if career == "" {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "career 参数不能为空"})
		return
	}

	ctx.JSON(consts.StatusOK, h.matcher.Recommend(types.CollegeRequest{CareerName: career}))
}

// HandleList 按条件过滤院校列表。
// 支持的查询参数: location, university, ownership_type, program, limit
func (h *CollegeHandler) HandleList(c context.Context, ctx *app.RequestContext) {
	limit := constants.DefaultCollegeLimit
	if raw := string(ctx.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "limit 参数非法"})
			return
		}
		limit = parsed
	}
	if limit > constants.MaxCollegeLimit {
		limit = constants.MaxCollegeLimit
	}

	filtered := h.store.Filter(storage.CollegeFilter{
		Location:       string(ctx.Query("location")),
		University:     string(ctx.Query("university")),
		OwnershipType:  string(ctx.Query("ownership_type")),
		ProgramKeyword: string(ctx.Query("program")),
	})

	total := len(filtered)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	ctx.JSON(consts.StatusOK, utils.H{
		"colleges": filtered,
		"count":    len(filtered),
		"total":    total,
	})
}

// HandleLocations 返回数据集中的城市列表
func (h *CollegeHandler) HandleLocations(c context.Context, ctx *app.RequestContext) {
	locations := h.store.Locations()
	ctx.JSON(consts.StatusOK, utils.H{
		"locations": locations,
		"count":     len(locations),
	})
}

// HandleUniversities 返回数据集中的大学列表
func (h *CollegeHandler) HandleUniversities(c context.Context, ctx *app.RequestContext) {
	universities := h.store.Universities()
	ctx.JSON(consts.StatusOK, utils.H{
		"universities": universities,
		"count":        len(universities),
	})
}
