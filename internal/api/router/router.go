package router

import (
	"career-guide-go/internal/api/handler"

	"github.com/cloudwego/hertz/pkg/app/server"
)

// Handlers 路由注册需要的全部处理器
type Handlers struct {
	Career         *handler.CareerHandler
	Roadmap        *handler.RoadmapHandler
	College        *handler.CollegeHandler
	Recommendation *handler.RecommendationHandler
	Health         *handler.HealthHandler
}

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, handlers *Handlers) {
	api := h.Group("/api/v1")

	// 职业预测
	api.POST("/career/predict", handlers.Career.HandlePredict)
	api.GET("/career/categories", handlers.Career.HandleCategories)
	api.GET("/career/insights/:career", handlers.Career.HandleInsight)

	// 路线图
	api.POST("/roadmap/generate", handlers.Roadmap.HandleGenerate)
	api.POST("/roadmap/generate/stream", handlers.Roadmap.HandleStream)

	// 院校
	api.POST("/colleges/recommend", handlers.College.HandleRecommend)
	api.GET("/colleges", handlers.College.HandleList)
	api.GET("/colleges/locations", handlers.College.HandleLocations)
	api.GET("/colleges/universities", handlers.College.HandleUniversities)
	api.GET("/colleges/for-career/:career", handlers.College.HandleForCareer)

	// 完整推荐流水线
	api.POST("/recommendations/full", handlers.Recommendation.HandleFull)
	api.POST("/recommendations/quick", handlers.Recommendation.HandleQuick)
	api.POST("/recommendations/stream", handlers.Recommendation.HandleStream)

	// 健康检查
	api.GET("/health", handlers.Health.HandleHealth)
}
