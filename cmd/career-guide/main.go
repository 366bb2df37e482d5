package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"career-guide-go/internal/api/handler"
	"career-guide-go/internal/api/router"
	"career-guide-go/internal/config"
	appCoreLogger "career-guide-go/internal/logger"
	"career-guide-go/internal/parser"
	"career-guide-go/internal/processor"
	"career-guide-go/internal/storage"
	"career-guide-go/pkg/ratelimit"

	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/spf13/pflag"
)

// @title Career Guide API
// @version 1.0
// @description Career prediction, roadmap generation and college recommendation service.
// @BasePath /api/v1
func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "Path to config file")
	pflag.Parse()

	// 1. 加载配置
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		glog.Fatalf("加载配置失败: %v", err)
	}

	initLogger(cfg)
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. 初始化存储管理器（Redis缓存 + MinIO + 院校数据集）
	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	// 3. 按需从对象存储拉取模型工件
	if storageManager.MinIO != nil {
		if err := storageManager.MinIO.EnsureModelArtifacts(ctx, &cfg.Model); err != nil {
			glog.Fatalf("拉取模型工件失败: %v", err)
		}
	}

	// 4. 加载ONNX职业分类器。分类器是服务的核心能力，加载失败直接退出。
	classifier, err := parser.NewONNXCareerClassifier(cfg.Model.Path, cfg.Model.LabelsPath, cfg.Model.OrtLibraryPath)
	if err != nil {
		glog.Fatalf("加载职业分类器失败: %v", err)
	}
	defer classifier.Close()
	glog.Info("职业分类器加载成功")

	// 5. 初始化LLM客户端并套上QPM限流
	ollamaModel := parser.NewOllamaChatModel(
		cfg.Ollama.Host,
		cfg.Ollama.Model,
		parser.WithTemperature(cfg.Ollama.Temperature),
		parser.WithHTTPTimeout(cfg.Ollama.Timeout()),
	)
	llmModel := ratelimit.NewChatModelWithRateLimit(
		ollamaModel,
		cfg.Ollama.Model,
		cfg.ModelQPMLimits,
		cfg.Ollama.QPM,
		cfg.Ollama.MaxRetries,
		time.Duration(cfg.Ollama.RetryWaitSeconds)*time.Second,
	)
	glog.Infof("LLM客户端初始化成功，后端: %s, 模型: %s", cfg.Ollama.Host, cfg.Ollama.Model)

	// 6. 组装流水线组件
	normalizer := processor.NewProfileNormalizer()
	if cols := len(normalizer.FeatureColumns()); cols != classifier.NumFeatures() {
		glog.Fatalf("特征维度不匹配: 编码器 %d, 模型 %d", cols, classifier.NumFeatures())
	}
	predictor := processor.NewCareerPredictor(classifier, normalizer, cfg.Model.TopK)
	matcher := processor.NewCollegeMatcher(storageManager.Colleges)
	roadmapGen := parser.NewLLMRoadmapGenerator(llmModel)
	summaryGen := parser.NewLLMSummaryGenerator(llmModel)

	pipelineOpts := []processor.PipelineOption{
		processor.WithRoadmapGenerator(roadmapGen),
		processor.WithSummaryGenerator(summaryGen),
	}
	if storageManager.Redis != nil {
		pipelineOpts = append(pipelineOpts, processor.WithResultCache(storageManager.Redis))
	}
	pipeline := processor.NewRecommendationPipeline(predictor, matcher, pipelineOpts...)
	glog.Info("推荐流水线初始化成功")

	// 7. 初始化HTTP处理器与路由
	handlers := &router.Handlers{
		Career:         handler.NewCareerHandler(pipeline, predictor),
		Roadmap:        handler.NewRoadmapHandler(roadmapGen, cfg.Ollama.Timeout()),
		College:        handler.NewCollegeHandler(matcher, storageManager.Colleges),
		Recommendation: handler.NewRecommendationHandler(pipeline),
		Health:         handler.NewHealthHandler(ollamaModel, true, storageManager.Colleges),
	}

	// 感知客户端断开，断开时取消请求上下文，SSE接口靠它停止后端生成
	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
		server.WithSenseClientDisconnection(true),
	)
	router.RegisterRoutes(h, handlers)

	// 8. 启动HTTP服务器并等待终止信号
	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()
	glog.Infof("服务已启动，监听地址: %s", cfg.Server.Address)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Fatalf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

// initLogger 初始化zerolog并将Hertz的日志桥接到同一输出
func initLogger(cfg *config.Config) {
	appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})

	hertzCompatibleLogger := hertzadapter.From(appCoreLogger.Logger)
	glog.SetLogger(hertzCompatibleLogger)
}
