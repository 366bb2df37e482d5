package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sync"

	"career-guide-go/internal/types"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv 管理进程级的 ONNX Runtime 初始化，全局只做一次
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT 初始化 ONNX Runtime 环境。可以重复调用，只有第一次生效。
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// careerLabelsFile 标签文件的JSON结构，兼容裸数组和对象两种格式
type careerLabelsFile struct {
	Labels []string `json:"labels"`
}

// ONNXCareerClassifier 基于导出的ONNX模型做职业分类。
// 模型输入为 [1, N] 的特征向量，输出为 [1, K] 的类别得分。
// 会话本身不保证并发安全，推理调用串行化。
type ONNXCareerClassifier struct {
	session     *ort.DynamicAdvancedSession
	inputName   string
	outputName  string
	numFeatures int64
	labels      []string

	mu sync.Mutex
}

// NewONNXCareerClassifier 加载ONNX模型和标签文件并创建推理会话。
// 任一步骤失败都返回错误，调用方应视为启动失败。
func NewONNXCareerClassifier(modelPath string, labelsPath string, ortLibPath string) (*ONNXCareerClassifier, error) {
	if err := initORT(ortLibPath); err != nil {
		return nil, fmt.Errorf("初始化 ONNX Runtime 失败: %w", err)
	}

	labels, err := loadCareerLabels(labelsPath)
	if err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("读取模型输入输出信息失败: %w", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, fmt.Errorf("模型缺少输入或输出张量")
	}

	inputName := inputs[0].Name
	inputDims := inputs[0].Dimensions
	if len(inputDims) != 2 {
		return nil, fmt.Errorf("期望二维输入张量 [batch, features]，实际 %v", inputDims)
	}
	numFeatures := inputDims[1]

	outputName := outputs[0].Name
	// 分类器可能同时导出标签和概率两个输出，优先选择浮点型的概率张量
	for _, out := range outputs {
		if len(out.Dimensions) == 2 {
			outputName = out.Name
			break
		}
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("创建会话选项失败: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(2)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{inputName},
		[]string{outputName},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("创建推理会话失败: %w", err)
	}

	return &ONNXCareerClassifier{
		session:     session,
		inputName:   inputName,
		outputName:  outputName,
		numFeatures: numFeatures,
		labels:      labels,
	}, nil
}

// loadCareerLabels 从JSON文件加载类别标签，顺序即模型输出列的顺序
func loadCareerLabels(labelsPath string) ([]string, error) {
	data, err := os.ReadFile(labelsPath)
	if err != nil {
		return nil, fmt.Errorf("读取标签文件失败: %w", err)
	}

	var plain []string
	if err := json.Unmarshal(data, &plain); err == nil && len(plain) > 0 {
		return plain, nil
	}

	var wrapped careerLabelsFile
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("解析标签文件失败: %w", err)
	}
	if len(wrapped.Labels) == 0 {
		return nil, fmt.Errorf("标签文件为空: %s", labelsPath)
	}
	return wrapped.Labels, nil
}

// Labels 返回类别标签，顺序与模型输出列对应
func (c *ONNXCareerClassifier) Labels() []string {
	return c.labels
}

// NumFeatures 返回模型期望的特征维度，动态维度时为-1
func (c *ONNXCareerClassifier) NumFeatures() int {
	return int(c.numFeatures)
}

// Predict 对单个特征向量做一次推理，返回与 Labels() 对齐的置信度。
// 输出不是概率分布时做softmax归一，保证每个置信度都落在 [0,1]。
func (c *ONNXCareerClassifier) Predict(ctx context.Context, features types.FeatureVector) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dim := int64(features.Dim())
	if c.numFeatures > 0 && dim != c.numFeatures {
		return nil, fmt.Errorf("特征维度不匹配: 期望 %d，实际 %d", c.numFeatures, dim)
	}

	inputTensor, err := ort.NewTensor(ort.NewShape(1, dim), features.Values)
	if err != nil {
		return nil, fmt.Errorf("创建输入张量失败: %w", err)
	}
	defer inputTensor.Destroy()

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(c.labels))))
	if err != nil {
		return nil, fmt.Errorf("创建输出张量失败: %w", err)
	}
	defer outputTensor.Destroy()

	c.mu.Lock()
	err = c.session.Run([]ort.Value{inputTensor}, []ort.Value{outputTensor})
	c.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("模型推理失败: %w", err)
	}

	raw := outputTensor.GetData()
	scores := make([]float64, len(c.labels))
	for i := range scores {
		if i < len(raw) {
			scores[i] = float64(raw[i])
		}
	}

	if !isProbabilityDistribution(scores) {
		scores = softmax(scores)
	}
	return scores, nil
}

// Close 释放推理会话资源
func (c *ONNXCareerClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		err := c.session.Destroy()
		c.session = nil
		return err
	}
	return nil
}

// isProbabilityDistribution 判断得分是否已经是合法的概率分布
func isProbabilityDistribution(scores []float64) bool {
	sum := 0.0
	for _, s := range scores {
		if s < 0 || s > 1 {
			return false
		}
		sum += s
	}
	return sum > 0.99 && sum < 1.01
}

// softmax 将任意实数得分归一化为概率分布，减去最大值保证数值稳定
func softmax(scores []float64) []float64 {
	if len(scores) == 0 {
		return scores
	}
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}

	out := make([]float64, len(scores))
	sum := 0.0
	for i, s := range scores {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
