package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig 定义服务器配置
type ServerConfig struct {
	Address string `yaml:"address"` // 例如 ":8080" or "0.0.0.0:8080"
}

// OllamaConfig 定义Ollama文本生成后端配置
type OllamaConfig struct {
	Host             string  `yaml:"host"`              // 例如 "http://localhost:11434"
	Model            string  `yaml:"model"`             // 例如 "llama3"
	TimeoutSeconds   int     `yaml:"timeout_seconds"`   // 单次调用超时(秒)
	Temperature      float32 `yaml:"temperature"`       // 生成温度
	QPM              int     `yaml:"qpm"`               // 每分钟请求数限制
	MaxRetries       int     `yaml:"max_retries"`       // 最大重试次数
	RetryWaitSeconds int     `yaml:"retry_wait_seconds"` // 重试等待时间(秒)
}

// Timeout 返回Ollama调用超时时长
func (o *OllamaConfig) Timeout() time.Duration {
	if o.TimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// ModelConfig 定义分类器模型工件配置
type ModelConfig struct {
	Path           string `yaml:"path"`             // ONNX模型文件路径
	LabelsPath     string `yaml:"labels_path"`      // 职业标签JSON文件路径
	OrtLibraryPath string `yaml:"ort_library_path"` // onnxruntime动态库路径，空则取模型同目录
	TopK           int    `yaml:"top_k"`            // 预测返回条数
	// 可选：从对象存储拉取模型工件
	Bucket       string `yaml:"bucket,omitempty"`
	ModelObject  string `yaml:"model_object,omitempty"`
	LabelsObject string `yaml:"labels_object,omitempty"`
}

// CollegesConfig 定义院校数据集配置
type CollegesConfig struct {
	CSVPath                string `yaml:"csv_path"`                 // 院校CSV文件路径
	RefreshIntervalMinutes int    `yaml:"refresh_interval_minutes"` // 后台刷新间隔(分钟)，0表示不刷新
}

// RedisConfig holds configuration for Redis
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// 连接池设置
	PoolSize     int `yaml:"pool_size"`      // 连接池大小
	MinIdleConns int `yaml:"min_idle_conns"` // 最小空闲连接数
	// 超时设置
	DialTimeoutSeconds  int `yaml:"dial_timeout_seconds"`  // 连接超时(秒)
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`  // 读取超时(秒)
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"` // 写入超时(秒)
	// 结果缓存过期时间(小时)
	ResultExpireHours int `yaml:"result_expire_hours"`
}

// MinIOConfig MinIO配置结构
type MinIOConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	UseSSL          bool   `yaml:"useSSL"`
	BucketName      string `yaml:"bucketName"`
	Location        string `yaml:"location"` // 可选，存储桶区域
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json, pretty
	TimeFormat   string `yaml:"time_format"`   // 时间格式
	ReportCaller bool   `yaml:"report_caller"` // 是否报告调用位置
}

// Config 应用程序配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Ollama   OllamaConfig   `yaml:"ollama"`
	Model    ModelConfig    `yaml:"model"`
	Colleges CollegesConfig `yaml:"colleges"`
	Redis    RedisConfig    `yaml:"redis"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Logger   LoggerConfig   `yaml:"logger"`

	// 模型QPM限制配置，键为模型名
	ModelQPMLimits map[string]int `yaml:"model_qpm_limits"`
}

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) (*Config, error) {
	// 如果未指定配置文件路径，则尝试在默认位置查找
	if configPath == "" {
		searchPaths := []string{
			"config.yaml",
			"./config.yaml",
			"../config.yaml",
			"../../config.yaml",
		}

		// 获取当前可执行文件路径
		execPath, err := os.Executable()
		if err == nil {
			execDir := filepath.Dir(execPath)
			searchPaths = append(searchPaths, filepath.Join(execDir, "config.yaml"))
			searchPaths = append(searchPaths, filepath.Join(execDir, "..", "config.yaml"))
		}

		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}

		// 测试环境下找不到配置文件时返回默认配置
		if configPath == "" {
			if inTestEnv() {
				return createDefaultConfig(), nil
			}
			configPath = "config.yaml"
		}
	}

	// 检查文件是否存在
	if _, err := os.Stat(configPath); err != nil {
		if inTestEnv() {
			return createDefaultConfig(), nil
		}
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	// 读取配置文件
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析配置文件
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 从环境变量覆盖配置（如果存在）
	applyEnvOverrides(&config)

	// 设置默认值
	applyDefaults(&config)

	return &config, nil
}

// applyEnvOverrides 用环境变量覆盖敏感或部署相关的配置项
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		config.Ollama.Host = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		config.Ollama.Model = v
	}
	if v := os.Getenv("REDIS_ADDRESS"); v != "" {
		config.Redis.Address = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		config.Redis.Password = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		config.MinIO.AccessKeyID = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		config.MinIO.SecretAccessKey = v
	}
}

// applyDefaults 为缺省项填充默认值
func applyDefaults(config *Config) {
	if config.Server.Address == "" {
		config.Server.Address = ":8080"
	}
	if config.Ollama.Host == "" {
		config.Ollama.Host = "http://localhost:11434"
	}
	if config.Ollama.Model == "" {
		config.Ollama.Model = "llama3"
	}
	if config.Ollama.TimeoutSeconds <= 0 {
		config.Ollama.TimeoutSeconds = 120
	}
	if config.Ollama.Temperature <= 0 {
		config.Ollama.Temperature = 0.7
	}
	if config.Model.TopK <= 0 {
		config.Model.TopK = 5
	}
	if config.Model.Path == "" {
		config.Model.Path = "models/career_classifier.onnx"
	}
	if config.Model.LabelsPath == "" {
		config.Model.LabelsPath = "models/career_labels.json"
	}
	if config.Colleges.CSVPath == "" {
		config.Colleges.CSVPath = "data/colleges.csv"
	}
	if config.Redis.ResultExpireHours <= 0 {
		config.Redis.ResultExpireHours = 24
	}
}

// inTestEnv 粗略判断当前是否运行在 go test 环境
func inTestEnv() bool {
	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			return true
		}
	}
	return false
}

// 创建一个默认配置，用于测试环境
func createDefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)
	config.Logger.Level = "debug"
	config.Logger.Format = "pretty"
	return config
}
