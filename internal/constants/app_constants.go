package constants

import "time"

const (
	// AppVersion 对外暴露的服务版本号
	AppVersion = "1.0.0"

	// DefaultTopK 职业预测默认返回的条数
	DefaultTopK = 5
	// MaxTopK 职业预测允许的最大条数
	MaxTopK = 10

	// DefaultOllamaTimeout LLM 调用的默认超时
	DefaultOllamaTimeout = 120 * time.Second
	// StrictRetryTimeout 严格模式重试时收紧的超时预算
	StrictRetryTimeout = 45 * time.Second

	// ResultCacheDuration 完整推荐结果的缓存时长
	ResultCacheDuration = 24 * time.Hour

	// DefaultCollegeLimit 院校列表接口的默认返回条数
	DefaultCollegeLimit = 50
	// MaxCollegeLimit 院校列表接口允许的最大返回条数
	MaxCollegeLimit = 200
	// MaxRecommendedColleges 推荐列表的最大长度
	MaxRecommendedColleges = 5
	// MaxAlternativeColleges 备选列表的最大长度
	MaxAlternativeColleges = 3

	// SSEDoneSentinel 流式响应的结束哨兵
	SSEDoneSentinel = "[DONE]"
)
