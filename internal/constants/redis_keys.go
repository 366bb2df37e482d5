package constants

// Redis Key 前缀和格式常量
// 统一命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// GuideModulePrefix 职业指导模块
	GuideModulePrefix = "guide"

	// EntityResult 完整推荐结果实体
	EntityResult = "result"
	// EntityPrediction 职业预测实体
	EntityPrediction = "prediction"

	// KeyRecommendationResult 完整推荐结果缓存 (STRING, JSON)
	// 格式: app:guide:result:{profileHash}:{career}
	KeyRecommendationResult = AppPrefix + ":" + GuideModulePrefix + ":" + EntityResult + ":%s:%s"

	// KeyPredictionCache 预测结果缓存 (STRING, JSON)
	// 格式: app:guide:prediction:{profileHash}
	KeyPredictionCache = AppPrefix + ":" + GuideModulePrefix + ":" + EntityPrediction + ":%s"
)
