package tracing

import "strings"

const (
	// DefaultMaxLength 默认最大属性长度
	DefaultMaxLength = 200

	// MaxPromptLength LLM提示词在span属性中的最大长度
	MaxPromptLength = 300

	// MaxRedisLength Redis键值最大长度
	MaxRedisLength = 100
)

// TruncateString 截断超长字符串并追加省略号，避免span属性过大
func TruncateString(s string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}

// SafeAttributeValue 确保属性值安全：敏感字段掩码，过长值截断
func SafeAttributeValue(name string, value string, maxLength int) string {
	lowerName := strings.ToLower(name)
	for _, keyword := range []string{"email", "phone", "password", "name", "secret", "token"} {
		if strings.Contains(lowerName, keyword) {
			return MaskPII(value)
		}
	}
	return TruncateString(value, maxLength)
}

// MaskPII 对个人敏感信息进行掩码处理，保留首尾各一个字符
func MaskPII(value string) string {
	if len(value) <= 2 {
		return "**"
	}
	return value[:1] + strings.Repeat("*", len(value)-2) + value[len(value)-1:]
}
