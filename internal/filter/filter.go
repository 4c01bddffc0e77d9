package filter

import (
	"path"
	"strings"
)

// Filter RX 环标签过滤器
type Filter struct {
	includePatterns []string
	excludePatterns []string
}

// New 创建过滤器
func New(include, exclude []string) *Filter {
	return &Filter{
		includePatterns: normalizePatterns(include),
		excludePatterns: normalizePatterns(exclude),
	}
}

// normalizePatterns 规范化通配符模式
// 方括号按字面匹配，"RX[01]" 匹配标签 "RX[01]:"
func normalizePatterns(patterns []string) []string {
	escaper := strings.NewReplacer("[", `\[`, "]", `\]`)
	result := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = NormalizeLabel(p)
		if p != "" {
			result = append(result, escaper.Replace(p))
		}
	}
	return result
}

// NormalizeLabel 统一大小写并去掉标签末尾的冒号
func NormalizeLabel(label string) string {
	return strings.TrimSuffix(strings.TrimSpace(strings.ToLower(label)), ":")
}

// Match 判断标签是否应该显示
// 返回 true 表示应该显示，false 表示应该过滤掉
func (f *Filter) Match(label string) bool {
	if f == nil {
		return true
	}
	label = NormalizeLabel(label)

	// 如果在排除列表中，直接过滤
	for _, pattern := range f.excludePatterns {
		if matchPattern(pattern, label) {
			return false
		}
	}

	// 如果没有包含列表，默认显示
	if len(f.includePatterns) == 0 {
		return true
	}

	for _, pattern := range f.includePatterns {
		if matchPattern(pattern, label) {
			return true
		}
	}

	return false
}

// matchPattern 支持 * 和 ? 通配符
func matchPattern(pattern, label string) bool {
	matched, err := path.Match(pattern, label)
	if err != nil {
		return false
	}
	return matched
}

// IsEmpty 检查过滤器是否为空（无任何规则）
func (f *Filter) IsEmpty() bool {
	return f == nil || (len(f.includePatterns) == 0 && len(f.excludePatterns) == 0)
}
