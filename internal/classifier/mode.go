package classifier

import (
	"fmt"
	"strings"
)

// Mode 选择行扫描规则。
type Mode string

const (
	// ModeLegacy 使用兼容计数规则：窗口固定 2 字节、每行末尾 3 字节不扫描、
	// TODO 比较长度错位以及 CommentLines 不累计。
	ModeLegacy Mode = "legacy"
	// ModeCorrected 修正上述问题：按标记真实长度匹配、扫描整行、每行每类最多计 1 次。
	ModeCorrected Mode = "corrected"
)

// Modes 返回全部可选模式，用于帮助信息。
func Modes() []Mode {
	return []Mode{ModeLegacy, ModeCorrected}
}

// ParseMode 解析命令行或配置中的模式名称，空字符串视为 legacy。
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModeLegacy:
		return ModeLegacy, nil
	case ModeCorrected:
		return ModeCorrected, nil
	default:
		return "", fmt.Errorf("unsupported mode %q, allowed values: legacy, corrected", value)
	}
}
