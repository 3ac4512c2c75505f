package match

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Ratio 计算两个字符串的对称字符级相似度 ∈ [0,1]。
// 基于编辑距离按较长串归一：1 - dist/maxLen。两个空串视为相同。
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	max := la
	if lb > max {
		max = lb
	}
	if max == 0 {
		return 1.0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(d)/float64(max)
}
