package match

import (
	"regexp"
	"strings"
)

// 内容校验：当多个模糊候选打平时，用“摘要是否真的出现在转写里”来裁决。
// 校验只用于消歧，绝不凭空制造候选。

// stopWords 是校验时丢弃的常见词（与词长 ≤3 的过滤叠加）。
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {},
	"could": {}, "should": {}, "may": {}, "might": {}, "can": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {},
	"they": {}, "me": {}, "him": {}, "her": {}, "us": {}, "them": {},
}

const tokenCutset = `.,!?;:()[]{}"'-`

var punctRE = regexp.MustCompile(`[^\w\s]`)

// Validate 计算摘要与候选转写的内容重合度 ∈ [0,1]。
//
// 算法：
// 1) 取摘要前 SummaryWindow 个字符，按词切分；丢弃 ≤3 字符的词与停用词
// 2) 相邻词组成二元短语
// 3) word_score = 命中词占比（至多看 MaxWords 个词）；
//    phrase_score = 逐字命中的短语占比（至多 MaxPhrases 个）
// 4) 得分 = 0.4·word_score + 0.6·phrase_score；若摘要（去标点后）的
//    前 BonusWindow 字符逐字出现在转写里，加 BonusScore，封顶 1.0
//
// 输入任意、输出必在 [0,1]；摘要或转写为空直接 0。
func Validate(summary, transcript string, th Thresholds) float64 {
	summary = strings.ToLower(strings.TrimSpace(summary))
	transcript = strings.ToLower(transcript)
	if summary == "" || transcript == "" {
		return 0
	}

	window := truncateRunes(summary, th.SummaryWindow)

	var words []string
	for _, w := range strings.Fields(window) {
		w = strings.Trim(w, tokenCutset)
		if len(w) <= 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		words = append(words, w)
	}

	var phrases []string
	for i := 0; i+1 < len(words); i++ {
		p := words[i] + " " + words[i+1]
		if len(p) > 6 {
			phrases = append(phrases, p)
		}
	}

	score := 0.4*hitFraction(words, th.MaxWords, transcript) +
		0.6*hitFraction(phrases, th.MaxPhrases, transcript)

	// 前缀逐字命中加分：摘要开头往往就是转写的开场白。
	prefix := truncateRunes(squash(window), th.BonusWindow)
	if prefix != "" && strings.Contains(squash(transcript), prefix) {
		score += th.BonusScore
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < 0 {
		score = 0
	}
	return score
}

// hitFraction 统计 items 的前 max 个里有多少逐字出现在 text 中。
func hitFraction(items []string, max int, text string) float64 {
	n := len(items)
	if n == 0 {
		return 0
	}
	if n > max {
		n = max
	}
	hits := 0
	for _, it := range items[:n] {
		if strings.Contains(text, it) {
			hits++
		}
	}
	return float64(hits) / float64(n)
}

// squash 把非词字符压成空格并折叠，逐字比较不再被标点干扰。
func squash(s string) string {
	s = punctRE.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
