package norm

import (
	"html"
	"regexp"
	"strings"
)

// 本包把标题/文件名规范化为可比较的形态。
//
// 背景：同一场会议在 HTML 导出与文件导出里的名字经常不一致——截断、
// "Re:" 前缀、智能引号、破折号/冒号变体、重复空白。精确匹配在这类
// 数据上会失效，所以比较统一走规范化后的键。

var (
	rePrefixRE = regexp.MustCompile(`(?i)^re:\s*`)
	spaceRE    = regexp.MustCompile(`\s+`)
)

// smartPunct 把 Unicode 标点等价类映射为 ASCII 等价物。
var smartPunct = strings.NewReplacer(
	"’", "'", // ’
	"‘", "'", // ‘
	"“", `"`, // “
	"”", `"`, // ”
)

// Normalize 规范化标题/文件名。纯函数、全函数（任何输入都有输出）、幂等。
//
// 变换顺序（每步整串处理，顺序决定幂等性）：
// 1) HTML 实体解码（循环到不动点：双重编码的输入也要收敛）
// 2) 去掉行首大小写不敏感的 "Re:"（循环：嵌套 "Re: Re:" 同样收敛）
// 3) 智能引号 → ASCII；en/em dash 与冒号分隔变体 → 统一 " - "
// 4) 空白折叠为单个空格并 trim
// 5) 去掉结尾无语义标点（. : -）
func Normalize(raw string) string {
	s := raw

	// 1) 实体解码到不动点。UnescapeString 一次只解一层，
	//    "&amp;amp;" 这类双重编码需要多轮才能稳定，否则幂等性被破坏。
	for i := 0; i < 8; i++ {
		u := html.UnescapeString(s)
		if u == s {
			break
		}
		s = u
	}

	// 2) "Re: Re: X" 也要剥干净，否则二次 Normalize 输出会变。
	for {
		t := rePrefixRE.ReplaceAllString(s, "")
		if t == s {
			break
		}
		s = t
	}

	// 3) 标点等价类。
	s = smartPunct.Replace(s)
	s = canonicalSeparators(s)

	// 4) + 5) 结尾清理循环到不动点："X::" 这类输入经第 3 步展开成
	//    "X -  - "，剥掉最后的标点又会露出新的 " -" 尾巴，单趟清理
	//    会把它留给下一次 Normalize，幂等性被破坏。
	s = spaceRE.ReplaceAllString(s, " ")
	for {
		t := strings.TrimSpace(strings.TrimRight(s, ".:-"))
		if t == s {
			break
		}
		s = t
	}
	return s
}

// Key 返回用于索引/比较的键（Normalize + 小写）。
func Key(raw string) string {
	return strings.ToLower(Normalize(raw))
}

// canonicalSeparators 把分隔用途的破折号/冒号统一为 " - "。
//
// 规则：
// - en/em dash（– —）永远视为分隔
// - ':' 视为分隔，但数字间的冒号（时刻 "10:30"）保留
// - '-' 仅当两侧都是空白时视为分隔（"Catch-up" 这类词内连字符保留）
func canonicalSeparators(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 8)

	for i, r := range runes {
		switch r {
		case '–', '—': // – —
			b.WriteString(" - ")
		case ':':
			if isDigit(at(runes, i-1)) && isDigit(at(runes, i+1)) {
				b.WriteRune(r)
			} else {
				b.WriteString(" - ")
			}
		case '-':
			if isSpace(at(runes, i-1)) && isSpace(at(runes, i+1)) {
				b.WriteString(" - ")
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func at(runes []rune, i int) rune {
	if i < 0 || i >= len(runes) {
		return 0
	}
	return runes[i]
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
