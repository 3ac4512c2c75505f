package meta

import (
	"encoding/json"
	"fmt"
	"html"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/ottermatch/internal/domain"
)

// 本包负责把抓取协作方产出的记录文件（JSON 数组）装载为 MeetingRecord。
// DOM 抽取本身不在本工具范围内；但抓取产物的字段经常残留内联标签与实体，
// 装载时统一清洗成纯文本，缺失字段落为显式空串。

// Error 是记录文件装载阶段的结构化错误（带 error_code）。
type Error struct {
	Code string // "records_not_found" | "records_invalid"
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到记录文件 %q", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：记录文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：记录文件 %q 无效", e.Code, e.Path)
	}
}

func (e *Error) Unwrap() error { return e.Err }

const (
	ErrCodeNotFound = "records_not_found"
	ErrCodeInvalid  = "records_invalid"
)

// rawRecord 对应记录文件里的一条条目。
// 抓取方历史上用 "name" 字段，后改为 "title"；两者都接受，title 优先。
type rawRecord struct {
	Title    string `json:"title"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Duration string `json:"duration"`
	Attendee string `json:"attendee"`
	Summary  string `json:"summary"`
}

// Load 读取并清洗记录文件。
//
// - 文件不存在/无法解析：返回 *Error（这是匹配开始前仅有的致命路径之一）
// - 标题清洗后为空的条目：跳过并记警告（不致命）
// - ID 为清洗后列表的下标（稳定序号）
func Load(path string) ([]domain.MeetingRecord, []domain.Warning, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, &Error{Code: ErrCodeNotFound, Path: path, Err: err}
		}
		return nil, nil, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}

	var raws []rawRecord
	if err := json.Unmarshal(b, &raws); err != nil {
		return nil, nil, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}

	records := make([]domain.MeetingRecord, 0, len(raws))
	var warnings []domain.Warning

	for i, r := range raws {
		title := Sanitize(firstNonEmpty(r.Title, r.Name))
		if title == "" {
			warnings = append(warnings, domain.Warning{
				Code:    domain.WarnRecordEmptyTitle,
				Subject: fmt.Sprintf("records[%d]", i),
				Msg:     "记录缺少标题，跳过",
			})
			continue
		}

		date := Sanitize(r.Date)
		records = append(records, domain.MeetingRecord{
			ID:       len(records),
			Title:    title,
			Date:     date,
			DateUnix: ParseDate(date),
			Time:     Sanitize(r.Time),
			Duration: Sanitize(r.Duration),
			Attendee: Sanitize(r.Attendee),
			Summary:  CleanSummary(r.Summary),
		})
	}
	return records, warnings, nil
}

var showLessRE = regexp.MustCompile(`(?i)\s*Show less\s*$`)

// CleanSummary 清洗摘要字段，并去掉导出页折叠控件残留的 "Show less" 尾巴。
func CleanSummary(s string) string {
	return showLessRE.ReplaceAllString(Sanitize(s), "")
}

// Sanitize 把可能残留内联标签/实体的抓取字段渲染为纯文本并折叠空白。
// 无标记的输入走快路径，不构建 DOM。
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.ContainsRune(s, '<') {
		return collapse(html.UnescapeString(s))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		// 解析失败就退回实体解码；清洗是尽力而为，不能因此丢记录。
		return collapse(html.UnescapeString(s))
	}
	return collapse(doc.Text())
}

var wsRE = regexp.MustCompile(`\s+`)

func collapse(s string) string {
	return strings.TrimSpace(wsRE.ReplaceAllString(s, " "))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var monthNums = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var (
	yearRE = regexp.MustCompile(`\b(\d{4})\b`)
	dayRE  = regexp.MustCompile(`\b([A-Za-z]+)\s+(\d{1,2})\b`)
)

// ParseDate 把抓取到的日期原文（如 "Friday, Mar 15, 2024"）解析为
// UTC 正午的时间戳，供下游排序。解析不出来返回 0（不报错：日期是可选字段）。
func ParseDate(date string) int64 {
	if strings.TrimSpace(date) == "" {
		return 0
	}

	ym := yearRE.FindStringSubmatch(date)
	if ym == nil {
		return 0
	}
	year := atoi(ym[1])

	lower := strings.ToLower(date)
	var month time.Month
	for name, m := range monthNums {
		if strings.Contains(lower, name) {
			month = m
			break
		}
	}
	if month == 0 {
		return 0
	}

	day := 0
	for _, m := range dayRE.FindAllStringSubmatch(date, -1) {
		if _, ok := monthNums[strings.ToLower(m[1])[:min(3, len(m[1]))]]; ok {
			day = atoi(m[2])
			break
		}
	}
	if day == 0 {
		return 0
	}

	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC).Unix()
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
