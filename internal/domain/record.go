package domain

import "strings"

// MeetingRecord 是上游（HTML 抓取协作方）产出的一条会议元数据。
//
// 约束：
// - ID 是稳定序号（records 列表的下标），一次 run 内不变
// - Title 必填；其余字段缺失即为空串（不用哨兵值）
// - 产出后不可变：匹配引擎只读取，不修改
type MeetingRecord struct {
	ID       int
	Title    string
	Date     string // 展示用原文，如 "Friday, Mar 15, 2024"
	DateUnix int64  // Date 解析得到的时间戳（UTC 正午）；0 表示无法解析
	Time     string
	Duration string
	Attendee string
	Summary  string
}

// HasSummary 报告该记录是否带非空摘要。
// 带摘要的记录有强先验：录音应该存在（见匹配策略）。
func (r MeetingRecord) HasSummary() bool {
	return strings.TrimSpace(r.Summary) != ""
}
