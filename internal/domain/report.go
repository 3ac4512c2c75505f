package domain

import "time"

// RunReport 是对外稳定输出（meetings_data.json / stdout JSON）的结构。
// Meetings 保持元数据顺序（即 RecordID 升序），这是下游分页/检索的契约。
type RunReport struct {
	RunID   string `json:"run_id"`
	Path    string `json:"path"`
	Records string `json:"records"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary     ReportSummary    `json:"summary"`
	Meetings    []MeetingResult  `json:"meetings"`
	Ambiguities []AmbiguityEntry `json:"ambiguities"`
	Warnings    []Warning        `json:"warnings"`
}

type ReportSummary struct {
	Total            int `json:"total"`
	WithRecording    int `json:"with_recording"`
	WithoutRecording int `json:"without_recording"`
	Exact            int `json:"exact"`
	Fuzzy            int `json:"fuzzy"`
	Ambiguous        int `json:"ambiguous"`
	Warnings         int `json:"warnings"`
}

// MeetingResult 是对外输出的一条会议数据（下游静态页生成方消费）。
type MeetingResult struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date,omitempty"`
	DateUnix int64  `json:"date_unix,omitempty"`
	Time     string `json:"time,omitempty"`
	Duration string `json:"duration,omitempty"`
	Attendee string `json:"attendee,omitempty"`
	Summary  string `json:"summary,omitempty"`

	HasRecording bool     `json:"has_recording"`
	Method       string   `json:"method"`
	FuzzyRatio   float64  `json:"fuzzy_ratio,omitempty"`
	Validation   *float64 `json:"validation_score,omitempty"`

	AudioPath         string `json:"audio_path,omitempty"`
	TranscriptPath    string `json:"transcript_path,omitempty"`
	TranscriptExcerpt string `json:"transcript_excerpt,omitempty"`
}

// Finalize 做三件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) 保底非 nil 切片（输出 [] 而不是 null，下游好解析）
// 3) summary 由 meetings/ambiguities/warnings 计算得出
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	if r.Meetings == nil {
		r.Meetings = []MeetingResult{}
	}
	if r.Ambiguities == nil {
		r.Ambiguities = []AmbiguityEntry{}
	}
	if r.Warnings == nil {
		r.Warnings = []Warning{}
	}

	var s ReportSummary
	s.Total = len(r.Meetings)
	for _, m := range r.Meetings {
		if m.HasRecording {
			s.WithRecording++
		} else {
			s.WithoutRecording++
		}
		switch m.Method {
		case MethodExact:
			s.Exact++
		case MethodFuzzy:
			s.Fuzzy++
		}
	}
	s.Ambiguous = len(r.Ambiguities)
	s.Warnings = len(r.Warnings)
	r.Summary = s
}
