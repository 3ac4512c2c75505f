package domain

// 匹配层级（对外稳定字符串，写入 report）。
const (
	MethodExact = "exact"
	MethodFuzzy = "fuzzy"
	MethodNone  = "none"
)

// CandidateMatch 把一条记录与某个组的某个桶关联起来，带打分信息。
//
// 约束：
// - Ratio ∈ [0,1]；exact 层固定 1.0
// - Validation 仅在 Validated=true 时有意义，∈ [0,1]
// - 路径字段直接取自桶，避免上层再回查索引
type CandidateMatch struct {
	GroupKey   string
	GroupName  string
	DupIndex   int
	Method     string
	Ratio      float64
	Validation float64
	Validated  bool

	AudioPath      string
	TranscriptPath string
}

// Ref 返回该候选指向的桶标识。
func (c CandidateMatch) Ref() BucketRef {
	return BucketRef{GroupKey: c.GroupKey, DupIndex: c.DupIndex}
}

// Assignment 是一条记录的最终裁决。未匹配时 Method=none、路径为空。
// 一次 run 内按记录顺序各生成一条，生成后不再修改。
type Assignment struct {
	RecordID   int
	Method     string
	Ratio      float64
	Validation float64
	Validated  bool

	GroupName      string
	DupIndex       int
	AudioPath      string
	TranscriptPath string
}

// HasRecording 报告该记录是否分配到了录音（音频或转写至少其一）。
func (a Assignment) HasRecording() bool {
	return a.AudioPath != "" || a.TranscriptPath != ""
}

// AmbiguityCandidate 是 ambiguity log 里的一个候选快照。
type AmbiguityCandidate struct {
	Name       string  `json:"name"`
	DupIndex   int     `json:"dup_index"`
	Method     string  `json:"method"`
	Ratio      float64 `json:"ratio"`
	Validation float64 `json:"validation,omitempty"`
	Validated  bool    `json:"validated,omitempty"`
	Chosen     bool    `json:"chosen"`
}

// AmbiguityEntry 记录一条记录的多个接近候选（Top-K，降序），仅供人工复核。
// 这是审计信号，不是拒绝：引擎仍然给出尽力而为的分配。
type AmbiguityEntry struct {
	RecordID   int                  `json:"record_id"`
	Title      string               `json:"title"`
	Candidates []AmbiguityCandidate `json:"candidates"`
}
