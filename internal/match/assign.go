package match

import (
	"fmt"
	"sort"

	"github.com/John-Robertt/ottermatch/internal/domain"
)

// Consumed 是一次 run 内的桶消耗表。
//
// 约束：显式创建、显式传入 Assign，作用域就是一次 run——绝不做包级
// 单例，多次 run（尤其测试里）互不泄漏状态。
type Consumed map[domain.BucketRef]struct{}

// NewConsumed 创建空消耗表。
func NewConsumed() Consumed { return Consumed{} }

// TranscriptReader 按相对路径返回转写全文（内容校验用）。
// 读取失败返回 error；校验层把它降级为警告而不是中断。
type TranscriptReader func(relPath string) (string, error)

// Assign 按元数据顺序消费候选，产出最终分配与 ambiguity log。
//
// 算法（确定性；元数据顺序是最后的平手裁决）：
// - 逐条记录：过滤掉已消耗的桶，重排（见 rerank），取第一个候选，
//   标记其桶已消耗；没有候选则判"无录音"
// - 带摘要且模糊候选多于一个时，先做内容校验再重排：过了
//   ValidationFloor 的候选按校验得分优先于原始 ratio
// - 候选彼此接近（校验得分落在歧义带，或 ratio 差 ≤ RatioBand）时
//   记一条 AmbiguityEntry（Top-K），无论最终选了谁——这是审计信号，
//   不是拒绝
//
// 不变量：分配集是记录→桶的部分单射；consumed 表保证任何桶至多被
// 消耗一次，与输入平手如何排列无关。
func Assign(records []domain.MeetingRecord, perRecord [][]domain.CandidateMatch, consumed Consumed, read TranscriptReader, th Thresholds) ([]domain.Assignment, []domain.AmbiguityEntry, []domain.Warning) {
	assignments := make([]domain.Assignment, 0, len(records))
	var ambiguities []domain.AmbiguityEntry
	var warnings []domain.Warning

	for i := range records {
		rec := records[i]

		var cands []domain.CandidateMatch
		if i < len(perRecord) {
			cands = perRecord[i]
		}

		// 已消耗的桶直接出局（顺序消耗编号重复文件的关键一步）。
		avail := make([]domain.CandidateMatch, 0, len(cands))
		for _, c := range cands {
			if _, used := consumed[c.Ref()]; used {
				continue
			}
			avail = append(avail, c)
		}

		// 仅在需要消歧时才读转写做内容校验。
		if rec.HasSummary() && countFuzzy(avail) > 1 {
			warnings = append(warnings, validateAll(rec, avail, read, th)...)
			rerank(avail, th)
		}

		if entry, ok := ambiguity(rec, avail, th); ok {
			ambiguities = append(ambiguities, entry)
		}

		a := domain.Assignment{RecordID: rec.ID, Method: domain.MethodNone}
		if len(avail) > 0 {
			c := avail[0]
			consumed[c.Ref()] = struct{}{}
			a = domain.Assignment{
				RecordID:       rec.ID,
				Method:         c.Method,
				Ratio:          c.Ratio,
				Validation:     c.Validation,
				Validated:      c.Validated,
				GroupName:      c.GroupName,
				DupIndex:       c.DupIndex,
				AudioPath:      c.AudioPath,
				TranscriptPath: c.TranscriptPath,
			}
		}
		assignments = append(assignments, a)
	}

	return assignments, ambiguities, warnings
}

func countFuzzy(cs []domain.CandidateMatch) int {
	n := 0
	for _, c := range cs {
		if c.Method == domain.MethodFuzzy {
			n++
		}
	}
	return n
}

// validateAll 为每个带转写的模糊候选计算校验得分（就地写回）。
// 没有转写或读不出来的候选得分 0（读失败另记警告）。
func validateAll(rec domain.MeetingRecord, cs []domain.CandidateMatch, read TranscriptReader, th Thresholds) []domain.Warning {
	var warnings []domain.Warning
	for i := range cs {
		if cs[i].Method != domain.MethodFuzzy {
			continue
		}
		cs[i].Validated = true
		cs[i].Validation = 0
		if cs[i].TranscriptPath == "" || read == nil {
			continue
		}
		text, err := read(cs[i].TranscriptPath)
		if err != nil {
			warnings = append(warnings, domain.Warning{
				Code:    domain.WarnTranscriptUnreadable,
				Subject: cs[i].TranscriptPath,
				Msg:     fmt.Sprintf("校验记录 %d 时读取转写失败：%v", rec.ID, err),
			})
			continue
		}
		cs[i].Validation = Validate(rec.Summary, text, th)
	}
	return warnings
}

// rerank：exact 永远在前（校验不推翻精确命中）；模糊层里，过了
// ValidationFloor 的候选按校验得分降序排在未过线者之前——带摘要的
// 记录更信"内容真的对上了"而不是"名字更像"。其余仍按 ratio 降序，
// 平手保持原相对顺序（即 DupIndex 升序的顺序消耗约定）。
func rerank(cs []domain.CandidateMatch, th Thresholds) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		ae, be := a.Method == domain.MethodExact, b.Method == domain.MethodExact
		if ae != be {
			return ae
		}
		if ae {
			return false
		}
		av := a.Validated && a.Validation > th.ValidationFloor
		bv := b.Validated && b.Validation > th.ValidationFloor
		if av != bv {
			return av
		}
		if av && bv && a.Validation != b.Validation {
			return a.Validation > b.Validation
		}
		if a.Ratio != b.Ratio {
			return a.Ratio > b.Ratio
		}
		return false
	})
}

// ambiguity 判定候选是否"接近到值得人看一眼"，是则产出 Top-K 快照。
// 触发条件（二者满足其一，且至少有两个候选）：
// - 任一已校验得分落在 [AmbiguityLow, AmbiguityHigh]
// - 前两个模糊候选的 ratio 差 ≤ RatioBand
func ambiguity(rec domain.MeetingRecord, cs []domain.CandidateMatch, th Thresholds) (domain.AmbiguityEntry, bool) {
	if len(cs) < 2 {
		return domain.AmbiguityEntry{}, false
	}

	near := false
	for _, c := range cs {
		if c.Validated && c.Validation >= th.AmbiguityLow && c.Validation <= th.AmbiguityHigh {
			near = true
			break
		}
	}
	if !near {
		var fuzzy []float64
		for _, c := range cs {
			if c.Method == domain.MethodFuzzy {
				fuzzy = append(fuzzy, c.Ratio)
			}
		}
		if len(fuzzy) >= 2 {
			sort.Sort(sort.Reverse(sort.Float64Slice(fuzzy)))
			if fuzzy[0]-fuzzy[1] <= th.RatioBand {
				near = true
			}
		}
	}
	if !near {
		return domain.AmbiguityEntry{}, false
	}

	k := th.TopK
	if k <= 0 || k > len(cs) {
		k = len(cs)
	}
	entry := domain.AmbiguityEntry{RecordID: rec.ID, Title: rec.Title}
	for i := 0; i < k; i++ {
		c := cs[i]
		entry.Candidates = append(entry.Candidates, domain.AmbiguityCandidate{
			Name:       c.GroupName,
			DupIndex:   c.DupIndex,
			Method:     c.Method,
			Ratio:      c.Ratio,
			Validation: c.Validation,
			Validated:  c.Validated,
			Chosen:     i == 0,
		})
	}
	return entry, true
}
