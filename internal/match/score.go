package match

import (
	"sort"
	"strings"

	"github.com/John-Robertt/ottermatch/internal/domain"
	"github.com/John-Robertt/ottermatch/internal/norm"
	"github.com/John-Robertt/ottermatch/internal/scan"
)

// ScoreCandidates 对一条记录在索引上打分，产出降序候选序列。
//
// 层级：
// - exact：规范化键相等，ratio 固定 1.0，永远排在所有 fuzzy 之前
// - fuzzy：ratio ≥ FuzzyFloor 才保留；一方包含另一方时保底 ContainBoost
//
// 组内按 DupIndex 升序展开为候选（顺序消耗的前提）。打分阶段不看
// 消耗状态：每条记录的候选列表独立可复算，消耗裁决归 Assign。
// 没有任何组过线时返回空——那不是错误，是“无录音”。
func ScoreCandidates(rec domain.MeetingRecord, idx *scan.Index, th Thresholds) []domain.CandidateMatch {
	recKey := norm.Key(rec.Title)
	if recKey == "" {
		return nil
	}

	out := make([]domain.CandidateMatch, 0, 4)
	for _, key := range idx.Keys {
		g := idx.Groups[key]

		method := domain.MethodFuzzy
		var ratio float64
		if key == recKey {
			method = domain.MethodExact
			ratio = 1.0
		} else {
			ratio = Ratio(recKey, key)
			// 截断补偿：包含关系时相似度保底。
			if strings.Contains(recKey, key) || strings.Contains(key, recKey) {
				if ratio < th.ContainBoost {
					ratio = th.ContainBoost
				}
			}
			if ratio < th.FuzzyFloor {
				continue
			}
		}

		for i := range g.Buckets {
			b := g.Buckets[i]
			if !b.HasAny() {
				continue
			}
			c := domain.CandidateMatch{
				GroupKey:  g.Key,
				GroupName: g.Name,
				DupIndex:  b.DupIndex,
				Method:    method,
				Ratio:     ratio,
			}
			if b.Audio != nil {
				c.AudioPath = b.Audio.RelPath
			}
			if b.Transcript != nil {
				c.TranscriptPath = b.Transcript.RelPath
			}
			out = append(out, c)
		}
	}

	sortCandidates(out)
	return out
}

// sortCandidates：exact 在前；fuzzy 按 ratio 降序；
// 平分时按 GroupKey、DupIndex 升序（确定性是契约的一部分）。
func sortCandidates(cs []domain.CandidateMatch) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if (a.Method == domain.MethodExact) != (b.Method == domain.MethodExact) {
			return a.Method == domain.MethodExact
		}
		if a.Ratio != b.Ratio {
			return a.Ratio > b.Ratio
		}
		if a.GroupKey != b.GroupKey {
			return a.GroupKey < b.GroupKey
		}
		return a.DupIndex < b.DupIndex
	})
}
