package run

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/John-Robertt/ottermatch/internal/config"
	"github.com/John-Robertt/ottermatch/internal/domain"
	"github.com/John-Robertt/ottermatch/internal/infra/transcript"
	"github.com/John-Robertt/ottermatch/internal/match"
	"github.com/John-Robertt/ottermatch/internal/meta"
	"github.com/John-Robertt/ottermatch/internal/scan"
)

// Execute 执行一次完整匹配：装载记录 → 建文件索引 → 打分 → 校验消歧 →
// 顺序分配 → 汇总报告。
//
// 错误策略（与文档一致）：
// - 记录文件/扫描目录读不了：这是仅有的致命路径，返回 error
// - 其余一切异常（坏文件名、读不了的转写、无候选、歧义）都降级为
//   警告或 log 条目挂在 report 上，run 永远跑完
//
// 引擎单线程、无阻塞调用、无取消语义：计算量由输入规模决定，
// 靠构造保证终止，因此不收 context。
func Execute(eff config.EffectiveConfig, logger *slog.Logger, obs Observer) (domain.RunReport, error) {
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	started := time.Now().UTC()

	if obs != nil {
		obs.OnStart(eff)
	}

	rr := domain.RunReport{
		RunID:     uuid.NewString(),
		Path:      eff.Path,
		Records:   eff.Records,
		StartedAt: started,
	}

	loadStarted := time.Now()
	records, loadWarnings, err := meta.Load(eff.Records)
	if err != nil {
		return domain.RunReport{}, err
	}
	addWarnings(&rr, logger, loadWarnings)
	if obs != nil {
		obs.OnPhaseDone("load", map[string]any{
			"records":  len(records),
			"warnings": len(loadWarnings),
		}, time.Since(loadStarted))
	}

	scanStarted := time.Now()
	idx, err := scan.BuildIndex(eff.Path)
	if err != nil {
		return domain.RunReport{}, err
	}
	addWarnings(&rr, logger, idx.Warnings)
	if obs != nil {
		obs.OnPhaseDone("scan", map[string]any{
			"groups":   len(idx.Groups),
			"warnings": len(idx.Warnings),
		}, time.Since(scanStarted))
	}

	scoreStarted := time.Now()
	perRecord := make([][]domain.CandidateMatch, len(records))
	for i := range records {
		perRecord[i] = match.ScoreCandidates(records[i], idx, eff.Thresholds)
		logger.Debug("记录打分完成",
			"record", records[i].ID,
			"title", records[i].Title,
			"candidates", len(perRecord[i]))
	}
	if obs != nil {
		obs.OnPhaseDone("score", map[string]any{
			"records": len(records),
		}, time.Since(scoreStarted))
	}

	store := transcript.New(eff.Path)

	assignStarted := time.Now()
	consumed := match.NewConsumed()
	assignments, ambiguities, assignWarnings := match.Assign(records, perRecord, consumed, store.Text, eff.Thresholds)
	addWarnings(&rr, logger, assignWarnings)
	rr.Ambiguities = ambiguities
	for _, e := range ambiguities {
		logger.Debug("候选接近，已记入 ambiguity log",
			"record", e.RecordID,
			"title", e.Title,
			"candidates", len(e.Candidates))
	}
	if obs != nil {
		obs.OnPhaseDone("assign", map[string]any{
			"records":     len(records),
			"ambiguities": len(ambiguities),
		}, time.Since(assignStarted))
	}

	rr.Meetings = make([]domain.MeetingResult, 0, len(records))
	for i := range records {
		res := buildResult(records[i], assignments[i], store, eff.ExcerptLimit, &rr, logger)
		rr.Meetings = append(rr.Meetings, res)
		if obs != nil {
			obs.OnRecordDone(i+1, len(records), res)
		}
	}

	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr, nil
}

// buildResult 把记录 + 分配结果拼成对外输出的一条数据，并顺手抽摘录。
func buildResult(rec domain.MeetingRecord, a domain.Assignment, store *transcript.Store, excerptLimit int, rr *domain.RunReport, logger *slog.Logger) domain.MeetingResult {
	res := domain.MeetingResult{
		ID:       rec.ID,
		Title:    rec.Title,
		Date:     rec.Date,
		DateUnix: rec.DateUnix,
		Time:     rec.Time,
		Duration: rec.Duration,
		Attendee: rec.Attendee,
		Summary:  rec.Summary,

		HasRecording:   a.HasRecording(),
		Method:         a.Method,
		AudioPath:      a.AudioPath,
		TranscriptPath: a.TranscriptPath,
	}
	if a.Method != domain.MethodNone {
		res.FuzzyRatio = a.Ratio
	}
	if a.Validated {
		v := a.Validation
		res.Validation = &v
	}

	if a.TranscriptPath != "" {
		excerpt, err := store.Excerpt(a.TranscriptPath, excerptLimit)
		if err != nil {
			addWarnings(rr, logger, []domain.Warning{{
				Code:    domain.WarnTranscriptUnreadable,
				Subject: a.TranscriptPath,
				Msg:     "抽取摘录时读取转写失败：" + err.Error(),
			}})
		} else {
			res.TranscriptExcerpt = excerpt
		}
	}
	return res
}

// addWarnings 把警告挂到 report 上并打日志；同一 (code, subject) 只记一次
//（校验和摘录可能对同一份坏转写各报一遍）。
func addWarnings(rr *domain.RunReport, logger *slog.Logger, ws []domain.Warning) {
	for _, w := range ws {
		if hasWarning(rr.Warnings, w) {
			continue
		}
		rr.Warnings = append(rr.Warnings, w)
		logger.Warn(w.Msg, "code", w.Code, "subject", w.Subject)
	}
}

func hasWarning(ws []domain.Warning, w domain.Warning) bool {
	for _, x := range ws {
		if x.Code == w.Code && x.Subject == w.Subject {
			return true
		}
	}
	return false
}
