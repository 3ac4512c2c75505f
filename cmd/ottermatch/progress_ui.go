package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/John-Robertt/ottermatch/internal/app/run"
	"github.com/John-Robertt/ottermatch/internal/config"
	"github.com/John-Robertt/ottermatch/internal/domain"
)

var _ run.Observer = (*progressUI)(nil)

// progressUI 是交互终端的过程输出。
//
// 设计目标：
// - 所有过程信息写到 stderr（或 fallback 到 stdout），不污染 stdout 的 JSON 输出契约
// - 事件驱动：run 层只发事件，CLI 决定如何展示
// - 引擎单线程、事件按序到达，因此不需要锁
type progressUI struct {
	w         io.Writer
	startedAt time.Time
}

func newProgressUI(w io.Writer) *progressUI {
	return &progressUI{w: w}
}

func (p *progressUI) OnStart(eff config.EffectiveConfig) {
	p.startedAt = time.Now()

	fmt.Fprintf(p.w, "[%s] ottermatch run\n", p.startedAt.Format("15:04:05"))
	fmt.Fprintln(p.w, "配置（生效）:")
	fmt.Fprintf(p.w, "  path: %s\n", eff.Path)
	fmt.Fprintf(p.w, "  records: %s\n", eff.Records)
	if eff.Output != "" {
		fmt.Fprintf(p.w, "  out: %s\n", eff.Output)
	}
	fmt.Fprintf(p.w, "  fuzzy_floor: %.2f  validation_floor: %.2f  ambiguity: [%.2f, %.2f]\n",
		eff.Thresholds.FuzzyFloor, eff.Thresholds.ValidationFloor,
		eff.Thresholds.AmbiguityLow, eff.Thresholds.AmbiguityHigh,
	)
}

func (p *progressUI) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	// map 迭代无序，按 key 排序保证输出稳定。
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, fields[k])
	}
	fmt.Fprintf(p.w, "[%s] %s 完成%s (%s)\n",
		time.Now().Format("15:04:05"), name, sb.String(), dur.Round(time.Millisecond))
}

func (p *progressUI) OnRecordDone(idx, total int, res domain.MeetingResult) {
	detail := res.Method
	switch res.Method {
	case domain.MethodExact:
		detail = "exact"
	case domain.MethodFuzzy:
		detail = fmt.Sprintf("fuzzy %.3f", res.FuzzyRatio)
	case domain.MethodNone:
		detail = "无录音"
	}
	fmt.Fprintf(p.w, "[%s] %d/%d #%d %s → %s\n",
		time.Now().Format("15:04:05"), idx, total, res.ID, truncate(res.Title, 40), detail)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
