package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/John-Robertt/ottermatch/internal/domain"
)

// 本包把 RunReport 渲染成人工复核用的表格。低置信匹配靠人扫一眼
// 这张表来核对；机器消费走 JSON，两者内容一致。

// AuditTable 渲染逐条审计表（每条记录一行）。
func AuditTable(rr domain.RunReport) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "标题", "音频", "转写", "ratio", "校验", "层级", "录音"})

	for _, m := range rr.Meetings {
		tw.AppendRow(table.Row{
			m.ID,
			truncate(m.Title, 40),
			truncate(m.AudioPath, 36),
			truncate(m.TranscriptPath, 36),
			ratioCell(m.Method, m.FuzzyRatio),
			validationCell(m.Validation),
			m.Method,
			boolCell(m.HasRecording),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	return tw.Render()
}

// AmbiguityTable 渲染 ambiguity log（仅接近候选，供复核）。
// 没有歧义时返回空串（不渲染空表）。
func AmbiguityTable(rr domain.RunReport) string {
	if len(rr.Ambiguities) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"记录", "标题", "#", "候选", "ratio", "校验", "选中"})

	for _, e := range rr.Ambiguities {
		for i, c := range e.Candidates {
			name := fmt.Sprintf("%s (%d)", c.Name, c.DupIndex)
			if c.DupIndex == 0 {
				name = c.Name
			}
			tw.AppendRow(table.Row{
				e.RecordID,
				truncate(e.Title, 32),
				i + 1,
				truncate(name, 36),
				fmt.Sprintf("%.2f", c.Ratio),
				validationCell(validationPtr(c)),
				boolCell(c.Chosen),
			})
		}
		tw.AppendSeparator()
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	return tw.Render()
}

func validationPtr(c domain.AmbiguityCandidate) *float64 {
	if !c.Validated {
		return nil
	}
	v := c.Validation
	return &v
}

func ratioCell(method string, ratio float64) string {
	if method == domain.MethodNone {
		return "-"
	}
	return fmt.Sprintf("%.2f", ratio)
}

func validationCell(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func boolCell(b bool) string {
	if b {
		return "✓"
	}
	return "-"
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
