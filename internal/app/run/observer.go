package run

import (
	"time"

	"github.com/John-Robertt/ottermatch/internal/config"
	"github.com/John-Robertt/ottermatch/internal/domain"
)

// Observer 用于把“运行阶段/条目结果”从核心流程中解耦出来。
//
// 约束：run 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
// 引擎单线程，事件按顺序到达，实现无需并发保护。
type Observer interface {
	// OnStart 在 Execute 开始时调用。
	OnStart(eff config.EffectiveConfig)
	// OnPhaseDone 在阶段结束时调用（用于打印阶段统计与耗时）。
	OnPhaseDone(name string, fields map[string]any, dur time.Duration)
	// OnRecordDone 在某条记录裁决完成时调用。
	OnRecordDone(idx, total int, res domain.MeetingResult)
}
