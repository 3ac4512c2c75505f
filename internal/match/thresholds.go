package match

// Thresholds 集中存放匹配引擎的全部经验参数。
//
// 这些值来自对真实导出数据的调参，不是推导结果；因此一律走配置，
// 不埋在逻辑里。默认值见 Default。
type Thresholds struct {
	// FuzzyFloor：模糊相似度低于此值不产生候选。0.8 以下字符级
	// 相似的假阳性占主导——宁可漏配，歧义交给内容校验解决。
	FuzzyFloor float64

	// ContainBoost：规范化后一方包含另一方时的保底相似度
	//（导出工具常把长标题截断）。
	ContainBoost float64

	// ValidationFloor：内容校验得分高于此才算有效。刻意放得很低：
	// 短摘要/模板化摘要即使配对正确，词面重合也少；这条线只用来
	// 拒绝得分≈0 的明显错配。
	ValidationFloor float64

	// AmbiguityLow/High：校验得分落在 [Low, High] 视为“接近带”，
	// 候选记入 ambiguity log 供人工复核。
	AmbiguityLow  float64
	AmbiguityHigh float64

	// RatioBand：两个模糊候选的 ratio 差在此以内同样视为接近。
	RatioBand float64

	// SummaryWindow：摘要参与校验的前缀长度（字符数）。
	SummaryWindow int
	// BonusWindow：摘要前缀逐字命中转写时加分的窗口长度。
	BonusWindow int
	// BonusScore：上述命中的加分（总分封顶 1.0）。
	BonusScore float64

	// MaxWords/MaxPhrases：参与校验的词/二元短语数量上限。
	MaxWords   int
	MaxPhrases int

	// TopK：ambiguity log 每条记录保留的候选数。
	TopK int
}

// Default 返回引擎默认阈值。
func Default() Thresholds {
	return Thresholds{
		FuzzyFloor:      0.8,
		ContainBoost:    0.85,
		ValidationFloor: 0.05,
		AmbiguityLow:    0.3,
		AmbiguityHigh:   0.6,
		RatioBand:       0.05,
		SummaryWindow:   300,
		BonusWindow:     50,
		BonusScore:      0.2,
		MaxWords:        15,
		MaxPhrases:      10,
		TopK:            3,
	}
}
