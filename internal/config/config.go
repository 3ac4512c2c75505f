package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/John-Robertt/ottermatch/internal/match"
)

const (
	// ErrCodeNotFound 表示无参运行但 cwd 下没有 ottermatch.json。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeMissingPath 表示无参运行但配置文件缺少 path 字段。
	ErrCodeMissingPath = "config_missing_path"
)

// DefaultRecordsName 是记录文件的默认文件名（相对 notes 目录）。
const DefaultRecordsName = "meetings.json"

// CLIArgs 只包含 CLI 暴露的入口，并保留“是否显式指定”的信息。
// 这能保证覆盖优先级可实现：例如 --debug=false 必须能覆盖 config.debug=true。
type CLIArgs struct {
	Path string

	Records    string
	RecordsSet bool

	Output    string
	OutputSet bool

	Debug    bool
	DebugSet bool
}

// FileConfig 对应 ottermatch.json 的解析结构。
type FileConfig struct {
	Path       string            `json:"path"`
	Records    string            `json:"records"`
	Output     string            `json:"output"`
	Debug      *bool             `json:"debug"`
	Thresholds *ThresholdsConfig `json:"thresholds"`
}

// ThresholdsConfig 允许在配置里逐项覆盖匹配阈值（缺省项用内置默认）。
// 这些是经验值，不建议随便动；放配置里是为了调参可追溯，不是鼓励改。
type ThresholdsConfig struct {
	FuzzyFloor      *float64 `json:"fuzzy_floor"`
	ContainBoost    *float64 `json:"contain_boost"`
	ValidationFloor *float64 `json:"validation_floor"`
	AmbiguityLow    *float64 `json:"ambiguity_low"`
	AmbiguityHigh   *float64 `json:"ambiguity_high"`
	RatioBand       *float64 `json:"ratio_band"`
	SummaryWindow   *int     `json:"summary_window"`
	ExcerptLimit    *int     `json:"excerpt_limit"`
}

// DefaultExcerptLimit 是写进数据集的转写摘录上限（字符数）。
const DefaultExcerptLimit = 5000

// EffectiveConfig 是合并并做最小规范化后的最终配置
//（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	Path    string // notes 目录（绝对路径）
	Records string // 记录文件（绝对路径）
	Output  string // 数据集输出文件；空 = 只写 stdout
	Debug   bool

	Thresholds   match.Thresholds
	ExcerptLimit int
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeMissingPath:
		return fmt.Sprintf("%s：配置文件 %q 缺少必填字段 path", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 按约定发现并读取配置文件，然后与 CLI 参数合并为最终配置。
//
// 发现规则（固定）：
// 1) CLI 提供 path：尝试读取 <path>/ottermatch.json（可选）
// 2) CLI 未提供 path：必须读取 <cwd>/ottermatch.json（必选），且其中必须包含 path
//
// 覆盖优先级（固定）：
// - path：CLI path > config path
// - records：CLI > config > 默认 <path>/meetings.json
// - output：CLI > config > 空（只写 stdout）
// - debug：CLI --debug/--debug=false > config > 默认 false
// - thresholds：仅由 config 控制（CLI 不暴露）
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	if strings.TrimSpace(cli.Path) != "" {
		// CLI 给了 path：配置文件可选，位置固定在 <path>/ottermatch.json。
		absPath := absCleanFrom(cwdAbs, cli.Path)
		cfgPath := filepath.Join(absPath, "ottermatch.json")

		fc, _, err := readFileConfig(cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
		return merge(absPath, cwdAbs, cli, fc, cfgPath)
	}

	// CLI 没给 path：必须读取 <cwd>/ottermatch.json，且其中必须包含 path。
	cfgPath := filepath.Join(cwdAbs, "ottermatch.json")
	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	if !exists {
		return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
	}
	if strings.TrimSpace(fc.Path) == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeMissingPath, Path: cfgPath}
	}

	absPath := absCleanFrom(cwdAbs, fc.Path)
	return merge(absPath, cwdAbs, cli, fc, cfgPath)
}

func merge(absPath, cwdAbs string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	// records：CLI > config > 默认。相对路径相对 notes 目录解析。
	records := filepath.Join(absPath, DefaultRecordsName)
	if cli.RecordsSet && strings.TrimSpace(cli.Records) != "" {
		records = absCleanFrom(cwdAbs, cli.Records)
	} else if strings.TrimSpace(fc.Records) != "" {
		records = absCleanFrom(absPath, fc.Records)
	}

	// output：CLI > config > 空。
	output := ""
	if cli.OutputSet {
		output = strings.TrimSpace(cli.Output)
	} else if strings.TrimSpace(fc.Output) != "" {
		output = strings.TrimSpace(fc.Output)
	}
	if output != "" {
		output = absCleanFrom(cwdAbs, output)
	}

	// debug：CLI > config > 默认 false。
	debug := false
	if cli.DebugSet {
		debug = cli.Debug
	} else if fc.Debug != nil {
		debug = *fc.Debug
	}

	th := match.Default()
	excerpt := DefaultExcerptLimit
	if fc.Thresholds != nil {
		applyOverrides(&th, &excerpt, *fc.Thresholds)
	}
	if err := validateThresholds(th, excerpt); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	return EffectiveConfig{
		Path:         absPath,
		Records:      records,
		Output:       output,
		Debug:        debug,
		Thresholds:   th,
		ExcerptLimit: excerpt,
	}, nil
}

func applyOverrides(th *match.Thresholds, excerpt *int, tc ThresholdsConfig) {
	if tc.FuzzyFloor != nil {
		th.FuzzyFloor = *tc.FuzzyFloor
	}
	if tc.ContainBoost != nil {
		th.ContainBoost = *tc.ContainBoost
	}
	if tc.ValidationFloor != nil {
		th.ValidationFloor = *tc.ValidationFloor
	}
	if tc.AmbiguityLow != nil {
		th.AmbiguityLow = *tc.AmbiguityLow
	}
	if tc.AmbiguityHigh != nil {
		th.AmbiguityHigh = *tc.AmbiguityHigh
	}
	if tc.RatioBand != nil {
		th.RatioBand = *tc.RatioBand
	}
	if tc.SummaryWindow != nil {
		th.SummaryWindow = *tc.SummaryWindow
	}
	if tc.ExcerptLimit != nil {
		*excerpt = *tc.ExcerptLimit
	}
}

func validateThresholds(th match.Thresholds, excerpt int) error {
	unit := func(name string, v float64) error {
		if v < 0 || v > 1 {
			return fmt.Errorf("thresholds.%s 必须在 [0,1]，实际 %v", name, v)
		}
		return nil
	}
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"fuzzy_floor", th.FuzzyFloor},
		{"contain_boost", th.ContainBoost},
		{"validation_floor", th.ValidationFloor},
		{"ambiguity_low", th.AmbiguityLow},
		{"ambiguity_high", th.AmbiguityHigh},
		{"ratio_band", th.RatioBand},
	} {
		if err := unit(c.name, c.v); err != nil {
			return err
		}
	}
	if th.AmbiguityLow > th.AmbiguityHigh {
		return fmt.Errorf("thresholds.ambiguity_low (%v) 不能大于 ambiguity_high (%v)", th.AmbiguityLow, th.AmbiguityHigh)
	}
	if th.SummaryWindow < 1 {
		return fmt.Errorf("thresholds.summary_window 必须 ≥ 1，实际 %d", th.SummaryWindow)
	}
	if excerpt < 0 {
		return fmt.Errorf("thresholds.excerpt_limit 不能为负，实际 %d", excerpt)
	}
	return nil
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
