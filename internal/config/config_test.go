package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "ottermatch.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入配置失败：%v", err)
	}
	return path
}

func TestLoadEffective_CLIPathNoConfig(t *testing.T) {
	cwd := t.TempDir()
	notes := t.TempDir()

	eff, err := LoadEffective(cwd, CLIArgs{Path: notes})
	if err != nil {
		t.Fatalf("CLI 给了 path 时配置文件可选：%v", err)
	}
	if eff.Path != filepath.Clean(notes) {
		t.Fatalf("path 不正确：%q", eff.Path)
	}
	if eff.Records != filepath.Join(notes, DefaultRecordsName) {
		t.Fatalf("records 默认值不正确：%q", eff.Records)
	}
	if eff.Thresholds.FuzzyFloor != 0.8 || eff.ExcerptLimit != DefaultExcerptLimit {
		t.Fatalf("默认阈值不正确：%+v", eff.Thresholds)
	}
	if eff.Debug || eff.Output != "" {
		t.Fatalf("默认 debug/output 不正确：%+v", eff)
	}
}

func TestLoadEffective_NoArgsRequiresConfig(t *testing.T) {
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeNotFound {
		t.Fatalf("期望 config_not_found，实际 %v", err)
	}

	writeConfig(t, cwd, `{}`)
	_, err = LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeMissingPath {
		t.Fatalf("期望 config_missing_path，实际 %v", err)
	}

	writeConfig(t, cwd, `{not json`)
	_, err = LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 config_invalid，实际 %v", err)
	}
}

func TestLoadEffective_Precedence(t *testing.T) {
	cwd := t.TempDir()
	notes := t.TempDir()
	writeConfig(t, notes, `{
		"records": "from_config.json",
		"output": "out_config.json",
		"debug": true,
		"thresholds": {"fuzzy_floor": 0.75}
	}`)

	// CLI 覆盖 config。
	eff, err := LoadEffective(cwd, CLIArgs{
		Path:       notes,
		Records:    "cli.json",
		RecordsSet: true,
		Debug:      false,
		DebugSet:   true,
	})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Records != filepath.Join(cwd, "cli.json") {
		t.Fatalf("CLI records 未覆盖 config：%q", eff.Records)
	}
	if eff.Debug {
		t.Fatal("--debug=false 必须能覆盖 config.debug=true")
	}
	// thresholds 只认 config。
	if eff.Thresholds.FuzzyFloor != 0.75 {
		t.Fatalf("阈值覆盖未生效：%v", eff.Thresholds.FuzzyFloor)
	}
	// output 未在 CLI 指定：取 config（相对 cwd 解析）。
	if eff.Output != filepath.Join(cwd, "out_config.json") {
		t.Fatalf("output 合并不正确：%q", eff.Output)
	}

	// config.records 相对 notes 目录解析。
	eff, err = LoadEffective(cwd, CLIArgs{Path: notes})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Records != filepath.Join(notes, "from_config.json") {
		t.Fatalf("config records 解析基准不正确：%q", eff.Records)
	}
	if !eff.Debug {
		t.Fatal("config.debug 未生效")
	}
}

func TestLoadEffective_InvalidThresholds(t *testing.T) {
	cwd := t.TempDir()
	notes := t.TempDir()

	writeConfig(t, notes, `{"thresholds": {"fuzzy_floor": 1.5}}`)
	if _, err := LoadEffective(cwd, CLIArgs{Path: notes}); Code(err) != ErrCodeInvalid {
		t.Fatalf("越界阈值应是 config_invalid：%v", err)
	}

	writeConfig(t, notes, `{"thresholds": {"ambiguity_low": 0.7, "ambiguity_high": 0.3}}`)
	if _, err := LoadEffective(cwd, CLIArgs{Path: notes}); Code(err) != ErrCodeInvalid {
		t.Fatalf("倒置歧义带应是 config_invalid：%v", err)
	}
}

func TestLoadEffective_ConfigPathFromFile(t *testing.T) {
	cwd := t.TempDir()
	notes := t.TempDir()
	writeConfig(t, cwd, `{"path": "`+notes+`"}`)

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Path != filepath.Clean(notes) {
		t.Fatalf("path 不正确：%q", eff.Path)
	}
}
