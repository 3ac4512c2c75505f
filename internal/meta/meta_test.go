package meta

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/John-Robertt/ottermatch/internal/domain"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Plain title", "Plain title"},
		{"Budget &amp; Roadmap", "Budget & Roadmap"},
		{"<b>Team</b> Sync", "Team Sync"},
		{"<div>We discussed <i>the roadmap</i>.</div>", "We discussed the roadmap."},
		{"  spaced   out  ", "spaced out"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Sanitize(c.in); got != c.want {
			t.Fatalf("Sanitize(%q) = %q，期望 %q", c.in, got, c.want)
		}
	}
}

func TestCleanSummary_StripsShowLess(t *testing.T) {
	got := CleanSummary("We discussed the roadmap. Show less")
	if got != "We discussed the roadmap." {
		t.Fatalf("未去掉 Show less 尾巴：%q", got)
	}
	// 出现在中间的不动。
	got = CleanSummary("Show less is more")
	if got != "Show less is more" {
		t.Fatalf("误伤正文：%q", got)
	}
}

func TestParseDate(t *testing.T) {
	ts := ParseDate("Friday, Mar 15, 2024")
	want := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC).Unix()
	if ts != want {
		t.Fatalf("ParseDate = %d，期望 %d", ts, want)
	}
	if ParseDate("Wednesday, Dec 10, 2025") == 0 {
		t.Fatal("完整日期不应解析失败")
	}
	// 可选字段：解析不出来返回 0，不报错。
	for _, bad := range []string{"", "no date here", "Mar 15", "2024"} {
		if ParseDate(bad) != 0 {
			t.Fatalf("期望 %q 解析为 0", bad)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meetings.json")
	data := `[
		{"name": "Re: Team Sync", "date": "Friday, Mar 15, 2024", "time": "10:00 AM", "duration": "45 min", "attendee": "Dana", "summary": "We discussed the roadmap. Show less"},
		{"title": "Budget &amp; Roadmap"},
		{"name": "   "}
	]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("写入 fixture 失败：%v", err)
	}

	records, warnings, err := Load(path)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(records) != 2 {
		t.Fatalf("期望 2 条记录，实际 %d", len(records))
	}
	if records[0].ID != 0 || records[1].ID != 1 {
		t.Fatalf("ID 不是稳定下标：%+v", records)
	}
	if records[0].Title != "Re: Team Sync" {
		t.Fatalf("标题清洗不应去 Re:（那是规范化的职责）：%q", records[0].Title)
	}
	if records[0].Summary != "We discussed the roadmap." {
		t.Fatalf("摘要清洗不正确：%q", records[0].Summary)
	}
	if records[0].DateUnix == 0 {
		t.Fatal("日期应解析出时间戳")
	}
	if records[1].Title != "Budget & Roadmap" {
		t.Fatalf("实体未解码：%q", records[1].Title)
	}
	if len(warnings) != 1 || warnings[0].Code != domain.WarnRecordEmptyTitle {
		t.Fatalf("空标题应产生警告：%+v", warnings)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := Load(filepath.Join(dir, "absent.json"))
	var me *Error
	if !errors.As(err, &me) || me.Code != ErrCodeNotFound {
		t.Fatalf("错误码不正确：%v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("写入 fixture 失败：%v", err)
	}
	_, _, err = Load(bad)
	if !errors.As(err, &me) || me.Code != ErrCodeInvalid {
		t.Fatalf("错误码不正确：%v", err)
	}
}
