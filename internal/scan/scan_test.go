package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/John-Robertt/ottermatch/internal/domain"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644); err != nil {
			t.Fatalf("写入 fixture 失败：%v", err)
		}
	}
}

func TestBuildIndex_GroupsAndBuckets(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"Team Sync.mp3", "Team Sync.txt",
		"Team Sync (1).mp3", "Team Sync (1).txt",
		"Team Sync (2).txt", // 2 号只有转写
		"Q1 Planning Meeting.mp3",
		"ignore.pdf",
	)

	idx, err := BuildIndex(dir)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(idx.Groups) != 2 {
		t.Fatalf("期望 2 个组，实际 %d（keys=%v）", len(idx.Groups), idx.Keys)
	}

	g := idx.Group("team sync")
	if g == nil {
		t.Fatal("缺少 team sync 组")
	}
	if len(g.Buckets) != 3 {
		t.Fatalf("期望 3 个桶，实际 %d", len(g.Buckets))
	}
	// 桶必须按 DupIndex 升序。
	for i, want := range []int{0, 1, 2} {
		if g.Buckets[i].DupIndex != want {
			t.Fatalf("桶顺序错误：%+v", g.Buckets)
		}
	}
	if !g.Buckets[0].Complete() || !g.Buckets[1].Complete() {
		t.Fatal("0/1 号桶应齐全")
	}
	// 齐全要求序号一致：2 号桶只有转写，不能借 0 号的音频。
	if g.Buckets[2].Complete() || g.Buckets[2].Audio != nil {
		t.Fatalf("2 号桶不应齐全：%+v", g.Buckets[2])
	}

	if idx.Group("q1 planning meeting") == nil {
		t.Fatal("缺少 q1 planning meeting 组")
	}
}

func TestBuildIndex_NormalizedKeysMerge(t *testing.T) {
	dir := t.TempDir()
	// 同一场会议的两种写法必须并入同一组。
	writeFiles(t, dir, "Re: Team Sync.mp3", "Team  Sync.txt")

	idx, err := BuildIndex(dir)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	g := idx.Group("team sync")
	if g == nil || len(g.Buckets) != 1 || !g.Buckets[0].Complete() {
		t.Fatalf("等价名字未并组：%+v", idx.Keys)
	}
}

func TestBuildIndex_WarningsNotFatal(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		".txt",           // base 为空
		"---.mp3",        // 规范化后为空
		"Standup.mp3",    // 正常
		"sub badness.mp3",
	)

	idx, err := BuildIndex(dir)
	if err != nil {
		t.Fatalf("警告不应变成错误：%v", err)
	}
	var skipped int
	for _, w := range idx.Warnings {
		if w.Code == domain.WarnFileSkipped {
			skipped++
		}
	}
	if skipped != 2 {
		t.Fatalf("期望 2 条 file_skipped 警告，实际 %d：%+v", skipped, idx.Warnings)
	}
	if idx.Group("standup") == nil {
		t.Fatal("正常文件仍应入组")
	}
}

func TestBuildIndex_BucketConflictKeepsFirst(t *testing.T) {
	dir := t.TempDir()
	// 不同扩展名的音频落到同键同序号：RelPath 字典序靠前者保留。
	writeFiles(t, dir, "Standup.m4a", "Standup.mp3")

	idx, err := BuildIndex(dir)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	g := idx.Group("standup")
	if g == nil || g.Buckets[0].Audio == nil {
		t.Fatal("冲突桶应保留一个音频")
	}
	if g.Buckets[0].Audio.RelPath != "Standup.m4a" {
		t.Fatalf("应保留字典序先到者，实际 %q", g.Buckets[0].Audio.RelPath)
	}
	if len(idx.Warnings) != 1 || idx.Warnings[0].Code != domain.WarnBucketConflict {
		t.Fatalf("期望 1 条 bucket_conflict 警告：%+v", idx.Warnings)
	}
}

func TestSplitDupSuffix(t *testing.T) {
	cases := []struct {
		in   string
		base string
		dup  int
	}{
		{"Team Sync", "Team Sync", 0},
		{"Team Sync (1)", "Team Sync", 1},
		{"Team Sync (12)", "Team Sync", 12},
		{"Team Sync(2)", "Team Sync", 2},
		{"(3)", "(3)", 0}, // 纯后缀没有 base，不拆
	}
	for _, c := range cases {
		base, dup := splitDupSuffix(c.in)
		if base != c.base || dup != c.dup {
			t.Fatalf("splitDupSuffix(%q) = (%q, %d)，期望 (%q, %d)", c.in, base, dup, c.base, c.dup)
		}
	}
}
