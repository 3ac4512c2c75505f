package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/John-Robertt/ottermatch/internal/domain"
	"github.com/John-Robertt/ottermatch/internal/norm"
)

// 本包扫描 notes 目录，把导出工具落下的音频/转写文件按规范化名分组、
// 按重复序号组桶。扫描阶段只做 stat，不读文件内容。

// dupSuffixRE 匹配导出工具给重名文件追加的 " (k)" 后缀。
var dupSuffixRE = regexp.MustCompile(`^(.*\S)\s*\((\d+)\)$`)

// Index 是一次扫描的完整产物。
//
// 不变量：
// - Keys 按字典序稳定排序（不同平台/文件系统的遍历顺序差异不外泄）
// - 每组 Buckets 按 DupIndex 升序
// - 解析不了的文件进 Warnings，绝不中断扫描
type Index struct {
	Groups   map[string]*domain.FileGroup
	Keys     []string
	Warnings []domain.Warning
}

// Group 返回 key 对应的组；不存在返回 nil。
func (x *Index) Group(key string) *domain.FileGroup {
	return x.Groups[key]
}

// BuildIndex 扫描 root 下的音频/转写文件并建立索引。
//
// 规则：
// - 音频扩展名：.mp3 .m4a .wav；转写：.txt；其余文件忽略（不算警告）
// - base name = 去扩展名、去 " (k)" 后缀；k 即 DupIndex，无后缀为 0
// - 分组键 = norm.Key(base)；键为空（纯标点之类）→ 警告 + 跳过
// - 同键同序号同类别出现第二个文件 → 保留先到者（RelPath 字典序），警告
func BuildIndex(root string) (*Index, error) {
	root = filepath.Clean(root)

	entries := make([]domain.FileEntry, 0, 128)
	idx := &Index{Groups: map[string]*domain.FileGroup{}}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		name := d.Name()
		ext := strings.ToLower(filepath.Ext(name))
		kind, ok := kindForExt(ext)
		if !ok {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		base, dup := splitDupSuffix(strings.TrimSuffix(name, filepath.Ext(name)))
		entries = append(entries, domain.FileEntry{
			RelPath:  rel,
			Kind:     kind,
			Base:     base,
			DupIndex: dup,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 强制稳定输入顺序，后续“先到者保留”的裁决才可复现。
	sort.Slice(entries, func(i, j int) bool { return entries[i].RelPath < entries[j].RelPath })

	for i := range entries {
		insert(idx, entries[i])
	}

	for _, g := range idx.Groups {
		sort.Slice(g.Buckets, func(i, j int) bool { return g.Buckets[i].DupIndex < g.Buckets[j].DupIndex })
	}

	idx.Keys = make([]string, 0, len(idx.Groups))
	for k := range idx.Groups {
		idx.Keys = append(idx.Keys, k)
	}
	sort.Strings(idx.Keys)
	return idx, nil
}

func insert(idx *Index, e domain.FileEntry) {
	key := norm.Key(e.Base)
	if key == "" {
		idx.Warnings = append(idx.Warnings, domain.Warning{
			Code:    domain.WarnFileSkipped,
			Subject: e.RelPath,
			Msg:     "文件名规范化后为空，无法入组",
		})
		return
	}

	g := idx.Groups[key]
	if g == nil {
		g = &domain.FileGroup{Key: key, Name: norm.Normalize(e.Base)}
		idx.Groups[key] = g
	}

	b := bucketFor(g, e.DupIndex)
	entry := e
	switch e.Kind {
	case domain.FileKindAudio:
		if b.Audio != nil {
			idx.Warnings = append(idx.Warnings, conflictWarning(e, b.Audio))
			return
		}
		b.Audio = &entry
	case domain.FileKindTranscript:
		if b.Transcript != nil {
			idx.Warnings = append(idx.Warnings, conflictWarning(e, b.Transcript))
			return
		}
		b.Transcript = &entry
	}
}

func bucketFor(g *domain.FileGroup, dup int) *domain.PairBucket {
	for i := range g.Buckets {
		if g.Buckets[i].DupIndex == dup {
			return &g.Buckets[i]
		}
	}
	g.Buckets = append(g.Buckets, domain.PairBucket{DupIndex: dup})
	return &g.Buckets[len(g.Buckets)-1]
}

func conflictWarning(loser domain.FileEntry, kept *domain.FileEntry) domain.Warning {
	return domain.Warning{
		Code:    domain.WarnBucketConflict,
		Subject: loser.RelPath,
		Msg:     fmt.Sprintf("与 %q 落入同一个桶（同名同序号同类别），保留先到者", kept.RelPath),
	}
}

// splitDupSuffix 把 "X (2)" 拆为 ("X", 2)；无后缀返回 (s, 0)。
func splitDupSuffix(s string) (string, int) {
	m := dupSuffixRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return strings.TrimSpace(s), 0
	}
	n := 0
	for _, r := range m[2] {
		n = n*10 + int(r-'0')
	}
	return m[1], n
}

func kindForExt(ext string) (domain.FileKind, bool) {
	switch ext {
	case ".mp3", ".m4a", ".wav":
		return domain.FileKindAudio, true
	case ".txt":
		return domain.FileKindTranscript, true
	default:
		return "", false
	}
}
