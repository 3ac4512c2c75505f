package domain

// FileKind 区分扫描到的文件类别。
type FileKind string

const (
	FileKindAudio      FileKind = "audio"
	FileKindTranscript FileKind = "transcript"
)

// FileEntry 描述扫描得到的一个音频/转写文件（只做 stat，不读内容）。
//
// 不变量：
// - RelPath 相对扫描根目录，使用 '/' 分隔（对外输出稳定）
// - Base 是去扩展名、去 " (k)" 重复后缀之后的原始名（未规范化）
// - DupIndex：无后缀为 0；"(1)"/"(2)"… 对应 1/2…
type FileEntry struct {
	RelPath  string
	Kind     FileKind
	Base     string
	DupIndex int
}

// PairBucket 是同一规范化名下、同一重复序号的音频+转写配对。
// 配对必须序号一致：0 号转写不和 1 号音频组桶。
type PairBucket struct {
	DupIndex   int
	Audio      *FileEntry
	Transcript *FileEntry
}

// Complete 报告桶内音频与转写是否齐全。
func (b PairBucket) Complete() bool { return b.Audio != nil && b.Transcript != nil }

// HasAny 报告桶内是否至少有一个文件（可分配的最低条件）。
func (b PairBucket) HasAny() bool { return b.Audio != nil || b.Transcript != nil }

// FileGroup 是共享同一规范化 base name 的全部桶。
//
// 不变量：Buckets 按 DupIndex 升序；匹配时按该顺序逐个消耗，每个桶至多消耗一次。
type FileGroup struct {
	Key     string // norm.Key(Base)，索引键
	Name    string // 展示用：该组首个文件的规范化（未小写）名
	Buckets []PairBucket
}

// BucketRef 唯一标识一个桶，作消耗表的键。
type BucketRef struct {
	GroupKey string
	DupIndex int
}
