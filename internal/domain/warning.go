package domain

// 警告码（对外稳定字符串）。警告只记录、不中断 run。
const (
	WarnFileSkipped          = "file_skipped"
	WarnBucketConflict       = "bucket_conflict"
	WarnRecordEmptyTitle     = "record_empty_title"
	WarnTranscriptUnreadable = "transcript_unreadable"
)

// Warning 是挂在 report 上的结构化警告。
// Subject 指向受影响对象：文件相对路径，或记录标题。
type Warning struct {
	Code    string `json:"code"`
	Subject string `json:"subject,omitempty"`
	Msg     string `json:"msg"`
}
