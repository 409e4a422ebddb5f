package download

// Status of a download task.
type Status string

const (
	StatusQueued      Status = "queued"
	StatusDownloading Status = "downloading"
	StatusCompleted   Status = "completed"

	// StatusFailed is terminal: failed tasks are retained for
	// manual retry, never retried automatically.
	StatusFailed Status = "failed"
)

// Task is one chapter download request. It is owned by the Queue
// until it reaches a terminal status; afterwards its effects live in
// the owning library entry's downloaded set.
type Task struct {
	// SourceID of the adapter to fetch from.
	SourceID string `json:"source_id"`

	// MediaID of the media within its source.
	MediaID string `json:"media_id"`

	// MediaTitle names the per-media directory of the container.
	MediaTitle string `json:"media_title"`

	// ChapterID of the chapter to download.
	ChapterID string `json:"chapter_id"`

	// ChapterNumber of the chapter.
	ChapterNumber float32 `json:"chapter_number"`

	// ChapterTitle names the container file.
	ChapterTitle string `json:"chapter_title"`

	// EntryID of the owning library entry.
	EntryID string `json:"entry_id"`

	// Status of the task.
	Status Status `json:"status"`

	// Message holds the failure reason for failed tasks.
	Message string `json:"message"`

	// Path of the written container, set on completion.
	Path string `json:"path"`
}

// Progress is one download progress report.
//
// A zero ChapterID signals a batch-level summary event; per-batch
// consumers (e.g. a single user-visible notification) should key off
// those and ignore the per-chapter reports.
type Progress struct {
	ChapterID string `json:"chapter_id"`
	Fetched   int    `json:"fetched"`
	Total     int    `json:"total"`
	Message   string `json:"message"`
}
