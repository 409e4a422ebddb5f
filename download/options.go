package download

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/luevano/libyomu/archive"
	"github.com/spf13/afero"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:126.0) Gecko/20100101 Firefox/126.0"

// Options configures the download Queue.
type Options struct {
	// Directory is the download root. Enqueue rejects tasks while
	// it is empty; configure it first, then re-submit.
	Directory string

	// Format in which chapters are written.
	Format archive.Format

	// PageConcurrency bounds the parallel page fetches within one
	// chapter. Chapters themselves are always downloaded one at a
	// time to bound the connections held against a single source.
	PageConcurrency int

	// FS is the file system abstraction containers are written to.
	FS afero.Fs

	// HTTPClient is the http client used for page fetches. Its
	// timeout is the fail-fast bound for a single page.
	HTTPClient *http.Client

	// UserAgent to use when fetching pages.
	UserAgent string

	// OnProgress receives progress reports. Optional.
	OnProgress func(Progress)

	// ModeDir is the permission bits used for created directories.
	ModeDir fs.FileMode

	// ModeFile is the permission bits used for created files.
	ModeFile fs.FileMode
}

// DefaultOptions constructs default Options.
//
// Directory is deliberately left empty: it is a user decision, and
// tasks must not be queued before one is configured.
func DefaultOptions() Options {
	return Options{
		Format:          archive.FormatCBZ,
		PageConcurrency: 6,
		FS:              afero.NewOsFs(),
		HTTPClient:      &http.Client{Timeout: 30 * time.Second},
		UserAgent:       defaultUserAgent,
		ModeDir:         0o755,
		ModeFile:        0o644,
	}
}
