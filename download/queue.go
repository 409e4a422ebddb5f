package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/luevano/libyomu/archive"
	"github.com/luevano/libyomu/library"
	"github.com/luevano/libyomu/logger"
	"github.com/luevano/libyomu/source"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// ErrNoDirectory is returned by Enqueue while no download root is
// configured. The task is not queued: the caller must prompt for a
// directory and re-submit, no task exists in limbo waiting for it.
const ErrNoDirectory = Error("no download directory configured")

// Error is a general error for download operations.
type Error string

func (e Error) Error() string {
	return "download: " + string(e)
}

// Queue turns normalized chapters into offline containers.
//
// Chapters are processed strictly one at a time; only page fetches
// within a chapter run in (bounded) parallel. A chapter's container
// is committed all-or-nothing: pages are staged in memory and the
// container only ever reaches the real filesystem complete.
type Queue struct {
	registry *source.Registry
	library  *library.Store
	options  Options
	logger   *logger.Logger

	mu      sync.Mutex
	pending []*Task
	tasks   []*Task

	// processing serializes Process calls; overlapping batches would
	// break the one-chapter-at-a-time guarantee.
	processing sync.Mutex
}

// NewQueue constructs a download Queue.
func NewQueue(registry *source.Registry, store *library.Store, options Options, l *logger.Logger) (*Queue, error) {
	if registry == nil {
		return nil, Error("nil registry passed to NewQueue")
	}
	if store == nil {
		return nil, Error("nil library store passed to NewQueue")
	}
	if err := options.Format.Validate(); err != nil {
		return nil, err
	}
	if options.PageConcurrency < 1 {
		options.PageConcurrency = 1
	}
	if l == nil {
		l = logger.NewLogger()
	}

	return &Queue{
		registry: registry,
		library:  store,
		options:  options,
		logger:   l,
	}, nil
}

// SetDirectory configures the download root.
func (q *Queue) SetDirectory(dir string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.options.Directory = dir
}

// Enqueue adds tasks to the queue in the given order.
//
// Fails with ErrNoDirectory when no download root is configured, in
// which case no task was queued.
func (q *Queue) Enqueue(tasks ...*Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.options.Directory == "" {
		return ErrNoDirectory
	}

	for _, task := range tasks {
		task.Status = StatusQueued
		q.pending = append(q.pending, task)
		q.tasks = append(q.tasks, task)
	}
	return nil
}

// Tasks returns a snapshot of every task the queue has seen,
// terminal ones included. Failed tasks stay here for manual retry
// via Requeue.
func (q *Queue) Tasks() []Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	snapshot := make([]Task, len(q.tasks))
	for i, task := range q.tasks {
		snapshot[i] = *task
	}
	return snapshot
}

// Requeue puts a failed task back into the queue on explicit user
// request. Tasks in any other status are left alone.
func (q *Queue) Requeue(task *Task) error {
	if task.Status != StatusFailed {
		return Error("only failed tasks can be requeued")
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.options.Directory == "" {
		return ErrNoDirectory
	}

	task.Status = StatusQueued
	task.Message = ""
	q.pending = append(q.pending, task)
	return nil
}

// Process drains the queued tasks as one batch, sequentially. Task
// failures are terminal and recorded on the task, they do not abort
// the batch; the returned error only reports context cancellation.
//
// Exactly one summary progress event is emitted per batch.
func (q *Queue) Process(ctx context.Context) error {
	q.processing.Lock()
	defer q.processing.Unlock()

	var completed, failed int
	for {
		task := q.next()
		if task == nil {
			break
		}

		if err := ctx.Err(); err != nil {
			// put the task back untouched, it was never started
			q.mu.Lock()
			q.pending = append([]*Task{task}, q.pending...)
			q.mu.Unlock()
			return err
		}

		if err := q.downloadChapter(ctx, task); err != nil {
			q.setStatus(task, StatusFailed, err.Error())
			failed++
			q.logger.Log("chapter %q failed: %s", task.ChapterTitle, err)
			continue
		}

		q.setStatus(task, StatusCompleted, "")
		completed++
	}

	q.report(Progress{
		Message: fmt.Sprintf("downloaded %d chapter(s), %d failed", completed, failed),
	})
	return nil
}

func (q *Queue) next() *Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return nil
	}
	task := q.pending[0]
	q.pending = q.pending[1:]
	return task
}

// setStatus mutates the task under the queue lock; Tasks() snapshots
// concurrently with a running batch.
func (q *Queue) setStatus(task *Task, status Status, message string) {
	q.mu.Lock()
	task.Status = status
	task.Message = message
	q.mu.Unlock()
}

func (q *Queue) downloadChapter(ctx context.Context, task *Task) error {
	q.setStatus(task, StatusDownloading, "")

	src, ok := q.registry.Get(task.SourceID)
	if !ok {
		return Error("source not registered: " + task.SourceID)
	}
	mangaSrc, ok := src.(source.MangaSource)
	if !ok {
		return Error("source has no readable pages: " + task.SourceID)
	}

	pages, err := mangaSrc.Pages(ctx, task.ChapterID)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return Error("no pages for chapter " + task.ChapterID)
	}

	q.report(Progress{
		ChapterID: task.ChapterID,
		Total:     len(pages),
		Message:   fmt.Sprintf("downloading %q", task.ChapterTitle),
	})

	staged, err := q.fetchPages(ctx, src.Info(), task, pages)
	if err != nil {
		return err
	}

	path := archive.ChapterPath(q.directory(), task.MediaTitle, task.ChapterTitle, q.options.Format)

	// stage the container in memory first; the real filesystem only
	// ever sees a complete container
	staging := afero.NewMemMapFs()
	if err := archive.Write(staging, path, staged, q.options.Format, q.options.ModeDir, q.options.ModeFile); err != nil {
		return err
	}
	if err := q.commit(staging, path); err != nil {
		return err
	}

	if _, err := q.library.MarkDownloaded(task.EntryID, task.ChapterID); err != nil {
		return err
	}

	q.mu.Lock()
	task.Path = path
	q.mu.Unlock()

	q.report(Progress{
		ChapterID: task.ChapterID,
		Fetched:   len(pages),
		Total:     len(pages),
		Message:   fmt.Sprintf("downloaded %q", task.ChapterTitle),
	})
	return nil
}

// fetchPages downloads all pages of a chapter with bounded
// parallelism. Any page failure aborts the whole fetch.
func (q *Queue) fetchPages(ctx context.Context, desc source.Descriptor, task *Task, pages []source.Page) ([]archive.PageData, error) {
	fetched := make([]archive.PageData, len(pages))
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(q.options.PageConcurrency)
	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			data, err := q.fetchPage(ctx, desc, page)
			if err != nil {
				return err
			}
			fetched[i] = data

			q.report(Progress{
				ChapterID: task.ChapterID,
				Fetched:   int(done.Add(1)),
				Total:     len(pages),
				Message:   fmt.Sprintf("page %d/%d", i+1, len(pages)),
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return fetched, nil
}

func (q *Queue) fetchPage(ctx context.Context, desc source.Descriptor, page source.Page) (archive.PageData, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, page.URL, nil)
	if err != nil {
		return archive.PageData{}, err
	}

	// most sources reject image requests without their own Referer
	request.Header.Set("Referer", desc.BaseURL)
	request.Header.Set("User-Agent", q.options.UserAgent)
	request.Header.Set("Accept", "image/webp,image/apng,image/*,*/*;q=0.8")

	response, err := q.options.HTTPClient.Do(request)
	if err != nil {
		return archive.PageData{}, &source.FetchError{URL: page.URL, Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return archive.PageData{}, &source.FetchError{URL: page.URL, Err: fmt.Errorf("unexpected http status: %s", response.Status)}
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return archive.PageData{}, &source.FetchError{URL: page.URL, Err: err}
	}

	return archive.PageData{
		Index:     page.Index,
		Extension: pageExtension(page.URL),
		Data:      data,
	}, nil
}

// commit moves the staged container onto the real filesystem.
func (q *Queue) commit(staging afero.Fs, path string) error {
	staged, err := staging.Open(path)
	if err != nil {
		return err
	}
	defer staged.Close()

	fs := q.options.FS
	if err := fs.MkdirAll(filepath.Dir(path), q.options.ModeDir); err != nil {
		return err
	}

	out, err := fs.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, staged)
	return err
}

func (q *Queue) directory() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.options.Directory
}

func (q *Queue) report(progress Progress) {
	if q.options.OnProgress != nil {
		q.options.OnProgress(progress)
	}
}

// pageExtension sniffs the image extension out of the page url,
// defaulting to .jpg when unknown.
func pageExtension(url string) string {
	lowered := strings.ToLower(url)
	switch {
	case strings.Contains(lowered, ".png"):
		return ".png"
	case strings.Contains(lowered, ".webp"):
		return ".webp"
	case strings.Contains(lowered, ".gif"):
		return ".gif"
	default:
		return ".jpg"
	}
}
