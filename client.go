package libyomu

import (
	"context"

	"github.com/luevano/libyomu/download"
	"github.com/luevano/libyomu/library"
	"github.com/luevano/libyomu/logger"
	"github.com/luevano/libyomu/source"
	"github.com/luevano/libyomu/tracker"
	"github.com/skratchdot/open-golang/open"
)

// Client is the wrapper around the source registry, library store,
// download queue and sync service.
//
// It's the core of libyomu.
type Client struct {
	registry *source.Registry
	library  *library.Store
	queue    *download.Queue
	syncer   *tracker.Syncer
	options  ClientOptions
	logger   *logger.Logger
}

// NewClient creates a new client from ClientOptions.
//
// Use DefaultClientOptions for defaults. Source loaders are
// registered with per-loader failure isolation.
func NewClient(ctx context.Context, options ClientOptions) (*Client, error) {
	l := logger.NewLogger()

	registry := source.NewRegistry(l)
	registry.Register(ctx, options.Loaders...)

	store, err := library.NewStore(options.Library)
	if err != nil {
		return nil, err
	}

	queue, err := download.NewQueue(registry, store, options.Download, l)
	if err != nil {
		return nil, err
	}

	var syncer *tracker.Syncer
	if options.Tracker != nil {
		syncer, err = tracker.NewSyncer(options.Tracker, options.SecondaryTracker, store, l)
		if err != nil {
			return nil, err
		}
	}

	return &Client{
		registry: registry,
		library:  store,
		queue:    queue,
		syncer:   syncer,
		options:  options,
		logger:   l,
	}, nil
}

func (c *Client) Registry() *source.Registry {
	return c.registry
}

func (c *Client) Library() *library.Store {
	return c.library
}

func (c *Client) Queue() *download.Queue {
	return c.queue
}

func (c *Client) Logger() *logger.Logger {
	return c.logger
}

func (c *Client) Close() error {
	return c.library.Close()
}

// SearchMedia searches the given source.
func (c *Client) SearchMedia(ctx context.Context, sourceID, query string, page int) (source.SearchPage, error) {
	src, ok := c.registry.Get(sourceID)
	if !ok {
		return source.SearchPage{}, Error("source not registered: " + sourceID)
	}
	return src.Search(ctx, query, page)
}

// AddToLibrary fetches the media details and stores a new library
// entry for it, defaulting to the default category.
func (c *Client) AddToLibrary(ctx context.Context, sourceID, mediaID string) (library.Entry, error) {
	details, _, err := c.MediaDetails(ctx, sourceID, mediaID)
	if err != nil {
		return library.Entry{}, err
	}

	entry, err := c.library.Add(library.Entry{
		Title:    details.Title,
		Cover:    details.Cover,
		SourceID: sourceID,
		MediaID:  mediaID,
	})
	if err != nil {
		return library.Entry{}, err
	}

	// opportunistic: the details were just fetched, cache them
	if entry, err = c.library.SetDetails(entry.ID, details); err != nil {
		return library.Entry{}, err
	}
	return entry, nil
}

// Link transitions the library entry for (sourceID, mediaID) into
// the remote id-space and pulls the remote progress for it.
//
// The pull never downgrades on absence: a remote list without the
// media leaves local progress alone.
func (c *Client) Link(ctx context.Context, sourceID, mediaID string, remoteID int) (library.Entry, error) {
	entry, err := c.library.LinkToRemote(sourceID, mediaID, remoteID)
	if err != nil {
		return library.Entry{}, err
	}

	if c.syncer == nil {
		return entry, nil
	}
	return c.syncer.PullOnLink(ctx, entry)
}

// ReadProgress records consumption of a chapter/episode: the local
// progress save always happens first and always sticks, the remote
// push is best-effort on top of it.
//
// Once the threshold is crossed the push runs on a cancel-detached
// context: navigating away from the reading session must not abort
// a push that already fired. Below-threshold calls stay cancellable.
func (c *Client) ReadProgress(ctx context.Context, entryID string, chapter source.Chapter, fraction float64) (tracker.Status, error) {
	entry, found, err := c.library.Get(entryID)
	if err != nil {
		return tracker.StatusNone, err
	}
	if !found {
		return tracker.StatusNone, library.ErrNotFound
	}

	if fraction >= tracker.Threshold && chapter.Number > entry.Progress {
		entry, err = c.library.UpdateProgress(entryID, chapter.Number, 0)
		if err != nil {
			return tracker.StatusNone, err
		}
	}

	if c.syncer == nil {
		return tracker.StatusNone, nil
	}

	if fraction >= tracker.Threshold {
		ctx = context.WithoutCancel(ctx)
	}
	return c.syncer.Push(ctx, entry, chapter.ID, chapter.Number, fraction)
}

// DownloadChapters queues the chapters for the entry and processes
// the batch. Per-chapter failures are terminal on their tasks and
// retained in the queue for manual retry.
func (c *Client) DownloadChapters(ctx context.Context, entryID string, chapters ...source.Chapter) error {
	entry, found, err := c.library.Get(entryID)
	if err != nil {
		return err
	}
	if !found {
		return library.ErrNotFound
	}

	tasks := make([]*download.Task, len(chapters))
	for i, chapter := range chapters {
		tasks[i] = &download.Task{
			SourceID:      entry.SourceID,
			MediaID:       entry.MediaID,
			MediaTitle:    entry.Title,
			ChapterID:     chapter.ID,
			ChapterNumber: chapter.Number,
			ChapterTitle:  chapter.String(),
			EntryID:       entry.ID,
		}
	}

	if err := c.queue.Enqueue(tasks...); err != nil {
		return err
	}
	return c.queue.Process(ctx)
}

// OpenChapter opens a downloaded container with the system default
// application.
func (c *Client) OpenChapter(path string) error {
	c.logger.Log("opening %s with the default app", path)
	return open.Run(path)
}
