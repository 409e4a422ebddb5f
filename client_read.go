package libyomu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/luevano/libyomu/archive"
	"github.com/luevano/libyomu/source"
)

// MediaDetails fetches the details for a media, cache-first.
//
// The library entry's cached details (when one exists) satisfy the
// read whenever the refresh fails: the failure is logged, not
// surfaced, and fromCache reports true so the UI can show a
// "using cached data" hint instead of an error. A successful refresh
// overwrites the cache.
func (c *Client) MediaDetails(ctx context.Context, sourceID, mediaID string) (details source.MediaDetails, fromCache bool, err error) {
	entry, inLibrary, err := c.library.FindBySource(sourceID, mediaID)
	if err != nil {
		return source.MediaDetails{}, false, err
	}
	cached := inLibrary && entry.Details != nil

	src, ok := c.registry.Get(sourceID)
	if !ok {
		if cached {
			return *entry.Details, true, nil
		}
		return source.MediaDetails{}, false, Error("source not registered: " + sourceID)
	}

	details, err = src.Details(ctx, mediaID)
	if err != nil {
		if cached {
			c.logger.Log("details refresh for %q failed, using cached data: %s", mediaID, err)
			return *entry.Details, true, nil
		}
		return source.MediaDetails{}, false, err
	}

	if inLibrary {
		if _, err := c.library.SetDetails(entry.ID, details); err != nil {
			c.logger.Log("failed to cache details for %q: %s", mediaID, err)
		}
	}
	return details, false, nil
}

// MediaChapters fetches the chapter (or episode) list for a media,
// cache-first, with the same stale-on-failure semantics as
// MediaDetails. The list is defensively re-sorted ascending no
// matter what the adapter returned.
func (c *Client) MediaChapters(ctx context.Context, sourceID, mediaID string) (chapters []source.Chapter, fromCache bool, err error) {
	entry, inLibrary, err := c.library.FindBySource(sourceID, mediaID)
	if err != nil {
		return nil, false, err
	}
	cached := inLibrary && len(entry.Chapters) > 0

	src, ok := c.registry.Get(sourceID)
	if !ok {
		if cached {
			return entry.Chapters, true, nil
		}
		return nil, false, Error("source not registered: " + sourceID)
	}

	chapters, err = src.Chapters(ctx, mediaID)
	if err != nil {
		if cached {
			c.logger.Log("chapter list refresh for %q failed, using cached data: %s", mediaID, err)
			return entry.Chapters, true, nil
		}
		return nil, false, err
	}

	source.SortChapters(chapters)

	if inLibrary {
		if _, err := c.library.SetChapters(entry.ID, chapters); err != nil {
			c.logger.Log("failed to cache chapter list for %q: %s", mediaID, err)
		}
	}
	return chapters, false, nil
}

// ChapterPages fetches the pages of a chapter from its source.
func (c *Client) ChapterPages(ctx context.Context, sourceID, chapterID string) ([]source.Page, error) {
	src, ok := c.registry.Get(sourceID)
	if !ok {
		return nil, Error("source not registered: " + sourceID)
	}
	mangaSrc, ok := src.(source.MangaSource)
	if !ok {
		return nil, Error("source has no readable pages: " + sourceID)
	}
	return mangaSrc.Pages(ctx, chapterID)
}

// EpisodeStreams fetches the streams of an episode from its source.
func (c *Client) EpisodeStreams(ctx context.Context, sourceID, episodeID, server string) (source.StreamList, error) {
	src, ok := c.registry.Get(sourceID)
	if !ok {
		return source.StreamList{}, Error("source not registered: " + sourceID)
	}
	animeSrc, ok := src.(source.AnimeSource)
	if !ok {
		return source.StreamList{}, Error("source has no streams: " + sourceID)
	}
	return animeSrc.Streams(ctx, episodeID, server)
}

// OfflinePages lists a downloaded chapter's pages as
// archive-addressed locators, derived from the same sanitized title
// strings the writer used.
func (c *Client) OfflinePages(entryID string, chapter source.Chapter) ([]source.Page, error) {
	entry, found, err := c.library.Get(entryID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, Error("entry not found: " + entryID)
	}

	path := archive.ChapterPath(
		c.options.Download.Directory,
		entry.Title,
		chapter.String(),
		c.options.Download.Format,
	)

	container, err := archive.OpenContainer(c.options.FS, path)
	if err != nil {
		return nil, err
	}
	defer container.Close()

	names := container.Pages()
	pages := make([]source.Page, len(names))
	for i, name := range names {
		pages[i] = source.Page{
			Index: i,
			URL:   archive.Locator{Path: path, Page: name}.URL(),
		}
	}
	return pages, nil
}

// PagePayload resolves a page to something a renderer can display:
// archive-addressed pages are extracted from their container and
// inlined as a data url, plain http(s) urls pass through untouched
// for the renderer to fetch directly.
func (c *Client) PagePayload(page source.Page) (string, error) {
	if !archive.IsArchiveURL(page.URL) {
		return page.URL, nil
	}

	locator, err := archive.ParseLocator(page.URL)
	if err != nil {
		return "", err
	}
	return archive.Resolve(c.options.FS, locator)
}

// PageImage fetches the raw image contents of a page, from the
// archive container for offline pages or over the network otherwise.
func (c *Client) PageImage(ctx context.Context, page source.Page) ([]byte, error) {
	if archive.IsArchiveURL(page.URL) {
		locator, err := archive.ParseLocator(page.URL)
		if err != nil {
			return nil, err
		}

		container, err := archive.OpenContainer(c.options.FS, locator.Path)
		if err != nil {
			return nil, err
		}
		defer container.Close()
		return container.Page(locator.Page)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, page.URL, nil)
	if err != nil {
		return nil, err
	}

	response, err := c.options.HTTPClient.Do(request)
	if err != nil {
		return nil, &source.FetchError{URL: page.URL, Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected http status: %s", response.Status)
		return nil, &source.FetchError{URL: page.URL, Err: err}
	}

	return io.ReadAll(response.Body)
}

// IsSourceBroken reports whether err looks like the source changed
// its markup or API shape, as opposed to a network problem; the UI
// wants to suggest "source may be broken" for the former and
// "check your connection" for the latter.
func IsSourceBroken(err error) bool {
	var parseErr *source.ParseError
	return errors.As(err, &parseErr)
}
