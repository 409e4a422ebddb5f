package source

import (
	"context"
	"fmt"

	"github.com/luevano/libyomu/logger"
)

// Descriptor is the passport of a source adapter.
//
// It is immutable once the adapter is registered.
type Descriptor struct {
	// ID is the unique identifier of the source.
	ID string `json:"id"`

	// Name is the non-empty display name of the source.
	Name string `json:"name"`

	// BaseURL is the root url of the upstream site or API.
	//
	// It is also used as the Referer for page image requests,
	// as most sites reject hotlinked image fetches.
	BaseURL string `json:"base_url"`

	// Language is the content language code, e.g. "en".
	Language string `json:"language"`

	// Version is a semantic version of the adapter.
	//
	// "v" prefix is not permitted.
	// E.g. "0.1.0" is valid, but "v0.1.0" is not.
	//
	// See https://semver.org/
	Version string `json:"version"`

	// IconURL of the source. May be empty.
	IconURL string `json:"icon_url"`
}

// SearchPage is a single page of search results.
type SearchPage struct {
	Items   []CatalogItem `json:"items"`
	HasNext bool          `json:"has_next"`
}

// Source exposes the minimal capability set every adapter must
// implement, independent of its implementation strategy (markup
// scraping vs. JSON API).
//
// Manga sources additionally implement MangaSource, anime sources
// AnimeSource. Differences between scraping and API adapters live
// entirely inside each implementation and never leak past this
// contract.
type Source interface {
	fmt.Stringer

	// Info information about the source.
	Info() Descriptor

	// SetLogger sets logger to use for this source.
	SetLogger(*logger.Logger)

	// Search for media with the given query.
	//
	// Pagination starts at 1.
	Search(ctx context.Context, query string, page int) (SearchPage, error)

	// Details fetches the full details for a media id.
	Details(ctx context.Context, mediaID string) (MediaDetails, error)

	// Chapters returns all chapters (or episodes) of the media,
	// sorted ascending by number as the adapter's canonical order.
	//
	// Callers re-sort defensively with SortChapters.
	Chapters(ctx context.Context, mediaID string) ([]Chapter, error)
}

// MangaSource is a Source that serves readable page images.
type MangaSource interface {
	Source

	// Pages returns the pages of the chapter in reading order.
	Pages(ctx context.Context, chapterID string) ([]Page, error)
}

// AnimeSource is a Source that serves watchable streams.
type AnimeSource interface {
	Source

	// Streams returns the available streams for the episode.
	//
	// server may be empty, in which case the adapter picks its default.
	Streams(ctx context.Context, episodeID, server string) (StreamList, error)
}

// Loader provides a source. The distinction from Source itself
// exists so that registering an adapter stays cheap: Info must not
// make any external requests, Load may.
type Loader interface {
	// Info about the source to load.
	Info() Descriptor

	// Load and initialize the source adapter.
	Load(ctx context.Context) (Source, error)
}
