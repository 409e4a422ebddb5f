package source

import "fmt"

// Date is a simple date holder.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

func (d Date) String() string {
	return fmt.Sprintf("%d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Status is the publication status of a media.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusUnknown   Status = "unknown"
)

// CatalogItem is a single search/browse result.
//
// It is ephemeral and never persisted; use Details to get the full
// MediaDetails for an item.
type CatalogItem struct {
	// ID of the media.
	//
	// It must be unique within its source. It will be part
	// of the URL in most cases.
	ID string `json:"id"`

	// Title of the media.
	Title string `json:"title"`

	// Cover is the cover image url.
	Cover string `json:"cover"`

	// ReleaseDate of the media, if the source exposes one.
	ReleaseDate Date `json:"release_date"`

	// URL leading to the media web page.
	URL string `json:"url"`
}

// MediaDetails is the full per-visit detail record for a media.
//
// It is fetched on demand and cached opportunistically into a
// library entry when one exists.
type MediaDetails struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Cover       string   `json:"cover"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	Status      Status   `json:"status"`

	// Author of the media. Not all sources expose one.
	Author string `json:"author"`
}

// Chapter is a single chapter of a manga or episode of an anime.
type Chapter struct {
	// ID of the chapter. Source-scoped, not globally unique.
	ID string `json:"id"`

	// Number of the chapter.
	//
	// Float type allows for extra chapters that usually have
	// numbering like the following: 10.5, 101.1, etc..
	Number float32 `json:"number"`

	// Title is the title of the chapter.
	Title string `json:"title"`

	// Scanlator is the group that did the scan/translation,
	// or the hosting server name for anime episodes.
	Scanlator string `json:"scanlator"`

	// Upload is the chapter publication date.
	Upload Date `json:"upload"`
}

func (c Chapter) String() string {
	if c.Title != "" {
		return c.Title
	}
	return fmt.Sprintf("Chapter %s", FormatNumber(c.Number))
}

// Page is a single readable page of a chapter.
type Page struct {
	// Index of the page within its chapter, starting at 0.
	Index int `json:"index"`

	// URL is either a direct http(s) image url or an
	// archive-addressed locator for offline reading.
	URL string `json:"url"`
}

// Stream is a single watchable stream of an episode.
type Stream struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
	Server  string `json:"server"`
}

// StreamList is the result of resolving an episode's streams,
// with the headers required to play them.
type StreamList struct {
	Streams []Stream          `json:"streams"`
	Headers map[string]string `json:"headers"`
}
