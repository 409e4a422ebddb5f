package weebcentral

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/luevano/libyomu/logger"
	"github.com/luevano/libyomu/source"
)

var descriptor = source.Descriptor{
	ID:       "weebcentral",
	Name:     "Weeb Central",
	BaseURL:  "https://weebcentral.com",
	Language: "en",
	Version:  "0.2.1",
	IconURL:  "https://weebcentral.com/favicon.ico",
}

var _ source.MangaSource = (*WeebCentral)(nil)

// WeebCentral is a markup-scraping manga adapter.
//
// The upstream has no API; every call fetches a page and extracts
// structure out of its markup, so parse failures here usually mean
// the site changed, not that the network is down.
type WeebCentral struct {
	client *http.Client
	logger *logger.Logger
}

// NewLoader returns the loader for the Weeb Central source.
//
// A nil client gets a default with a bounded timeout; a hung upstream
// must fail fast instead of blocking the pipeline.
func NewLoader(client *http.Client) source.Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return loader{client: client}
}

type loader struct {
	client *http.Client
}

func (l loader) Info() source.Descriptor {
	return descriptor
}

func (l loader) Load(_ context.Context) (source.Source, error) {
	return &WeebCentral{
		client: l.client,
		logger: logger.NewLogger(),
	}, nil
}

func (w *WeebCentral) String() string {
	return descriptor.Name
}

func (w *WeebCentral) Info() source.Descriptor {
	return descriptor
}

func (w *WeebCentral) SetLogger(l *logger.Logger) {
	if l == nil {
		l = logger.NewLogger()
	}
	w.logger = l
}

func (w *WeebCentral) Search(ctx context.Context, query string, page int) (source.SearchPage, error) {
	params := url.Values{}
	params.Set("text", query)
	params.Set("page", fmt.Sprint(page))

	doc, err := w.document(ctx, descriptor.BaseURL+"/search/data?"+params.Encode())
	if err != nil {
		return source.SearchPage{}, err
	}

	var items []source.CatalogItem
	doc.Find("article.bg-base-300").Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a").First()
		href, ok := link.Attr("href")
		title := strings.TrimSpace(s.Find(".series-title, h2, h3").First().Text())
		if !ok || title == "" {
			// one broken card must not drop the whole result page
			w.logger.Log("skipping malformed search result")
			return
		}

		items = append(items, source.CatalogItem{
			ID:    seriesID(href),
			Title: title,
			Cover: s.Find("img").First().AttrOr("src", ""),
			URL:   absolute(href),
		})
	})

	hasNext := doc.Find(`button[hx-get*="page"]`).Length() > 0
	w.logger.Log("found %d result(s) for %q", len(items), query)

	return source.SearchPage{Items: items, HasNext: hasNext}, nil
}

func (w *WeebCentral) Details(ctx context.Context, mediaID string) (source.MediaDetails, error) {
	doc, err := w.document(ctx, seriesURL(mediaID))
	if err != nil {
		return source.MediaDetails{}, err
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		return source.MediaDetails{}, &source.ParseError{
			URL: seriesURL(mediaID),
			Err: fmt.Errorf("no series title in markup"),
		}
	}

	details := source.MediaDetails{
		ID:          mediaID,
		Title:       title,
		Cover:       doc.Find("section img").First().AttrOr("src", ""),
		Description: strings.TrimSpace(doc.Find("li:contains(Description) p").First().Text()),
		Status:      parseStatus(doc.Find("li:contains(Status) a").First().Text()),
		Author:      strings.TrimSpace(doc.Find("li:contains(Author) a").First().Text()),
	}

	doc.Find("li:contains(Tags) a").Each(func(_ int, s *goquery.Selection) {
		if genre := strings.TrimSpace(s.Text()); genre != "" {
			details.Genres = append(details.Genres, genre)
		}
	})

	return details, nil
}

func (w *WeebCentral) Chapters(ctx context.Context, mediaID string) ([]source.Chapter, error) {
	doc, err := w.document(ctx, seriesURL(mediaID)+"/full-chapter-list")
	if err != nil {
		return nil, err
	}

	links := doc.Find("a[href*='/chapters/']")
	if links.Length() == 0 {
		return nil, &source.ParseError{
			URL: seriesURL(mediaID) + "/full-chapter-list",
			Err: fmt.Errorf("no chapter links in markup"),
		}
	}

	// the site lists newest first
	var chapters []source.Chapter
	links.Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		title := strings.TrimSpace(s.Find("span").First().Text())
		if title == "" {
			title = strings.TrimSpace(s.Text())
		}

		chapters = append(chapters, source.Chapter{
			ID:    chapterID(href),
			Title: title,
		})
	})

	for i, j := 0, len(chapters)-1; i < j; i, j = i+1, j-1 {
		chapters[i], chapters[j] = chapters[j], chapters[i]
	}
	for i := range chapters {
		chapters[i].Number = source.ParseNumber(chapters[i].Title, i)
	}

	return chapters, nil
}

func (w *WeebCentral) Pages(ctx context.Context, chapterID string) ([]source.Page, error) {
	params := url.Values{}
	params.Set("reading_style", "long_strip")

	pageURL := descriptor.BaseURL + "/chapters/" + chapterID + "/images?" + params.Encode()
	doc, err := w.document(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	var pages []source.Page
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok {
			return
		}
		pages = append(pages, source.Page{
			Index: len(pages),
			URL:   src,
		})
	})

	if len(pages) == 0 {
		return nil, &source.ParseError{URL: pageURL, Err: fmt.Errorf("no page images in markup")}
	}
	return pages, nil
}

// document fetches the url and parses it; network and status errors
// are fetch failures, broken markup is a parse failure.
func (w *WeebCentral) document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Referer", descriptor.BaseURL)

	response, err := w.client.Do(request)
	if err != nil {
		return nil, &source.FetchError{URL: rawURL, Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &source.FetchError{URL: rawURL, Err: fmt.Errorf("unexpected http status: %s", response.Status)}
	}

	doc, err := goquery.NewDocumentFromReader(response.Body)
	if err != nil {
		return nil, &source.ParseError{URL: rawURL, Err: err}
	}
	return doc, nil
}

func seriesURL(mediaID string) string {
	return descriptor.BaseURL + "/series/" + mediaID
}

// seriesID extracts the media id out of a /series/{id}/... href.
func seriesID(href string) string {
	return pathSegmentAfter(href, "series")
}

// chapterID extracts the chapter id out of a /chapters/{id} href.
func chapterID(href string) string {
	return pathSegmentAfter(href, "chapters")
}

func pathSegmentAfter(href, segment string) string {
	parts := strings.Split(strings.Trim(href, "/"), "/")
	for i, part := range parts {
		if part == segment && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return href
}

func absolute(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return descriptor.BaseURL + href
}

func parseStatus(raw string) source.Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "ongoing":
		return source.StatusOngoing
	case "complete", "completed", "finished":
		return source.StatusCompleted
	default:
		return source.StatusUnknown
	}
}
