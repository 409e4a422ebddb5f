package gogoanime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/luevano/libyomu/logger"
	"github.com/luevano/libyomu/source"
)

var descriptor = source.Descriptor{
	ID:       "gogoanime",
	Name:     "Gogoanime",
	BaseURL:  "https://ajax.gogocdn.net",
	Language: "en",
	Version:  "0.3.0",
}

var _ source.AnimeSource = (*Gogoanime)(nil)

// Gogoanime is a JSON API anime adapter. Unlike the scraping
// sources it decodes structured responses, but it implements the
// exact same contract: the difference never leaves this package.
type Gogoanime struct {
	client *http.Client
	logger *logger.Logger
}

// NewLoader returns the loader for the Gogoanime source.
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
	return &Gogoanime{
		client: l.client,
		logger: logger.NewLogger(),
	}, nil
}

func (g *Gogoanime) String() string {
	return descriptor.Name
}

func (g *Gogoanime) Info() source.Descriptor {
	return descriptor
}

func (g *Gogoanime) SetLogger(l *logger.Logger) {
	if l == nil {
		l = logger.NewLogger()
	}
	g.logger = l
}

type searchResponse struct {
	Data []struct {
		Slug     string `json:"slug"`
		Name     string `json:"name"`
		Poster   string `json:"poster"`
		Released string `json:"released"`
	} `json:"data"`
	HasNextPage bool `json:"has_next_page"`
}

func (g *Gogoanime) Search(ctx context.Context, query string, page int) (source.SearchPage, error) {
	params := url.Values{}
	params.Set("keyword", query)
	params.Set("page", fmt.Sprint(page))

	var res searchResponse
	if err := g.get(ctx, "/site/search?"+params.Encode(), &res); err != nil {
		return source.SearchPage{}, err
	}

	items := make([]source.CatalogItem, 0, len(res.Data))
	for _, item := range res.Data {
		if item.Slug == "" {
			// isolate malformed items, keep the rest of the list
			g.logger.Log("skipping search result without a slug")
			continue
		}
		items = append(items, source.CatalogItem{
			ID:    item.Slug,
			Title: item.Name,
			Cover: item.Poster,
			URL:   "https://gogoanime.tv/category/" + item.Slug,
		})
	}

	g.logger.Log("found %d result(s) for %q", len(items), query)
	return source.SearchPage{Items: items, HasNext: res.HasNextPage}, nil
}

type detailsResponse struct {
	Slug     string   `json:"slug"`
	Name     string   `json:"name"`
	Poster   string   `json:"poster"`
	Synopsis string   `json:"synopsis"`
	Genres   []string `json:"genres"`
	Status   string   `json:"status"`
}

func (g *Gogoanime) Details(ctx context.Context, mediaID string) (source.MediaDetails, error) {
	var res detailsResponse
	if err := g.get(ctx, "/site/anime/"+url.PathEscape(mediaID), &res); err != nil {
		return source.MediaDetails{}, err
	}
	if res.Slug == "" {
		return source.MediaDetails{}, &source.ParseError{
			URL: descriptor.BaseURL + "/site/anime/" + mediaID,
			Err: fmt.Errorf("empty anime payload"),
		}
	}

	return source.MediaDetails{
		ID:          res.Slug,
		Title:       res.Name,
		Cover:       res.Poster,
		Description: res.Synopsis,
		Genres:      res.Genres,
		Status:      parseStatus(res.Status),
	}, nil
}

type episodesResponse struct {
	Episodes []struct {
		ID     string `json:"id"`
		Number string `json:"episode"`
		Title  string `json:"title"`
	} `json:"episodes"`
}

func (g *Gogoanime) Chapters(ctx context.Context, mediaID string) ([]source.Chapter, error) {
	var res episodesResponse
	if err := g.get(ctx, "/ajax/load-list-episode?default_ep=0&id="+url.QueryEscape(mediaID), &res); err != nil {
		return nil, err
	}

	episodes := make([]source.Chapter, len(res.Episodes))
	for i, ep := range res.Episodes {
		title := ep.Title
		if title == "" {
			title = "Episode " + ep.Number
		}
		episodes[i] = source.Chapter{
			ID:     ep.ID,
			Title:  title,
			Number: source.ParseNumber(ep.Number, i),
		}
	}

	source.SortChapters(episodes)
	return episodes, nil
}

type streamsResponse struct {
	Sources []struct {
		File    string `json:"file"`
		Quality string `json:"label"`
	} `json:"sources"`
	Server  string            `json:"server"`
	Headers map[string]string `json:"headers"`
}

func (g *Gogoanime) Streams(ctx context.Context, episodeID, server string) (source.StreamList, error) {
	params := url.Values{}
	params.Set("id", episodeID)
	if server != "" {
		params.Set("server", server)
	}

	var res streamsResponse
	if err := g.get(ctx, "/ajax/episode-sources?"+params.Encode(), &res); err != nil {
		return source.StreamList{}, err
	}
	if len(res.Sources) == 0 {
		return source.StreamList{}, &source.ParseError{
			URL: descriptor.BaseURL + "/ajax/episode-sources",
			Err: fmt.Errorf("no stream sources in payload"),
		}
	}

	list := source.StreamList{Headers: res.Headers}
	for _, s := range res.Sources {
		list.Streams = append(list.Streams, source.Stream{
			URL:     s.File,
			Quality: s.Quality,
			Server:  res.Server,
		})
	}
	return list, nil
}

// get fetches and decodes a JSON endpoint; network and status errors
// are fetch failures, undecodable payloads are parse failures.
func (g *Gogoanime) get(ctx context.Context, path string, v any) error {
	rawURL := descriptor.BaseURL + path

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/json")

	response, err := g.client.Do(request)
	if err != nil {
		return &source.FetchError{URL: rawURL, Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return &source.FetchError{URL: rawURL, Err: fmt.Errorf("unexpected http status: %s", response.Status)}
	}

	if err := json.NewDecoder(response.Body).Decode(v); err != nil {
		return &source.ParseError{URL: rawURL, Err: err}
	}
	return nil
}

func parseStatus(raw string) source.Status {
	switch raw {
	case "Ongoing", "Currently Airing":
		return source.StatusOngoing
	case "Completed", "Finished Airing":
		return source.StatusCompleted
	default:
		return source.StatusUnknown
	}
}
