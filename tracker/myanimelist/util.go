package myanimelist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/luevano/libyomu/tracker"
)

var nodeFields = strings.Join([]string{
	"id",
	"title",
	"main_picture",
	"num_episodes",
	"num_chapters",
	"status",
}, ",")

type searchResponse struct {
	Data   []searchNode `json:"data"`
	Paging struct {
		Previous string `json:"previous"`
		Next     string `json:"next"`
	} `json:"paging"`
}

type searchNode struct {
	Node mediaNode `json:"node"`
}

type mediaNode struct {
	ID           int         `json:"id"`
	Title        string      `json:"title"`
	NumEpisodes  int         `json:"num_episodes"`
	NumChapters  int         `json:"num_chapters"`
	MyListStatus *listStatus `json:"my_list_status"`
}

type listStatus struct {
	Status             string `json:"status"`
	NumEpisodesWatched int    `json:"num_episodes_watched"`
	NumChaptersRead    int    `json:"num_chapters_read"`
}

func (l *listStatus) progress(kind tracker.Kind) int {
	if kind == tracker.KindManga {
		return l.NumChaptersRead
	}
	return l.NumEpisodesWatched
}

func (n mediaNode) toRemoteEntry(kind tracker.Kind) tracker.RemoteEntry {
	total := n.NumEpisodes
	if kind == tracker.KindManga {
		total = n.NumChapters
	}
	return tracker.RemoteEntry{
		ID:    n.ID,
		Title: n.Title,
		Total: total,
	}
}

func (p *MyAnimeList) request(
	ctx context.Context,
	method string,
	path string,
	params url.Values,
	body io.Reader,
	res any,
) error {
	u, _ := url.Parse(apiURL)
	u = u.JoinPath(path)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}

	if p.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+p.options.Token)
	} else {
		req.Header.Set("X-MAL-CLIENT-ID", p.options.ClientID)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := p.options.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// a missing media behaves like an empty response
		return Error("media not found")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected http status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(&res)
}
