package myanimelist

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/luevano/libyomu/logger"
	"github.com/luevano/libyomu/tracker"
)

const apiURL = "https://api.myanimelist.net/v2"

var info = tracker.ProviderInfo{
	ID:      "mal",
	Name:    "MyAnimeList",
	Website: "https://myanimelist.net/",
}

var _ tracker.Provider = (*MyAnimeList)(nil)

// MyAnimeList is the MyAnimeList tracking client.
type MyAnimeList struct {
	options Options
	logger  *logger.Logger
}

// NewMAL constructs a new MyAnimeList client.
func NewMAL(options Options) (*MyAnimeList, error) {
	if err := options.Kind.Validate(); err != nil {
		return nil, Error(err.Error())
	}
	if options.ClientID == "" && options.Token == "" {
		return nil, Error("either ClientID or Token must be set")
	}

	l := options.Logger
	if l == nil {
		l = logger.NewLogger()
	}

	return &MyAnimeList{
		options: options,
		logger:  l,
	}, nil
}

func (p *MyAnimeList) String() string {
	return info.Name
}

// Info information about Provider.
func (p *MyAnimeList) Info() tracker.ProviderInfo {
	return info
}

// SetLogger sets logger to use for this provider.
//
// Setting a nil logger will create a new one.
func (p *MyAnimeList) SetLogger(_logger *logger.Logger) {
	if _logger != nil {
		*p.logger = *_logger
	} else {
		p.logger = logger.NewLogger()
	}
}

// Authenticated reports whether an access token is set.
func (p *MyAnimeList) Authenticated() bool {
	return p.options.Token != ""
}

// Search for media with the given title.
func (p *MyAnimeList) Search(ctx context.Context, query string) ([]tracker.RemoteEntry, error) {
	p.logger.Log("searching %s with query %q on MyAnimeList", p.options.Kind, query)

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", "30")
	params.Set("fields", nodeFields)

	var res searchResponse
	err := p.request(ctx, http.MethodGet, string(p.options.Kind), params, nil, &res)
	if err != nil {
		return nil, err
	}

	entries := make([]tracker.RemoteEntry, len(res.Data))
	for i, node := range res.Data {
		entries[i] = node.Node.toRemoteEntry(p.options.Kind)
	}
	return entries, nil
}

// Entry fetches the current user's list entry for the media id.
func (p *MyAnimeList) Entry(ctx context.Context, id int) (tracker.RemoteEntry, bool, error) {
	params := url.Values{}
	params.Set("fields", nodeFields+",my_list_status")

	var node mediaNode
	path := fmt.Sprintf("%s/%d", p.options.Kind, id)
	err := p.request(ctx, http.MethodGet, path, params, nil, &node)
	if err != nil {
		return tracker.RemoteEntry{}, false, err
	}
	if node.MyListStatus == nil {
		return tracker.RemoteEntry{}, false, nil
	}

	entry := node.toRemoteEntry(p.options.Kind)
	entry.Progress = node.MyListStatus.progress(p.options.Kind)
	return entry, true, nil
}

// SetProgress updates the consumed chapter/episode count for the
// media id on the user's list.
//
// MAL splits the progress field by media kind: anime lists track
// num_watched_episodes, manga lists num_chapters_read.
func (p *MyAnimeList) SetProgress(ctx context.Context, id, progress int) error {
	if !p.Authenticated() {
		return Error("not authorized")
	}

	form := url.Values{}
	if p.options.Kind == tracker.KindManga {
		form.Set("num_chapters_read", strconv.Itoa(progress))
	} else {
		form.Set("num_watched_episodes", strconv.Itoa(progress))
	}
	form.Set("status", p.watchStatus())

	path := fmt.Sprintf("%s/%d/my_list_status", p.options.Kind, id)
	var res listStatus
	return p.request(ctx, http.MethodPatch, path, nil, strings.NewReader(form.Encode()), &res)
}

func (p *MyAnimeList) watchStatus() string {
	if p.options.Kind == tracker.KindManga {
		return "reading"
	}
	return "watching"
}
