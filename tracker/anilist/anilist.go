package anilist

import (
	"context"

	"github.com/luevano/libyomu/logger"
	"github.com/luevano/libyomu/tracker"
)

const apiURL = "https://graphql.anilist.co"

var info = tracker.ProviderInfo{
	ID:      "al",
	Name:    "Anilist",
	Website: "https://anilist.co/",
}

var _ tracker.Provider = (*Anilist)(nil)

// Anilist is the Anilist tracking client.
type Anilist struct {
	options Options
	logger  *logger.Logger
}

// NewAnilist constructs a new Anilist client.
func NewAnilist(options Options) (*Anilist, error) {
	if err := options.Kind.Validate(); err != nil {
		return nil, Error(err.Error())
	}

	l := options.Logger
	if l == nil {
		l = logger.NewLogger()
	}

	return &Anilist{
		options: options,
		logger:  l,
	}, nil
}

func (p *Anilist) String() string {
	return info.Name
}

// Info information about Provider.
func (p *Anilist) Info() tracker.ProviderInfo {
	return info
}

// SetLogger sets logger to use for this provider.
//
// Setting a nil logger will create a new one.
func (p *Anilist) SetLogger(_logger *logger.Logger) {
	if _logger != nil {
		*p.logger = *_logger
	} else {
		p.logger = logger.NewLogger()
	}
}

// Authenticated reports whether an access token is set.
func (p *Anilist) Authenticated() bool {
	return p.options.Token != ""
}

// Search for media with the given title.
//
// Results are cached per query when a cache store is configured.
func (p *Anilist) Search(ctx context.Context, query string) ([]tracker.RemoteEntry, error) {
	if cached, found, err := p.cachedSearch(query); err != nil {
		return nil, Error(err.Error())
	} else if found {
		return cached, nil
	}

	body := apiRequestBody{
		Query: querySearchByName,
		Variables: map[string]any{
			"query": query,
			"type":  p.mediaType(),
		},
	}
	data, err := sendRequest[pageData](ctx, p, body)
	if err != nil {
		return nil, err
	}

	entries := make([]tracker.RemoteEntry, len(data.Page.Media))
	for i, media := range data.Page.Media {
		entries[i] = media.toRemoteEntry(p.options.Kind)
	}

	p.logger.Log("found %d media on Anilist for %q", len(entries), query)

	if err := p.cacheSearch(query, entries); err != nil {
		p.logger.Log("failed to cache search %q: %s", query, err)
	}
	return entries, nil
}

// Entry fetches the current user's list entry for the media id.
//
// found reports list membership only: when the media exists but is
// not on the user's list, the returned entry still carries the
// media's identity fields (title, totals, MyAnimeList id).
func (p *Anilist) Entry(ctx context.Context, id int) (tracker.RemoteEntry, bool, error) {
	if id == 0 {
		return tracker.RemoteEntry{}, false, Error("Anilist ID not valid (0)")
	}

	body := apiRequestBody{
		Query: queryMediaWithListEntry,
		Variables: map[string]any{
			"id": id,
		},
	}
	data, err := sendRequest[mediaData](ctx, p, body)
	if err != nil {
		return tracker.RemoteEntry{}, false, err
	}

	media := data.Media
	if media == nil {
		return tracker.RemoteEntry{}, false, nil
	}

	entry := media.toRemoteEntry(p.options.Kind)
	if media.MediaListEntry == nil {
		return entry, false, nil
	}

	entry.Progress = media.MediaListEntry.Progress
	return entry, true, nil
}

// SetProgress sets the consumed chapter/episode count for the media
// id on the authenticated user's list.
func (p *Anilist) SetProgress(ctx context.Context, id, progress int) error {
	if id == 0 {
		return Error("Anilist ID not valid (0)")
	}
	if !p.Authenticated() {
		return AuthError("not authorized")
	}

	body := apiRequestBody{
		Query: mutationSaveProgress,
		Variables: map[string]any{
			"id":       id,
			"progress": progress,
		},
	}
	_, err := sendRequest[saveEntryData](ctx, p, body)
	if err != nil {
		return Error(err.Error())
	}

	return nil
}

func (p *Anilist) mediaType() string {
	if p.options.Kind == tracker.KindManga {
		return "MANGA"
	}
	return "ANIME"
}
