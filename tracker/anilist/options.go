package anilist

import (
	"net/http"
	"time"

	"github.com/luevano/libyomu/logger"
	"github.com/luevano/libyomu/tracker"
	"github.com/philippgille/gokv"
	"github.com/philippgille/gokv/syncmap"
)

// Options is the Anilist client configuration.
type Options struct {
	// Kind of media list to operate on.
	Kind tracker.Kind

	// Token is the OAuth access token. Search works without one,
	// list reads and progress writes require it.
	Token string

	// HTTPClient is the http client used for requests.
	HTTPClient *http.Client

	// SearchCache caches search results per query. Optional.
	SearchCache gokv.Store

	// Logger to use, a new one is created if nil.
	Logger *logger.Logger
}

// DefaultOptions constructs default Options for an anime list.
func DefaultOptions() Options {
	return Options{
		Kind:        tracker.KindAnime,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
		SearchCache: syncmap.NewStore(syncmap.DefaultOptions),
	}
}
