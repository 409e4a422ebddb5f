package myanimelist

import (
	"net/http"
	"time"

	"github.com/luevano/libyomu/logger"
	"github.com/luevano/libyomu/tracker"
)

// Options is the MyAnimeList client configuration.
type Options struct {
	// Kind of media list to operate on.
	Kind tracker.Kind

	// ClientID of the registered MAL API application. Enough for
	// unauthenticated search.
	ClientID string

	// Token is the OAuth access token. Required for list reads and
	// progress writes.
	Token string

	// HTTPClient is the http client used for requests.
	HTTPClient *http.Client

	// Logger to use, a new one is created if nil.
	Logger *logger.Logger
}

// DefaultOptions constructs default Options for an anime list.
func DefaultOptions() Options {
	return Options{
		Kind:       tracker.KindAnime,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}
