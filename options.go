package libyomu

import (
	"net/http"
	"time"

	"github.com/luevano/libyomu/download"
	"github.com/luevano/libyomu/library"
	"github.com/luevano/libyomu/source"
	"github.com/luevano/libyomu/tracker"
	"github.com/spf13/afero"
)

// ClientOptions is options that client would use during its runtime.
type ClientOptions struct {
	// Loaders for the sources to register. A broken loader is
	// logged and skipped, it never fails client construction.
	Loaders []source.Loader

	// Library configures the persisted library store.
	Library library.Options

	// Download configures the download queue.
	Download download.Options

	// Tracker is the primary remote tracking provider. Optional;
	// without one, progress pushes report tracker.StatusNone.
	Tracker tracker.Provider

	// SecondaryTracker mirrors progress pushes best-effort.
	// Optional.
	SecondaryTracker tracker.Provider

	// HTTPClient is the http client used for direct page fetches.
	HTTPClient *http.Client

	// FS is the file system abstraction used to read offline
	// containers. Should match Download.FS.
	FS afero.Fs
}

// DefaultClientOptions constructs default ClientOptions.
//
// The library store is in-memory by default; use library.FileOptions
// for a persisted one.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Library:    library.DefaultOptions(),
		Download:   download.DefaultOptions(),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		FS:         afero.NewOsFs(),
	}
}
