package library

import (
	"path/filepath"

	"github.com/luevano/libyomu/logger"
	"github.com/philippgille/gokv"
	"github.com/philippgille/gokv/file"
	"github.com/philippgille/gokv/syncmap"
)

// Options configures the library Store.
type Options struct {
	// Entries is the persisted collection of library entries.
	//
	// Must be non-nil.
	Entries gokv.Store

	// Categories is the persisted collection of library categories.
	//
	// Must be non-nil.
	Categories gokv.Store

	// Logger to use, a new one is created if nil.
	Logger *logger.Logger
}

// DefaultOptions constructs Options backed by in-memory stores.
//
// Useful for tests; real clients want FileOptions.
func DefaultOptions() Options {
	return Options{
		Entries:    syncmap.NewStore(syncmap.DefaultOptions),
		Categories: syncmap.NewStore(syncmap.DefaultOptions),
	}
}

// FileOptions constructs Options persisted as JSON files under dir.
func FileOptions(dir string) (Options, error) {
	entries, err := file.NewStore(file.Options{Directory: filepath.Join(dir, "entries")})
	if err != nil {
		return Options{}, err
	}

	categories, err := file.NewStore(file.Options{Directory: filepath.Join(dir, "categories")})
	if err != nil {
		return Options{}, err
	}

	return Options{
		Entries:    entries,
		Categories: categories,
	}, nil
}
