package tracker

import (
	"context"
	"fmt"

	"github.com/luevano/libyomu/logger"
)

// ProviderInfo is the passport of a remote tracking provider.
type ProviderInfo struct {
	// ID is the unique identifier of the provider, e.g. "al", "mal".
	ID string `json:"id"`

	// Name is the non-empty name of the provider.
	Name string `json:"name"`

	// Website of the provider. May be empty.
	Website string `json:"website"`
}

// RemoteEntry is the remote account's list entry for a media.
type RemoteEntry struct {
	// ID of the media on the remote tracker.
	ID int `json:"id"`

	// SecondaryID is the media's id on the companion tracker, when
	// the provider exposes one (Anilist carries the MyAnimeList id).
	// Tracker ids are provider-scoped, they never transfer as-is.
	// 0 when unknown.
	SecondaryID int `json:"secondary_id"`

	Title string `json:"title"`

	// Progress is the number of chapters read / episodes watched
	// according to the remote list.
	Progress int `json:"progress"`

	// Total chapters/episodes, 0 when the tracker doesn't know.
	Total int `json:"total"`
}

// Provider exposes the remote tracking operations the sync service
// needs. Implementations wrap one tracking account (Anilist,
// MyAnimeList, ...).
type Provider interface {
	fmt.Stringer

	// Info information about the provider.
	Info() ProviderInfo

	// SetLogger sets logger to use for this provider.
	SetLogger(*logger.Logger)

	// Search for media with the given title.
	Search(ctx context.Context, query string) ([]RemoteEntry, error)

	// Entry fetches the current user's list entry for the media id.
	//
	// found is false when the media is not on the user's list.
	Entry(ctx context.Context, id int) (entry RemoteEntry, found bool, err error)

	// SetProgress updates the consumed chapter/episode count for
	// the media id on the user's list.
	SetProgress(ctx context.Context, id, progress int) error
}

// Status of a progress push for the UI to render.
type Status string

const (
	// StatusNone: the entry is not linked to a remote id, pushing
	// is a no-op.
	StatusNone Status = "null"

	// StatusTracking: linked, but consumption is still below the
	// push threshold.
	StatusTracking Status = "tracking"

	// StatusSynced: the push for this chapter fired (now or earlier
	// in the session).
	StatusSynced Status = "synced"

	// StatusError: the remote update failed after the threshold was
	// crossed. Local progress is saved regardless.
	StatusError Status = "error"
)

// Error is a general error for tracker operations.
type Error string

func (e Error) Error() string {
	return "tracker: " + string(e)
}

// PushError is a failed remote progress update. Local state is the
// source of truth, so a PushError never rolls anything back; it is
// surfaced so the UI can show the sync state as errored.
type PushError struct {
	Provider string
	Err      error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("tracker push (%s): %s", e.Provider, e.Err)
}

func (e *PushError) Unwrap() error {
	return e.Err
}
