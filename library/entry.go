package library

import (
	"strconv"

	"github.com/luevano/libyomu/source"
)

// DefaultCategoryID is the id of the built-in category.
//
// It always exists, cannot be deleted and is the fallback home of
// every entry that belongs to no other category.
const DefaultCategoryID = "default"

// Category groups library entries.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Entry is the durable local record of a tracked manga or anime.
//
// Its id lives in one of two spaces: the composite
// "sourceID:mediaID" while unlinked, or the remote tracker id once
// linked. An entry transitions id-space exactly once, at link time;
// Store.LinkToRemote re-keys all of its state atomically.
type Entry struct {
	// ID of the entry. Either ComposeID(SourceID, MediaID) or
	// strconv.Itoa(RemoteID) when linked.
	ID string `json:"id"`

	Title string `json:"title"`
	Cover string `json:"cover"`

	// SourceID of the adapter this entry was added from.
	SourceID string `json:"source_id"`

	// MediaID of the media within its source.
	MediaID string `json:"media_id"`

	// RemoteID is the remote tracker id, 0 while unlinked.
	RemoteID int `json:"remote_id"`

	// SecondaryRemoteID is the media's id on the secondary tracker,
	// learned from the primary at link time. Ids are tracker-scoped,
	// so the secondary is never pushed to without one. 0 when unknown.
	SecondaryRemoteID int `json:"secondary_remote_id"`

	// Progress is the number of the last chapter/episode consumed.
	Progress float32 `json:"progress"`

	// Total chapters/episodes, 0 when unknown.
	Total int `json:"total"`

	CategoryIDs          []string `json:"category_ids"`
	BookmarkedChapterIDs []string `json:"bookmarked_chapter_ids"`
	DownloadedChapterIDs []string `json:"downloaded_chapter_ids"`

	// Details is the opportunistically cached detail record.
	Details *source.MediaDetails `json:"details,omitempty"`

	// Chapters is the opportunistically cached chapter list.
	Chapters []source.Chapter `json:"chapters,omitempty"`
}

// ComposeID builds the unlinked id-space key for a media.
func ComposeID(sourceID, mediaID string) string {
	return sourceID + ":" + mediaID
}

// RemoteKey renders a remote tracker id as an entry id.
func RemoteKey(remoteID int) string {
	return strconv.Itoa(remoteID)
}

// Linked reports whether the entry is linked to a remote tracker.
func (e Entry) Linked() bool {
	return e.RemoteID != 0
}

// Bookmarked reports whether the chapter id is bookmarked.
func (e Entry) Bookmarked(chapterID string) bool {
	return contains(e.BookmarkedChapterIDs, chapterID)
}

// Downloaded reports whether the chapter id has an offline container.
func (e Entry) Downloaded(chapterID string) bool {
	return contains(e.DownloadedChapterIDs, chapterID)
}

func contains(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

// appendUnique appends id to ids if not already present.
func appendUnique(ids []string, id string) []string {
	if contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

// mergeUnique unions b into a, preserving a's order.
func mergeUnique(a, b []string) []string {
	for _, id := range b {
		a = appendUnique(a, id)
	}
	return a
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
