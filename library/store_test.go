package library

import (
	"testing"

	"github.com/luevano/libyomu/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func addTestEntry(t *testing.T, store *Store) Entry {
	t.Helper()

	entry, err := store.Add(Entry{
		Title:    "One Piece",
		SourceID: "gogoanime",
		MediaID:  "one-piece",
	})
	require.NoError(t, err)
	return entry
}

func TestStore_Add_UsesCompositeID(t *testing.T) {
	store := newTestStore(t)

	entry := addTestEntry(t, store)
	assert.Equal(t, "gogoanime:one-piece", entry.ID)
	assert.Equal(t, []string{DefaultCategoryID}, entry.CategoryIDs)
}

func TestStore_Add_ExistingIDReturnsUntouched(t *testing.T) {
	store := newTestStore(t)

	first := addTestEntry(t, store)
	_, err := store.UpdateProgress(first.ID, 12, 0)
	require.NoError(t, err)

	again, err := store.Add(Entry{
		Title:    "One Piece (different metadata)",
		SourceID: "gogoanime",
		MediaID:  "one-piece",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "One Piece", again.Title)
	assert.Equal(t, float32(12), again.Progress)
}

func TestStore_LinkToRemote_ReKeysPreservingState(t *testing.T) {
	store := newTestStore(t)

	entry := addTestEntry(t, store)
	for _, chapterID := range []string{"ch-1", "ch-2", "ch-3"} {
		_, err := store.Bookmark(entry.ID, chapterID, true)
		require.NoError(t, err)
	}
	_, err := store.MarkDownloaded(entry.ID, "ch-1")
	require.NoError(t, err)

	linked, err := store.LinkToRemote("gogoanime", "one-piece", 42)
	require.NoError(t, err)

	assert.Equal(t, "42", linked.ID)
	assert.Equal(t, 42, linked.RemoteID)
	assert.Equal(t, "gogoanime", linked.SourceID)
	assert.Equal(t, "one-piece", linked.MediaID)
	assert.ElementsMatch(t, []string{"ch-1", "ch-2", "ch-3"}, linked.BookmarkedChapterIDs)
	assert.Equal(t, []string{"ch-1"}, linked.DownloadedChapterIDs)

	// the composite id no longer resolves
	_, found, err := store.Get("gogoanime:one-piece")
	require.NoError(t, err)
	assert.False(t, found)

	// but the source lookup still does
	bySource, found, err := store.FindBySource("gogoanime", "one-piece")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "42", bySource.ID)

	entries, err := store.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_LinkToRemote_Idempotent(t *testing.T) {
	store := newTestStore(t)

	addTestEntry(t, store)
	first, err := store.LinkToRemote("gogoanime", "one-piece", 42)
	require.NoError(t, err)

	again, err := store.LinkToRemote("gogoanime", "one-piece", 42)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	entries, err := store.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_LinkToRemote_MergesWithExistingRemoteEntry(t *testing.T) {
	store := newTestStore(t)

	// an entry already living in the remote id-space, e.g. added on
	// another device and synced down
	remote, err := store.Add(Entry{
		Title:    "One Piece (remote)",
		SourceID: "other-source",
		MediaID:  "op",
		RemoteID: 42,
		Progress: 100,
	})
	require.NoError(t, err)
	_, err = store.Bookmark(remote.ID, "remote-ch", true)
	require.NoError(t, err)

	local := addTestEntry(t, store)
	_, err = store.Bookmark(local.ID, "local-ch", true)
	require.NoError(t, err)
	_, err = store.MarkDownloaded(local.ID, "local-ch")
	require.NoError(t, err)

	merged, err := store.LinkToRemote("gogoanime", "one-piece", 42)
	require.NoError(t, err)

	// the linked entry wins on scalars, the sets are unioned
	assert.Equal(t, "42", merged.ID)
	assert.Equal(t, "One Piece (remote)", merged.Title)
	assert.Equal(t, float32(100), merged.Progress)
	assert.Equal(t, "gogoanime", merged.SourceID)
	assert.Equal(t, "one-piece", merged.MediaID)
	assert.ElementsMatch(t, []string{"remote-ch", "local-ch"}, merged.BookmarkedChapterIDs)
	assert.Equal(t, []string{"local-ch"}, merged.DownloadedChapterIDs)

	entries, err := store.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_LinkToRemote_UnknownEntry(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LinkToRemote("gogoanime", "nothing", 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SetSecondaryRemoteID(t *testing.T) {
	store := newTestStore(t)

	entry := addTestEntry(t, store)
	updated, err := store.SetSecondaryRemoteID(entry.ID, 13)
	require.NoError(t, err)
	assert.Equal(t, 13, updated.SecondaryRemoteID)
}

func TestStore_LinkToRemote_MergeKeepsSecondaryRemoteID(t *testing.T) {
	store := newTestStore(t)

	local := addTestEntry(t, store)
	_, err := store.SetSecondaryRemoteID(local.ID, 13)
	require.NoError(t, err)

	_, err = store.Add(Entry{
		Title:    "One Piece (remote)",
		SourceID: "other-source",
		MediaID:  "op",
		RemoteID: 42,
	})
	require.NoError(t, err)

	merged, err := store.LinkToRemote("gogoanime", "one-piece", 42)
	require.NoError(t, err)
	assert.Equal(t, 13, merged.SecondaryRemoteID)
}

func TestStore_UpdateProgress_NeverTouchesSets(t *testing.T) {
	store := newTestStore(t)

	entry := addTestEntry(t, store)
	_, err := store.Bookmark(entry.ID, "ch-5", true)
	require.NoError(t, err)
	_, err = store.MarkDownloaded(entry.ID, "ch-5")
	require.NoError(t, err)

	updated, err := store.UpdateProgress(entry.ID, 5, 1000)
	require.NoError(t, err)

	assert.Equal(t, float32(5), updated.Progress)
	assert.Equal(t, 1000, updated.Total)
	assert.Equal(t, []string{"ch-5"}, updated.BookmarkedChapterIDs)
	assert.Equal(t, []string{"ch-5"}, updated.DownloadedChapterIDs)
}

func TestStore_SetDetails_RefreshesScalars(t *testing.T) {
	store := newTestStore(t)

	entry := addTestEntry(t, store)
	updated, err := store.SetDetails(entry.ID, source.MediaDetails{
		Title: "One Piece (refreshed)",
		Cover: "https://example.com/cover.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, "One Piece (refreshed)", updated.Title)
	assert.Equal(t, "https://example.com/cover.jpg", updated.Cover)
	require.NotNil(t, updated.Details)
}

func TestStore_DefaultCategory_AlwaysExists(t *testing.T) {
	store := newTestStore(t)

	category, found, err := store.Category(DefaultCategoryID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Default", category.Name)

	err = store.RemoveCategory(DefaultCategoryID)
	assert.ErrorIs(t, err, ErrDefaultCategory)
}

func TestStore_RemoveCategory_ReassignsEntries(t *testing.T) {
	store := newTestStore(t)

	_, err := store.AddCategory("reading", "Reading")
	require.NoError(t, err)

	entry := addTestEntry(t, store)
	_, err = store.SetCategories(entry.ID, []string{"reading"})
	require.NoError(t, err)

	require.NoError(t, store.RemoveCategory("reading"))

	got, found, err := store.Get(entry.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{DefaultCategoryID}, got.CategoryIDs)
}

func TestStore_SetCategories_RejectsUnknownCategory(t *testing.T) {
	store := newTestStore(t)

	entry := addTestEntry(t, store)
	_, err := store.SetCategories(entry.ID, []string{"nope"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
