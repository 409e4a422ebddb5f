package library

import (
	"sync"

	"github.com/luevano/libyomu/logger"
	"github.com/luevano/libyomu/source"
	"github.com/philippgille/gokv"
)

// indexKey holds the list of ids stored in a collection, as gokv
// stores have no key iteration of their own.
const indexKey = "__index"

// Store is the single source of truth for library entries and
// categories. All components read and write progress state through
// it instead of caching their own copies.
//
// Writes to one entry are serialized through a per-id mutex, so a
// delayed earlier update can never overwrite a later one that has
// already been applied.
type Store struct {
	entries    gokv.Store
	categories gokv.Store
	logger     *logger.Logger

	// mu guards the collection indexes and id-space transitions
	// (link re-keys touch two ids at once).
	mu    sync.Mutex
	locks keyedMutex
}

// NewStore constructs a Store and ensures the default category exists.
func NewStore(options Options) (*Store, error) {
	if options.Entries == nil || options.Categories == nil {
		return nil, Error("nil store passed to NewStore")
	}

	l := options.Logger
	if l == nil {
		l = logger.NewLogger()
	}

	s := &Store{
		entries:    options.Entries,
		categories: options.Categories,
		logger:     l,
	}

	var def Category
	found, err := s.categories.Get(DefaultCategoryID, &def)
	if err != nil {
		return nil, err
	}
	if !found {
		err := s.putCategory(Category{ID: DefaultCategoryID, Name: "Default"})
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Store) Close() error {
	if err := s.entries.Close(); err != nil {
		return err
	}
	return s.categories.Close()
}

// Get returns the entry stored under id.
func (s *Store) Get(id string) (Entry, bool, error) {
	var entry Entry
	found, err := s.entries.Get(id, &entry)
	return entry, found, err
}

// FindBySource returns the entry for a media regardless of which
// id-space it currently lives in: the composite id is tried first,
// then the linked entries are scanned.
func (s *Store) FindBySource(sourceID, mediaID string) (Entry, bool, error) {
	entry, found, err := s.Get(ComposeID(sourceID, mediaID))
	if err != nil || found {
		return entry, found, err
	}

	entries, err := s.Entries()
	if err != nil {
		return Entry{}, false, err
	}
	for _, entry := range entries {
		if entry.SourceID == sourceID && entry.MediaID == mediaID {
			return entry, true, nil
		}
	}
	return Entry{}, false, nil
}

// Entries returns all library entries.
func (s *Store) Entries() ([]Entry, error) {
	ids, err := s.index(s.entries)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		entry, found, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		if found {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// Add stores a new entry seeded from seed. The entry id is derived
// from the seed's source and media ids; seeds with a RemoteID use
// the remote id-space directly. Defaults the category membership to
// the default category.
//
// Adding an id that already exists returns the existing entry
// untouched.
func (s *Store) Add(seed Entry) (Entry, error) {
	id := ComposeID(seed.SourceID, seed.MediaID)
	if seed.Linked() {
		id = RemoteKey(seed.RemoteID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, found, err := s.Get(id)
	if err != nil {
		return Entry{}, err
	}
	if found {
		return existing, nil
	}

	seed.ID = id
	if len(seed.CategoryIDs) == 0 {
		seed.CategoryIDs = []string{DefaultCategoryID}
	}

	s.logger.Log("adding %q to library", seed.Title)
	if err := s.putEntryLocked(seed); err != nil {
		return Entry{}, err
	}
	return seed, nil
}

// Remove deletes the entry stored under id. Removing an unknown id
// is a no-op.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.entries.Delete(id); err != nil {
		return err
	}
	return s.indexRemove(s.entries, id)
}

// UpdateProgress merges a progress update into the entry.
//
// Monotonicity is not enforced here, callers decide whether a lower
// number is a legitimate rewind. Download and bookmark state is
// never touched by a progress update.
func (s *Store) UpdateProgress(id string, number float32, total int) (Entry, error) {
	return s.mutate(id, func(e *Entry) {
		e.Progress = number
		if total > 0 {
			e.Total = total
		}
	})
}

// Bookmark toggles the bookmark state of a chapter on the entry.
func (s *Store) Bookmark(id, chapterID string, on bool) (Entry, error) {
	return s.mutate(id, func(e *Entry) {
		if on {
			e.BookmarkedChapterIDs = appendUnique(e.BookmarkedChapterIDs, chapterID)
		} else {
			e.BookmarkedChapterIDs = remove(e.BookmarkedChapterIDs, chapterID)
		}
	})
}

// MarkDownloaded records that the chapter has an offline container.
func (s *Store) MarkDownloaded(id, chapterID string) (Entry, error) {
	return s.mutate(id, func(e *Entry) {
		e.DownloadedChapterIDs = appendUnique(e.DownloadedChapterIDs, chapterID)
	})
}

// SetSecondaryRemoteID records the media's id on the secondary
// tracker, as reported by the primary at link time.
func (s *Store) SetSecondaryRemoteID(id string, secondaryID int) (Entry, error) {
	return s.mutate(id, func(e *Entry) {
		e.SecondaryRemoteID = secondaryID
	})
}

// SetDetails caches the detail record on the entry, refreshing the
// scalar fields that mirror it.
func (s *Store) SetDetails(id string, details source.MediaDetails) (Entry, error) {
	return s.mutate(id, func(e *Entry) {
		e.Details = &details
		if details.Title != "" {
			e.Title = details.Title
		}
		if details.Cover != "" {
			e.Cover = details.Cover
		}
	})
}

// SetChapters caches the chapter list on the entry.
func (s *Store) SetChapters(id string, chapters []source.Chapter) (Entry, error) {
	return s.mutate(id, func(e *Entry) {
		e.Chapters = chapters
		if len(chapters) > 0 && e.Total == 0 {
			e.Total = len(chapters)
		}
	})
}

// SetCategories replaces the entry's category membership. An empty
// set falls back to the default category. All ids must exist.
func (s *Store) SetCategories(id string, categoryIDs []string) (Entry, error) {
	if len(categoryIDs) == 0 {
		categoryIDs = []string{DefaultCategoryID}
	}
	for _, categoryID := range categoryIDs {
		_, found, err := s.Category(categoryID)
		if err != nil {
			return Entry{}, err
		}
		if !found {
			return Entry{}, ErrCategoryNotFound
		}
	}

	return s.mutate(id, func(e *Entry) {
		e.CategoryIDs = categoryIDs
	})
}

// LinkToRemote transitions the entry for (sourceID, mediaID) from
// the composite id-space to the remote id-space, preserving all
// download and bookmark state. The transition is atomic: both ids
// change hands under one lock, and the composite id stops resolving.
//
// If an entry already exists under the remote id the two are merged;
// the remote-linked entry wins on conflicting scalar fields but the
// union of the download/bookmark/category sets is kept. Linking an
// already-linked entry to the same remote id is a no-op.
func (s *Store) LinkToRemote(sourceID, mediaID string, remoteID int) (Entry, error) {
	if remoteID == 0 {
		return Entry{}, Error("remote id must be non-zero")
	}

	oldID := ComposeID(sourceID, mediaID)
	newID := RemoteKey(remoteID)

	s.mu.Lock()
	defer s.mu.Unlock()

	old, oldFound, err := s.Get(oldID)
	if err != nil {
		return Entry{}, err
	}
	linked, linkedFound, err := s.Get(newID)
	if err != nil {
		return Entry{}, err
	}

	switch {
	case !oldFound && !linkedFound:
		return Entry{}, ErrNotFound
	case !oldFound:
		// already linked, nothing to re-key
		return linked, nil
	case !linkedFound:
		old.ID = newID
		old.RemoteID = remoteID
		linked = old
	default:
		linked.RemoteID = remoteID
		linked.SourceID = old.SourceID
		linked.MediaID = old.MediaID
		linked.BookmarkedChapterIDs = mergeUnique(linked.BookmarkedChapterIDs, old.BookmarkedChapterIDs)
		linked.DownloadedChapterIDs = mergeUnique(linked.DownloadedChapterIDs, old.DownloadedChapterIDs)
		linked.CategoryIDs = mergeUnique(linked.CategoryIDs, old.CategoryIDs)
		if linked.SecondaryRemoteID == 0 {
			linked.SecondaryRemoteID = old.SecondaryRemoteID
		}
		if linked.Details == nil {
			linked.Details = old.Details
		}
		if len(linked.Chapters) == 0 {
			linked.Chapters = old.Chapters
		}
	}

	s.logger.Log("linking %q to remote id %d", linked.Title, remoteID)

	if err := s.putEntryLocked(linked); err != nil {
		return Entry{}, err
	}
	if err := s.entries.Delete(oldID); err != nil {
		return Entry{}, err
	}
	if err := s.indexRemove(s.entries, oldID); err != nil {
		return Entry{}, err
	}

	return linked, nil
}

// Categories returns all categories, the default one included.
func (s *Store) Categories() ([]Category, error) {
	ids, err := s.index(s.categories)
	if err != nil {
		return nil, err
	}

	categories := make([]Category, 0, len(ids))
	for _, id := range ids {
		category, found, err := s.Category(id)
		if err != nil {
			return nil, err
		}
		if found {
			categories = append(categories, category)
		}
	}
	return categories, nil
}

// Category returns the category stored under id.
func (s *Store) Category(id string) (Category, bool, error) {
	var category Category
	found, err := s.categories.Get(id, &category)
	return category, found, err
}

// AddCategory creates or renames a category.
func (s *Store) AddCategory(id, name string) (Category, error) {
	if id == "" {
		return Category{}, Error("category id must be non-empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	category := Category{ID: id, Name: name}
	if err := s.putCategory(category); err != nil {
		return Category{}, err
	}
	return category, nil
}

// RemoveCategory deletes a category and reassigns its entries to the
// default category. Deleting the default category is rejected.
func (s *Store) RemoveCategory(id string) error {
	if id == DefaultCategoryID {
		return ErrDefaultCategory
	}

	_, found, err := s.Category(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrCategoryNotFound
	}

	entries, err := s.Entries()
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !contains(entry.CategoryIDs, id) {
			continue
		}
		_, err := s.mutate(entry.ID, func(e *Entry) {
			e.CategoryIDs = remove(e.CategoryIDs, id)
			if len(e.CategoryIDs) == 0 {
				e.CategoryIDs = []string{DefaultCategoryID}
			}
		})
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.categories.Delete(id); err != nil {
		return err
	}
	return s.indexRemove(s.categories, id)
}

// mutate applies fn to the entry under its per-id lock, so
// read-modify-write cycles on one entry never interleave.
func (s *Store) mutate(id string, fn func(*Entry)) (Entry, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	entry, found, err := s.Get(id)
	if err != nil {
		return Entry{}, err
	}
	if !found {
		return Entry{}, ErrNotFound
	}

	fn(&entry)
	entry.ID = id

	if err := s.entries.Set(id, entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// putEntryLocked stores the entry and indexes its id. Callers hold s.mu.
func (s *Store) putEntryLocked(entry Entry) error {
	if err := s.entries.Set(entry.ID, entry); err != nil {
		return err
	}
	return s.indexAdd(s.entries, entry.ID)
}

// putCategory stores the category and indexes its id.
func (s *Store) putCategory(category Category) error {
	if err := s.categories.Set(category.ID, category); err != nil {
		return err
	}
	return s.indexAdd(s.categories, category.ID)
}

func (s *Store) index(store gokv.Store) ([]string, error) {
	var ids []string
	_, err := store.Get(indexKey, &ids)
	return ids, err
}

func (s *Store) indexAdd(store gokv.Store, id string) error {
	ids, err := s.index(store)
	if err != nil {
		return err
	}
	return store.Set(indexKey, appendUnique(ids, id))
}

func (s *Store) indexRemove(store gokv.Store, id string) error {
	ids, err := s.index(store)
	if err != nil {
		return err
	}
	return store.Set(indexKey, remove(ids, id))
}

// keyedMutex hands out one mutex per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = map[string]*sync.Mutex{}
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
