package tracker

import (
	"context"
	"math"
	"sync"

	"github.com/luevano/libyomu/library"
	"github.com/luevano/libyomu/logger"
)

// Threshold is the consumed fraction of a chapter/episode at which
// remote progress is pushed.
const Threshold = 0.8

// tripleKey identifies one chapter of one media of one source for
// duplicate-push suppression.
type tripleKey struct {
	sourceID  string
	mediaID   string
	chapterID string
}

// Syncer reconciles local progress with the remote tracking account:
// pull-on-link and push-on-threshold.
//
// The suppression set is session-scoped only, it is not persisted.
// This is deliberate: it is a politeness measure against duplicate
// remote writes, not a correctness guarantee. After a restart the
// threshold push re-arms and the same chapter may push again, which
// the remote API treats as an idempotent progress set.
type Syncer struct {
	primary   Provider
	secondary Provider
	library   *library.Store
	logger    *logger.Logger

	mu     sync.Mutex
	synced map[tripleKey]struct{}
}

// NewSyncer constructs a Syncer. primary and the library store must
// be non-nil; secondary is optional and best-effort.
func NewSyncer(primary, secondary Provider, store *library.Store, l *logger.Logger) (*Syncer, error) {
	if primary == nil {
		return nil, Error("nil primary provider passed to NewSyncer")
	}
	if store == nil {
		return nil, Error("nil library store passed to NewSyncer")
	}
	if l == nil {
		l = logger.NewLogger()
	}

	return &Syncer{
		primary:   primary,
		secondary: secondary,
		library:   store,
		logger:    l,
	}, nil
}

// Push reports reading/watching progress for one chapter of the
// entry and pushes it to the remote account the first time fraction
// crosses Threshold within this session.
//
// Exactly-once per session: the (source, media, chapter) triple is
// marked before the remote call, so neither later samples nor a
// failed push retry within the session. A failed push returns
// StatusError together with a *PushError; local state is untouched
// by any outcome here.
func (s *Syncer) Push(ctx context.Context, entry library.Entry, chapterID string, number float32, fraction float64) (Status, error) {
	if !entry.Linked() {
		return StatusNone, nil
	}

	key := tripleKey{
		sourceID:  entry.SourceID,
		mediaID:   entry.MediaID,
		chapterID: chapterID,
	}

	s.mu.Lock()
	if _, done := s.synced[key]; done {
		s.mu.Unlock()
		return StatusSynced, nil
	}
	if fraction < Threshold {
		s.mu.Unlock()
		return StatusTracking, nil
	}
	if s.synced == nil {
		s.synced = map[tripleKey]struct{}{}
	}
	s.synced[key] = struct{}{}
	s.mu.Unlock()

	progress := int(math.Trunc(float64(number)))
	s.logger.Log("pushing progress %d for remote id %d to %q", progress, entry.RemoteID, s.primary.Info().Name)

	err := s.primary.SetProgress(ctx, entry.RemoteID, progress)
	if err != nil {
		return StatusError, &PushError{Provider: s.primary.Info().Name, Err: err}
	}

	s.pushSecondary(ctx, entry, progress)

	return StatusSynced, nil
}

// pushSecondary mirrors the push to the secondary provider.
// Best-effort and independent: failures are logged and never affect
// the primary outcome or its suppression state.
//
// Tracker ids are provider-scoped: the entry's primary RemoteID means
// nothing to the secondary tracker, so the push uses the secondary id
// learned at link time and is skipped when the entry has none.
func (s *Syncer) pushSecondary(ctx context.Context, entry library.Entry, progress int) {
	if s.secondary == nil {
		return
	}
	if entry.SecondaryRemoteID == 0 {
		s.logger.Log("no %q id for %q, skipping secondary push", s.secondary.Info().Name, entry.Title)
		return
	}

	err := s.secondary.SetProgress(ctx, entry.SecondaryRemoteID, progress)
	if err != nil {
		s.logger.Log("secondary push to %q failed: %s", s.secondary.Info().Name, err)
	}
}

// PullOnLink fetches the remote list entry for a freshly linked
// entry and overwrites local progress with it, but only if the
// remote entry is present: absence never downgrades local progress.
//
// The secondary tracker id reported by the primary is recorded on
// the entry either way; it keys the best-effort secondary pushes.
func (s *Syncer) PullOnLink(ctx context.Context, entry library.Entry) (library.Entry, error) {
	if !entry.Linked() {
		return entry, Error("entry is not linked")
	}

	remote, found, err := s.primary.Entry(ctx, entry.RemoteID)
	if err != nil {
		return entry, err
	}

	if remote.SecondaryID != 0 && remote.SecondaryID != entry.SecondaryRemoteID {
		entry, err = s.library.SetSecondaryRemoteID(entry.ID, remote.SecondaryID)
		if err != nil {
			return entry, err
		}
	}

	if !found {
		s.logger.Log("no remote list entry for id %d, keeping local progress", entry.RemoteID)
		return entry, nil
	}

	s.logger.Log("pulled remote progress %d for %q", remote.Progress, entry.Title)
	return s.library.UpdateProgress(entry.ID, float32(remote.Progress), remote.Total)
}
