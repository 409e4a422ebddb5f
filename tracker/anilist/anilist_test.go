package anilist

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/luevano/libyomu/tracker"
	"github.com/philippgille/gokv/syncmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cannedTransport answers every request with the same JSON body and
// records how many requests it saw.
type cannedTransport struct {
	body     string
	requests int
}

func (c *cannedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.requests++
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader([]byte(c.body))),
		Request:    req,
	}, nil
}

func newTestAnilist(t *testing.T, transport *cannedTransport, configure func(*Options)) *Anilist {
	t.Helper()

	options := DefaultOptions()
	options.Kind = tracker.KindManga
	options.HTTPClient = &http.Client{Transport: transport}
	if configure != nil {
		configure(&options)
	}

	p, err := NewAnilist(options)
	require.NoError(t, err)
	return p
}

func TestAnilist_Search(t *testing.T) {
	transport := &cannedTransport{body: `{
		"data": {
			"Page": {
				"media": [
					{"id": 30013, "idMal": 13, "title": {"english": "One Piece"}, "chapters": 1100},
					{"id": 31, "title": {"romaji": "Berserk"}}
				]
			}
		}
	}`}
	p := newTestAnilist(t, transport, nil)

	entries, err := p.Search(context.Background(), "one piece")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 30013, entries[0].ID)
	assert.Equal(t, 13, entries[0].SecondaryID)
	assert.Equal(t, "One Piece", entries[0].Title)
	assert.Equal(t, 1100, entries[0].Total)
	assert.Equal(t, "Berserk", entries[1].Title)
	assert.Zero(t, entries[1].SecondaryID)
}

func TestAnilist_Search_UsesCache(t *testing.T) {
	transport := &cannedTransport{body: `{
		"data": {"Page": {"media": [{"id": 1, "title": {"romaji": "X"}}]}}
	}`}
	p := newTestAnilist(t, transport, func(o *Options) {
		o.SearchCache = syncmap.NewStore(syncmap.DefaultOptions)
	})

	_, err := p.Search(context.Background(), "x")
	require.NoError(t, err)
	_, err = p.Search(context.Background(), "x")
	require.NoError(t, err)

	assert.Equal(t, 1, transport.requests)
}

func TestAnilist_Entry_NotOnList(t *testing.T) {
	// a media that exists but has no list entry for the user still
	// yields its identity fields, only found is false
	transport := &cannedTransport{body: `{
		"data": {"Media": {"id": 30013, "idMal": 13, "title": {"english": "One Piece"}, "mediaListEntry": null}}
	}`}
	p := newTestAnilist(t, transport, nil)

	entry, found, err := p.Entry(context.Background(), 30013)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 30013, entry.ID)
	assert.Equal(t, 13, entry.SecondaryID)
}

func TestAnilist_Entry_OnList(t *testing.T) {
	transport := &cannedTransport{body: `{
		"data": {"Media": {
			"id": 30013,
			"idMal": 13,
			"title": {"english": "One Piece"},
			"chapters": 1100,
			"mediaListEntry": {"progress": 250, "status": "CURRENT"}
		}}
	}`}
	p := newTestAnilist(t, transport, nil)

	entry, found, err := p.Entry(context.Background(), 30013)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 250, entry.Progress)
	assert.Equal(t, 1100, entry.Total)
	assert.Equal(t, 13, entry.SecondaryID)
}

func TestAnilist_SetProgress_RequiresAuth(t *testing.T) {
	transport := &cannedTransport{body: `{"data": {}}`}
	p := newTestAnilist(t, transport, nil)

	err := p.SetProgress(context.Background(), 30013, 10)
	var authErr AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Zero(t, transport.requests)
}

func TestAnilist_SetProgress_Authenticated(t *testing.T) {
	transport := &cannedTransport{body: `{
		"data": {"SaveMediaListEntry": {"id": 123}}
	}`}
	p := newTestAnilist(t, transport, func(o *Options) {
		o.Token = "token"
	})

	require.NoError(t, p.SetProgress(context.Background(), 30013, 10))
	assert.Equal(t, 1, transport.requests)
}

func TestNewAnilist_RejectsInvalidKind(t *testing.T) {
	options := DefaultOptions()
	options.Kind = tracker.Kind("movies")

	_, err := NewAnilist(options)
	assert.Error(t, err)
}
