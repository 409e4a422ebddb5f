package weebcentral

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/luevano/libyomu/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cannedTransport answers every request with the same HTML body.
type cannedTransport struct {
	body       string
	statusCode int
	err        error

	lastURL string
}

func (c *cannedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.lastURL = req.URL.String()
	if c.err != nil {
		return nil, c.err
	}

	status := c.statusCode
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(bytes.NewReader([]byte(c.body))),
		Request:    req,
	}, nil
}

func newTestSource(t *testing.T, transport *cannedTransport) *WeebCentral {
	t.Helper()

	src, err := NewLoader(&http.Client{Transport: transport}).Load(context.Background())
	require.NoError(t, err)
	return src.(*WeebCentral)
}

func TestNewLoader_DefaultClientHasTimeout(t *testing.T) {
	l := NewLoader(nil).(loader)
	assert.NotZero(t, l.client.Timeout)
}

func TestWeebCentral_Search_SkipsMalformedCard(t *testing.T) {
	transport := &cannedTransport{body: `
		<article class="bg-base-300">
			<a href="/series/abc123/one-piece"><img src="https://img.example.com/op.jpg"></a>
			<h2>One Piece</h2>
		</article>
		<article class="bg-base-300">
			<span>card without a link</span>
		</article>
		<article class="bg-base-300">
			<a href="/series/def456/berserk"></a>
			<h3>Berserk</h3>
		</article>`}
	w := newTestSource(t, transport)

	// one broken card amid good ones never drops the whole page
	page, err := w.Search(context.Background(), "one piece", 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "abc123", page.Items[0].ID)
	assert.Equal(t, "One Piece", page.Items[0].Title)
	assert.Equal(t, "https://img.example.com/op.jpg", page.Items[0].Cover)
	assert.Equal(t, "def456", page.Items[1].ID)
	assert.False(t, page.HasNext)
}

func TestWeebCentral_Search_HasNextPage(t *testing.T) {
	transport := &cannedTransport{body: `
		<article class="bg-base-300">
			<a href="/series/abc123/one-piece"></a>
			<h2>One Piece</h2>
		</article>
		<button hx-get="/search/data?page=2">View More</button>`}
	w := newTestSource(t, transport)

	page, err := w.Search(context.Background(), "one piece", 1)
	require.NoError(t, err)
	assert.True(t, page.HasNext)
}

func TestWeebCentral_Details(t *testing.T) {
	transport := &cannedTransport{body: `
		<section><img src="https://img.example.com/op.jpg"></section>
		<h1>One Piece</h1>
		<ul>
			<li>Description <p>Pirates.</p></li>
			<li>Status <a>Ongoing</a></li>
			<li>Author <a>Eiichiro Oda</a></li>
			<li>Tags <a>Action</a> <a>Adventure</a></li>
		</ul>`}
	w := newTestSource(t, transport)

	details, err := w.Details(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "One Piece", details.Title)
	assert.Equal(t, "Pirates.", details.Description)
	assert.Equal(t, source.StatusOngoing, details.Status)
	assert.Equal(t, "Eiichiro Oda", details.Author)
	assert.Equal(t, []string{"Action", "Adventure"}, details.Genres)
}

func TestWeebCentral_Details_MissingTitleIsParseError(t *testing.T) {
	// a response arrived, but the expected structure is gone: the
	// site changed, not the network
	transport := &cannedTransport{body: `<div>not a series page</div>`}
	w := newTestSource(t, transport)

	_, err := w.Details(context.Background(), "abc123")
	var parseErr *source.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestWeebCentral_NetworkFailureIsFetchError(t *testing.T) {
	transport := &cannedTransport{err: errors.New("connection refused")}
	w := newTestSource(t, transport)

	_, err := w.Details(context.Background(), "abc123")
	var fetchErr *source.FetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestWeebCentral_BadStatusIsFetchError(t *testing.T) {
	transport := &cannedTransport{statusCode: http.StatusInternalServerError}
	w := newTestSource(t, transport)

	_, err := w.Search(context.Background(), "one piece", 1)
	var fetchErr *source.FetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestWeebCentral_Chapters_ReversedAndNumbered(t *testing.T) {
	// the site lists newest first
	transport := &cannedTransport{body: `
		<a href="/chapters/c3"><span>Chapter 3</span></a>
		<a href="/chapters/c2"><span>Chapter 2.5</span></a>
		<a href="/chapters/c1"><span>Special</span></a>`}
	w := newTestSource(t, transport)

	chapters, err := w.Chapters(context.Background(), "abc123")
	require.NoError(t, err)
	require.Len(t, chapters, 3)

	assert.Equal(t, "c1", chapters[0].ID)
	assert.Equal(t, float32(1), chapters[0].Number) // positional fallback
	assert.Equal(t, "c2", chapters[1].ID)
	assert.Equal(t, float32(2.5), chapters[1].Number)
	assert.Equal(t, "c3", chapters[2].ID)
	assert.Equal(t, float32(3), chapters[2].Number)
}

func TestWeebCentral_Chapters_EmptyListIsParseError(t *testing.T) {
	transport := &cannedTransport{body: `<div>no chapters here</div>`}
	w := newTestSource(t, transport)

	_, err := w.Chapters(context.Background(), "abc123")
	var parseErr *source.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestWeebCentral_Pages(t *testing.T) {
	transport := &cannedTransport{body: `
		<img src="https://cdn.example.com/p1.png">
		<img src="https://cdn.example.com/p2.png">`}
	w := newTestSource(t, transport)

	pages, err := w.Pages(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, 0, pages[0].Index)
	assert.Equal(t, "https://cdn.example.com/p1.png", pages[0].URL)
}

func TestWeebCentral_Pages_NoImagesIsParseError(t *testing.T) {
	transport := &cannedTransport{body: `<div>reader offline</div>`}
	w := newTestSource(t, transport)

	_, err := w.Pages(context.Background(), "c1")
	var parseErr *source.ParseError
	require.ErrorAs(t, err, &parseErr)
}
