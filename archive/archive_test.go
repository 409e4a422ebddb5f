package archive

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPages() []PageData {
	return []PageData{
		{Index: 0, Extension: ".jpg", Data: []byte("page one")},
		{Index: 1, Extension: ".png", Data: []byte("page two")},
		{Index: 2, Extension: ".jpg", Data: []byte("page three")},
	}
}

func TestSanitize(t *testing.T) {
	for _, tc := range []struct {
		name     string
		expected string
	}{
		{"One Piece", "One Piece"},
		{`What's "this": a/b\c?`, "What's _this__ a_b_c_"},
		{"  padded  ", "padded"},
		{"<All|Bad*Chars>", "_All_Bad_Chars_"},
	} {
		assert.Equal(t, tc.expected, Sanitize(tc.name))
	}
}

func TestChapterPath_WriterAndReaderAgree(t *testing.T) {
	path := ChapterPath("/downloads", "Re:Zero", "Chapter 10.5", FormatCBZ)
	assert.Equal(t, "/downloads/Re_Zero/Chapter 10.5.cbz", path)

	// deriving the same inputs again must yield the same path,
	// otherwise offline lookups by title would miss
	assert.Equal(t, path, ChapterPath("/downloads", "Re:Zero", "Chapter 10.5", FormatCBZ))
}

func TestWriteAndOpenContainer_Roundtrip(t *testing.T) {
	afs := afero.NewMemMapFs()
	path := ChapterPath("/downloads", "Test Manga", "Chapter 1", FormatCBZ)

	require.NoError(t, Write(afs, path, testPages(), FormatCBZ, 0o755, 0o644))

	container, err := OpenContainer(afs, path)
	require.NoError(t, err)
	defer container.Close()

	assert.Equal(t, []string{"001.jpg", "002.png", "003.jpg"}, container.Pages())

	data, err := container.Page("002.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("page two"), data)

	data, err = container.PageAt(0)
	require.NoError(t, err)
	assert.Equal(t, []byte("page one"), data)
}

func TestWrite_RejectsEmptyChapter(t *testing.T) {
	err := Write(afero.NewMemMapFs(), "/downloads/x.cbz", nil, FormatCBZ, 0o755, 0o644)
	assert.Error(t, err)
}

func TestOpenContainer_MissingIsReadError(t *testing.T) {
	_, err := OpenContainer(afero.NewMemMapFs(), "/downloads/absent.cbz")
	require.Error(t, err)

	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, "/downloads/absent.cbz", readErr.Path)
}

func TestContainer_UnknownPageIsReadError(t *testing.T) {
	afs := afero.NewMemMapFs()
	path := "/downloads/m/c.cbz"
	require.NoError(t, Write(afs, path, testPages(), FormatCBZ, 0o755, 0o644))

	container, err := OpenContainer(afs, path)
	require.NoError(t, err)
	defer container.Close()

	_, err = container.Page("999.jpg")
	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, "999.jpg", readErr.Page)
}

func TestLocator_Roundtrip(t *testing.T) {
	locator := Locator{
		Path: "/downloads/Test Manga/Chapter 1.cbz",
		Page: "001.jpg",
	}

	raw := locator.URL()
	assert.True(t, IsArchiveURL(raw))
	assert.True(t, strings.HasPrefix(raw, "archive://local/"))

	parsed, err := ParseLocator(raw)
	require.NoError(t, err)
	assert.Equal(t, locator, parsed)
}

func TestParseLocator_Invalid(t *testing.T) {
	for _, raw := range []string{
		"https://example.com/001.jpg",
		"archive://local/",
		"archive://local/only-one-segment",
	} {
		_, err := ParseLocator(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestResolve_InlinesPageAsDataURL(t *testing.T) {
	afs := afero.NewMemMapFs()
	path := "/downloads/m/c.cbz"
	require.NoError(t, Write(afs, path, testPages(), FormatCBZ, 0o755, 0o644))

	resolved, err := Resolve(afs, Locator{Path: path, Page: "002.png"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resolved, "data:image/png;base64,"))
}

func TestFormat_Validate(t *testing.T) {
	for _, format := range []Format{FormatCBZ, FormatZIP, FormatTAR, FormatPDF} {
		assert.NoError(t, format.Validate())
	}
	assert.Error(t, Format("rar").Validate())
}
