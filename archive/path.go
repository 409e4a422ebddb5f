package archive

import (
	"path/filepath"
	"strings"
)

const invalidPathChars = `<>:"/\|?*`

// Sanitize makes a title usable as a single path segment by
// replacing characters that are invalid on common filesystems
// with underscores and trimming surrounding whitespace.
//
// Writers and readers must derive paths through the exact same
// function, otherwise offline lookups by title would miss.
func Sanitize(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidPathChars, r) {
			return '_'
		}
		return r
	}, name)

	return strings.TrimSpace(sanitized)
}

// ChapterPath derives the container path for a chapter:
//
//	{root}/{sanitize(mediaTitle)}/{sanitize(chapterTitle)}.{ext}
//
// Note that the derivation is keyed by sanitized title strings, not
// by entry ids: two media whose titles sanitize identically collide.
// Keying by entry id would fix that but breaks compatibility with
// containers already on disk, so the title scheme stays for now.
func ChapterPath(root, mediaTitle, chapterTitle string, format Format) string {
	return filepath.Join(
		root,
		Sanitize(mediaTitle),
		Sanitize(chapterTitle)+format.Extension(),
	)
}

// MediaDir derives the per-media directory under the download root.
func MediaDir(root, mediaTitle string) string {
	return filepath.Join(root, Sanitize(mediaTitle))
}
