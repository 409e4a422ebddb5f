package archive

import (
	"net/url"
	"strings"

	"github.com/spf13/afero"
	"github.com/vincent-petithory/dataurl"
)

// Locator addresses one page inside a container through a synthetic
// url of the form
//
//	archive://local/<url-encoded container path>/<url-encoded page filename>
//
// Standard http(s) urls bypass locator resolution entirely and are
// fetched from the network.
const (
	Scheme      = "archive"
	locatorHost = "local"
)

type Locator struct {
	// Path of the container on disk.
	Path string

	// Page filename inside the container.
	Page string
}

// URL renders the locator as a synthetic archive url.
func (l Locator) URL() string {
	return Scheme + "://" + locatorHost +
		"/" + url.PathEscape(l.Path) +
		"/" + url.PathEscape(l.Page)
}

// IsArchiveURL reports whether raw is an archive-addressed locator.
func IsArchiveURL(raw string) bool {
	return strings.HasPrefix(raw, Scheme+"://")
}

// ParseLocator parses a synthetic archive url back into a Locator.
func ParseLocator(raw string) (Locator, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Locator{}, Error("invalid locator: " + err.Error())
	}
	if u.Scheme != Scheme {
		return Locator{}, Error("invalid locator scheme: " + u.Scheme)
	}

	// the container path and the page name are two escaped segments
	trimmed := strings.TrimPrefix(u.EscapedPath(), "/")
	cut := strings.LastIndex(trimmed, "/")
	if cut <= 0 || cut == len(trimmed)-1 {
		return Locator{}, Error("invalid locator path: " + raw)
	}

	path, err := url.PathUnescape(trimmed[:cut])
	if err != nil {
		return Locator{}, Error("invalid locator path: " + err.Error())
	}
	page, err := url.PathUnescape(trimmed[cut+1:])
	if err != nil {
		return Locator{}, Error("invalid locator page: " + err.Error())
	}

	return Locator{Path: path, Page: page}, nil
}

// Resolve extracts the addressed page from its container and returns
// it as an inline-encoded data url, ready to hand to a renderer
// without any further disk access.
func Resolve(afs afero.Fs, l Locator) (string, error) {
	container, err := OpenContainer(afs, l.Path)
	if err != nil {
		return "", err
	}
	defer container.Close()

	data, err := container.Page(l.Page)
	if err != nil {
		return "", err
	}

	return dataurl.New(data, mimeForPage(l.Page)).String(), nil
}

func mimeForPage(name string) string {
	switch {
	case strings.HasSuffix(name, ".png"):
		return "image/png"
	case strings.HasSuffix(name, ".webp"):
		return "image/webp"
	case strings.HasSuffix(name, ".gif"):
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
