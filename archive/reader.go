package archive

import (
	"archive/zip"
	"io"
	"sort"

	"github.com/spf13/afero"
)

// Container is an open, random-access chapter container.
//
// Only zip-backed formats (cbz, zip) can be opened for random page
// access; tar and pdf containers are meant for external readers.
type Container struct {
	path   string
	file   afero.File
	reader *zip.Reader
}

// OpenContainer opens the container at path for page lookups.
//
// A missing or unreadable container yields a *ReadError.
func OpenContainer(afs afero.Fs, path string) (*Container, error) {
	stat, err := afs.Stat(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	file, err := afs.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	reader, err := zip.NewReader(file, stat.Size())
	if err != nil {
		file.Close()
		return nil, &ReadError{Path: path, Err: err}
	}

	return &Container{
		path:   path,
		file:   file,
		reader: reader,
	}, nil
}

func (c *Container) Close() error {
	return c.file.Close()
}

// Pages returns the page filenames in reading order.
func (c *Container) Pages() []string {
	names := make([]string, 0, len(c.reader.File))
	for _, f := range c.reader.File {
		names = append(names, f.Name)
	}
	// page names are zero-padded, lexicographic is reading order
	sort.Strings(names)
	return names
}

// Page returns the raw image contents of the named page.
func (c *Container) Page(name string) ([]byte, error) {
	file, err := c.reader.Open(name)
	if err != nil {
		return nil, &ReadError{Path: c.path, Page: name, Err: err}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &ReadError{Path: c.path, Page: name, Err: err}
	}
	return data, nil
}

// PageAt returns the contents of the index-th page in reading order.
func (c *Container) PageAt(index int) ([]byte, error) {
	pages := c.Pages()
	if index < 0 || index >= len(pages) {
		return nil, &ReadError{Path: c.path, Err: Error("page index out of range")}
	}
	return c.Page(pages[index])
}
