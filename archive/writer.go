package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/spf13/afero"
)

// PageData is a fully fetched page ready to be written into a
// container.
type PageData struct {
	// Index of the page within its chapter, starting at 0.
	Index int

	// Extension of the image, dot included. E.g. .jpg .png
	Extension string

	// Data is the raw image contents.
	Data []byte
}

// pageName is the in-container filename of a page.
//
// Zero-padded so archive readers that sort lexicographically keep
// the reading order.
func pageName(page PageData) string {
	return fmt.Sprintf("%03d%s", page.Index+1, page.Extension)
}

// Write materializes the container for the given pages at path,
// creating parent directories as needed.
//
// Containers are write-once: the file is created from scratch, never
// appended to. Callers wanting all-or-nothing semantics should write
// into a staging filesystem and only then move the result into place.
func Write(afs afero.Fs, path string, pages []PageData, format Format, modeDir, modeFile fs.FileMode) error {
	if len(pages) == 0 {
		return Error("no pages to write")
	}
	if err := format.Validate(); err != nil {
		return err
	}

	if err := afs.MkdirAll(filepath.Dir(path), modeDir); err != nil {
		return err
	}

	file, err := afs.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch format {
	case FormatCBZ, FormatZIP:
		return writeZIP(pages, file)
	case FormatTAR:
		return writeTAR(pages, file, modeFile)
	case FormatPDF:
		return writePDF(pages, file)
	default:
		// format validation was done before
		panic("unreachable")
	}
}

// writeZIP writes pages as an uncompressed zip; images are already
// compressed, so Store is both faster and smaller than Deflate.
func writeZIP(pages []PageData, out io.Writer) error {
	zipWriter := zip.NewWriter(out)
	defer zipWriter.Close()

	for _, page := range pages {
		writer, err := zipWriter.CreateHeader(&zip.FileHeader{
			Name:     pageName(page),
			Method:   zip.Store,
			Modified: time.Now(),
		})
		if err != nil {
			return err
		}

		if _, err = writer.Write(page.Data); err != nil {
			return err
		}
	}

	return nil
}

func writeTAR(pages []PageData, out io.Writer, modeFile fs.FileMode) error {
	tarWriter := tar.NewWriter(out)
	defer tarWriter.Close()

	for _, page := range pages {
		err := tarWriter.WriteHeader(&tar.Header{
			Name:    pageName(page),
			Size:    int64(len(page.Data)),
			Mode:    int64(modeFile),
			ModTime: time.Now(),
		})
		if err != nil {
			return err
		}

		if _, err = tarWriter.Write(page.Data); err != nil {
			return err
		}
	}

	return nil
}

func writePDF(pages []PageData, out io.Writer) error {
	images := make([]io.Reader, len(pages))
	for i, page := range pages {
		images[i] = bytes.NewReader(page.Data)
	}

	return api.ImportImages(nil, out, images, nil, nil)
}
