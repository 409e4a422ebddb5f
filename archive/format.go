package archive

import "fmt"

// Format of the on-disk chapter container.
type Format string

const (
	FormatCBZ Format = "cbz"
	FormatZIP Format = "zip"
	FormatTAR Format = "tar"
	FormatPDF Format = "pdf"
)

// FormatValues returns all valid formats.
func FormatValues() []Format {
	return []Format{
		FormatCBZ,
		FormatZIP,
		FormatTAR,
		FormatPDF,
	}
}

func (f Format) Validate() error {
	switch f {
	case FormatCBZ, FormatZIP, FormatTAR, FormatPDF:
		return nil
	default:
		return fmt.Errorf("unknown archive format %q", string(f))
	}
}

// Extension returns the file extension of the format, dot included.
func (f Format) Extension() string {
	return "." + string(f)
}

func (f Format) String() string {
	return string(f)
}
