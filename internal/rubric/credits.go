package rubric

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

// DefaultMaxImageSize caps how much of an image file is read for EXIF data.
const DefaultMaxImageSize = 20 * 1024 * 1024

// CreditReader extracts photographer credit from image EXIF metadata.
type CreditReader struct {
	maxImageSize int64
}

// NewCreditReader creates a CreditReader with DefaultMaxImageSize.
func NewCreditReader() *CreditReader {
	return &CreditReader{maxImageSize: DefaultMaxImageSize}
}

// Read returns the Artist tag of the image at path, falling back to
// Copyright. An image without EXIF data, or without either tag, yields an
// empty string and no error.
func (r *CreditReader) Read(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Image paths come from the validated document
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, r.maxImageSize))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		return "", nil //nolint:nilerr // No EXIF block means no credit
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return "", nil //nolint:nilerr // Unparseable EXIF carries no usable credit
	}

	var artist, copyright string
	for _, entry := range entries {
		value := strings.TrimSpace(strings.Trim(entry.Formatted, "[]\""))
		if value == "" {
			continue
		}
		switch entry.TagName {
		case "Artist", "XPAuthor":
			if artist == "" {
				artist = value
			}
		case "Copyright":
			if copyright == "" {
				copyright = value
			}
		}
	}

	if artist != "" {
		return artist, nil
	}
	return copyright, nil
}

// LocalImagePath resolves an image source against the directory of the
// document that references it. Remote, protocol-relative and data URLs are
// not local.
func LocalImagePath(docPath, src string) (string, bool) {
	src = strings.TrimSpace(src)
	if src == "" || strings.HasPrefix(src, "//") || strings.HasPrefix(src, "data:") {
		return "", false
	}

	u, err := url.Parse(src)
	if err != nil {
		return "", false
	}
	if u.Scheme != "" && u.Scheme != "file" {
		return "", false
	}

	p := u.Path
	if p == "" {
		return "", false
	}
	if filepath.IsAbs(p) && u.Scheme == "file" {
		return filepath.Clean(p), true
	}
	return filepath.Join(filepath.Dir(docPath), filepath.FromSlash(strings.TrimPrefix(p, "/"))), true
}
