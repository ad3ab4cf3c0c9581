package ingestion

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/dnav/internal/types"
)

// MaxFileSize caps the size of a single input document.
const MaxFileSize = 64 << 20

// LoadFile reads a document and splits it into pages. The format follows
// the extension: .json page dumps, .html/.htm, anything else plain text
// with form-feed page breaks. Pages are named after the file's base name.
func LoadFile(path string) ([]types.PageText, *Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, &LoadError{Path: path, Message: "file not found", Cause: err}
		}
		return nil, nil, &LoadError{Path: path, Message: "failed to stat file", Cause: err}
	}
	if info.IsDir() {
		return nil, nil, &LoadError{Path: path, Message: "is a directory"}
	}
	if info.Size() > MaxFileSize {
		return nil, nil, &LoadError{Path: path, Message: "file too large"}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}

	fileName := filepath.Base(path)
	format := FormatForPath(path)
	pages, err := parsePages(content, fileName, format)
	if err != nil {
		return nil, nil, &LoadError{Path: path, Message: "failed to parse " + format, Cause: err}
	}
	return pages, NewMetadata(content, path, fileName, format, len(pages)), nil
}

// FormatForPath maps a file extension to a document format.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".html", ".htm", ".xhtml":
		return FormatHTML
	default:
		return FormatText
	}
}

func parsePages(content []byte, fileName, format string) ([]types.PageText, error) {
	switch format {
	case FormatJSON:
		return LoadJSONPages(content, fileName)
	case FormatHTML:
		return ParseHTMLPages(string(content), fileName)
	default:
		return SplitTextPages(string(content), fileName), nil
	}
}
