package ingest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/veridex/veridex/internal/extract"
	"github.com/veridex/veridex/internal/normalize"
)

// Page is one unit of ingestible text from a file
type Page struct {
	Number int
	Text   string
}

var textExts = map[string]bool{
	".txt": true,
	".md":  true,
	".log": true,
}

var htmlExts = map[string]bool{
	".html": true,
	".htm":  true,
}

// readPages loads a file as a sequence of normalized pages. Unsupported
// extensions return (nil, nil): the file is simply not ingestible.
// Empty pages are dropped.
func readPages(path string) ([]Page, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch {
	case textExts[ext]:
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read text file")
		}
		return onePage(string(raw)), nil

	case htmlExts[ext]:
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read html file")
		}
		text, err := extract.VisibleText(string(raw))
		if err != nil {
			return nil, errors.Wrap(err, "parse html")
		}
		return onePage(text), nil

	default:
		return nil, nil
	}
}

func onePage(raw string) []Page {
	text := normalize.Text(raw)
	if text == "" {
		return nil
	}
	return []Page{{Number: 1, Text: text}}
}
