package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gabriel-softon/transfer-dtec-file/internal/ports"
)

// Locator resolves artifact selectors against the local staging tree.
type Locator struct{}

var _ ports.ArtifactLocator = (*Locator)(nil)

// NewLocator builds the filesystem-backed locator.
func NewLocator() *Locator {
	return &Locator{}
}

// Resolve expands a selector glob into concrete artifact paths. Zero
// matches is not an error here; the caller decides what absence means.
func (l *Locator) Resolve(selector string) ([]string, error) {
	items, err := filepath.Glob(selector)
	if err != nil {
		return nil, fmt.Errorf("resolve selector %s: %w", selector, err)
	}
	return items, nil
}

// InspectHTML parses a scraped page and returns its document title.
// An empty title usually means the scrape was truncated or served a
// bot wall instead of the article.
func (l *Locator) InspectHTML(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}

	return strings.TrimSpace(doc.Find("title").First().Text()), nil
}
