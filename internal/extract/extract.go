// Package extract fetches a webpage and pulls out its readable text.
// It is a thin collaborator for the dispatch core: block-level elements
// are concatenated as paragraphs so the chunker sees the same paragraph
// boundaries a reader would.
package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the page fetch deadline.
const DefaultTimeout = 20 * time.Second

// maxBodySize bounds how much of a page is read.
const maxBodySize = 5 << 20

// blockSelector lists the elements whose text is extracted, in document
// order.
const blockSelector = "p, h1, h2, h3, h4, h5, h6, li, pre, blockquote, td"

// Result is the extracted page content.
type Result struct {
	// Title is the page title, possibly empty.
	Title string

	// Text is the readable text with blank lines between blocks.
	Text string
}

// Fetcher retrieves and extracts webpage text.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher with the default timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Fetch downloads the page and extracts its text.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "pagebrief/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	return FromHTML(io.LimitReader(resp.Body, maxBodySize))
}

// FromHTML extracts title and readable text from an HTML document.
func FromHTML(r io.Reader) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())

	var blocks []string
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		// Skip containers whose text is already covered by a nested
		// block element.
		if sel.Find(blockSelector).Length() > 0 {
			return
		}
		if text := collapseSpace(sel.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})

	text := strings.Join(blocks, "\n\n")
	if text == "" {
		text = collapseSpace(doc.Find("body").Text())
	}

	return &Result{
		Title: title,
		Text:  text,
	}, nil
}

// collapseSpace normalises runs of whitespace to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
