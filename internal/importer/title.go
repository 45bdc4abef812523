package importer

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

const maxTitleBody = 1 << 20

// TitleFetcher looks up page titles for links added without one.
type TitleFetcher struct {
	client *http.Client
}

func NewTitleFetcher(client *http.Client) *TitleFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &TitleFetcher{client: client}
}

// FetchTitle returns the <title> of the page at url. Non-HTML responses
// yield an empty title and no error.
func (f *TitleFetcher) FetchTitle(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mt, _, _ := mime.ParseMediaType(ct)
		if mt != "text/html" && mt != "application/xhtml+xml" {
			return "", nil
		}
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxTitleBody))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return clampTitle(strings.TrimSpace(findTitle(doc))), nil
}
