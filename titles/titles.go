package titles

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Info is what the enricher extracts for one link.
type Info struct {
	Title   string
	Channel string
}

// Client fetches page metadata. YouTube links go through the oEmbed
// endpoint, which is stable and needs no API key; everything else gets a
// plain GET and an HTML scrape.
type Client struct {
	http      *http.Client
	userAgent string
}

func NewClient() *Client {
	return &Client{
		http: &http.Client{Timeout: 20 * time.Second},
		userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0 Safari/537.36",
	}
}

// Fetch resolves title and channel for a link.
func (c *Client) Fetch(ctx context.Context, link string) (Info, error) {
	if isYouTube(link) {
		info, err := c.fetchOEmbed(ctx, link)
		if err == nil {
			return info, nil
		}
		// oEmbed rejects unlisted and region-locked videos; fall back to
		// scraping the watch page.
	}
	return c.fetchHTML(ctx, link)
}

func isYouTube(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Host)
	return strings.Contains(host, "youtube.com") || host == "youtu.be"
}

func (c *Client) fetchOEmbed(ctx context.Context, link string) (Info, error) {
	endpoint := "https://www.youtube.com/oembed?format=json&url=" + url.QueryEscape(link)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Info{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Info{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Info{}, fmt.Errorf("oembed status %d", resp.StatusCode)
	}

	var payload struct {
		Title      string `json:"title"`
		AuthorName string `json:"author_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Info{}, fmt.Errorf("decoding oembed response: %v", err)
	}
	if payload.Title == "" {
		return Info{}, fmt.Errorf("oembed returned no title")
	}
	return Info{Title: payload.Title, Channel: payload.AuthorName}, nil
}

func (c *Client) fetchHTML(ctx context.Context, link string) (Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return Info{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,ru;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return Info{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Info{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	info, err := ParseHTML(resp.Body)
	if err != nil {
		return Info{}, err
	}
	if info.Title == "" {
		return Info{}, fmt.Errorf("page has no usable title")
	}
	return info, nil
}

// ParseHTML pulls a title and author out of a page, preferring Open Graph
// tags over the bare <title> element.
func ParseHTML(r io.Reader) (Info, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Info{}, fmt.Errorf("parsing html: %v", err)
	}

	var info Info
	if v, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		info.Title = strings.TrimSpace(v)
	}
	if info.Title == "" {
		info.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	if v, ok := doc.Find(`meta[name="author"]`).Attr("content"); ok {
		info.Channel = strings.TrimSpace(v)
	}
	if info.Channel == "" {
		if v, ok := doc.Find(`link[itemprop="name"]`).Attr("content"); ok {
			info.Channel = strings.TrimSpace(v)
		}
	}
	if info.Channel == "" {
		if v, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok {
			info.Channel = strings.TrimSpace(v)
		}
	}
	return info, nil
}
