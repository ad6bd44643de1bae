package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
)

// Instagram serves post JSON to clients that present a web app id. The
// value is instagram.com's own public web client id.
const instagramAppID = "936619743392459"

var instagramHost = regexp.MustCompile(`(?i)^(?:www\.)?(?:instagram\.com|instagr\.am)$`)

// Meta and inline-JSON patterns for the HTML fallback, in preference
// order. display_url/video_url appear inside the page's embedded state
// with JSON string escaping.
var (
	ogImagePattern    = regexp.MustCompile(`(?i)<meta[^>]+property=["']og:image["'][^>]+content=["']([^"']+)["']`)
	ogImageAltPattern = regexp.MustCompile(`(?i)<meta[^>]+content=["']([^"']+)["'][^>]+property=["']og:image["']`)
	displayURLPattern = regexp.MustCompile(`"display_url"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	videoURLPattern   = regexp.MustCompile(`"video_url"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// IsInstagramURL reports whether the link points at an Instagram post
// rather than a direct image.
func IsInstagramURL(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	return instagramHost.MatchString(u.Host)
}

// The slice of the media JSON we need: every carousel item carries image
// candidates at several widths and, for clips, direct video renditions.
type igPayload struct {
	Items []igMedia `json:"items"`
}

type igMedia struct {
	ImageVersions2 *igImageVersions `json:"image_versions2"`
	VideoVersions  []igVideoVersion `json:"video_versions"`
	CarouselMedia  []igMedia        `json:"carousel_media"`
}

type igImageVersions struct {
	Candidates []igCandidate `json:"candidates"`
}

type igCandidate struct {
	URL   string `json:"url"`
	Width int    `json:"width"`
}

type igVideoVersion struct {
	URL string `json:"url"`
}

func pickBest(candidates []igCandidate) string {
	best := ""
	bestWidth := -1
	for _, c := range candidates {
		if c.URL != "" && c.Width > bestWidth {
			best = c.URL
			bestWidth = c.Width
		}
	}
	return best
}

func (m igMedia) mediaURL() string {
	if len(m.VideoVersions) > 0 && m.VideoVersions[0].URL != "" {
		return m.VideoVersions[0].URL
	}
	if m.ImageVersions2 != nil {
		return pickBest(m.ImageVersions2.Candidates)
	}
	return ""
}

func (p igPayload) mediaURLs() []string {
	var urls []string
	for _, item := range p.Items {
		media := item.CarouselMedia
		if len(media) == 0 {
			media = []igMedia{item}
		}
		for _, m := range media {
			if u := m.mediaURL(); u != "" {
				urls = append(urls, u)
			}
		}
	}
	return urls
}

func (c *Client) instagramGet(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-IG-App-ID", instagramAppID)
	req.Header.Set("Referer", "https://www.instagram.com/")
	req.Header.Set("Accept", "*/*")
	if sessionID := os.Getenv("INSTAGRAM_SESSIONID"); sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: sessionID})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 8<<20))
}

// unescapeJSONString undoes the \uXXXX and \/ escaping Instagram applies
// to URLs embedded in page HTML.
func unescapeJSONString(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err != nil {
		return strings.ReplaceAll(s, `\/`, "/")
	}
	return out
}

func mediaURLsFromHTML(body []byte) []string {
	page := string(body)

	var urls []string
	seen := make(map[string]struct{})
	add := func(raw string) {
		u := unescapeJSONString(raw)
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	for _, m := range videoURLPattern.FindAllStringSubmatch(page, -1) {
		add(m[1])
	}
	for _, m := range displayURLPattern.FindAllStringSubmatch(page, -1) {
		add(m[1])
	}
	if len(urls) > 0 {
		return urls
	}

	if m := ogImagePattern.FindStringSubmatch(page); m != nil {
		add(m[1])
	} else if m := ogImageAltPattern.FindStringSubmatch(page); m != nil {
		add(m[1])
	}
	return urls
}

// InstagramMediaURLs resolves a post link to its direct media URLs, one
// per carousel item. It asks the JSON endpoint first and falls back to
// scraping the post HTML, which survives when the endpoint wants a login.
func (c *Client) InstagramMediaURLs(ctx context.Context, postURL string) ([]string, error) {
	endpoint := strings.TrimRight(postURL, "/") + "/?__a=1&__d=dis"
	if body, err := c.instagramGet(ctx, endpoint); err == nil {
		var payload igPayload
		if err := json.Unmarshal(body, &payload); err == nil {
			if urls := payload.mediaURLs(); len(urls) > 0 {
				return urls, nil
			}
		}
	}

	body, err := c.instagramGet(ctx, postURL)
	if err != nil {
		return nil, fmt.Errorf("fetching post page: %v", err)
	}
	urls := mediaURLsFromHTML(body)
	if len(urls) == 0 {
		return nil, fmt.Errorf("no media found in %s", postURL)
	}
	return urls, nil
}
