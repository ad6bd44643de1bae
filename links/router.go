package links

import (
	"net/url"
	"regexp"
	"strings"

	"stagehand/sheet"
)

// Output worksheet names, one per link category.
const (
	SheetYoutube = "1_Youtube"
	SheetImages  = "2_Images"
	SheetFootage = "3_Footages"
	SheetOther   = "4_Other"
)

// Headers is the first row of every routed CSV.
var Headers = []string{"Cell", "URL"}

var (
	urlPattern = regexp.MustCompile(`(?i)\bhttps?://[^\s<>"')\]]+`)
	imageExt   = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp|svg|bmp|tif|tiff)$`)
)

// FindURLs extracts http(s) URLs from free text, trimming the punctuation
// that tends to cling to pasted links and dropping duplicates.
func FindURLs(text string) []string {
	if text == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var urls []string
	for _, m := range urlPattern.FindAllString(text, -1) {
		candidate := strings.TrimRight(strings.TrimSpace(m), "),].")
		candidate = strings.ReplaceAll(candidate, "\u200b", "")
		if candidate == "" {
			continue
		}
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		urls = append(urls, candidate)
	}
	return urls
}

// Category says which worksheet a link belongs to.
type Category int

const (
	CategoryVideo Category = iota
	CategoryImage
	CategoryFootage
	CategoryOther
)

// Categorize sorts a link: YouTube and Instagram go to the video
// downloader, direct image links to the image step, MotionArray to the
// stock footage step, anything else to the leftovers sheet.
func Categorize(rawURL string) Category {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return CategoryOther
	}
	host := strings.ToLower(u.Host)
	path := strings.ToLower(u.Path)

	switch {
	case strings.Contains(host, "youtube.com"), host == "youtu.be",
		strings.Contains(host, "instagram.com"), host == "instagr.am":
		return CategoryVideo
	case imageExt.MatchString(path):
		return CategoryImage
	case strings.Contains(host, "motionarray.com"):
		return CategoryFootage
	default:
		return CategoryOther
	}
}

// SheetFor maps a category to its output worksheet name.
func SheetFor(cat Category) string {
	switch cat {
	case CategoryVideo:
		return SheetYoutube
	case CategoryImage:
		return SheetImages
	case CategoryFootage:
		return SheetFootage
	default:
		return SheetOther
	}
}

// Route scans a whole source grid and builds the four routed grids, each
// starting with the Cell/URL header. The Cell column points back at the A1
// reference of the source cell the link came from.
func Route(values [][]string) map[string][][]string {
	out := map[string][][]string{
		SheetYoutube: {append([]string(nil), Headers...)},
		SheetImages:  {append([]string(nil), Headers...)},
		SheetFootage: {append([]string(nil), Headers...)},
		SheetOther:   {append([]string(nil), Headers...)},
	}

	for r, row := range values {
		for c, cell := range row {
			for _, link := range FindURLs(cell) {
				name := SheetFor(Categorize(link))
				out[name] = append(out[name], []string{sheet.A1(r+1, c+1), link})
			}
		}
	}
	return out
}
