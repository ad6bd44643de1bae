// Package overlay renders transparent name plates for source attribution:
// one PNG per channel whose clips appear in the edit.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"stagehand/match"
	"stagehand/sheet"
)

// The plate template and geometry the editing project expects: a fixed
// 50px strip at least 621px wide, grown to fit longer channel names, text
// right-aligned so plates line up whatever their width.
const (
	textTemplate = "Источник: Youtube-канал «%s»"

	plateMinWidth = 621
	plateHeight   = 50
	platePaddingX = 8
	plateFontSize = 36
)

var (
	plateTextColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	plateShadowColor = color.RGBA{A: 140}
)

// Column headers that mark the channel column in an enriched links sheet.
var channelTokens = map[string]struct{}{
	"channel": {},
	"author":  {},
	"канал":   {},
	"автор":   {},
}

// FindChannelColumn locates the channel column by its header, falling back
// to column D where the title enricher writes it.
func FindChannelColumn(values [][]string) int {
	if len(values) > 0 && sheet.IsHeaderRow(values[0]) {
		for i, cell := range values[0] {
			if _, ok := channelTokens[strings.ToLower(strings.TrimSpace(cell))]; ok {
				return i + 1
			}
		}
	}
	return 4
}

// CleanChannelName strips one pair of wrapping quotes so the template's
// own guillemets are not doubled up.
func CleanChannelName(value string) string {
	name := strings.TrimSpace(value)
	if len([]rune(name)) < 2 {
		return name
	}
	pairs := [][2]string{{"«", "»"}, {`"`, `"`}, {"“", "”"}, {"'", "'"}}
	for _, p := range pairs {
		if strings.HasPrefix(name, p[0]) && strings.HasSuffix(name, p[1]) {
			return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(name, p[0]), p[1]))
		}
	}
	return name
}

// Names collects unique cleaned channel names in first-seen order.
func Names(values [][]string, column int) []string {
	seen := make(map[string]struct{})
	var names []string
	for i := range values {
		if i == 0 && sheet.IsHeaderRow(values[i]) {
			continue
		}
		name := CleanChannelName(sheet.Cell(values, i+1, column))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// RenderName draws one attribution plate: the template text in bold white
// with a 1px shadow on a transparent strip, padded out to the measured
// text width when the name does not fit the minimum.
func RenderName(channel string) (*image.RGBA, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %v", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: plateFontSize, DPI: 72})
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf(textTemplate, CleanChannelName(channel))
	textWidth := font.MeasureString(face, text).Ceil()

	width := plateMinWidth
	if grown := textWidth + 2*platePaddingX; grown > width {
		width = grown
	}

	img := image.NewRGBA(image.Rect(0, 0, width, plateHeight))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	x := width - platePaddingX - textWidth
	baseline := (plateHeight-ascent-descent)/2 + ascent

	shadow := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(plateShadowColor),
		Face: face,
		Dot:  fixed.P(x+1, baseline+1),
	}
	shadow.DrawString(text)

	fill := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(plateTextColor),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	fill.DrawString(text)

	return img, nil
}

// PlateName is the file name for one channel's overlay.
func PlateName(channel string) string {
	safe := match.SanitizeName(CleanChannelName(channel))
	if safe == "" {
		safe = "channel"
	}
	return safe + ".png"
}

// Stats summarizes one overlay run.
type Stats struct {
	Rendered int
	Skipped  int
	Errors   []string
}

// Options tunes one overlay run.
type Options struct {
	Column   int // 1-based channel column, 0 = detect from the header
	Progress func(format string, args ...any)
}

// Run renders a plate for every channel in the grid. Existing plates are
// kept so hand-tuned replacements survive a re-run.
func Run(values [][]string, destDir string, opts Options) Stats {
	if opts.Progress == nil {
		opts.Progress = func(string, ...any) {}
	}
	var stats Stats

	if err := os.MkdirAll(destDir, 0755); err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("creating %s: %v", destDir, err))
		return stats
	}

	column := opts.Column
	if column == 0 {
		column = FindChannelColumn(values)
	}

	for _, name := range Names(values, column) {
		dest := filepath.Join(destDir, PlateName(name))
		if _, err := os.Stat(dest); err == nil {
			stats.Skipped++
			opts.Progress("[SKIP] %s\n", filepath.Base(dest))
			continue
		}

		img, err := RenderName(name)
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		f, err := os.Create(dest)
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			os.Remove(dest)
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: encoding: %v", name, err))
			continue
		}
		f.Close()
		stats.Rendered++
		opts.Progress("[OK] %s\n", filepath.Base(dest))
	}
	return stats
}
