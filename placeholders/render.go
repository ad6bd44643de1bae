package placeholders

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	cardBackground = color.RGBA{R: 28, G: 32, B: 38, A: 255}
	cardText       = color.RGBA{R: 232, G: 232, B: 232, A: 255}
	cardAccent     = color.RGBA{R: 255, G: 196, B: 0, A: 255}
)

// Card is one placeholder still: the sheet row it stands for and the text
// the editor should read on the timeline.
type Card struct {
	Number int
	Text   string
}

// faces are built once; the Go fonts cover Latin and Cyrillic, which is all
// the sheets contain.
type faces struct {
	number font.Face
	body   font.Face
}

func newFaces() (*faces, error) {
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing bold font: %v", err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing regular font: %v", err)
	}
	numberFace, err := opentype.NewFace(bold, &opentype.FaceOptions{Size: 140, DPI: 72})
	if err != nil {
		return nil, err
	}
	bodyFace, err := opentype.NewFace(regular, &opentype.FaceOptions{Size: 52, DPI: 72})
	if err != nil {
		return nil, err
	}
	return &faces{number: numberFace, body: bodyFace}, nil
}

// wrapText breaks text into lines no wider than maxWidth. A single word
// wider than the limit gets its own line rather than being cut.
func wrapText(face font.Face, text string, maxWidth fixed.Int26_6) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		joined := current + " " + word
		if font.MeasureString(face, joined) > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = joined
	}
	return append(lines, current)
}

// RenderCard draws one placeholder frame: the row number big in the top
// left, the narration text wrapped underneath.
func RenderCard(card Card) (*image.RGBA, error) {
	f, err := newFaces()
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, frameWidth, frameHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(cardBackground), image.Point{}, draw.Src)

	margin := 120
	drawer := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(cardAccent),
		Face: f.number,
		Dot:  fixed.P(margin, margin+120),
	}
	drawer.DrawString(fmt.Sprintf("%d", card.Number))

	maxWidth := fixed.I(frameWidth - 2*margin)
	lines := wrapText(f.body, card.Text, maxWidth)
	const maxLines = 9
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] += "…"
	}

	drawer.Src = image.NewUniform(cardText)
	drawer.Face = f.body
	lineHeight := 72
	y := margin + 120 + 130
	for _, line := range lines {
		drawer.Dot = fixed.P(margin, y)
		drawer.DrawString(line)
		y += lineHeight
	}

	return img, nil
}

// SaveJPEG writes the card to disk, creating the directory when needed.
func SaveJPEG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 85}); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encoding %s: %v", filepath.Base(path), err)
	}
	return f.Close()
}
