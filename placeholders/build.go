package placeholders

import (
	"fmt"
	"path/filepath"

	"stagehand/match"
	"stagehand/sheet"
)

// Options tunes one placeholder build.
type Options struct {
	MinScore int    // alignment threshold, default 70
	Timebase int    // timeline frame rate, default 25
	Column   string // content column used as card text, default A (voiceover)
	Sequence string // timeline name, default "Placeholders"
	Progress func(format string, args ...any)
}

func (o *Options) defaults() {
	if o.MinScore == 0 {
		o.MinScore = 70
	}
	if o.Timebase == 0 {
		o.Timebase = defaultTimebase
	}
	if o.Sequence == "" {
		o.Sequence = "Placeholders"
	}
	if o.Progress == nil {
		o.Progress = func(string, ...any) {}
	}
}

// CardName is the stable file stem for a row's placeholder still.
func CardName(number int) string {
	return fmt.Sprintf("row_%03d", number)
}

// Build renders one card per content row, aligns the rows against the
// transcript and writes the timeline XML. It returns the placements so the
// caller can print the summary; rows that could not be aligned get no clip
// but still get a card, the editor places those by hand.
func Build(rows []sheet.ContentRow, segments []match.Segment, imgDir, xmlPath string, opts Options) ([]match.Placement, error) {
	opts.defaults()

	matchRows := make([]match.Row, 0, len(rows))
	for _, row := range rows {
		matchRows = append(matchRows, match.Row{
			Number: row.Number,
			Target: CardName(row.Number),
			Key:    row.Column(opts.Column),
		})
	}

	placements := match.Align(matchRows, segments, opts.MinScore)
	match.SortPlacements(placements)

	cardText := make(map[int]string, len(rows))
	for _, row := range rows {
		cardText[row.Number] = row.Column(opts.Column)
	}

	var clips []Clip
	for _, p := range placements {
		path := filepath.Join(imgDir, CardName(p.Row.Number)+".jpg")

		img, err := RenderCard(Card{Number: p.Row.Number, Text: cardText[p.Row.Number]})
		if err != nil {
			return nil, fmt.Errorf("rendering card for row %d: %v", p.Row.Number, err)
		}
		if err := SaveJPEG(path, img); err != nil {
			return nil, fmt.Errorf("saving card for row %d: %v", p.Row.Number, err)
		}

		switch p.Kind {
		case match.KindAligned:
			opts.Progress("[OK] row %d at %.2fs (score %d)\n", p.Row.Number, p.Segment.Start, p.Score)
		case match.KindWarning:
			opts.Progress("[WARN] row %d at %.2fs: %s\n", p.Row.Number, p.Segment.Start, p.Reason)
		default:
			opts.Progress("[MISS] row %d: %s\n", p.Row.Number, p.Reason)
			continue
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		clips = append(clips, Clip{
			Name:  CardName(p.Row.Number),
			Path:  abs,
			Start: p.Segment.Start,
			End:   p.Segment.End,
		})
	}

	doc := BuildSequence(opts.Sequence, clips, opts.Timebase)
	if err := WriteSequence(xmlPath, doc); err != nil {
		return nil, fmt.Errorf("writing timeline: %v", err)
	}
	return placements, nil
}
