// Package placeholders renders storyboard placeholder stills and lays them
// onto an importable editing timeline at the moments where the transcript
// says their narration is spoken.
package placeholders

import (
	"encoding/xml"
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
)

// Premiere measures clip positions twice: in timeline frames and in its own
// fixed tick unit. Both must agree or the import silently misplaces clips.
const (
	pproTicksPerSecond = 254016000000
	stillSourceFrames  = 1080000
	defaultTimebase    = 25

	frameWidth  = 1920
	frameHeight = 1080
)

type Xmeml struct {
	XMLName  xml.Name `xml:"xmeml"`
	Version  string   `xml:"version,attr"`
	Sequence Sequence `xml:"sequence"`
}

type Rate struct {
	Timebase int    `xml:"timebase"`
	NTSC     string `xml:"ntsc"`
}

type Sequence struct {
	ID       string `xml:"id,attr"`
	Name     string `xml:"name"`
	Duration int    `xml:"duration"`
	Rate     Rate   `xml:"rate"`
	Media    Media  `xml:"media"`
}

type Media struct {
	Video Video `xml:"video"`
}

type Video struct {
	Format Format `xml:"format"`
	Track  Track  `xml:"track"`
}

type Format struct {
	SampleCharacteristics SampleCharacteristics `xml:"samplecharacteristics"`
}

type SampleCharacteristics struct {
	Rate             *Rate  `xml:"rate,omitempty"`
	Width            int    `xml:"width"`
	Height           int    `xml:"height"`
	PixelAspectRatio string `xml:"pixelaspectratio,omitempty"`
}

type Track struct {
	ClipItems []ClipItem `xml:"clipitem"`
}

type ClipItem struct {
	ID           string `xml:"id,attr"`
	Name         string `xml:"name"`
	Enabled      string `xml:"enabled"`
	Duration     int    `xml:"duration"`
	Rate         Rate   `xml:"rate"`
	Start        int    `xml:"start"`
	End          int    `xml:"end"`
	In           int    `xml:"in"`
	Out          int    `xml:"out"`
	PproTicksIn  int64  `xml:"pproTicksIn"`
	PproTicksOut int64  `xml:"pproTicksOut"`
	File         File   `xml:"file"`
}

type File struct {
	ID       string    `xml:"id,attr"`
	Name     string    `xml:"name"`
	PathURL  string    `xml:"pathurl"`
	Rate     Rate      `xml:"rate"`
	Duration int       `xml:"duration"`
	Media    FileMedia `xml:"media"`
}

type FileMedia struct {
	Video FileVideo `xml:"video"`
}

type FileVideo struct {
	SampleCharacteristics SampleCharacteristics `xml:"samplecharacteristics"`
}

// Clip is one placeholder still with its timeline position in seconds.
type Clip struct {
	Name  string
	Path  string
	Start float64
	End   float64
}

func toFrames(seconds float64, timebase int) int {
	return int(math.Round(seconds * float64(timebase)))
}

func pproTicks(frames, timebase int) int64 {
	return int64(frames) * pproTicksPerSecond / int64(timebase)
}

// PathURL encodes an absolute path the way the editor expects still
// references: a file URL against localhost.
func PathURL(abs string) string {
	u := url.URL{Scheme: "file", Host: "localhost", Path: filepath.ToSlash(abs)}
	return u.String()
}

// BuildSequence lays clips onto a single video track. Clips are expected in
// chronological order; overlaps are the caller's problem to report.
func BuildSequence(name string, clips []Clip, timebase int) *Xmeml {
	if timebase <= 0 {
		timebase = defaultTimebase
	}
	rate := Rate{Timebase: timebase, NTSC: "FALSE"}

	seq := Sequence{
		ID:   "sequence-1",
		Name: name,
		Rate: rate,
		Media: Media{Video: Video{
			Format: Format{SampleCharacteristics: SampleCharacteristics{
				Rate:             &rate,
				Width:            frameWidth,
				Height:           frameHeight,
				PixelAspectRatio: "square",
			}},
		}},
	}

	for i, clip := range clips {
		start := toFrames(clip.Start, timebase)
		end := toFrames(clip.End, timebase)
		if end <= start {
			end = start + 1
		}
		length := end - start

		item := ClipItem{
			ID:           fmt.Sprintf("clipitem-%d", i+1),
			Name:         clip.Name,
			Enabled:      "TRUE",
			Duration:     stillSourceFrames,
			Rate:         rate,
			Start:        start,
			End:          end,
			In:           0,
			Out:          length,
			PproTicksIn:  pproTicks(start, timebase),
			PproTicksOut: pproTicks(end, timebase),
			File: File{
				ID:       fmt.Sprintf("file-%d", i+1),
				Name:     filepath.Base(clip.Path),
				PathURL:  PathURL(clip.Path),
				Rate:     rate,
				Duration: stillSourceFrames,
				Media: FileMedia{Video: FileVideo{
					SampleCharacteristics: SampleCharacteristics{
						Width:  frameWidth,
						Height: frameHeight,
					},
				}},
			},
		}
		seq.Media.Video.Track.ClipItems = append(seq.Media.Video.Track.ClipItems, item)
		if end > seq.Duration {
			seq.Duration = end
		}
	}

	return &Xmeml{Version: "4", Sequence: seq}
}

// WriteSequence marshals the timeline with the header and doctype the
// editor's importer checks for.
func WriteSequence(path string, doc *Xmeml) error {
	output, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}
	content := xml.Header + "<!DOCTYPE xmeml>\n" + string(output)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
