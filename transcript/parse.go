package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"stagehand/match"
)

// rawSegment mirrors one element of the transcript JSON. Timing is either
// explicit start/end seconds or a "MM:SS-MM:SS" / "HH:MM:SS-HH:MM:SS" range,
// optionally with fractional seconds ("01:02.500-01:05.750").
type rawSegment struct {
	Text      string   `json:"text"`
	Start     *float64 `json:"start"`
	End       *float64 `json:"end"`
	Timestamp string   `json:"timestamp"`
}

var timeRange = regexp.MustCompile(`^\s*(\d{1,2}(?::\d{2}){1,2})(?:\.(\d{1,3}))?\s*-\s*(\d{1,2}(?::\d{2}){1,2})(?:\.(\d{1,3}))?\s*$`)

// ParseTimestamp converts a clock range to start and end seconds. The ok
// result is false for anything that does not look like a range.
func ParseTimestamp(ts string) (start, end float64, ok bool) {
	m := timeRange.FindStringSubmatch(ts)
	if m == nil {
		return 0, 0, false
	}
	start = clockToSeconds(m[1]) + fraction(m[2])
	end = clockToSeconds(m[3]) + fraction(m[4])
	return start, end, true
}

func clockToSeconds(clock string) float64 {
	sec := 0.0
	for _, part := range strings.Split(clock, ":") {
		n, _ := strconv.Atoi(part)
		sec = sec*60 + float64(n)
	}
	return sec
}

func fraction(digits string) float64 {
	if digits == "" {
		return 0
	}
	f, err := strconv.ParseFloat("0."+digits, 64)
	if err != nil {
		return 0
	}
	return f
}

// LoadFile reads a transcript JSON file and returns its usable segments
// sorted ascending by start time.
func LoadFile(path string) ([]match.Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a JSON array of transcript elements. Elements that are not
// objects, or whose timing cannot be resolved, are dropped rather than
// failing the whole load.
func Parse(data []byte) ([]match.Segment, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("transcript is not a JSON array: %v", err)
	}

	segments := make([]match.Segment, 0, len(elements))
	for _, element := range elements {
		var raw rawSegment
		if err := json.Unmarshal(element, &raw); err != nil {
			continue
		}

		start, end := raw.Start, raw.End
		if raw.Timestamp != "" && (start == nil || end == nil) {
			if s, e, ok := ParseTimestamp(raw.Timestamp); ok {
				start, end = &s, &e
			}
		}
		if start == nil || end == nil {
			continue
		}

		segments = append(segments, match.Segment{
			Text:  raw.Text,
			Start: *start,
			End:   *end,
		})
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})
	return segments, nil
}
