// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment splits extracted document text into (topic, description)
// records. A record starts at a line beginning with "N." and collects the
// content lines that follow it until the next such line.
package segment

import (
	"regexp"
	"strings"

	"github.com/pdiddy/topicsheet/pkg/types"
)

const (
	// Banner is a running header dropped wherever it appears as a whole line.
	Banner = "Georgette Review"

	// Watermark drops any line that contains it.
	Watermark = "Study online"

	// LayoutSuffix marks running footers and paths; such lines never become
	// description content.
	LayoutSuffix = "/"
)

// markerPattern matches one or more leading ASCII digits followed by a period.
var markerPattern = regexp.MustCompile(`^[0-9]+\.`)

// Rules holds the line filters and the record marker. The literals are tuned
// to one document family; DefaultRules returns them.
type Rules struct {
	Marker       *regexp.Regexp
	Banner       string
	Watermark    string
	LayoutSuffix string
}

// DefaultRules returns the fixed rules used by Segment.
func DefaultRules() Rules {
	return Rules{
		Marker:       markerPattern,
		Banner:       Banner,
		Watermark:    Watermark,
		LayoutSuffix: LayoutSuffix,
	}
}

// Segment splits text into records using DefaultRules.
func Segment(text string) []types.Record {
	return DefaultRules().Segment(text)
}

// Lines splits text on newlines, trims each line and drops blank ones.
func Lines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// IsNoise reports whether line is the banner or carries the watermark.
func (r Rules) IsNoise(line string) bool {
	if line == r.Banner {
		return true
	}
	return r.Watermark != "" && strings.Contains(line, r.Watermark)
}

// Segment scans text line by line. A marker line closes the pending record
// (emitted only if it gathered any description) and opens a new one whose
// topic is the text after the marker. It never fails: text without marker
// lines yields an empty, non-nil slice.
func (r Rules) Segment(text string) []types.Record {
	records := []types.Record{}

	var (
		topic    string
		hasTopic bool
		desc     []string
	)
	flush := func() {
		if hasTopic && len(desc) > 0 {
			records = append(records, types.Record{
				Topic:       topic,
				Description: strings.Join(desc, " "),
			})
		}
	}

	for _, line := range Lines(text) {
		if r.IsNoise(line) {
			continue
		}

		if loc := r.Marker.FindStringIndex(line); loc != nil {
			flush()
			topic = strings.TrimSpace(line[loc[1]:])
			hasTopic = true
			desc = nil
			continue
		}

		if r.LayoutSuffix != "" && strings.HasSuffix(line, r.LayoutSuffix) {
			continue
		}
		desc = append(desc, line)
	}
	flush()

	return records
}
