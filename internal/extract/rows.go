// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// rowTolerance is how far apart, in points, two glyph baselines may be and
// still belong to the same line.
const rowTolerance = 2.0

// wordGap is the horizontal gap, as a fraction of the font size, above which
// two glyphs on one line are treated as separate words.
const wordGap = 0.2

type glyphRow struct {
	y      float64
	glyphs []pdf.Text
}

// groupRows buckets glyphs by baseline. Rows come back top-down and each
// row's glyphs left to right; glyphs sharing an X keep content-stream order.
func groupRows(texts []pdf.Text) []glyphRow {
	var rows []glyphRow
	for _, t := range texts {
		if strings.IndexFunc(t.S, unicode.IsControl) >= 0 {
			continue
		}
		placed := false
		for i := range rows {
			if abs(rows[i].y-t.Y) < rowTolerance {
				rows[i].glyphs = append(rows[i].glyphs, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, glyphRow{y: t.Y, glyphs: []pdf.Text{t}})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })
	for _, r := range rows {
		sort.SliceStable(r.glyphs, func(i, j int) bool { return r.glyphs[i].X < r.glyphs[j].X })
	}
	return rows
}

// rowText joins a row's glyphs, inserting a space where the layout leaves a
// visible gap but the content stream carries none.
func rowText(r glyphRow) string {
	var b strings.Builder
	var prev *pdf.Text
	for i := range r.glyphs {
		g := &r.glyphs[i]
		if prev != nil && g.X-(prev.X+prev.W) > wordGap*fontSize(g) &&
			!strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(g.S, " ") {
			b.WriteByte(' ')
		}
		b.WriteString(g.S)
		prev = g
	}
	return b.String()
}

// linesFromGlyphs rebuilds a page's text as one line per baseline.
func linesFromGlyphs(texts []pdf.Text) string {
	rows := groupRows(texts)
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = rowText(r)
	}
	return strings.Join(lines, "\n")
}

func fontSize(t *pdf.Text) float64 {
	if t.FontSize <= 0 {
		return 1
	}
	return t.FontSize
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
