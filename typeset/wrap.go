// Package typeset 负责按字形前进宽度贪心折行。
package typeset

import (
	"math"
	"strings"

	"github.com/ByLCY/folio/layout"
)

// Metrics exposes the font data needed to measure a run.
type Metrics interface {
	UnitsPerEm() float64
	// Advance returns the horizontal advance of r in font units.
	Advance(r rune) float64
}

// Line is one wrapped line. Start and End are byte offsets into the source
// run; Width is in millimetres.
type Line struct {
	Text  string  `json:"text"`
	Width float64 `json:"width"`
	Start int     `json:"start"`
	End   int     `json:"end"`
}

// 浮点累加误差容忍度，避免 25.000000000004 被 ceil 成 26。
const ceilTolerance = 1e-9

// RuneWidth converts an advance to millimetres at fontSize points. The uniform
// scale (ascent-descent)/unitsPerEm applied per (ascent-descent) reduces to
// 1/unitsPerEm.
func RuneWidth(m Metrics, r rune, fontSize float64) float64 {
	upem := m.UnitsPerEm()
	if upem <= 0 {
		return 0
	}
	return m.Advance(r) / upem * fontSize * layout.PtToMm
}

// WrapFont wraps text with widths measured from m at fontSize points.
func WrapFont(text string, maxWidth float64, m Metrics, fontSize float64) []Line {
	return Wrap(text, maxWidth, func(r rune) float64 { return RuneWidth(m, r, fontSize) })
}

// Wrap greedily breaks text into lines no wider than maxWidth.
//
// '\n' always ends a line and belongs to neither side. A segment whose total
// width fits maxWidth is one line. Otherwise a line is cut before rune i when
// the line already holds a rune and ceil(width + width(i)) exceeds maxWidth,
// so a single rune wider than the box stays whole on its own line. Empty text
// yields one empty line.
func Wrap(text string, maxWidth float64, width func(rune) float64) []Line {
	var lines []Line
	start := 0
	for {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			return wrapSegment(lines, text, start, len(text), maxWidth, width)
		}
		lines = wrapSegment(lines, text, start, start+end, maxWidth, width)
		start += end + 1
	}
}

// wrapSegment appends the lines of text[start:end], which holds no '\n'.
func wrapSegment(lines []Line, text string, start, end int, maxWidth float64, width func(rune) float64) []Line {
	var total float64
	for _, r := range text[start:end] {
		total += width(r)
	}
	if total <= maxWidth+ceilTolerance {
		return append(lines, Line{Text: text[start:end], Width: total, Start: start, End: end})
	}

	var (
		sum   float64
		count int
	)
	for i, r := range text[start:end] {
		i += start
		w := width(r)
		if count > 0 && math.Ceil(sum+w-ceilTolerance) > maxWidth {
			lines = append(lines, Line{Text: text[start:i], Width: sum, Start: start, End: i})
			start, sum, count = i, 0, 0
		}
		sum += w
		count++
	}
	return append(lines, Line{Text: text[start:end], Width: sum, Start: start, End: end})
}
