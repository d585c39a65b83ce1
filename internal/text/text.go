// Package text rasterizes plain text to print bitmaps: black monospace
// glyphs on white, left-aligned, wrapped to the raster width.
package text

import (
	"image"
	"strings"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/pgavlin/catprinty/internal/bitmap"
	"github.com/pgavlin/catprinty/internal/font"
)

// Options control text rasterization.
type Options struct {
	// Family supplies the faces. Required.
	Family *font.Family
	// Points is the font size. Zero means DefaultPoints.
	Points float64
	// LineHeight is the vertical advance per line in pixels. Zero derives
	// it from the face metrics.
	LineHeight int
	// MinHeight is the minimum bitmap height in pixels, so short notes
	// still clear the tear bar. Zero means DefaultMinHeight.
	MinHeight int
	// Bold selects the bold face.
	Bold bool
}

const (
	DefaultPoints    = 10.0
	DefaultMinHeight = 90
)

// Wrap splits s into lines no wider than width pixels. The rule is greedy
// and deterministic: fit glyphs left to right, break at the last whitespace
// or hyphen that fits, and hard-break mid-word only when a single word is
// wider than the line. Explicit newlines are preserved.
func Wrap(s string, face xfont.Face, width int) []string {
	limit := fixed.I(width)

	var lines []string
	for _, para := range strings.Split(s, "\n") {
		runes := []rune(para)
		if len(runes) == 0 {
			lines = append(lines, "")
			continue
		}

		start := 0
		for start < len(runes) {
			adv, lastBreak := fixed.I(0), -1
			i := start
			for ; i < len(runes); i++ {
				a, ok := face.GlyphAdvance(runes[i])
				if !ok {
					continue
				}
				if adv+a > limit && i > start {
					break
				}
				adv += a
				if runes[i] == ' ' || runes[i] == '\t' || runes[i] == '-' {
					lastBreak = i
				}
			}

			if i == len(runes) {
				lines = append(lines, string(runes[start:]))
				break
			}

			cut, next := i, i
			if lastBreak >= start {
				if runes[lastBreak] == '-' {
					cut, next = lastBreak+1, lastBreak+1
				} else {
					cut, next = lastBreak, lastBreak+1
				}
			}
			lines = append(lines, string(runes[start:cut]))

			start = next
			for start < len(runes) && (runes[start] == ' ' || runes[start] == '\t') {
				start++
			}
		}
	}
	return lines
}

// Rasterize draws s onto a raster-width grayscale image, top baseline at the
// face's ascent.
func Rasterize(s string, opts Options) *image.Gray {
	if opts.Points == 0 {
		opts.Points = DefaultPoints
	}
	if opts.MinHeight == 0 {
		opts.MinHeight = DefaultMinHeight
	}

	face := opts.Family.Face(opts.Points, opts.Bold)
	if opts.LineHeight == 0 {
		opts.LineHeight = face.Metrics().Height.Ceil()
	}

	lines := Wrap(s, face, bitmap.RasterWidth)

	h := len(lines) * opts.LineHeight
	if h < opts.MinHeight {
		h = opts.MinHeight
	}

	g := image.NewGray(image.Rect(0, 0, bitmap.RasterWidth, h))
	for i := range g.Pix {
		g.Pix[i] = 0xFF
	}

	d := &xfont.Drawer{Dst: g, Src: image.Black, Face: face}
	ascent := face.Metrics().Ascent.Ceil()
	for i, line := range lines {
		d.Dot = fixed.P(0, i*opts.LineHeight+ascent)
		d.DrawString(line)
	}
	return g
}

// Render rasterizes s and quantizes it through the shared threshold path.
// The glyphs are near-binary already, so no error diffusion is needed; using
// the one threshold rule keeps preview and print identical.
func Render(s string, opts Options) *bitmap.Image {
	return bitmap.FromGray(Rasterize(s, opts))
}
