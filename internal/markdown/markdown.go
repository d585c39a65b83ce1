// Package markdown renders a markdown document to a print bitmap. It is a
// receipt-scale renderer: headings get larger bold faces, lists get markers,
// code blocks print verbatim, inline emphasis is ignored.
package markdown

import (
	"fmt"
	"image"
	"strings"

	"github.com/pgavlin/goldmark"
	"github.com/pgavlin/goldmark/ast"
	mdtext "github.com/pgavlin/goldmark/text"

	"github.com/pgavlin/catprinty/internal/bitmap"
	"github.com/pgavlin/catprinty/internal/text"
)

// Heading point sizes by level; deeper levels fall back to the body size.
var headingPoints = []float64{16, 14, 12, 11}

const blockGap = 8

// Render parses source as markdown and rasterizes it block by block into a
// single raster-width bitmap.
func Render(source []byte, opts text.Options) (*bitmap.Image, error) {
	doc := goldmark.DefaultParser().Parse(mdtext.NewReader(source))

	var blocks []*image.Gray
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		rendered, err := renderBlock(n, source, opts, "")
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, rendered...)
	}

	minHeight := opts.MinHeight
	if minHeight == 0 {
		minHeight = text.DefaultMinHeight
	}
	return bitmap.FromGray(stack(blocks, blockGap, minHeight)), nil
}

func renderBlock(n ast.Node, source []byte, opts text.Options, prefix string) ([]*image.Gray, error) {
	block := opts
	block.MinHeight = 1

	switch n := n.(type) {
	case *ast.Heading:
		block.Bold = true
		level := n.Level - 1
		if level >= len(headingPoints) {
			level = len(headingPoints) - 1
		}
		block.Points = headingPoints[level]
		return []*image.Gray{text.Rasterize(prefix+nodeText(n, source), block)}, nil

	case *ast.Paragraph, *ast.TextBlock:
		return []*image.Gray{text.Rasterize(prefix+nodeText(n, source), block)}, nil

	case *ast.CodeBlock, *ast.FencedCodeBlock:
		var sb strings.Builder
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			sb.WriteString(prefix)
			sb.Write(seg.Value(source))
		}
		return []*image.Gray{text.Rasterize(strings.TrimRight(sb.String(), "\n"), block)}, nil

	case *ast.List:
		var blocks []*image.Gray
		index := n.Start
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			marker := prefix + "- "
			if n.IsOrdered() {
				marker = fmt.Sprintf("%s%d. ", prefix, index)
				index++
			}
			first := true
			for child := item.FirstChild(); child != nil; child = child.NextSibling() {
				childPrefix := marker
				if !first {
					childPrefix = prefix + "  "
				}
				rendered, err := renderBlock(child, source, opts, childPrefix)
				if err != nil {
					return nil, err
				}
				blocks = append(blocks, rendered...)
				first = false
			}
		}
		return blocks, nil

	case *ast.Blockquote:
		var blocks []*image.Gray
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			rendered, err := renderBlock(child, source, opts, prefix+"| ")
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, rendered...)
		}
		return blocks, nil

	case *ast.ThematicBreak:
		return []*image.Gray{rule()}, nil
	}

	// Unknown block kinds degrade to their text content.
	return []*image.Gray{text.Rasterize(prefix+nodeText(n, source), block)}, nil
}

// nodeText flattens a node's inline content to plain text.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, enter bool) (ast.WalkStatus, error) {
		if !enter {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(c.Value)
		case *ast.AutoLink:
			sb.Write(c.URL(source))
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// rule draws a full-width horizontal line.
func rule() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, bitmap.RasterWidth, 6))
	for i := range g.Pix {
		g.Pix[i] = 0xFF
	}
	for x := 0; x < bitmap.RasterWidth; x++ {
		g.Pix[2*g.Stride+x] = 0
		g.Pix[3*g.Stride+x] = 0
	}
	return g
}

// stack concatenates blocks vertically with gap rows between them, padding
// the result to minHeight.
func stack(blocks []*image.Gray, gap, minHeight int) *image.Gray {
	h := 0
	for i, b := range blocks {
		if i > 0 {
			h += gap
		}
		h += b.Bounds().Dy()
	}
	if h < minHeight {
		h = minHeight
	}

	g := image.NewGray(image.Rect(0, 0, bitmap.RasterWidth, h))
	for i := range g.Pix {
		g.Pix[i] = 0xFF
	}

	y := 0
	for i, b := range blocks {
		if i > 0 {
			y += gap
		}
		bh := b.Bounds().Dy()
		for row := 0; row < bh; row++ {
			copy(g.Pix[(y+row)*g.Stride:(y+row)*g.Stride+bitmap.RasterWidth], b.Pix[row*b.Stride:row*b.Stride+bitmap.RasterWidth])
		}
		y += bh
	}
	return g
}
