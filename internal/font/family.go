// Package font manages the monospace typeface pair used for text printing.
package font

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"
)

type faceKey struct {
	points float64
	bold   bool
}

// A Family is a regular/bold pair of monospace fonts with cached faces.
type Family struct {
	options truetype.Options

	regular *truetype.Font
	bold    *truetype.Font

	faces map[faceKey]xfont.Face
}

// ParseFamily parses a regular and bold typeface. The options' Size field is
// overridden per face.
func ParseFamily(regular, bold []byte, options truetype.Options) (*Family, error) {
	regularFont, err := truetype.Parse(regular)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	boldFont, err := truetype.Parse(bold)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}

	return &Family{
		options: options,
		regular: regularFont,
		bold:    boldFont,
		faces:   map[faceKey]xfont.Face{},
	}, nil
}

// Face returns the face for the given point size, creating and caching it on
// first use.
func (f *Family) Face(points float64, bold bool) xfont.Face {
	key := faceKey{points: points, bold: bold}
	if face, ok := f.faces[key]; ok {
		return face
	}

	fnt := f.regular
	if bold {
		fnt = f.bold
	}
	opts := f.options
	opts.Size = points
	face := truetype.NewFace(fnt, &opts)
	f.faces[key] = face
	return face
}
