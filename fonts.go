package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/golang/freetype/truetype"
	woff "github.com/tdewolff/canvas/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"

	"github.com/pgavlin/catprinty/internal/font"
)

// The head prints at 203.2 DPI; faces are sized against that density.
var fontOptions = truetype.Options{DPI: 203.2, SubPixelsX: 1}

func defaultFamily() *font.Family {
	family, err := font.ParseFamily(gomono.TTF, gomonobold.TTF, fontOptions)
	if err != nil {
		panic(fmt.Errorf("error parsing bundled font family: %v", err))
	}
	return family
}

// loadTTF reads a typeface from a local path or URL and converts woff/woff2/
// otf containers to sfnt.
func loadTTF(path string) ([]byte, error) {
	var raw []byte
	var err error
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		raw, err = downloadFile(path)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return woff.ToSFNT(raw)
}

// loadFamily builds the print typeface. An empty regular path selects the
// bundled Go Mono family; an empty bold path reuses the regular face.
func loadFamily(regular, bold string) (*font.Family, error) {
	if regular == "" {
		return defaultFamily(), nil
	}

	regularBytes, err := loadTTF(regular)
	if err != nil {
		return nil, fmt.Errorf("error loading regular typeface: %w", err)
	}
	boldBytes := regularBytes
	if bold != "" {
		if boldBytes, err = loadTTF(bold); err != nil {
			return nil, fmt.Errorf("error loading bold typeface: %w", err)
		}
	}
	return font.ParseFamily(regularBytes, boldBytes, fontOptions)
}

func downloadFile(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed: %v", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
