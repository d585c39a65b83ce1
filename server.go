package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"

	"github.com/pgavlin/catprinty/internal/bitmap"
	"github.com/pgavlin/catprinty/internal/markdown"
	"github.com/pgavlin/catprinty/internal/printer"
	"github.com/pgavlin/catprinty/internal/text"
)

// style bundles the rendering configuration shared by all jobs.
type style struct {
	text   text.Options
	dither bitmap.Algorithm
}

type server struct {
	device *printer.Device
	style  style
}

// handlePrint renders the request body to the canonical print bitmap. The
// Content-Type selects the mode: image/* decodes and dithers, text/markdown
// renders blocks, anything else is treated as plain text. With ?preview=1
// the bitmap is returned as a PNG instead of being printed, so the preview
// shows exactly the pixels a print would produce.
func (s *server) handlePrint(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	contents, err := io.ReadAll(req.Body)
	if err != nil {
		log.Printf("error reading request body: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))

	var bm *bitmap.Image
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		img, err := bitmap.Decode(bytes.NewReader(contents))
		if err != nil {
			log.Printf("error decoding image: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		bm = bitmap.Render(img, s.style.dither)
	case mediaType == "text/markdown":
		if bm, err = markdown.Render(contents, s.style.text); err != nil {
			log.Printf("error rendering markdown: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	default:
		bm = text.Render(string(contents), s.style.text)
	}

	if req.URL.Query().Get("preview") != "" {
		w.Header().Add("Content-Type", "image/png")
		if err := png.Encode(w, bm); err != nil {
			log.Printf("error encoding preview result: %v", err)
		}
		return
	}

	if err := s.device.Print(req.Context(), bm); err != nil {
		log.Printf("print error: %v", err)
		switch {
		case errors.Is(err, printer.ErrDeviceNotFound):
			w.WriteHeader(http.StatusServiceUnavailable)
		case errors.Is(err, context.Canceled):
			// Client went away; nothing left to report.
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusOK)
}

func serve(address string, device *printer.Device, style style) error {
	server := &server{device: device, style: style}
	http.HandleFunc("/print", server.handlePrint)
	return http.ListenAndServe(address, nil)
}
