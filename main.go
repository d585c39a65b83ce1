package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/pgavlin/catprinty/internal/bitmap"
	"github.com/pgavlin/catprinty/internal/markdown"
	"github.com/pgavlin/catprinty/internal/printer"
	"github.com/pgavlin/catprinty/internal/protocol"
	"github.com/pgavlin/catprinty/internal/qr"
	"github.com/pgavlin/catprinty/internal/text"
)

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envUint(key string, fallback uint) uint {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseUint(v, 0, 16); err == nil {
			return uint(n)
		}
	}
	return fallback
}

func main() {
	// .env supplies defaults for the CATPRINTY_* variables; flags win.
	_ = godotenv.Load()

	var imagePath, textBody, markdownPath, qrBody, serveAddress string
	var deviceName, serialPort, outPath, previewPath, ditherName string
	var fontRegular, fontBold string
	var energy, feed uint
	var baud int
	var fontPoints float64
	var lineHeight, minHeight int
	var scanTimeout time.Duration

	flag.StringVar(&imagePath, "image", "", "the path of an image to print, if any")
	flag.StringVar(&textBody, "text", "", "literal text to print, if any")
	flag.StringVar(&markdownPath, "markdown", "", "the path of a markdown file to print, if any")
	flag.StringVar(&qrBody, "qr", "", "content to print as a QR code, if any")
	flag.StringVar(&serveAddress, "serve", "", "the address to serve on, if any")
	flag.StringVar(&deviceName, "device", envString("CATPRINTY_DEVICE", ""), "the advertised printer name (default: any known model)")
	flag.StringVar(&serialPort, "port", "", "write frames to this serial port instead of BLE")
	flag.IntVar(&baud, "baud", 115200, "baud rate for -port")
	flag.StringVar(&outPath, "out", "", "write frames to this file instead of BLE ('-' for stdout)")
	flag.StringVar(&previewPath, "preview", "", "write the print bitmap to this PNG instead of printing")
	flag.StringVar(&ditherName, "dither", envString("CATPRINTY_DITHER", "atkinson"), "dithering algorithm: atkinson, floydsteinberg or threshold")
	flag.UintVar(&energy, "energy", envUint("CATPRINTY_ENERGY", 0), "burn energy, 0 for the device default")
	flag.UintVar(&feed, "feed", 0, "blank lines to feed after the job, 0 for the default")
	flag.Float64Var(&fontPoints, "font-size", text.DefaultPoints, "font size in points for text and markdown")
	flag.IntVar(&lineHeight, "line-height", 0, "line height in pixels, 0 to derive from the face")
	flag.IntVar(&minHeight, "min-height", text.DefaultMinHeight, "minimum bitmap height in pixels")
	flag.StringVar(&fontRegular, "font", "", "path or URL of a regular typeface (ttf/otf/woff)")
	flag.StringVar(&fontBold, "font-bold", "", "path or URL of a bold typeface")
	flag.DurationVar(&scanTimeout, "scan-timeout", 15*time.Second, "BLE discovery timeout")
	flag.Parse()

	modes := 0
	for _, set := range []string{imagePath, textBody, markdownPath, qrBody, serveAddress} {
		if set != "" {
			modes++
		}
	}
	if modes != 1 {
		fmt.Fprintln(os.Stderr, "exactly one of -image, -text, -markdown, -qr and -serve must be specified")
		os.Exit(-1)
	}

	alg, ok := bitmap.ParseAlgorithm(ditherName)
	if !ok {
		log.Fatalf("unknown dithering algorithm %q", ditherName)
	}

	family, err := loadFamily(fontRegular, fontBold)
	if err != nil {
		log.Fatalf("error loading fonts: %v", err)
	}

	style := style{
		text: text.Options{
			Family:     family,
			Points:     fontPoints,
			LineHeight: lineHeight,
			MinHeight:  minHeight,
		},
		dither: alg,
	}

	var dial printer.Dialer
	switch {
	case serialPort != "":
		dial = printer.SerialDialer(serialPort, baud)
	case outPath == "-":
		dial = printer.StreamDialer(os.Stdout)
	case outPath != "":
		f, err := os.Create(outPath)
		if err != nil {
			log.Fatalf("error creating '%v': %v", outPath, err)
		}
		dial = printer.StreamDialer(f)
	default:
		dial = printer.BLEDialer(printer.BLEOptions{Name: deviceName, ScanTimeout: scanTimeout})
	}

	device := printer.New(dial, printer.Options{
		Job: protocol.JobOptions{Energy: uint16(energy), FeedLines: uint16(feed)},
	})
	defer device.Close()

	if serveAddress != "" {
		if err := serve(serveAddress, device, style); err != nil {
			log.Fatalf("serve error: %v", err)
		}
		return
	}

	var bm *bitmap.Image
	switch {
	case imagePath != "":
		f, err := os.Open(imagePath)
		if err != nil {
			log.Fatalf("error opening '%v': %v", imagePath, err)
		}
		img, err := bitmap.Decode(f)
		f.Close()
		if err != nil {
			log.Fatalf("error decoding '%v': %v", imagePath, err)
		}
		bm = bitmap.Render(img, style.dither)
	case textBody != "":
		bm = text.Render(textBody, style.text)
	case markdownPath != "":
		source, err := os.ReadFile(markdownPath)
		if err != nil {
			log.Fatalf("error reading '%v': %v", markdownPath, err)
		}
		if bm, err = markdown.Render(source, style.text); err != nil {
			log.Fatalf("error rendering markdown: %v", err)
		}
	case qrBody != "":
		if bm, err = qr.Render(qrBody, 0); err != nil {
			log.Fatalf("error encoding QR code: %v", err)
		}
	}

	if previewPath != "" {
		f, err := os.Create(previewPath)
		if err != nil {
			log.Fatalf("error creating '%v': %v", previewPath, err)
		}
		defer f.Close()
		if err := png.Encode(f, bm); err != nil {
			log.Fatalf("error encoding preview: %v", err)
		}
		return
	}

	if err := device.Print(context.Background(), bm); err != nil {
		log.Fatalf("print error: %v", err)
	}
}
