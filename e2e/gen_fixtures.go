//go:build ignore

// gen_fixtures writes one image per readable format, plus a mislabelled
// and a corrupt file, for smoke-testing `imgconv batch`.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		panic(err)
	}

	save(filepath.Join(dir, "banner.jpg"), gradient(400, 225))
	save(filepath.Join(dir, "logo.png"), alphaGradient(100, 100))
	save(filepath.Join(dir, "icon.gif"), gradient(32, 32))
	save(filepath.Join(dir, "nested", "scan.tiff"), gradient(120, 80))
	save(filepath.Join(dir, "nested", "legacy.bmp"), gradient(64, 48))

	// PNG bytes behind a .jpg name: detection goes by content.
	save(filepath.Join(dir, "mislabelled.png"), alphaGradient(16, 16))
	if err := os.Rename(filepath.Join(dir, "mislabelled.png"), filepath.Join(dir, "mislabelled.jpg")); err != nil {
		panic(err)
	}

	// Valid PNG signature, garbage after it.
	corrupt := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	if err := os.WriteFile(filepath.Join(dir, "corrupt.png"), corrupt, 0o644); err != nil {
		panic(err)
	}

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 7 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

// save picks the encoder from the file extension.
func save(path string, img image.Image) {
	if err := imaging.Save(img, path, imaging.JPEGQuality(85)); err != nil {
		panic(err)
	}
}
