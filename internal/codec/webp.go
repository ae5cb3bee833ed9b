package codec

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"golang.org/x/image/webp"
)

// Atomic counter for unique temp file names across goroutines.
var tempCounter atomic.Int64

type webpDecoder struct{}

func (d *webpDecoder) Format() string                          { return "webp" }
func (d *webpDecoder) Aliases() []string                       { return nil }
func (d *webpDecoder) Match(header []byte) bool                { return matchAny(header, "RIFF????WEBPVP8") }
func (d *webpDecoder) Decode(r io.Reader) (image.Image, error) { return webp.Decode(r) }

// WebPEncoder encodes images to WebP by shelling out to cwebp.
// Install: brew install webp / apt install webp
type WebPEncoder struct {
	once      sync.Once
	available bool
	cwebpPath string
}

func (e *WebPEncoder) Format() string    { return "webp" }
func (e *WebPEncoder) Aliases() []string { return nil }
func (e *WebPEncoder) Extension() string { return "webp" }
func (e *WebPEncoder) MIMEType() string  { return "image/webp" }

func (e *WebPEncoder) Available() bool {
	e.once.Do(func() {
		path, err := exec.LookPath("cwebp")
		if err == nil {
			e.available = true
			e.cwebpPath = path
		}
	})
	return e.available
}

func (e *WebPEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("cwebp not found in PATH; install with: brew install webp")
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return encodeExternal(img, "webp", func(src, dst string) *exec.Cmd {
		return exec.Command(e.cwebpPath,
			"-q", fmt.Sprintf("%d", quality),
			"-m", "6", // compression method (0=fast, 6=best)
			"-quiet",
			src,
			"-o", dst,
		)
	})
}

// AVIFEncoder encodes images to AVIF by shelling out to avifenc.
// There is no AVIF decoder, so avif is writeable but never readable.
// Install: brew install libavif / apt install libavif-bin
type AVIFEncoder struct {
	once        sync.Once
	available   bool
	avifencPath string
}

func (e *AVIFEncoder) Format() string    { return "avif" }
func (e *AVIFEncoder) Aliases() []string { return nil }
func (e *AVIFEncoder) Extension() string { return "avif" }
func (e *AVIFEncoder) MIMEType() string  { return "image/avif" }

func (e *AVIFEncoder) Available() bool {
	e.once.Do(func() {
		path, err := exec.LookPath("avifenc")
		if err == nil {
			e.available = true
			e.avifencPath = path
		}
	})
	return e.available
}

func (e *AVIFEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("avifenc not found in PATH; install with: brew install libavif")
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	// avifenc uses a different quality scale: lower = better, 0-63.
	avifQ := 63 - (quality * 63 / 100)
	return encodeExternal(img, "avif", func(src, dst string) *exec.Cmd {
		return exec.Command(e.avifencPath,
			"--min", fmt.Sprintf("%d", avifQ),
			"--max", fmt.Sprintf("%d", avifQ),
			"--speed", "6",
			src,
			dst,
		)
	})
}

// encodeExternal writes img as a temporary PNG, runs the command built by
// mkCmd and returns the produced file. Both temp files are removed.
func encodeExternal(img image.Image, ext string, mkCmd func(src, dst string) *exec.Cmd) ([]byte, error) {
	id := tempCounter.Add(1)
	srcFile, err := os.CreateTemp("", fmt.Sprintf("imgconv_src_%d_*.png", id))
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	srcPath := srcFile.Name()
	defer os.Remove(srcPath)

	dstFile, err := os.CreateTemp("", fmt.Sprintf("imgconv_dst_%d_*.%s", id, ext))
	if err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("create temp: %w", err)
	}
	dstPath := dstFile.Name()
	dstFile.Close()
	defer os.Remove(dstPath)

	if err := png.Encode(srcFile, img); err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("encode temp png: %w", err)
	}
	if err := srcFile.Close(); err != nil {
		return nil, fmt.Errorf("close temp png: %w", err)
	}

	cmd := mkCmd(srcPath, dstPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", cmd.Path, err, string(out))
	}

	return os.ReadFile(dstPath)
}
