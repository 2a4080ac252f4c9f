package images

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"math"

	"golang.org/x/image/draw"
)

const (
	// maxPixels caps normalized photos at roughly 1.05 megapixels; remote
	// try-on models reject larger inputs and the mobile client never needs
	// more for display.
	maxPixels = 1_050_000

	jpegQuality = 85
)

// Processor normalizes uploaded photos: EXIF re-orientation, downscaling,
// and JPEG re-encoding so everything downstream handles one format.
type Processor struct {
	logger *slog.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(logger *slog.Logger) *Processor {
	return &Processor{logger: logger}
}

// Normalize decodes an uploaded photo, bakes in its EXIF orientation,
// downscales it under the pixel cap, and re-encodes it as JPEG.
func (p *Processor) Normalize(data []byte) ([]byte, error) {
	orientation := readJPEGOrientation(data)

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}

	img = applyOrientation(img, orientation)
	img = downscale(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode photo: %w", err)
	}

	if p.logger != nil {
		p.logger.Debug("normalized photo",
			"format", format,
			"orientation", orientation,
			"in_bytes", len(data),
			"out_bytes", buf.Len(),
		)
	}

	return buf.Bytes(), nil
}

// downscale shrinks the image so width*height <= maxPixels, preserving
// aspect ratio. Images already under the cap pass through untouched.
func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w*h <= maxPixels {
		return img
	}

	// Scale each axis by sqrt(budget/current) to land on the pixel budget.
	factor := math.Sqrt(float64(maxPixels) / float64(w*h))
	dstW := max(int(float64(w)*factor), 1)
	dstH := max(int(float64(h)*factor), 1)

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// applyOrientation bakes an EXIF orientation (1-8) into the pixel data.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return flipHorizontal(img)
	case 3:
		return rotate180(img)
	case 4:
		return flipHorizontal(rotate180(img))
	case 5:
		return flipHorizontal(rotate90(img))
	case 6:
		return rotate90(img)
	case 7:
		return flipHorizontal(rotate270(img))
	case 8:
		return rotate270(img)
	default:
		return img
	}
}

func rotate90(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(b.Max.Y-1-y, x-b.Min.X, img.At(x, y))
		}
	}
	return dst
}

func rotate180(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(b.Max.X-1-x, b.Max.Y-1-y, img.At(x, y))
		}
	}
	return dst
}

func rotate270(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(y-b.Min.Y, b.Max.X-1-x, img.At(x, y))
		}
	}
	return dst
}

func flipHorizontal(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(b.Max.X-1-x, y-b.Min.Y, img.At(x, y))
		}
	}
	return dst
}

// readJPEGOrientation extracts the EXIF orientation tag (0x0112) from a
// JPEG's APP1 segment. Returns 1 (normal) when the data is not a JPEG, has
// no EXIF block, or the tag is absent. Only the one tag is needed, so this
// walks the TIFF IFD directly instead of pulling in an EXIF library.
func readJPEGOrientation(data []byte) int {
	const defaultOrientation = 1

	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return defaultOrientation
	}

	// Walk JPEG segments looking for APP1/Exif.
	offset := 2
	for offset+4 <= len(data) {
		if data[offset] != 0xFF {
			return defaultOrientation
		}
		marker := data[offset+1]
		if marker == 0xDA { // start of scan, no EXIF past here
			return defaultOrientation
		}
		segLen := int(binary.BigEndian.Uint16(data[offset+2 : offset+4]))
		if segLen < 2 || offset+2+segLen > len(data) {
			return defaultOrientation
		}
		if marker == 0xE1 {
			seg := data[offset+4 : offset+2+segLen]
			if o, ok := parseExifOrientation(seg); ok {
				return o
			}
			return defaultOrientation
		}
		offset += 2 + segLen
	}
	return defaultOrientation
}

// parseExifOrientation reads orientation from an APP1 payload.
func parseExifOrientation(seg []byte) (int, bool) {
	if len(seg) < 14 || !bytes.HasPrefix(seg, []byte("Exif\x00\x00")) {
		return 0, false
	}
	tiff := seg[6:]

	var order binary.ByteOrder
	switch {
	case bytes.HasPrefix(tiff, []byte("II")):
		order = binary.LittleEndian
	case bytes.HasPrefix(tiff, []byte("MM")):
		order = binary.BigEndian
	default:
		return 0, false
	}
	if len(tiff) < 8 || order.Uint16(tiff[2:4]) != 0x002A {
		return 0, false
	}

	ifdOffset := int(order.Uint32(tiff[4:8]))
	if ifdOffset+2 > len(tiff) {
		return 0, false
	}

	count := int(order.Uint16(tiff[ifdOffset : ifdOffset+2]))
	for i := range count {
		entry := ifdOffset + 2 + i*12
		if entry+12 > len(tiff) {
			return 0, false
		}
		tag := order.Uint16(tiff[entry : entry+2])
		if tag != 0x0112 {
			continue
		}
		// Orientation is a SHORT stored inline in the value field.
		value := int(order.Uint16(tiff[entry+8 : entry+10]))
		if value >= 1 && value <= 8 {
			return value, true
		}
		return 0, false
	}
	return 0, false
}
