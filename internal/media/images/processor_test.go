package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// encodeTestJPEG produces a JPEG of the given dimensions.
func encodeTestJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeKeepsSmallImages(t *testing.T) {
	p := NewProcessor(nil)
	data := encodeTestJPEG(t, 400, 300)

	out, err := p.Normalize(data)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 300 {
		t.Errorf("small image resized: got %v", img.Bounds())
	}
}

func TestNormalizeDownscalesLargeImages(t *testing.T) {
	p := NewProcessor(nil)
	data := encodeTestJPEG(t, 3000, 2000) // 6 MP

	out, err := p.Normalize(data)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("output format: got %s, want jpeg", format)
	}

	pixels := img.Bounds().Dx() * img.Bounds().Dy()
	if pixels > maxPixels {
		t.Errorf("output has %d pixels, budget is %d", pixels, maxPixels)
	}
	// Aspect ratio survives within rounding.
	ratio := float64(img.Bounds().Dx()) / float64(img.Bounds().Dy())
	if ratio < 1.45 || ratio > 1.55 {
		t.Errorf("aspect ratio drifted: %f", ratio)
	}
}

func TestNormalizeAcceptsPNG(t *testing.T) {
	p := NewProcessor(nil)

	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	out, err := p.Normalize(buf.Bytes())
	if err != nil {
		t.Fatalf("Normalize png input: %v", err)
	}
	if _, format, _ := image.Decode(bytes.NewReader(out)); format != "jpeg" {
		t.Errorf("png input should re-encode as jpeg, got %s", format)
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	p := NewProcessor(nil)
	if _, err := p.Normalize([]byte("not an image")); err == nil {
		t.Error("garbage input should error")
	}
}

func TestReadJPEGOrientationDefaults(t *testing.T) {
	// No EXIF block: default orientation.
	if o := readJPEGOrientation(encodeTestJPEG(t, 10, 10)); o != 1 {
		t.Errorf("plain jpeg orientation: got %d, want 1", o)
	}
	// Not a JPEG at all.
	if o := readJPEGOrientation([]byte{0x00, 0x01}); o != 1 {
		t.Errorf("non-jpeg orientation: got %d, want 1", o)
	}
}

func TestReadJPEGOrientationParsesApp1(t *testing.T) {
	// Minimal JPEG: SOI + APP1 with a big-endian TIFF carrying
	// orientation 6, then SOS.
	exif := []byte("Exif\x00\x00")
	tiff := []byte{
		'M', 'M', 0x00, 0x2A, // big-endian marker
		0x00, 0x00, 0x00, 0x08, // IFD0 offset
		0x00, 0x01, // 1 entry
		0x01, 0x12, // orientation tag
		0x00, 0x03, // SHORT
		0x00, 0x00, 0x00, 0x01, // count
		0x00, 0x06, 0x00, 0x00, // value 6, padded
		0x00, 0x00, 0x00, 0x00, // next IFD
	}
	payload := append(exif, tiff...)

	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8}) // SOI
	buf.Write([]byte{0xFF, 0xE1}) // APP1
	segLen := len(payload) + 2
	buf.Write([]byte{byte(segLen >> 8), byte(segLen)})
	buf.Write(payload)
	buf.Write([]byte{0xFF, 0xDA, 0x00, 0x02}) // SOS

	if o := readJPEGOrientation(buf.Bytes()); o != 6 {
		t.Errorf("orientation: got %d, want 6", o)
	}
}

func TestApplyOrientationRotates(t *testing.T) {
	// 2x1 image: red at (0,0), blue at (1,0).
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{B: 255, A: 255})

	rotated := applyOrientation(img, 6) // 90 degrees clockwise
	if rotated.Bounds().Dx() != 1 || rotated.Bounds().Dy() != 2 {
		t.Fatalf("rotated bounds: %v", rotated.Bounds())
	}
	r, _, _, _ := rotated.At(0, 0).RGBA()
	if r == 0 {
		t.Error("after 90cw rotation the red pixel should be at the top")
	}
}
