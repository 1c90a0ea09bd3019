package image_test

import (
	"bytes"
	"errors"
	stdimage "image"
	"image/color"
	"image/jpeg"
	"image/png"
	"slices"
	"testing"

	"github.com/najmahf/spicelink/sdk/spice/image"
)

func Test_Prepare(t *testing.T) {
	t.Run("jpeg", testJPEG)
	t.Run("png", testPNG)
	t.Run("compressed", testCompressed)
	t.Run("deterministic", testDeterministic)
	t.Run("corrupt", testCorrupt)
}

func testJPEG(t *testing.T) {
	tensor, err := image.Prepare(encodeJPEG(t, 640, 480), image.Options{})
	if err != nil {
		t.Fatalf("preparing jpeg: %s", err)
	}

	checkTensor(t, tensor)
}

func testPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(64, 800)); err != nil {
		t.Fatalf("encoding png: %s", err)
	}

	tensor, err := image.Prepare(buf.Bytes(), image.Options{})
	if err != nil {
		t.Fatalf("preparing png: %s", err)
	}

	checkTensor(t, tensor)
}

func testCompressed(t *testing.T) {
	raw := encodeJPEG(t, 1024, 768)

	tensor, err := image.Prepare(raw, image.Options{TargetKB: 5})
	if err != nil {
		t.Fatalf("preparing with compression: %s", err)
	}

	checkTensor(t, tensor)

	// The budget is best effort, so an unreachable target must still
	// produce a usable tensor.
	tensor, err = image.Prepare(raw, image.Options{TargetKB: 1})
	if err != nil {
		t.Fatalf("preparing with tiny budget: %s", err)
	}

	checkTensor(t, tensor)
}

func testDeterministic(t *testing.T) {
	raw := encodeJPEG(t, 1024, 768)

	for _, opts := range []image.Options{{}, {TargetKB: 5}} {
		first, err := image.Prepare(raw, opts)
		if err != nil {
			t.Fatalf("first prepare with %+v: %s", opts, err)
		}

		second, err := image.Prepare(raw, opts)
		if err != nil {
			t.Fatalf("second prepare with %+v: %s", opts, err)
		}

		if !slices.Equal(first.Data, second.Data) {
			t.Errorf("identical input with %+v produced different tensors", opts)
		}
	}
}

func testCorrupt(t *testing.T) {
	_, err := image.Prepare([]byte("not an image at all"), image.Options{})
	if !errors.Is(err, image.ErrDecode) {
		t.Fatalf("garbage input: got %v, want ErrDecode", err)
	}

	_, err = image.Prepare([]byte{0xFF, 0xD8, 0xFF, 0x00}, image.Options{})
	if !errors.Is(err, image.ErrDecode) {
		t.Fatalf("truncated jpeg: got %v, want ErrDecode", err)
	}
}

// =============================================================================

func checkTensor(t *testing.T, tensor image.Tensor) {
	t.Helper()

	want := image.Size * image.Size * image.Channels
	if len(tensor.Data) != want {
		t.Fatalf("got %d values, want %d", len(tensor.Data), want)
	}

	for i, v := range tensor.Data {
		if v < 0 || v > 1 {
			t.Fatalf("value %d out of range: %v", i, v)
		}
	}
}

func testImage(w int, h int) stdimage.Image {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: uint8((x + y) % 256), A: 255})
		}
	}

	return img
}

func encodeJPEG(t *testing.T, w int, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(w, h), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encoding jpeg: %s", err)
	}

	return buf.Bytes()
}
