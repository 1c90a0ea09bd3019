// Package image prepares uploaded photos for classification. The models
// expect a 224x224 RGB image with pixel values scaled to [0,1].
package image

import (
	"bytes"
	"errors"
	"fmt"
	stdimage "image"
	"image/jpeg"
	"time"

	_ "image/png"

	"github.com/najmahf/spicelink/sdk/spice/observ/metrics"
	"github.com/nfnt/resize"
)

// Size is the width and height in pixels of a prepared image.
const Size = 224

// Channels is the number of color channels of a prepared image.
const Channels = 3

// ErrDecode indicates the uploaded bytes are not a supported image.
// Supported formats are jpg/jpeg/png.
var ErrDecode = errors.New("unsupported or corrupt image")

// Compression quality search. A fixed descending sequence keeps the
// step deterministic for identical input.
const (
	qualityStart = 85
	qualityStep  = 5
	qualityMin   = 30
)

// Options represent optional preprocessing behavior.
//
// TargetKB: When > 0, the image is re-encoded as JPEG with decreasing
// quality until the payload fits the budget. This is best effort; when
// quality bottoms out the last attempt is used regardless of size.
type Options struct {
	TargetKB int
}

// Tensor holds the prepared pixel data in NHWC order without the batch
// dimension: row by row, three floats per pixel. Treat it as read-only
// once returned.
type Tensor struct {
	Data []float32
}

// Prepare decodes the raw upload, optionally recompresses it toward the
// byte budget, resizes it to Size x Size and normalizes the pixels.
func Prepare(raw []byte, opts Options) (Tensor, error) {
	start := time.Now()

	img, _, err := stdimage.Decode(bytes.NewReader(raw))
	if err != nil {
		return Tensor{}, fmt.Errorf("%w: %s", ErrDecode, err)
	}

	if opts.TargetKB > 0 {
		img, err = compress(img, opts.TargetKB)
		if err != nil {
			return Tensor{}, fmt.Errorf("prepare: %w", err)
		}
	}

	resized := resize.Resize(Size, Size, img, resize.Lanczos3)

	data := make([]float32, Size*Size*Channels)

	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()

			// RGBA reports 16 bit channels.
			idx := (y*Size + x) * Channels
			data[idx] = float32(r) / 65535.0
			data[idx+1] = float32(g) / 65535.0
			data[idx+2] = float32(b) / 65535.0
		}
	}

	metrics.AddPrepareTime(time.Since(start))

	return Tensor{Data: data}, nil
}

// compress walks the quality sequence 85, 80, ... 30 and stops at the
// first encoding that fits the budget. The last attempt wins when none
// do.
func compress(img stdimage.Image, targetKB int) (stdimage.Image, error) {
	target := targetKB * 1024

	var buf bytes.Buffer

	for quality := qualityStart; quality >= qualityMin; quality -= qualityStep {
		buf.Reset()

		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("compress: encode at quality %d: %w", quality, err)
		}

		if buf.Len() <= target {
			break
		}
	}

	out, err := jpeg.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("compress: decode: %w", err)
	}

	return out, nil
}
