package image

import "testing"

// The quality walk is bounded so a hostile byte budget cannot turn one
// upload into an unbounded amount of JPEG encoding work.
func Test_CompressBound(t *testing.T) {
	var encodes int
	for quality := qualityStart; quality >= qualityMin; quality -= qualityStep {
		encodes++
	}

	if encodes > 12 {
		t.Fatalf("quality walk performs %d encodes, want at most 12", encodes)
	}
}
