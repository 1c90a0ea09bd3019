package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	stdimage "image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/najmahf/spicelink/cmd/server/api/services/spicelink/build"
	"github.com/najmahf/spicelink/cmd/server/app/sdk/cache"
	"github.com/najmahf/spicelink/cmd/server/app/sdk/mux"
	"github.com/najmahf/spicelink/cmd/server/app/sdk/results"
	"github.com/najmahf/spicelink/cmd/server/foundation/logger"
	"github.com/najmahf/spicelink/sdk/spice"
	"github.com/najmahf/spicelink/sdk/spice/image"
	"github.com/najmahf/spicelink/sdk/tools/catalog"
	"github.com/najmahf/spicelink/sdk/tools/registry"
	"go.opentelemetry.io/otel/trace/noop"
)

type classifyResponse struct {
	ID          string             `json:"id"`
	Model       string             `json:"model"`
	Class       string             `json:"class"`
	Confidence  float32            `json:"confidence"`
	Description string             `json:"description"`
	Predictions map[string]float32 `json:"predictions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func Test_Classify(t *testing.T) {
	srv, classifies := startServer(t)

	t.Run("ok", func(t *testing.T) {
		resp := postImage(t, srv.URL+"/v1/classify/MobileNetV2", validJPEG(t), "")
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("got status %d, want 200: %s", resp.StatusCode, readBody(t, resp))
		}

		var cr classifyResponse
		if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
			t.Fatalf("decoding response: %s", err)
		}

		if cr.Class != "Kunyit" {
			t.Errorf("got class %q, want Kunyit", cr.Class)
		}

		if cr.Model != "MobileNetV2" {
			t.Errorf("got model %q, want MobileNetV2", cr.Model)
		}

		if cr.Description == "" || cr.Description == catalog.NoDescription {
			t.Errorf("got description %q", cr.Description)
		}

		if len(cr.Predictions) != spice.NumClasses {
			t.Errorf("got %d predictions, want %d", len(cr.Predictions), spice.NumClasses)
		}

		if cr.ID == "" {
			t.Fatal("expected a result id")
		}

		// The stored result is retrievable by its id.
		lookup, err := http.Get(srv.URL + "/v1/classify/results/" + cr.ID)
		if err != nil {
			t.Fatalf("retrieving result: %s", err)
		}
		defer lookup.Body.Close()

		if lookup.StatusCode != http.StatusOK {
			t.Fatalf("lookup: got status %d, want 200", lookup.StatusCode)
		}

		var lr classifyResponse
		if err := json.NewDecoder(lookup.Body).Decode(&lr); err != nil {
			t.Fatalf("decoding lookup: %s", err)
		}

		if lr.ID != cr.ID || lr.Class != cr.Class {
			t.Errorf("lookup mismatch: got %q/%q, want %q/%q", lr.ID, lr.Class, cr.ID, cr.Class)
		}
	})

	t.Run("unknownModel", func(t *testing.T) {
		resp := postImage(t, srv.URL+"/v1/classify/ResNet50", validJPEG(t), "")
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400", resp.StatusCode)
		}
	})

	t.Run("corruptImage", func(t *testing.T) {
		before := classifies.Load()

		resp := postImage(t, srv.URL+"/v1/classify/MobileNetV2", []byte("definitely not pixels"), "")
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400", resp.StatusCode)
		}

		var er errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
			t.Fatalf("decoding error: %s", err)
		}

		if er.Error == "" {
			t.Error("expected an error message")
		}

		if classifies.Load() != before {
			t.Error("corrupt upload reached the classifier")
		}
	})

	t.Run("missingFile", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/v1/classify/MobileNetV2", "multipart/form-data; boundary=x", bytes.NewReader([]byte("--x--")))
		if err != nil {
			t.Fatalf("posting: %s", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400", resp.StatusCode)
		}
	})

	t.Run("invalidTargetKB", func(t *testing.T) {
		resp := postImage(t, srv.URL+"/v1/classify/MobileNetV2", validJPEG(t), "abc")
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400", resp.StatusCode)
		}
	})

	t.Run("targetKB", func(t *testing.T) {
		resp := postImage(t, srv.URL+"/v1/classify/MobileNetV2", validJPEG(t), "50")
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("got status %d, want 200: %s", resp.StatusCode, readBody(t, resp))
		}
	})

	t.Run("resultNotFound", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/classify/results/0e64a5e4-40f7-4dbd-9dc9-2fbf41b6b948")
		if err != nil {
			t.Fatalf("getting: %s", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("got status %d, want 404", resp.StatusCode)
		}
	})

	t.Run("resultBadID", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/classify/results/not-a-uuid")
		if err != nil {
			t.Fatalf("getting: %s", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400", resp.StatusCode)
		}
	})
}

// =============================================================================

// startServer runs the full route stack with a stubbed model loader so
// no onnx runtime is required. The returned counter tracks forward
// passes.
func startServer(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)

	var classifies atomic.Int64

	load := func(ctx context.Context, d registry.Descriptor) (cache.Classifier, error) {
		return stubClassifier{classifies: &classifies}, nil
	}

	reg := registry.New(t.TempDir())

	ctlg, err := catalog.New()
	if err != nil {
		t.Fatalf("creating catalog: %s", err)
	}

	c, err := cache.New(cache.Config{
		Log:      log,
		Registry: reg,
		Load:     load,
	})
	if err != nil {
		t.Fatalf("creating cache: %s", err)
	}

	store, err := results.NewStore(0, 0)
	if err != nil {
		t.Fatalf("creating results store: %s", err)
	}

	cfg := mux.Config{
		Build:    "test",
		Log:      log,
		Tracer:   noop.NewTracerProvider().Tracer("test"),
		Cache:    c,
		Registry: reg,
		Catalog:  ctlg,
		Results:  store,
	}

	srv := httptest.NewServer(mux.WebAPI(cfg, build.Routes()))
	t.Cleanup(srv.Close)

	return srv, &classifies
}

type stubClassifier struct {
	classifies *atomic.Int64
}

func (s stubClassifier) Classify(ctx context.Context, tns image.Tensor) (spice.Prediction, error) {
	s.classifies.Add(1)
	return spice.Resolve([spice.NumClasses]float32{0.05, 0.05, 0.85, 0.05}), nil
}

func (s stubClassifier) Close(ctx context.Context) error {
	return nil
}

func postImage(t *testing.T, url string, img []byte, targetKB string) *http.Response {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("image", "upload.jpg")
	if err != nil {
		t.Fatalf("creating form file: %s", err)
	}

	if _, err := part.Write(img); err != nil {
		t.Fatalf("writing form file: %s", err)
	}

	if targetKB != "" {
		if err := w.WriteField("target_kb", targetKB); err != nil {
			t.Fatalf("writing field: %s", err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("closing writer: %s", err)
	}

	resp, err := http.Post(url, w.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("posting: %s", err)
	}

	return resp
}

func validJPEG(t *testing.T) []byte {
	t.Helper()

	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 320, 240))
	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encoding jpeg: %s", err)
	}

	return buf.Bytes()
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %s", err)
	}

	return fmt.Sprintf("%s", data)
}
