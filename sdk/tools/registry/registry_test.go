package registry_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/najmahf/spicelink/sdk/tools/registry"
)

func Test_Registry(t *testing.T) {
	t.Run("resolve", testResolve)
	t.Run("unknown", testUnknown)
	t.Run("list", testList)
	t.Run("fromFile", testFromFile)
	t.Run("available", testAvailable)
}

func testResolve(t *testing.T) {
	reg := registry.New("zarf/models")

	d, err := reg.Resolve("MobileNetV2")
	if err != nil {
		t.Fatalf("resolving MobileNetV2: %s", err)
	}

	if want := filepath.Join("zarf/models", "mobilenet_v2_no_dropout.onnx"); d.File != want {
		t.Errorf("got file %q, want %q", d.File, want)
	}

	if d.ImageSize != 224 {
		t.Errorf("got image size %d, want 224", d.ImageSize)
	}

	if d.Accuracy != 0.97 {
		t.Errorf("got accuracy %v, want 0.97", d.Accuracy)
	}

	if !strings.Contains(d.Description, "tanpa dropout") {
		t.Errorf("got description %q, want the training notes", d.Description)
	}
}

func testUnknown(t *testing.T) {
	reg := registry.New("zarf/models")

	_, err := reg.Resolve("ResNet50")
	if !errors.Is(err, registry.ErrUnknownModel) {
		t.Fatalf("got %v, want ErrUnknownModel", err)
	}
}

func testList(t *testing.T) {
	reg := registry.New("zarf/models")

	list := reg.List()

	if len(list) != 2 {
		t.Fatalf("got %d models, want 2", len(list))
	}

	if list[0].Name != "MobileNetV1" || list[1].Name != "MobileNetV2" {
		t.Errorf("list not sorted by name: %v, %v", list[0].Name, list[1].Name)
	}
}

func testFromFile(t *testing.T) {
	cfg := `
MobileNetV2:
  file: custom_v2.onnx
Experimental:
  file: experimental.onnx
  image_size: 192
  description: eksperimen internal
  accuracy: 0.91
`

	file := filepath.Join(t.TempDir(), "models.yaml")
	if err := os.WriteFile(file, []byte(cfg), 0o644); err != nil {
		t.Fatalf("writing config: %s", err)
	}

	reg, err := registry.NewFromFile("base", file)
	if err != nil {
		t.Fatalf("creating registry: %s", err)
	}

	// Built-ins stay unless the file overrides them.
	d, err := reg.Resolve("MobileNetV1")
	if err != nil {
		t.Fatalf("resolving built-in: %s", err)
	}
	if want := filepath.Join("base", "mobilenet_v1_no_dropout.onnx"); d.File != want {
		t.Errorf("got file %q, want %q", d.File, want)
	}

	d, err = reg.Resolve("MobileNetV2")
	if err != nil {
		t.Fatalf("resolving override: %s", err)
	}
	if want := filepath.Join("base", "custom_v2.onnx"); d.File != want {
		t.Errorf("override: got file %q, want %q", d.File, want)
	}

	d, err = reg.Resolve("Experimental")
	if err != nil {
		t.Fatalf("resolving new entry: %s", err)
	}
	if d.ImageSize != 192 {
		t.Errorf("got image size %d, want 192", d.ImageSize)
	}
	if d.Description != "eksperimen internal" || d.Accuracy != 0.91 {
		t.Errorf("got description %q accuracy %v, want the configured notes", d.Description, d.Accuracy)
	}
}

func testAvailable(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "mobilenet_v1_no_dropout.onnx"), []byte("stub"), 0o644); err != nil {
		t.Fatalf("writing artifact: %s", err)
	}

	reg := registry.New(dir)

	d1, err := reg.Resolve("MobileNetV1")
	if err != nil {
		t.Fatalf("resolving: %s", err)
	}

	if !reg.Available(d1) {
		t.Error("expected MobileNetV1 to be available")
	}

	d2, err := reg.Resolve("MobileNetV2")
	if err != nil {
		t.Fatalf("resolving: %s", err)
	}

	if reg.Available(d2) {
		t.Error("expected MobileNetV2 to be missing")
	}
}
