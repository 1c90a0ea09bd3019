// Package model provides the low-level api for running a forward pass
// against a single ONNX session.
package model

import (
	"context"
	"fmt"
	"time"

	"github.com/najmahf/spicelink/sdk/spice/observ/metrics"
	ort "github.com/yalue/onnxruntime_go"
)

// Model wraps one ONNX session with preallocated input and output
// tensors. A session reuses its tensors between runs, so a Model must
// never execute two forward passes at the same time. The classifier
// above this layer serializes access.
type Model struct {
	cfg     Config
	log     Logger
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// NewModel loads the model artifact from disk and constructs the session.
func NewModel(ctx context.Context, cfg Config) (*Model, error) {
	cfg, err := validateConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("new-model: unable to validate config: %w", err)
	}

	start := time.Now()

	inputShape := ort.NewShape(1, int64(cfg.ImageSize), int64(cfg.ImageSize), 3)
	outputShape := ort.NewShape(1, int64(cfg.Classes))

	input, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("new-model: unable to create input tensor: %w", err)
	}

	output, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("new-model: unable to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(cfg.ModelFile,
		[]string{cfg.InputName}, []string{cfg.OutputName},
		[]ort.ArbitraryTensor{input}, []ort.ArbitraryTensor{output},
		nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("new-model: unable to create session: %w", err)
	}

	metrics.AddModelLoadTime(time.Since(start))

	cfg.Log(ctx, "new-model", "modelFile", cfg.ModelFile, "imageSize", cfg.ImageSize, "loadTime", time.Since(start))

	m := Model{
		cfg:     cfg,
		log:     cfg.Log,
		session: session,
		input:   input,
		output:  output,
	}

	return &m, nil
}

// InputLen returns the number of float values the model expects.
func (m *Model) InputLen() int {
	return m.cfg.ImageSize * m.cfg.ImageSize * 3
}

// Predict runs one forward pass with a leading batch dimension of 1 and
// returns a copy of the output probability vector.
func (m *Model) Predict(data []float32) ([]float32, error) {
	if len(data) != m.InputLen() {
		return nil, fmt.Errorf("predict: expected %d values, got %d", m.InputLen(), len(data))
	}

	copy(m.input.GetData(), data)

	if err := m.session.Run(); err != nil {
		return nil, fmt.Errorf("predict: forward pass: %w", err)
	}

	out := m.output.GetData()

	dist := make([]float32, len(out))
	copy(dist, out)

	return dist, nil
}

// Unload releases the session and its tensors.
func (m *Model) Unload(ctx context.Context) {
	m.log(ctx, "unload", "modelFile", m.cfg.ModelFile)

	if m.session != nil {
		m.session.Destroy()
	}
	if m.input != nil {
		m.input.Destroy()
	}
	if m.output != nil {
		m.output.Destroy()
	}
}
