// Package spice provides a concurrently safe classifier for the four
// Indonesian rhizome classes using pretrained MobileNet ONNX models.
package spice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/najmahf/spicelink/sdk/spice/image"
	"github.com/najmahf/spicelink/sdk/spice/model"
	"github.com/najmahf/spicelink/sdk/spice/observ/metrics"
)

// ErrInference indicates the forward pass failed. The request that
// triggered it fails; the classifier stays usable.
var ErrInference = errors.New("inference failed")

// ErrClosed indicates the classifier has been closed.
var ErrClosed = errors.New("classifier has been closed")

// Classifier provides a concurrently safe api for classifying prepared
// images. A session cannot run two forward passes at once, so the
// classifier maintains a pool of model instances behind a channel and
// serializes access per instance.
type Classifier struct {
	cfg    model.Config
	models chan *model.Model
	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewClassifier loads the configured model and constructs the pool.
//
// instances represents the number of model instances to create. More
// instances allow more concurrent forward passes at the price of
// memory; 1 is the right number for most deployments.
func NewClassifier(ctx context.Context, instances int, cfg model.Config) (*Classifier, error) {
	if !initialized {
		return nil, fmt.Errorf("the Init() function has not been called")
	}

	if instances <= 0 {
		return nil, fmt.Errorf("instances must be > 0, got %d", instances)
	}

	if cfg.Classes == 0 {
		cfg.Classes = NumClasses
	}

	if cfg.Classes != NumClasses {
		return nil, fmt.Errorf("expected %d output classes, got %d", NumClasses, cfg.Classes)
	}

	models := make(chan *model.Model, instances)

	for range instances {
		m, err := model.NewModel(ctx, cfg)
		if err != nil {
			close(models)
			for mdl := range models {
				mdl.Unload(ctx)
			}

			return nil, err
		}

		models <- m
	}

	c := Classifier{
		cfg:    cfg,
		models: models,
	}

	return &c, nil
}

// ModelFile returns the path of the loaded artifact.
func (c *Classifier) ModelFile() string {
	return c.cfg.ModelFile
}

// Classify runs a forward pass over the prepared image and resolves the
// resulting distribution. The call blocks until a model instance is
// free or the context is canceled.
func (c *Classifier) Classify(ctx context.Context, t image.Tensor) (Prediction, error) {
	if c.closed.Load() {
		return Prediction{}, ErrClosed
	}

	select {
	case <-ctx.Done():
		return Prediction{}, ctx.Err()

	case m, ok := <-c.models:
		if !ok {
			return Prediction{}, ErrClosed
		}

		c.wg.Add(1)

		defer func() {
			c.models <- m
			c.wg.Done()
		}()

		start := time.Now()

		out, err := m.Predict(t.Data)
		if err != nil {
			return Prediction{}, fmt.Errorf("%w: %s", ErrInference, err)
		}

		metrics.AddInferenceTime(time.Since(start))

		if len(out) != NumClasses {
			return Prediction{}, fmt.Errorf("%w: expected %d outputs, got %d", ErrInference, NumClasses, len(out))
		}

		var dist [NumClasses]float32
		copy(dist[:], out)

		prediction := Resolve(dist)
		metrics.AddClassification(prediction.Class.String(), float64(prediction.Confidence))

		return prediction, nil
	}
}

// Close waits for in-flight classifications to finish and unloads every
// model instance. The classifier cannot be used afterwards.
func (c *Classifier) Close(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()

	case <-done:
	}

	close(c.models)
	for m := range c.models {
		m.Unload(ctx)
	}

	return nil
}
