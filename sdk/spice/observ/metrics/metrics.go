// Package metrics constructs the metrics the application will track.
package metrics

import (
	"expvar"
	"runtime"
	"time"
)

var m metrics

type metrics struct {
	goroutines      *expvar.Int
	requests        *expvar.Int
	errors          *expvar.Int
	panics          *expvar.Int
	modelLoadTime   *avgMetric
	prepareTime     *avgMetric
	inferenceTime   *avgMetric
	classifications *classCounts
}

func init() {
	m = metrics{
		goroutines:      expvar.NewInt("service_goroutines"),
		requests:        expvar.NewInt("service_requests"),
		errors:          expvar.NewInt("service_errors"),
		panics:          expvar.NewInt("service_panics"),
		modelLoadTime:   newAvgMetric("model_load"),
		prepareTime:     newAvgMetric("image_prepare"),
		inferenceTime:   newAvgMetric("model_inference"),
		classifications: newClassCounts("classifications"),
	}
}

// AddGoroutines refreshes the goroutine metric.
func AddGoroutines() int64 {
	g := int64(runtime.NumGoroutine())
	m.goroutines.Set(g)
	return g
}

// AddRequests increments the request metric by 1.
func AddRequests() int64 {
	m.requests.Add(1)
	return m.requests.Value()
}

// AddErrors increments the errors metric by 1.
func AddErrors() int64 {
	m.errors.Add(1)
	return m.errors.Value()
}

// AddPanics increments the panics metric by 1.
func AddPanics() int64 {
	m.panics.Add(1)
	return m.panics.Value()
}

// AddModelLoadTime captures the specified duration for loading a model file.
func AddModelLoadTime(duration time.Duration) {
	m.modelLoadTime.add(duration.Seconds())
}

// AddPrepareTime captures the specified duration for preprocessing an image.
func AddPrepareTime(duration time.Duration) {
	m.prepareTime.add(duration.Seconds())
}

// AddInferenceTime captures the specified duration for a forward pass.
func AddInferenceTime(duration time.Duration) {
	m.inferenceTime.add(duration.Seconds())
}

// AddClassification increments the counter for the predicted class and
// captures its confidence.
func AddClassification(class string, confidence float64) {
	m.classifications.add(class, confidence)
}
