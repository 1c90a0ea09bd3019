package spice

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	initOnce    sync.Once
	initErr     error
	initialized bool
)

type initOptions struct {
	libPath string
}

// InitOption represents options for configuring Init.
type InitOption func(*initOptions)

// WithLibPath sets a custom path to the onnxruntime shared library.
// If not set, the platform default discovery is used.
func WithLibPath(libPath string) InitOption {
	return func(o *initOptions) {
		o.libPath = libPath
	}
}

// Init initializes the ONNX runtime environment. It must be called once
// before any classifier is constructed. Calling it again is a no-op that
// returns the result of the first call.
func Init(opts ...InitOption) error {
	initOnce.Do(func() {
		var o initOptions
		for _, opt := range opts {
			opt(&o)
		}

		if o.libPath != "" {
			ort.SetSharedLibraryPath(o.libPath)
		}

		if err := ort.InitializeEnvironment(); err != nil {
			initErr = fmt.Errorf("init: unable to initialize onnx runtime: %w", err)
			return
		}

		initialized = true
	})

	return initErr
}

// Teardown releases the ONNX runtime environment. Only call this at
// process shutdown after every classifier has been closed.
func Teardown() error {
	if !initialized {
		return nil
	}

	return ort.DestroyEnvironment()
}
