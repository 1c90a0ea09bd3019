package model

import (
	"context"
	"fmt"
	"os"
)

// Logger provides support for logging inside the model layer without
// binding it to a specific logging package.
type Logger func(ctx context.Context, msg string, args ...any)

// Config represents settings for loading a model.
//
// ModelFile: Location of the ONNX model artifact. Required.
//
// ImageSize: The width and height of the square input image. Defaults
// to 224 if the value is 0, which is what the MobileNet exports expect.
//
// Classes: The size of the output probability vector. Defaults to 4 if
// the value is 0.
//
// InputName/OutputName: The graph tensor names used by the export.
// Default to "input" and "output".
type Config struct {
	Log        Logger
	ModelFile  string
	ImageSize  int
	Classes    int
	InputName  string
	OutputName string
}

func validateConfig(cfg Config) (Config, error) {
	if cfg.ModelFile == "" {
		return Config{}, fmt.Errorf("model file is required")
	}

	if _, err := os.Stat(cfg.ModelFile); err != nil {
		return Config{}, fmt.Errorf("model file: %w", err)
	}

	if cfg.ImageSize <= 0 {
		cfg.ImageSize = 224
	}

	if cfg.Classes <= 0 {
		cfg.Classes = 4
	}

	if cfg.InputName == "" {
		cfg.InputName = "input"
	}

	if cfg.OutputName == "" {
		cfg.OutputName = "output"
	}

	if cfg.Log == nil {
		cfg.Log = func(ctx context.Context, msg string, args ...any) {}
	}

	return cfg, nil
}
