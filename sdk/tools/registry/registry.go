// Package registry maps the selectable model names to their artifacts
// on disk.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// ErrUnknownModel indicates the requested name is not in the configured
// set of models.
var ErrUnknownModel = errors.New("unknown model")

// Descriptor describes one selectable model. Description and Accuracy
// carry the training notes shown alongside the model in listings.
type Descriptor struct {
	Name        string
	File        string
	ImageSize   int
	Description string
	Accuracy    float64
}

// Registry resolves model names against a fixed set configured at
// construction. Resolution is a pure lookup and performs no file I/O.
type Registry struct {
	basePath string
	models   map[string]Descriptor
}

// New constructs the registry with the built-in MobileNet descriptors.
// basePath is the directory holding the model artifacts.
func New(basePath string) *Registry {
	return &Registry{
		basePath: basePath,
		models: map[string]Descriptor{
			"MobileNetV1": {
				Name:        "MobileNetV1",
				File:        "mobilenet_v1_no_dropout.onnx",
				ImageSize:   224,
				Description: "MobileNet V1 tanpa dropout dengan dua fully connected layer, optimizer Adam, 15 epoch",
				Accuracy:    0.95,
			},
			"MobileNetV2": {
				Name:        "MobileNetV2",
				File:        "mobilenet_v2_no_dropout.onnx",
				ImageSize:   224,
				Description: "MobileNet V2 tanpa dropout dengan dua fully connected layer, optimizer Adam, 15 epoch",
				Accuracy:    0.97,
			},
		},
	}
}

type fileDescriptor struct {
	File        string  `yaml:"file"`
	ImageSize   int     `yaml:"image_size"`
	Description string  `yaml:"description"`
	Accuracy    float64 `yaml:"accuracy"`
}

// NewFromFile constructs the registry from a YAML file mapping model
// names to artifacts, layered over the built-in descriptors. Entries in
// the file replace built-ins with the same name.
func NewFromFile(basePath string, configFile string) (*Registry, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("reading registry config: %w", err)
	}

	var entries map[string]fileDescriptor
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshaling registry config: %w", err)
	}

	r := New(basePath)

	for name, fd := range entries {
		if fd.File == "" {
			return nil, fmt.Errorf("registry config: model %q missing file", name)
		}

		imageSize := fd.ImageSize
		if imageSize <= 0 {
			imageSize = 224
		}

		r.models[name] = Descriptor{
			Name:        name,
			File:        fd.File,
			ImageSize:   imageSize,
			Description: fd.Description,
			Accuracy:    fd.Accuracy,
		}
	}

	return r, nil
}

// Resolve returns the descriptor for the specified model name. The File
// field is resolved against the registry base path.
func (r *Registry) Resolve(name string) (Descriptor, error) {
	d, exists := r.models[name]
	if !exists {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}

	d.File = filepath.Join(r.basePath, d.File)

	return d, nil
}

// List returns all descriptors sorted by name with resolved file paths.
func (r *Registry) List() []Descriptor {
	list := make([]Descriptor, 0, len(r.models))

	for _, d := range r.models {
		d.File = filepath.Join(r.basePath, d.File)
		list = append(list, d)
	}

	slices.SortFunc(list, func(a, b Descriptor) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})

	return list
}

// Available reports whether the descriptor's artifact exists on disk.
// This is the only registry call that touches the filesystem.
func (r *Registry) Available(d Descriptor) bool {
	info, err := os.Stat(d.File)
	return err == nil && !info.IsDir()
}
