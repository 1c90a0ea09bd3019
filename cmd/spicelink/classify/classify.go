// Package classify provides the classify command code.
package classify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/najmahf/spicelink/sdk/spice"
	"github.com/najmahf/spicelink/sdk/spice/image"
	"github.com/najmahf/spicelink/sdk/spice/model"
	"github.com/najmahf/spicelink/sdk/tools/catalog"
	"github.com/najmahf/spicelink/sdk/tools/registry"
)

// ErrInvalidArguments indicates the command arguments were malformed.
var ErrInvalidArguments = errors.New("invalid arguments")

// Run classifies the image file from the command line using the
// specified model.
func Run(args []string) error {
	if len(args) < 2 {
		return ErrInvalidArguments
	}

	modelName := args[0]
	imageFile := args[1]

	var opts image.Options
	if len(args) == 3 {
		kb, err := strconv.Atoi(args[2])
		if err != nil || kb <= 0 {
			return fmt.Errorf("%w: target kb %q", ErrInvalidArguments, args[2])
		}
		opts.TargetKB = kb
	}

	basePath := os.Getenv("SPICELINK_MODEL_BASE_PATH")
	if basePath == "" {
		basePath = "zarf/models"
	}

	reg := registry.New(basePath)

	d, err := reg.Resolve(modelName)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(imageFile)
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	tensor, err := image.Prepare(raw, opts)
	if err != nil {
		return fmt.Errorf("preparing image: %w", err)
	}

	var initOpts []spice.InitOption
	if libPath := os.Getenv("SPICELINK_MODEL_LIB_PATH"); libPath != "" {
		initOpts = append(initOpts, spice.WithLibPath(libPath))
	}

	if err := spice.Init(initOpts...); err != nil {
		return fmt.Errorf("initializing onnx runtime: %w", err)
	}
	defer spice.Teardown()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	clf, err := spice.NewClassifier(ctx, 1, model.Config{
		ModelFile: d.File,
		ImageSize: d.ImageSize,
	})
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}
	defer clf.Close(ctx)

	prediction, err := clf.Classify(ctx, tensor)
	if err != nil {
		return fmt.Errorf("classify: %w", err)
	}

	ctlg, err := catalog.New()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	print(modelName, prediction, ctlg.Description(prediction.Class))

	return nil
}

func print(modelName string, p spice.Prediction, description string) {
	fmt.Printf("Model:      %s\n", modelName)
	fmt.Printf("Class:      %s\n", p.Class)
	fmt.Printf("Confidence: %.2f%%\n", p.Confidence*100)
	fmt.Printf("\n%s\n\n", description)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CLASS\tSCORE")

	for _, class := range spice.Classes() {
		fmt.Fprintf(w, "%s\t%.4f\n", class, p.Distribution[class])
	}

	w.Flush()
}
