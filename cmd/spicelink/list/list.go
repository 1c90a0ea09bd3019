// Package list provides the list command code.
package list

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/najmahf/spicelink/sdk/tools/registry"
)

// Run prints the selectable models and whether their artifacts are
// present on disk.
func Run(args []string) error {
	basePath := os.Getenv("SPICELINK_MODEL_BASE_PATH")
	if basePath == "" {
		basePath = "zarf/models"
	}

	reg := registry.New(basePath)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tFILE\tIMAGE SIZE\tACCURACY\tAVAILABLE")

	for _, d := range reg.List() {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%t\n", d.Name, d.File, d.ImageSize, d.Accuracy, reg.Available(d))
	}

	return w.Flush()
}
