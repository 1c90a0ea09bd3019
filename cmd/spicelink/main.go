package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/najmahf/spicelink/cmd/server/api/services/spicelink"
	"github.com/najmahf/spicelink/cmd/spicelink/classify"
	"github.com/najmahf/spicelink/cmd/spicelink/list"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "spicelink",
	Short: "Classify Indonesian rhizome spices from photos",
	Long:  "Classify Indonesian rhizome spices (jahe, kencur, kunyit, lengkuas) from photos using pretrained MobileNet ONNX models. Run the server for the web API and upload page, or classify files directly from the command line.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().BoolP("version", "v", false, "Show version information")
	rootCmd.SetVersionTemplate(version)

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(listCmd)
}

var serverCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"start"},
	Short:   "Start the classification server",
	Long: `Start the classification server

Environment Variables:
      SPICELINK_WEB_API_HOST         (default: localhost:8080)  IP Address for the api server
      SPICELINK_WEB_DEBUG_HOST       (default: localhost:8090)  IP Address for the debug server
      SPICELINK_MODEL_BASE_PATH      (default: zarf/models)     The path to the model artifacts
      SPICELINK_MODEL_LIB_PATH       (default: system)          The path to the onnxruntime shared library
      SPICELINK_MODEL_MAX_IN_CACHE   (default: 4)               Maximum models kept in memory
      SPICELINK_MODEL_MAX_INSTANCES  (default: 1)               Instances per model for parallel requests`,
	Args: cobra.NoArgs,
	Run:  runServer,
}

var classifyCmd = &cobra.Command{
	Use:   "classify <MODEL_NAME> <IMAGE_FILE> [TARGET_KB]",
	Short: "Classify an image file without the server",
	Long: `Classify an image file without the server. The optional TARGET_KB
recompresses the image toward that size before inference.

Environment Variables:
      SPICELINK_MODEL_BASE_PATH  (default: zarf/models)  The path to the model artifacts
      SPICELINK_MODEL_LIB_PATH   (default: system)       The path to the onnxruntime shared library`,
	Args: cobra.RangeArgs(2, 3),
	Run:  runClassify,
}

var listCmd = &cobra.Command{
	Use:   "models",
	Short: "List selectable models",
	Long: `List selectable models

Environment Variables:
      SPICELINK_MODEL_BASE_PATH  (default: zarf/models)  The path to the model artifacts`,
	Args: cobra.NoArgs,
	Run:  runList,
}

func runServer(cmd *cobra.Command, args []string) {
	if err := spicelink.Run(false); err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(1)
	}
}

func runClassify(cmd *cobra.Command, args []string) {
	if err := classify.Run(args); err != nil {
		if errors.Is(err, classify.ErrInvalidArguments) {
			cmd.Help()
			os.Exit(1)
		}

		fmt.Println("ERROR:", err)
		os.Exit(1)
	}
}

func runList(cmd *cobra.Command, args []string) {
	if err := list.Run(args); err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(1)
	}
}
