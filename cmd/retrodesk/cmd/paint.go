package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"retrodesk/pkg/paint"
)

var (
	exportOut    string
	exportWidth  int
	exportHeight int
)

var paintCmd = &cobra.Command{
	Use:   "paint",
	Short: "Work with paint drawings",
}

var paintExportCmd = &cobra.Command{
	Use:   "export [state.json]",
	Short: "Render a saved drawing to JPEG",
	Long: `Render a paint drawing, saved as JSON, to a JPEG image. Without a
file an empty canvas is rendered.

Examples:
  retrodesk paint export drawing.json -o drawing.jpg
  retrodesk paint export drawing.json --width 800 --height 600`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state := paint.DefaultState()
		if len(args) == 1 {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := json.Unmarshal(data, &state); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}
		}
		if exportWidth <= 0 || exportHeight <= 0 {
			return fmt.Errorf("width and height must be > 0")
		}

		data, err := paint.EncodeJPEG(state, exportWidth, exportHeight)
		if err != nil {
			return err
		}
		out := exportOut
		if out == "" {
			out = paint.ExportFileName(state)
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return err
		}
		fmt.Printf("Exported %d objects to %s\n", len(state.Objects), out)
		return nil
	},
}

func init() {
	paintExportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default: the drawing title with .jpg)")
	paintExportCmd.Flags().IntVar(&exportWidth, "width", 1055, "image width")
	paintExportCmd.Flags().IntVar(&exportHeight, "height", 689, "image height")

	paintCmd.AddCommand(paintExportCmd)
	rootCmd.AddCommand(paintCmd)
}
