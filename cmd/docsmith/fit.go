package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wudi/docsmith/actions"
)

var fitInput actions.FitPreviewInput

var fitCmd = &cobra.Command{
	Use:   "fit [text]",
	Short: "Preview the auto-fit size search for text in a box",
	Long: `Run the descending size search for a piece of text in a box and
print the outcome: the chosen size, the wrapped lines, and whether the
text fits at all. Text comes from the argument or stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFit,
}

func init() {
	fitCmd.Flags().Float64Var(&fitInput.WidthPt, "width", 400, "box width in points")
	fitCmd.Flags().Float64Var(&fitInput.HeightPt, "height", 120, "box height in points")
	fitCmd.Flags().StringVar(&fitInput.Font, "font", "", "font family")
	fitCmd.Flags().Float64Var(&fitInput.SizePt, "size", 0, "starting size in points")
	fitCmd.Flags().Float64Var(&fitInput.MinSizePt, "min-size", 0, "size floor in points")
	fitCmd.Flags().Float64Var(&fitInput.LineSpacing, "line-spacing", 0, "line spacing multiplier")
	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		fitInput.Text = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		fitInput.Text = string(data)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := newService(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out, err := svc.FitPreview(cmd.Context(), fitInput)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	if !out.Fits {
		fmt.Fprintln(cmd.ErrOrStderr(), "text overflows even at the size floor")
	}
	return nil
}
