package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"go-barcode-generator/internal/config"
	"go-barcode-generator/internal/imaging"
	"go-barcode-generator/internal/models"
	"go-barcode-generator/internal/services"
)

// RenderCmd renders one symbol to a 300 DPI PNG. Unset flags keep the
// values of the last successful render stored in the config file.
func RenderCmd(app *App) *cobra.Command {
	var (
		format   string
		scale    int
		rotate   int
		columns  int
		ecLevel  int
		widthCM  float64
		heightCM float64
		out      string
		verify   bool
	)

	cmd := &cobra.Command{
		Use:   "render [content]",
		Short: "Render content as a barcode PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config.Barcode.RenderConfig
			if len(args) == 1 {
				cfg.Content = args[0]
			}

			flags := cmd.Flags()
			if flags.Changed("format") {
				idx, ok := services.FormatIndex(format)
				if !ok {
					return fmt.Errorf("%w: unknown format %q", services.ErrInvalidIndex, format)
				}
				cfg.FormatIndex = idx
			}
			if flags.Changed("scale") {
				idx, err := indexOf(services.Scales, scale, "scale")
				if err != nil {
					return err
				}
				cfg.ScaleIndex = idx
			}
			if flags.Changed("rotate") {
				idx, err := indexOf(services.Rotations, rotate, "rotation")
				if err != nil {
					return err
				}
				cfg.RotateIndex = idx
			}
			if flags.Changed("columns") {
				cfg.ColumnsIndex = columns - 1
			}
			if flags.Changed("eclevel") {
				cfg.ECLevelIndex = ecLevel
			}
			if flags.Changed("width-cm") {
				cfg.WidthCM = widthCM
			}
			if flags.Changed("height-cm") {
				cfg.HeightCM = heightCM
			}

			sym, err := app.Barcodes.Render(cfg)
			if err != nil {
				return err
			}

			if out == "" {
				out = filepath.Join(app.Config.Export.OutputDir, services.AdhocFileName(time.Now()))
			}
			if err := imaging.WritePNG300DPI(out, sym.Image); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %dx%d -> %s\n", okMark, sym.FormatName, sym.Width, sym.Height, out)

			if verify {
				switch err := app.Verifier.Verify(sym.Image, sym.FormatName, cfg.Content); {
				case err == nil:
					fmt.Fprintf(cmd.OutOrStdout(), "%s decoded content matches\n", okMark)
				case !app.Verifier.CanVerify(sym.FormatName):
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s cannot be verified\n", warnMark, sym.FormatName)
				default:
					return fmt.Errorf("verification failed: %w", err)
				}
			}

			if app.History != nil {
				if err := app.History.Record(&models.GenerationRecord{
					Source:  "cli",
					Format:  sym.FormatName,
					Content: cfg.Content,
					Width:   sym.Width,
					Height:  sym.Height,
				}); err != nil {
					app.Logger.Error("Failed to record generation history", err)
				}
			}

			app.Config.Barcode.RenderConfig = cfg
			if err := config.SaveBarcode(app.ConfigPath, app.Config.Barcode); err != nil {
				app.Logger.Warn("Failed to save render settings", map[string]interface{}{"error": err.Error()})
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "symbology name, e.g. PDF417, QRCode, Code128")
	cmd.Flags().IntVar(&scale, "scale", 2, "module scale 1..5")
	cmd.Flags().IntVar(&rotate, "rotate", 0, "rotation in degrees: 0, 90, 180 or 270")
	cmd.Flags().IntVar(&columns, "columns", 4, "PDF417 data columns 1..30")
	cmd.Flags().IntVar(&ecLevel, "eclevel", 2, "error correction level")
	cmd.Flags().Float64Var(&widthCM, "width-cm", 0, "physical width in cm, 0 for natural size")
	cmd.Flags().Float64Var(&heightCM, "height-cm", 0, "physical height in cm, 0 for natural size")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output PNG path")
	cmd.Flags().BoolVar(&verify, "verify", false, "decode the result and compare it with the content")
	return cmd
}

func indexOf(values []int, v int, name string) (int, error) {
	for i, candidate := range values {
		if candidate == v {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s %d, valid values are %v", services.ErrInvalidIndex, name, v, values)
}
