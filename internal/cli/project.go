package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"go-barcode-generator/internal/models"
	"go-barcode-generator/internal/reagent"
	"go-barcode-generator/internal/services"
)

func ProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Reagent project label batches",
	}
	cmd.AddCommand(projectListCmd(app), projectDefaultsCmd(app), projectGenerateCmd(app))
	return cmd
}

func projectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tPROJECT\tREAGENTS\tCONTROL")
			for i, p := range app.Catalog.Projects {
				names := make([]string, len(p.Reagents))
				for j, r := range p.Reagents {
					names[j] = r.Name
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s%s\n", i, p.Name, strings.Join(names, ", "), p.ControlNoDefault, p.ControlNoSuffix)
			}
			return w.Flush()
		},
	}
}

func projectDefaultsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "defaults <name>",
		Short: "Show the pre-filled values of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := findProject(app, args[0])
			if err != nil {
				return err
			}

			d := reagent.ProjectDefaults(project, reagent.DefaultExpiry(time.Now()))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project:      %s\n", project.Name)
			fmt.Fprintf(out, "Control no:   %s\n", d.ControlNo)
			fmt.Fprintf(out, "Project bits: %s\n", d.ProjectBits)
			fmt.Fprintf(out, "Expiry:       %s\n", d.Expiry)
			for i, r := range project.Reagents {
				fmt.Fprintf(out, "SN %-12s %s\n", r.Name+":", d.SerialNos[i])
			}
			return nil
		},
	}
}

func projectGenerateCmd(app *App) *cobra.Command {
	var (
		serials   []string
		controlNo string
		expiry    string
		bits      string
		outDir    string
		zipPath   string
		pdfPath   string
	)

	cmd := &cobra.Command{
		Use:   "generate <name>",
		Short: "Render every label of a project",
		Long: `Render the long label and the short label of every reagent in the
project. Values not given on the command line take the project defaults.
PNGs are written to --out-dir; --zip and --pdf write an archive and a
printable label sheet as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := findProject(app, args[0])
			if err != nil {
				return err
			}

			d := reagent.ProjectDefaults(project, reagent.DefaultExpiry(time.Now()))
			req := services.GenerateRequest{
				SerialNos:    d.SerialNos,
				ControlNo:    d.ControlNo,
				Expiry:       d.Expiry,
				BitsOverride: bits,
			}
			if cmd.Flags().Changed("sn") {
				req.SerialNos = serials
			}
			if controlNo != "" {
				req.ControlNo = controlNo
			}
			if expiry != "" {
				req.Expiry = expiry
			}

			items, err := app.Projects.GenerateProjectBarcodes(project, req)
			if err != nil {
				return err
			}

			if outDir == "" {
				outDir = filepath.Join(app.Config.Export.OutputDir, project.Name)
			}
			paths, err := app.Exports.WriteDir(items, outDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, item := range items {
				fmt.Fprintf(out, "%s %-20s %4dx%-4d %s\n", okMark, item.Label, item.Symbol.Width, item.Symbol.Height, paths[i])
			}

			if zipPath != "" {
				if err := writeFile(zipPath, func(f *os.File) error { return app.Exports.WriteZip(items, f) }); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s archive -> %s\n", okMark, zipPath)
			}
			if pdfPath != "" {
				if err := writeFile(pdfPath, func(f *os.File) error { return app.Exports.WritePDF(items, f) }); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s label sheet -> %s\n", okMark, pdfPath)
			}

			app.Logger.LogBusinessEvent("Project batch generated", "project", "generate", map[string]interface{}{
				"project": project.Name,
				"labels":  len(items),
				"dir":     outDir,
			})
			recordBatch(app, project.Name, items)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&serials, "sn", nil, "serial numbers in reagent order, comma separated")
	cmd.Flags().StringVar(&controlNo, "control-no", "", "control number")
	cmd.Flags().StringVar(&expiry, "expiry", "", "expiry date YYYY-MM-DD")
	cmd.Flags().StringVar(&bits, "bits", "", "project bits override for long labels")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for the PNG files")
	cmd.Flags().StringVar(&zipPath, "zip", "", "also write a zip archive")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "also write a PDF label sheet")
	return cmd
}

func findProject(app *App, name string) (*reagent.Project, error) {
	project, ok := app.Catalog.Find(name)
	if !ok {
		return nil, fmt.Errorf("unknown project %q, available: %s", name, strings.Join(app.Catalog.Names(), ", "))
	}
	return project, nil
}

func writeFile(path string, write func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func recordBatch(app *App, project string, items []services.LabeledBarcode) {
	if app.History == nil {
		return
	}
	records := make([]*models.GenerationRecord, 0, len(items))
	for _, item := range items {
		records = append(records, &models.GenerationRecord{
			Source:  "cli",
			Project: project,
			Label:   item.Label,
			Format:  item.Symbol.FormatName,
			Content: item.Content,
			Width:   item.Symbol.Width,
			Height:  item.Symbol.Height,
		})
	}
	if err := app.History.Record(records...); err != nil {
		app.Logger.Error("Failed to record generation history", err)
	}
}
