// Package cli holds the barcodegen commands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"go-barcode-generator/internal/config"
	"go-barcode-generator/internal/logger"
	"go-barcode-generator/internal/reagent"
	"go-barcode-generator/internal/repository"
	"go-barcode-generator/internal/scan"
	"go-barcode-generator/internal/services"
)

const version = "1.0.0"

// App is the state shared by all commands, built once per invocation.
type App struct {
	ConfigPath string

	Config   *config.Config
	Logger   *logger.StructuredLogger
	Catalog  *reagent.Catalog
	Barcodes *services.BarcodeService
	Projects *services.ProjectService
	Exports  *services.ExportService
	Verifier *scan.Verifier
	History  repository.HistoryStore

	db *repository.Database
}

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
)

// Load reads the config and wires the services. A broken or unwritable
// catalog file is reported and the built-in catalog is used instead.
func (a *App) Load() error {
	cfg, err := config.LoadConfig(a.ConfigPath)
	if err != nil {
		return err
	}
	a.Config = cfg

	logPath := cfg.Logging.File
	if logPath == "" {
		logPath = "stderr"
	}
	a.Logger, err = logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       logger.ParseLevel(cfg.Logging.Level),
		Service:     "barcodegen",
		Version:     version,
		Environment: os.Getenv("APP_ENV"),
		OutputPath:  logPath,
	})
	if err != nil {
		return err
	}

	a.Catalog, err = reagent.LoadCatalog(cfg.Abbott.CatalogPath)
	switch {
	case err == nil:
	case a.Catalog == nil:
		return err
	case errors.Is(err, reagent.ErrCatalogParse):
		a.Logger.Warn("Catalog file unreadable, using built-in projects", map[string]interface{}{
			"path":  cfg.Abbott.CatalogPath,
			"error": err.Error(),
		})
	default:
		a.Logger.Warn("Could not write catalog template", map[string]interface{}{
			"path":  cfg.Abbott.CatalogPath,
			"error": err.Error(),
		})
	}

	a.Barcodes = services.NewBarcodeService(nil)
	a.Barcodes.SetStrictIndices(cfg.Barcode.StrictIndices)
	a.Projects = services.NewProjectService(a.Barcodes)
	a.Exports = services.NewExportService()
	a.Verifier = scan.NewVerifier()

	if cfg.Database.Enabled {
		db, err := repository.NewDatabase(&cfg.Database, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		a.db = db
		a.History = repository.NewHistoryRepository(db)
	}
	return nil
}

// Close releases the database and log file. It is safe to call more than
// once and after a failed Load.
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
		a.History = nil
	}
	if a.Logger != nil {
		a.Logger.Close()
		a.Logger = nil
	}
}

// Run executes the command tree for args and closes app afterwards, also
// when the command fails.
func Run(app *App, args []string, stdout, stderr io.Writer) error {
	defer app.Close()

	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

// NewRootCmd builds the command tree around app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "barcodegen",
		Short:         "Render barcodes and reagent label batches",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.Load()
		},
	}
	root.PersistentFlags().StringVar(&app.ConfigPath, "config", "config.json", "path to the JSON config file")

	root.AddCommand(RenderCmd(app))
	root.AddCommand(LotIDCmd(app))
	root.AddCommand(ProjectCmd(app))
	root.AddCommand(ServeCmd(app))
	root.AddCommand(APIKeyCmd(app))
	return root
}
