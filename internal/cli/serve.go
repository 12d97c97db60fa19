package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"go-barcode-generator/internal/routes"
)

func ServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Config.Server.Address()
			}
			gin.SetMode(gin.ReleaseMode)

			deps := routes.Dependencies{
				Barcodes:   app.Barcodes,
				Projects:   app.Projects,
				Exports:    app.Exports,
				Verifier:   app.Verifier,
				Catalog:    app.Catalog,
				History:    app.History,
				Logger:     app.Logger,
				APIKeyHash: app.Config.Auth.APIKeyHash,
			}
			if app.db != nil {
				deps.HealthChecks = map[string]func() error{"database": app.db.Ping}
			}
			router := routes.NewRouter(deps)

			srv := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				app.Logger.LogSystemEvent("Server starting", map[string]interface{}{
					"addr":    addr,
					"auth":    app.Config.Auth.APIKeyHash != "",
					"history": app.History != nil,
				})
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			app.Logger.LogSystemEvent("Server shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, defaults to server.host:server.port")
	return cmd
}
