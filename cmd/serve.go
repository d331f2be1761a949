package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"phishguard/internal/apihandlers"
)

const (
	serverTimeout      = 15 * time.Second
	serverShutdownWait = 5 * time.Second
	serverMaxHeader    = 1 << 20
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the phishing detector web front end",
	Long: `Starts an HTTP server with a form page at / and a POST /predict endpoint
that scores the submitted URL with every loaded model.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		cfg := appInstance.Config

		gin.SetMode(cfg.Server.Mode)
		apiHandler := apihandlers.NewAPIHandler(appInstance.ScoringService)
		router := apihandlers.NewRouter(apiHandler, log.StandardLogger())

		listenAddr := fmt.Sprintf("%s:%s", cfg.Server.Addr, cfg.Server.Port)
		srv := &http.Server{
			Addr:           listenAddr,
			Handler:        router,
			ReadTimeout:    serverTimeout,
			WriteTimeout:   serverTimeout,
			MaxHeaderBytes: serverMaxHeader,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Infof("Starting phishguard server on http://%s", listenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("failed to run server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("Shutting down phishguard server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownWait)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		log.Info("phishguard server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Address to listen on (e.g., '0.0.0.0' for all interfaces)")
	serveCmd.Flags().String("port", "", "Port to listen on")
	bindFlags(serveCmd.Flags(), map[string]string{
		"addr": "server.addr",
		"port": "server.port",
	})
}
