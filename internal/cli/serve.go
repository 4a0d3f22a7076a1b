package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lpbridge/internal/httpapi"
	"lpbridge/internal/solver"
	"lpbridge/internal/solvesvc"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP solve service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listen := addr
			if listen == "" {
				listen = viper.GetString("addr")
			}
			if listen == "" {
				listen = cfg.Addr
			}
			if listen == "" {
				listen = ":8080"
			}

			defaultBackend := cfg.Backend
			if defaultBackend == "" {
				defaultBackend = "gophersat"
			}
			defaults := solver.DefaultOptions()
			defaults.Verbose = cfg.Verbose
			if cfg.TimeLimitSeconds > 0 {
				defaults.TimeLimit = time.Duration(cfg.TimeLimitSeconds * float64(time.Second))
			}
			defaults.LogPath = cfg.LogPath
			if len(cfg.Params) > 0 {
				defaults.Params = cfg.Params
			}

			// Base context canceled on shutdown so in-flight solves stop
			// with the server.
			baseCtx, cancelBase := context.WithCancel(context.Background())
			defer cancelBase()
			httpapi.SetBaseContext(baseCtx)

			svc := solvesvc.New(defaultBackend, defaults)
			srv := &http.Server{Addr: listen, Handler: httpapi.NewMux(svc)}

			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", listen).Str("default_backend", defaultBackend).Msg("lpbridge listening")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
					return
				}
				errCh <- nil
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-stop:
			}

			cancelBase()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			return <-errCh
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address, e.g. :8080")
	_ = viper.BindEnv("addr")
	return cmd
}
