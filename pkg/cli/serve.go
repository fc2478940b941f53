package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/flatconnect/flatconnect/pkg/agent"
	"github.com/flatconnect/flatconnect/pkg/cli/config"
	httpctrl "github.com/flatconnect/flatconnect/pkg/controller/http"
	"github.com/flatconnect/flatconnect/pkg/service/dispatcher"
	"github.com/flatconnect/flatconnect/pkg/usecase"
	"github.com/flatconnect/flatconnect/pkg/utils/async"
	"github.com/flatconnect/flatconnect/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var workers int
	var queueSize int
	var repoCfg config.Repository
	var llmCfg config.LLM
	var authCfg config.Auth

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("FLATCONNECT_ADDR"),
			Destination: &addr,
		},
		&cli.IntFlag{
			Name:        "pipeline-workers",
			Usage:       "Number of pipeline worker goroutines",
			Value:       4,
			Sources:     cli.EnvVars("FLATCONNECT_PIPELINE_WORKERS"),
			Destination: &workers,
		},
		&cli.IntFlag{
			Name:        "pipeline-queue-size",
			Usage:       "Pipeline task queue capacity",
			Value:       128,
			Sources:     cli.EnvVars("FLATCONNECT_PIPELINE_QUEUE_SIZE"),
			Destination: &queueSize,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			// Configure LLM completion service (degraded mode when unset)
			llmSvc, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure LLM service")
			}

			// Configure authentication
			authUC, err := authCfg.Configure(repo)
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}

			// Start the pipeline dispatcher with the stage handlers
			disp := dispatcher.New(agent.Handlers(repo, llmSvc),
				dispatcher.WithWorkers(workers),
				dispatcher.WithQueueSize(queueSize),
			)
			disp.Start(ctx)
			defer disp.Stop()

			uc := usecase.New(repo,
				usecase.WithEnqueuer(disp),
				usecase.WithAuth(authUC),
			)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in background
			errCh := make(chan error, 1)
			async.Dispatch(ctx, func(ctx context.Context) error {
				logging.From(ctx).Info("Starting HTTP server",
					"addr", addr,
					"workers", workers,
					"llm_available", llmSvc.Available(),
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
				return nil
			})

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Create shutdown context with timeout
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				// Attempt graceful shutdown
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
