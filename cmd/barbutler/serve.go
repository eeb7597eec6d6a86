package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/NeuralTrust/BarButler/pkg/dependency_container"
	"github.com/NeuralTrust/BarButler/pkg/server"
	"github.com/NeuralTrust/BarButler/pkg/server/router"
	"github.com/spf13/cobra"
)

const serveCommandName = "serve"

func newServeCommand(rt *runtime) *cobra.Command {
	var swaggerFile string
	cmd := &cobra.Command{
		Use:   serveCommandName,
		Short: "Run the HTTP and websocket conversation server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), rt, swaggerFile)
		},
	}
	cmd.Flags().StringVar(&swaggerFile, "swagger-file", "docs/swagger.json", "openapi document served at /swagger.json")
	return cmd
}

func runServe(ctx context.Context, rt *runtime, swaggerFile string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := dependency_container.NewContainer(ctx, dependency_container.ContainerDI{
		Cfg:    rt.cfg,
		Logger: rt.logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			rt.logger.WithError(err).Error("failed to release resources")
		}
	}()

	if err := container.Index.Warm(ctx); err != nil {
		rt.logger.WithError(err).Warn("vocabulary index unavailable, matching will retry on demand")
	}

	if _, err := os.Stat(swaggerFile); err != nil {
		rt.logger.WithField("file", swaggerFile).Warn("swagger document not found, docs disabled")
		swaggerFile = ""
	}

	srv, err := server.NewAPIServer(server.APIServerDI{
		Config: rt.cfg,
		Logger: rt.logger,
		Routers: []router.ServerRouter{
			router.NewAPIRouter(container.MiddlewareTransport, container.HandlerTransport, swaggerFile, rt.cfg.Server.SwaggerURL),
			router.NewWebsocketRouter(container.WebSocketMiddleware, container.WSHandlerTransport),
		},
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	rt.logger.Info("shutting down server")
	if err := srv.Shutdown(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	rt.logger.Info("server gracefully stopped")
	return nil
}
