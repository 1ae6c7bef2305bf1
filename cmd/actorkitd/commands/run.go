package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/websocket"

	"github.com/lguibr/actorkit/actor"
	"github.com/lguibr/actorkit/introspect"
	"github.com/lguibr/actorkit/pipeline"
	"github.com/lguibr/actorkit/registry"
	"github.com/lguibr/actorkit/task"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the example pipeline task and its introspection server",
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	reg := registry.New(registry.DefaultOptions())
	mgr := task.NewManager(reg, task.DefaultOptions())

	results := make(chan pipeline.Message, 16)
	consumer := &pipeline.Consumer{Delta: 2, Results: results}
	processor := &pipeline.Processor{Registry: reg, Delta: 1}
	producer := &pipeline.Producer{
		Registry: reg,
		Value:    10,
		Slip:     []string{"Consumer", "Processor"},
		Interval: time.Second,
	}

	if err := mgr.CreateTask("A", []*actor.Params{
		{Actor: consumer, Name: "Consumer"},
		{Actor: processor, Name: "Processor"},
		{Actor: producer, Name: "Producer"},
		{Actor: pipeline.NewLogger(logger), Name: "Logger"},
	}); err != nil {
		return fmt.Errorf("failed to start pipeline task: %w", err)
	}

	go func() {
		for msg := range results {
			logger.Info("pipeline result", "value", msg.Value)
		}
	}()

	introspectServer := introspect.NewServer(mgr, reg, logger)
	if err := mgr.CreateTask("introspect", []*actor.Params{
		{
			Actor: &introspect.Broadcaster{Server: introspectServer, Interval: time.Second, Logger: logger},
			Name:  "SnapshotBroadcaster",
		},
	}); err != nil {
		return fmt.Errorf("failed to start introspection task: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", introspectServer.HandleHealthCheck())
	mux.HandleFunc("/tasks", introspectServer.HandleListTasks())
	mux.HandleFunc("/task", introspectServer.HandleTaskDetail())
	mux.Handle("/subscribe", websocket.Handler(introspectServer.HandleSubscribe()))

	httpServer := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("introspection server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		logger.Error("introspection server failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)

	mgr.Shutdown()
	return nil
}
