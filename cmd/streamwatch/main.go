package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"

	"github.com/clipforge/realtime/internal/api"
	"github.com/clipforge/realtime/internal/config"
	"github.com/clipforge/realtime/internal/model"
	"github.com/clipforge/realtime/internal/notify"
	"github.com/clipforge/realtime/internal/protocol"
	"github.com/clipforge/realtime/internal/router"
	"github.com/clipforge/realtime/internal/session"
	"github.com/clipforge/realtime/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/streamwatch.yaml", "path to config file")
	identity := flag.String("identity", "", "connection identity (user or service id)")
	tasks := flag.String("tasks", "", "comma-separated task ids to follow")
	projects := flag.String("projects", "", "comma-separated project ids to follow")
	listen := flag.String("listen", ":8080", "status server listen address")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting streamwatch",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	if *identity == "" {
		logger.Error("missing required -identity flag")
		os.Exit(1)
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"ws_url", cfg.Server.WSURL,
		"rest_url", cfg.Server.RestURL,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	apiClient := api.NewClient(
		cfg.Server.RestURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Server.Timeout),
		api.WithRetries(cfg.Server.MaxRetries, time.Second),
	)

	center := notify.NewCenter(cfg.Notifications.MaxRetained, logger)

	handlers := router.Handlers{
		Progress: func(p model.TaskProgress) {
			logger.Info("task progress",
				"task_id", p.TaskID,
				"status", p.Status,
				"progress", p.Progress,
				"step", p.StepName,
			)
			switch p.Status {
			case model.TaskCompleted:
				center.Push("task", "Task completed", p.TaskID, notify.LevelSuccess)
			case model.TaskFailed:
				center.Push("task", "Task failed", p.TaskID, notify.LevelError)
			}
		},
		SystemNotification: func(n protocol.SystemNotification) {
			center.Push("system", n.Title, n.Message, notify.Level(n.Level))
		},
		ErrorNotification: func(n protocol.ErrorNotification) {
			center.Push("error", n.ErrorType, n.ErrorMessage, notify.LevelError)
		},
		FinalState: func(taskID string, snap model.TaskSnapshot) {
			logger.Info("authoritative task state",
				"task_id", taskID,
				"status", snap.Status,
				"progress", snap.Progress,
			)
		},
		ProjectState: func(projectID string, snap model.ProjectSnapshot) {
			logger.Info("authoritative project state",
				"project_id", projectID,
				"status", snap.Status,
				"progress", snap.Progress,
			)
		},
	}

	sess := session.New(sessionConfig(cfg), handlers, apiClient, logger)
	defer sess.Close()

	sess.OnStatus(func(st model.ConnStatus) {
		logger.Info("connection status changed", "status", st)
	})

	if err := sess.Connect(ctx, *identity); err != nil {
		logger.Error("initial connect failed", "error", err)
		os.Exit(1)
	}

	for _, id := range splitList(*tasks) {
		if err := sess.SubscribeTask(id); err != nil {
			logger.Warn("task subscribe failed", "task_id", id, "error", err)
		}
	}
	for _, id := range splitList(*projects) {
		if err := sess.Subscribe(model.ProjectChannel(id)); err != nil {
			logger.Warn("project subscribe failed", "project_id", id, "error", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	statusServer := &http.Server{
		Addr:    *listen,
		Handler: newStatusHandler(sess, center),
	}

	g.Go(func() error {
		logger.Info("starting status server", "addr", *listen)
		if err := statusServer.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return statusServer.Shutdown(shutdownCtx)
	})

	logger.Info("streamwatch running",
		"identity", *identity,
		"subscriptions", len(sess.Subscriptions()),
	)

	if err := g.Wait(); err != nil {
		logger.Error("streamwatch exited with error", "error", err)
		os.Exit(1)
	}

	logger.Info("streamwatch stopped")
}

// newStatusHandler exposes session stats and retained notifications.
func newStatusHandler(sess *session.Session, center *notify.Center) http.Handler {
	r := httprouter.New()

	r.GET("/status", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		writeJSON(w, sess.Stats())
	})

	r.GET("/subscriptions", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		writeJSON(w, sess.Subscriptions())
	})

	r.GET("/notifications", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		writeJSON(w, struct {
			Unread        int                   `json:"unread"`
			Notifications []notify.Notification `json:"notifications"`
		}{center.Unread(), center.List()})
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func sessionConfig(cfg *config.Config) session.Config {
	return session.Config{
		WSURL:                cfg.Server.WSURL,
		PingInterval:         cfg.Session.PingInterval,
		PongTimeout:          cfg.Session.PongTimeout,
		WriteTimeout:         cfg.Session.WriteTimeout,
		HandshakeTimeout:     cfg.Session.HandshakeTimeout,
		ReconnectBaseDelay:   cfg.Session.ReconnectBaseDelay,
		ReconnectMaxDelay:    cfg.Session.ReconnectMaxDelay,
		MaxReconnectAttempts: cfg.Session.MaxReconnectAttempts,
		SyncDebounce:         cfg.Session.SyncDebounce,
		FinalCheckDelay:      cfg.Session.FinalCheckDelay,
		BufferSize:           cfg.Session.BufferSize,
		RefreshConcurrency:   cfg.Session.RefreshConcurrency,
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
