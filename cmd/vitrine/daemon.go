package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mlindgren/vitrine/internal/callback"
	"github.com/mlindgren/vitrine/internal/config"
	"github.com/mlindgren/vitrine/internal/content"
	"github.com/mlindgren/vitrine/internal/display"
	"github.com/mlindgren/vitrine/internal/ipc"
	"github.com/mlindgren/vitrine/internal/router"
	"github.com/mlindgren/vitrine/internal/runtimepath"
	"github.com/mlindgren/vitrine/internal/x11"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path (default ~/.config/vitrine/config.yaml)")
	fs.Parse(args)

	path := *configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger := newLogger(cfg)

	if err := daemon(cfg, logger); err != nil {
		logger.Error("daemon failed", "error", err)
		return 1
	}
	return 0
}

func newLogger(cfg *config.Settings) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func daemon(cfg *config.Settings, logger *slog.Logger) error {
	// The window collaborator. Without an X display the daemon still runs:
	// geometry commands degrade to no-ops against a stub screen.
	var win display.Window
	conn, err := x11.NewConnection()
	if err != nil {
		logger.Warn("no X display, window management disabled", "error", err)
		win = nullWindow{}
	} else {
		defer conn.Close()
		win = x11.NewManagedWindow(conn, cfg.RendererTitle)
	}

	bridge := content.NewBridge(logger)
	state := display.NewState(win, bridge, logger)

	channel := callback.NewChannel(32)
	if err := channel.Register(newSink(cfg, logger)); err != nil {
		return err
	}
	if err := channel.Start(); err != nil {
		return err
	}
	defer channel.Close()

	server := content.NewServer(cfg.ListenPort, cfg.MediaDir, bridge, logger)
	rtr := router.New(state, bridge, channel, server.BaseURI(), logger)
	bridge.Bind(rtr)

	if err := server.Start(); err != nil {
		return err
	}
	defer server.Close()

	ipcSrv, err := ipc.NewServer(rtr, logger)
	if err != nil {
		return err
	}
	if err := ipcSrv.Start(); err != nil {
		return err
	}
	defer ipcSrv.Close()

	// Apply the configured title and geometry, then point the renderer at
	// the splash layout. Surface-bound commands wait for the renderer.
	rtr.Submit(router.SetSettings{
		Title: cfg.DisplayName,
		X:     cfg.PosX, Y: cfg.PosY,
		Width: cfg.SizeX, Height: cfg.SizeY,
	})
	rtr.Submit(router.Navigate{Path: "0.xlf.html"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("vitrine running",
		"display_name", cfg.DisplayName,
		"base_uri", server.BaseURI())
	rtr.Run(ctx)
	logger.Info("shutting down")
	return nil
}

// newSink builds the callback sink: screenshots are written to disk, layout
// signals are logged for the controlling process to pick up.
func newSink(cfg *config.Settings, logger *slog.Logger) callback.Sink {
	log := logger.With("component", "sink")
	return func(ev callback.Event) {
		switch ev.Kind {
		case callback.KindScreenshot:
			path := cfg.ScreenshotPath
			if path == "" {
				dir, err := runtimepath.Dir()
				if err != nil {
					log.Warn("no screenshot path", "error", err)
					return
				}
				path = filepath.Join(dir, "vitrine-screenshot.png")
			}
			if err := os.WriteFile(path, ev.PNG, 0644); err != nil {
				log.Warn("writing screenshot failed", "error", err)
				return
			}
			log.Info("screenshot written", "path", path, "bytes", len(ev.PNG))
		case callback.KindLayoutInit:
			log.Info("layout initialized",
				"id", ev.Args[0], "width", ev.Args[1], "height", ev.Args[2])
		case callback.KindLayoutJump:
			log.Info("layout jump requested", "target", ev.Args[0])
		default:
			log.Info("event", "kind", ev.Kind.String())
		}
	}
}

// nullWindow satisfies display.Window when no X display is available.
type nullWindow struct{}

func (nullWindow) Screen() (display.Rect, error) {
	return display.Rect{Width: display.DefaultLayoutWidth, Height: display.DefaultLayoutHeight}, nil
}
func (nullWindow) MoveResize(x, y, width, height int) error { return nil }
func (nullWindow) SetFullscreen(on bool) error              { return nil }
func (nullWindow) SetTitle(title string) error              { return nil }
