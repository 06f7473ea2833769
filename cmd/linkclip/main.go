// Command linkclip copies the active browser tab as an HTML link to the
// clipboard, once, and exits.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgnsrekt/linkclip/internal/action"
	"github.com/dgnsrekt/linkclip/internal/cdp"
	"github.com/dgnsrekt/linkclip/internal/clipboard"
	"github.com/dgnsrekt/linkclip/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var slogLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel})))

	cdpClient := cdp.NewClient(cfg.CDPURL(), cfg.TabURLFilter, time.Duration(cfg.EvalTimeoutMS)*time.Millisecond)
	if err := cdpClient.Connect(context.Background()); err != nil {
		slog.Error("failed to connect to CDP", "cdp_url", cfg.CDPURL(), "error", err)
		os.Exit(1)
	}
	defer func() { _ = cdpClient.Close() }()

	handler := action.NewHandler(cdpClient, newClipboardWriter(cfg))

	res, err := handler.CopyActiveTabLink(context.Background())
	if err != nil {
		os.Exit(1)
	}
	fmt.Println(res.Link)
}

func newClipboardWriter(cfg *config.Config) clipboard.Writer {
	switch cfg.ClipboardMode {
	case config.ClipboardSystem:
		return clipboard.System{}
	case config.ClipboardTab:
		return clipboard.Tab{CDPURL: cfg.CDPURL()}
	default:
		return clipboard.Fallback{Primary: clipboard.System{}, Secondary: clipboard.Tab{CDPURL: cfg.CDPURL()}}
	}
}
