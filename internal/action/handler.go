// Package action runs the copy-link sequence: active tab query, anchor
// formatting, clipboard write.
package action

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dgnsrekt/linkclip/internal/cdp"
	"github.com/dgnsrekt/linkclip/internal/clipboard"
	"github.com/dgnsrekt/linkclip/internal/link"
)

// TabQuerier resolves the focused browser tab.
type TabQuerier interface {
	ActiveTab(ctx context.Context) (cdp.TabInfo, error)
}

// Result is the outcome of a successful run.
type Result struct {
	Link     string `json:"link"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	TargetID string `json:"target_id,omitempty"`
}

// Handler chains the two host calls. Each trigger is an independent run;
// failures are terminal for that run and never retried. Concurrent runs
// race on the clipboard, last completed write wins.
type Handler struct {
	tabs TabQuerier
	clip clipboard.Writer
}

func NewHandler(tabs TabQuerier, clip clipboard.Writer) *Handler {
	return &Handler{tabs: tabs, clip: clip}
}

// CopyActiveTabLink formats the active tab as an HTML anchor and places it
// on the clipboard.
func (h *Handler) CopyActiveTabLink(ctx context.Context) (Result, error) {
	res, err := h.FormatActiveTabLink(ctx)
	if err != nil {
		return Result{}, err
	}

	if writeErr := h.clip.Write(ctx, res.TargetID, res.Link); writeErr != nil {
		err := cdp.NewError(cdp.CodeClipboardWriteFailure, "clipboard write failed", writeErr)
		slog.Error("clipboard write failed", "writer", h.clip.Name(), "target_id", res.TargetID, "error", writeErr)
		return Result{}, err
	}

	slog.Info("copied active tab link", "link", res.Link, "url", res.URL, "title", res.Title)
	return res, nil
}

// FormatActiveTabLink resolves the active tab and builds the anchor without
// touching the clipboard.
func (h *Handler) FormatActiveTabLink(ctx context.Context) (Result, error) {
	tab, err := h.tabs.ActiveTab(ctx)
	if err != nil {
		slog.Error("active tab query failed", "error", err)
		return Result{}, err
	}

	if strings.TrimSpace(tab.URL) == "" || strings.TrimSpace(tab.Title) == "" {
		err := cdp.NewError(cdp.CodeIncompleteTabInfo, "active tab is missing url or title", nil)
		slog.Error("active tab incomplete", "target_id", tab.TargetID, "url", tab.URL, "title", tab.Title)
		return Result{}, err
	}

	return Result{
		Link:     link.Anchor(tab.URL, tab.Title),
		URL:      tab.URL,
		Title:    tab.Title,
		TargetID: tab.TargetID,
	}, nil
}

// ActiveTab exposes the raw tab info for the API surface.
func (h *Handler) ActiveTab(ctx context.Context) (cdp.TabInfo, error) {
	return h.tabs.ActiveTab(ctx)
}
