// Package cdp queries a running Chromium over the DevTools protocol.
package cdp

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/target"
)

// internalPrefixes mark targets that can never be the user's working tab.
var internalPrefixes = []string{
	"chrome://",
	"chrome-extension://",
	"devtools://",
	"edge://",
	"about:",
}

// TabInfo describes a page target as reported by the browser.
type TabInfo struct {
	TargetID string `json:"target_id"`
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
}

// Client resolves the active browser tab over CDP.
type Client struct {
	cdpURL      string
	tabFilter   string
	evalTimeout time.Duration

	mu       sync.Mutex
	cdp      *rawCDP
	sessions map[target.ID]string
}

func NewClient(cdpURL, tabFilter string, evalTimeout time.Duration) *Client {
	return &Client{
		cdpURL:      cdpURL,
		tabFilter:   strings.ToLower(strings.TrimSpace(tabFilter)),
		evalTimeout: evalTimeout,
		sessions:    make(map[target.ID]string),
	}
}

func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cdpURL == "" {
		return NewError(CodeCDPUnavailable, "missing CDP URL", nil)
	}

	slog.Info("cdp connect start", "cdp_url", c.cdpURL)
	c.cleanupLocked()

	c.cdp = newRawCDP(c.cdpURL)
	if err := c.cdp.connect(ctx); err != nil {
		c.cdp = nil
		return NewError(CodeCDPUnavailable, "connect to CDP failed", err)
	}

	slog.Info("cdp connect ok", "cdp_url", c.cdpURL)
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupLocked()
	return nil
}

func (c *Client) cleanupLocked() {
	// Detach from any open sessions without closing targets.
	if c.cdp != nil {
		for targetID, sessionID := range c.sessions {
			if sessionID == "" {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			_ = c.cdp.detachFromTarget(ctx, sessionID)
			cancel()
			delete(c.sessions, targetID)
		}
		c.cdp.close()
		c.cdp = nil
	}
	c.sessions = make(map[target.ID]string)
}

// ListTabs returns page targets matching the URL filter, skipping browser
// UI, extension, and devtools targets.
func (c *Client) ListTabs(ctx context.Context) ([]TabInfo, error) {
	c.mu.Lock()
	cdp := c.cdp
	c.mu.Unlock()
	if cdp == nil {
		cdp = newRawCDP(c.cdpURL)
	}

	targets, err := cdp.listTargets(ctx)
	if err != nil {
		return nil, NewError(CodeCDPUnavailable, "failed to list targets", err)
	}

	tabs := make([]TabInfo, 0, len(targets))
	for _, t := range targets {
		if !c.isCandidate(t) {
			continue
		}
		tabs = append(tabs, TabInfo{TargetID: string(t.TargetID), URL: t.URL, Title: t.Title})
	}
	slog.Debug("cdp tab list", "targets", len(targets), "tabs", len(tabs))
	return tabs, nil
}

// ActiveTab returns the focused page target. Each candidate is probed with
// document.hasFocus(); when no probe succeeds the first listed tab is used,
// since /json/list is ordered by recency of focus.
func (c *Client) ActiveTab(ctx context.Context) (TabInfo, error) {
	tabs, err := c.ListTabs(ctx)
	if err != nil {
		return TabInfo{}, err
	}
	if len(tabs) == 0 {
		return TabInfo{}, NewError(CodeNoActiveTab, "no page targets found", nil)
	}

	for _, tab := range tabs {
		focused, probeErr := c.hasFocus(ctx, tab)
		if probeErr != nil {
			slog.Debug("cdp focus probe failed", "target_id", tab.TargetID, "error", probeErr)
			continue
		}
		if focused {
			slog.Debug("cdp active tab by focus", "target_id", tab.TargetID, "url", truncateURL(tab.URL))
			return tab, nil
		}
	}

	slog.Debug("cdp active tab by list order", "target_id", tabs[0].TargetID, "url", truncateURL(tabs[0].URL))
	return tabs[0], nil
}

func (c *Client) hasFocus(ctx context.Context, tab TabInfo) (bool, error) {
	raw, err := c.evalOnTarget(ctx, target.ID(tab.TargetID), "document.hasFocus()")
	if err != nil {
		return false, err
	}
	return raw == "true", nil
}

// evalOnTarget runs a JS expression in the given tab's context and returns
// the raw result.
func (c *Client) evalOnTarget(ctx context.Context, targetID target.ID, js string) (string, error) {
	c.mu.Lock()
	cdp := c.cdp
	c.mu.Unlock()
	if cdp == nil {
		return "", NewError(CodeCDPUnavailable, "CDP client not connected", nil)
	}

	sessionID, err := c.ensureSession(ctx, cdp, targetID)
	if err != nil {
		return "", err
	}

	evalCtx, evalCancel := context.WithTimeout(ctx, c.evalTimeout)
	defer evalCancel()

	raw, err := cdp.evaluate(evalCtx, sessionID, js)
	if err != nil {
		// Reset the session so a fresh attach happens next time.
		c.mu.Lock()
		delete(c.sessions, targetID)
		c.mu.Unlock()

		if evalCtx.Err() == context.DeadlineExceeded {
			return "", NewError(CodeEvalTimeout, "evaluation timed out", err)
		}
		return "", NewError(CodeEvalFailure, "evaluation failed", err)
	}
	return raw, nil
}

// ensureSession returns a CDP session ID for the target, attaching if needed.
func (c *Client) ensureSession(ctx context.Context, cdp *rawCDP, targetID target.ID) (string, error) {
	c.mu.Lock()
	sessionID := c.sessions[targetID]
	c.mu.Unlock()
	if sessionID != "" {
		return sessionID, nil
	}

	sid, err := cdp.attachToTarget(ctx, string(targetID))
	if err != nil {
		return "", NewError(CodeCDPUnavailable, "attach to target failed", err)
	}

	c.mu.Lock()
	c.sessions[targetID] = sid
	c.mu.Unlock()
	slog.Debug("cdp session attached", "target_id", targetID, "session_id", sid)
	return sid, nil
}

func (c *Client) isCandidate(t *target.Info) bool {
	if t.Type != "page" {
		return false
	}
	lower := strings.ToLower(t.URL)
	for _, prefix := range internalPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	if c.tabFilter != "" && !strings.Contains(lower, c.tabFilter) {
		return false
	}
	return true
}

func truncateURL(url string) string {
	if len(url) > 120 {
		return url[:120] + "..."
	}
	return url
}
