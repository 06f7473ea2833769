package cdp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/cdproto/target"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func withDefaultHTTPClient(t *testing.T, transport http.RoundTripper) {
	t.Helper()
	origClient := http.DefaultClient
	t.Cleanup(func() {
		http.DefaultClient = origClient
	})
	http.DefaultClient = &http.Client{
		Transport: transport,
	}
}

func targetListResponse(t *testing.T, entries []map[string]any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("json.Marshal() = %v", err)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(string(payload))),
	}
}

func TestListTabsWrapsListTargetsError(t *testing.T) {
	withDefaultHTTPClient(t, roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path == "/json/list" {
			return &http.Response{
				StatusCode: http.StatusInternalServerError,
				Body:       io.NopCloser(strings.NewReader(`oops`)),
			}, nil
		}
		return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader(``))}, nil
	}))

	c := NewClient("http://example.com", "", time.Second)
	_, err := c.ListTabs(context.Background())
	if err == nil {
		t.Fatal("expected ListTabs() to fail")
	}

	var codedErr *CodedError
	if !errors.As(err, &codedErr) {
		t.Fatalf("expected *CodedError, got %T", err)
	}
	if codedErr.Code != CodeCDPUnavailable {
		t.Fatalf("error code = %s; want %s", codedErr.Code, CodeCDPUnavailable)
	}
	if !strings.Contains(codedErr.Message, "failed to list targets") {
		t.Fatalf("error message = %q; want to contain %q", codedErr.Message, "failed to list targets")
	}
}

func TestListTabsSkipsInternalTargets(t *testing.T) {
	withDefaultHTTPClient(t, roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/json/list" {
			return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader(``))}, nil
		}
		return targetListResponse(t, []map[string]any{
			{"id": "t1", "type": "page", "url": "chrome://newtab/", "title": "New Tab"},
			{"id": "t2", "type": "service_worker", "url": "https://example.com/sw.js", "title": ""},
			{"id": "t3", "type": "page", "url": "devtools://devtools/bundled/inspector.html", "title": "DevTools"},
			{"id": "t4", "type": "page", "url": "https://example.com/article", "title": "An Article"},
		}), nil
	}))

	c := NewClient("http://example.com", "", time.Second)
	tabs, err := c.ListTabs(context.Background())
	if err != nil {
		t.Fatalf("ListTabs() error = %v", err)
	}
	if len(tabs) != 1 {
		t.Fatalf("ListTabs() returned %d tabs; want 1", len(tabs))
	}
	if tabs[0].TargetID != "t4" || tabs[0].URL != "https://example.com/article" || tabs[0].Title != "An Article" {
		t.Fatalf("ListTabs()[0] = %+v", tabs[0])
	}
}

func TestListTabsAppliesURLFilter(t *testing.T) {
	withDefaultHTTPClient(t, roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/json/list" {
			return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader(``))}, nil
		}
		return targetListResponse(t, []map[string]any{
			{"id": "t1", "type": "page", "url": "https://other.org/", "title": "Other"},
			{"id": "t2", "type": "page", "url": "https://docs.example.com/guide", "title": "Guide"},
		}), nil
	}))

	c := NewClient("http://example.com", "Example.COM", time.Second)
	tabs, err := c.ListTabs(context.Background())
	if err != nil {
		t.Fatalf("ListTabs() error = %v", err)
	}
	if len(tabs) != 1 || tabs[0].TargetID != "t2" {
		t.Fatalf("ListTabs() = %+v; want only t2", tabs)
	}
}

func TestActiveTabNoTargets(t *testing.T) {
	withDefaultHTTPClient(t, roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/json/list" {
			return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader(``))}, nil
		}
		return targetListResponse(t, []map[string]any{}), nil
	}))

	c := NewClient("http://example.com", "", time.Second)
	_, err := c.ActiveTab(context.Background())
	if err == nil {
		t.Fatal("expected ActiveTab() to fail")
	}
	var codedErr *CodedError
	if !errors.As(err, &codedErr) {
		t.Fatalf("expected *CodedError, got %T", err)
	}
	if codedErr.Code != CodeNoActiveTab {
		t.Fatalf("error code = %s; want %s", codedErr.Code, CodeNoActiveTab)
	}
}

func TestActiveTabFallsBackToListOrder(t *testing.T) {
	// Without a WebSocket connection every focus probe fails, so the first
	// listed page target wins.
	withDefaultHTTPClient(t, roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/json/list" {
			return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader(``))}, nil
		}
		return targetListResponse(t, []map[string]any{
			{"id": "front", "type": "page", "url": "https://example.com/front", "title": "Front"},
			{"id": "back", "type": "page", "url": "https://example.com/back", "title": "Back"},
		}), nil
	}))

	c := NewClient("http://example.com", "", time.Second)
	tab, err := c.ActiveTab(context.Background())
	if err != nil {
		t.Fatalf("ActiveTab() error = %v", err)
	}
	if tab.TargetID != "front" {
		t.Fatalf("ActiveTab().TargetID = %q; want %q", tab.TargetID, "front")
	}
}

func TestEvalOnTargetNotConnected(t *testing.T) {
	c := NewClient("http://example.com", "", time.Second)
	_, err := c.evalOnTarget(context.Background(), target.ID("t1"), "1+1")
	if err == nil {
		t.Fatal("expected evalOnTarget() to fail")
	}
	var codedErr *CodedError
	if !errors.As(err, &codedErr) {
		t.Fatalf("expected *CodedError, got %T", err)
	}
	if codedErr.Code != CodeCDPUnavailable {
		t.Fatalf("error code = %s; want %s", codedErr.Code, CodeCDPUnavailable)
	}
}
