// Package api exposes the copy-link trigger over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/dgnsrekt/linkclip/internal/action"
	"github.com/dgnsrekt/linkclip/internal/cdp"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Service interface {
	CopyActiveTabLink(ctx context.Context) (action.Result, error)
	FormatActiveTabLink(ctx context.Context) (action.Result, error)
	ActiveTab(ctx context.Context) (cdp.TabInfo, error)
}

func NewServer(svc Service) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logTriggerRequests)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("Linkclip API", "1.0.0")
	api := humachi.New(router, cfg)

	registerLinkHandlers(api, svc)
	registerMiscHandlers(api, svc)

	return router
}

func registerLinkHandlers(api huma.API, svc Service) {
	type linkOutput struct {
		Body action.Result
	}

	huma.Register(api, huma.Operation{OperationID: "copy-link", Method: http.MethodPost, Path: "/api/v1/copy-link", Summary: "Copy the active tab as an HTML link to the clipboard", Tags: []string{"Link"}},
		func(ctx context.Context, input *struct{}) (*linkOutput, error) {
			result, err := svc.CopyActiveTabLink(ctx)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &linkOutput{}
			out.Body = result
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "get-link", Method: http.MethodGet, Path: "/api/v1/link", Summary: "Format the active tab as an HTML link without copying", Tags: []string{"Link"}},
		func(ctx context.Context, input *struct{}) (*linkOutput, error) {
			result, err := svc.FormatActiveTabLink(ctx)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &linkOutput{}
			out.Body = result
			return out, nil
		})

	type tabOutput struct {
		Body cdp.TabInfo
	}
	huma.Register(api, huma.Operation{OperationID: "get-active-tab", Method: http.MethodGet, Path: "/api/v1/tab/active", Summary: "Get the active browser tab", Tags: []string{"Tab"}},
		func(ctx context.Context, input *struct{}) (*tabOutput, error) {
			tab, err := svc.ActiveTab(ctx)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &tabOutput{}
			out.Body = tab
			return out, nil
		})
}

func registerMiscHandlers(api huma.API, svc Service) {
	type healthOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "health", Method: http.MethodGet, Path: "/health", Summary: "Health check", Tags: []string{"Health"}},
		func(ctx context.Context, input *struct{}) (*healthOutput, error) {
			out := &healthOutput{}
			out.Body.Status = "ok"
			return out, nil
		})
}

// logTriggerRequests emits one line per trigger request. Host-side
// failures (5xx) escalate to error level so a failing copy run stands out
// in the daemon log next to the handler's own diagnostics.
func logTriggerRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		level := slog.LevelInfo
		if ww.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "trigger request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var coded *cdp.CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case cdp.CodeNoActiveTab:
			return huma.Error404NotFound(coded.Message)
		case cdp.CodeIncompleteTabInfo:
			return huma.Error422UnprocessableEntity(coded.Message)
		case cdp.CodeEvalTimeout:
			return huma.Error504GatewayTimeout(coded.Message)
		case cdp.CodeClipboardWriteFailure, cdp.CodeCDPUnavailable, cdp.CodeEvalFailure:
			return huma.Error502BadGateway(coded.Message)
		default:
			return huma.Error500InternalServerError(fmt.Sprintf("%s: %s", coded.Code, coded.Message))
		}
	}
	return huma.Error500InternalServerError(err.Error())
}
