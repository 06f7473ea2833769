// Package clipboard places text on the clipboard, either through the OS
// clipboard or through the browser tab itself.
package clipboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atotto/clipboard"
)

// Writer copies text to a clipboard. targetID names the browser tab the
// text came from; writers that talk to the OS clipboard ignore it.
type Writer interface {
	Write(ctx context.Context, targetID, text string) error
	Name() string
}

// System writes to the OS clipboard.
type System struct{}

func (System) Name() string { return "system" }

func (System) Write(ctx context.Context, targetID, text string) error {
	_ = ctx
	_ = targetID
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("system clipboard write: %w", err)
	}
	return nil
}

// Fallback tries primary first and falls through to secondary on failure.
// Headless hosts without xclip/xsel fail the system writer, in which case
// the copy runs inside the tab instead.
type Fallback struct {
	Primary   Writer
	Secondary Writer
}

func (f Fallback) Name() string {
	return f.Primary.Name() + "+" + f.Secondary.Name()
}

func (f Fallback) Write(ctx context.Context, targetID, text string) error {
	primaryErr := f.Primary.Write(ctx, targetID, text)
	if primaryErr == nil {
		return nil
	}
	slog.Warn("clipboard writer failed, trying fallback",
		"writer", f.Primary.Name(), "fallback", f.Secondary.Name(), "error", primaryErr)

	if err := f.Secondary.Write(ctx, targetID, text); err != nil {
		return fmt.Errorf("%s failed (%v); %s failed: %w", f.Primary.Name(), primaryErr, f.Secondary.Name(), err)
	}
	return nil
}
