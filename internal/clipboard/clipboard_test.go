package clipboard

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeWriter struct {
	name   string
	err    error
	calls  int
	copied string
}

func (f *fakeWriter) Name() string { return f.name }

func (f *fakeWriter) Write(ctx context.Context, targetID, text string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.copied = text
	return nil
}

func TestFallbackPrimarySuccess(t *testing.T) {
	primary := &fakeWriter{name: "primary"}
	secondary := &fakeWriter{name: "secondary"}
	f := Fallback{Primary: primary, Secondary: secondary}

	if err := f.Write(context.Background(), "t1", "payload"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if primary.calls != 1 || primary.copied != "payload" {
		t.Fatalf("primary calls = %d, copied = %q", primary.calls, primary.copied)
	}
	if secondary.calls != 0 {
		t.Fatalf("secondary calls = %d; want 0 when primary succeeds", secondary.calls)
	}
}

func TestFallbackSecondaryOnPrimaryFailure(t *testing.T) {
	primary := &fakeWriter{name: "primary", err: errors.New("no display")}
	secondary := &fakeWriter{name: "secondary"}
	f := Fallback{Primary: primary, Secondary: secondary}

	if err := f.Write(context.Background(), "t1", "payload"); err != nil {
		t.Fatalf("Write() error = %v; want nil when fallback succeeds", err)
	}
	if primary.calls != 1 {
		t.Fatalf("primary calls = %d; want 1", primary.calls)
	}
	if secondary.calls != 1 || secondary.copied != "payload" {
		t.Fatalf("secondary calls = %d, copied = %q", secondary.calls, secondary.copied)
	}
}

func TestFallbackBothFail(t *testing.T) {
	primary := &fakeWriter{name: "primary", err: errors.New("no display")}
	secondary := &fakeWriter{name: "secondary", err: errors.New("copy rejected")}
	f := Fallback{Primary: primary, Secondary: secondary}

	err := f.Write(context.Background(), "t1", "payload")
	if err == nil {
		t.Fatal("Write() = nil error; want combined failure")
	}
	if !strings.Contains(err.Error(), "no display") || !strings.Contains(err.Error(), "copy rejected") {
		t.Fatalf("Write() error = %q; want both causes", err)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Fatalf("calls = %d/%d; want exactly one attempt each", primary.calls, secondary.calls)
	}
}

func TestFallbackName(t *testing.T) {
	f := Fallback{Primary: &fakeWriter{name: "system"}, Secondary: &fakeWriter{name: "tab"}}
	if got := f.Name(); got != "system+tab" {
		t.Fatalf("Name() = %q; want %q", got, "system+tab")
	}
}
