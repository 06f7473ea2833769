package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CDPAddress != "127.0.0.1" {
		t.Fatalf("CDPAddress = %q; want 127.0.0.1", cfg.CDPAddress)
	}
	if cfg.CDPPort != 9222 {
		t.Fatalf("CDPPort = %d; want 9222", cfg.CDPPort)
	}
	if cfg.ClipboardMode != ClipboardAuto {
		t.Fatalf("ClipboardMode = %q; want %q", cfg.ClipboardMode, ClipboardAuto)
	}
	if cfg.CDPURL() != "http://127.0.0.1:9222" {
		t.Fatalf("CDPURL() = %q", cfg.CDPURL())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CHROMIUM_CDP_PORT", "9333")
	t.Setenv("LINKCLIP_CLIPBOARD_MODE", "SYSTEM")
	t.Setenv("LINKCLIP_TAB_URL_FILTER", "example.com")
	t.Setenv("LINKCLIP_PORT_CANDIDATES", "127.0.0.1:8199, 127.0.0.1:8200")
	t.Setenv("LINKCLIP_EVAL_TIMEOUT_MS", "250")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CDPPort != 9333 {
		t.Fatalf("CDPPort = %d; want 9333", cfg.CDPPort)
	}
	if cfg.ClipboardMode != ClipboardSystem {
		t.Fatalf("ClipboardMode = %q; want %q", cfg.ClipboardMode, ClipboardSystem)
	}
	if cfg.TabURLFilter != "example.com" {
		t.Fatalf("TabURLFilter = %q", cfg.TabURLFilter)
	}
	if len(cfg.PortCandidates) != 2 || cfg.PortCandidates[1] != "127.0.0.1:8200" {
		t.Fatalf("PortCandidates = %v", cfg.PortCandidates)
	}
	if cfg.EvalTimeoutMS != 1000 {
		t.Fatalf("EvalTimeoutMS = %d; want clamped 1000", cfg.EvalTimeoutMS)
	}
}

func TestLoadRejectsBadClipboardMode(t *testing.T) {
	t.Setenv("LINKCLIP_CLIPBOARD_MODE", "telepathy")
	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil error; want invalid clipboard mode error")
	}
}
