package logging

import "testing"

func TestNewProviderCreatesModuleLoggers(t *testing.T) {
	p, err := NewProvider(Config{Level: "debug", Format: "console"})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	logger := p.Get("llm")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}

	child := logger.WithFields(map[string]any{"request_id": "abc"})
	if child == nil {
		t.Fatal("expected WithFields to return logger")
	}
	child.Debug("provider.initialised", "module", "llm")
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNilProviderFallsBackToNop(t *testing.T) {
	var p *Provider
	logger := p.Get("status")
	if _, ok := logger.(nopLogger); !ok {
		t.Fatalf("expected nop logger, got %T", logger)
	}
}

func TestNormalizeLevel(t *testing.T) {
	cases := map[string]string{
		"":        "",
		"DEBUG":   "debug",
		"warning": "warn",
		" error ": "error",
		"bogus":   "",
	}
	for in, want := range cases {
		got := normalizeLevel(in)
		if want == "" {
			if got != "" {
				t.Errorf("normalizeLevel(%q) = %q, want empty", in, got)
			}
			continue
		}
		if got == "" {
			t.Errorf("normalizeLevel(%q) returned empty, want %q level", in, want)
		}
	}
}
