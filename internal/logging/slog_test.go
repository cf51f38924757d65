package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "hydrate", "key", "currentAccount")
	log.Info(ctx, "login", "user", "alice")
	log.Warn(ctx, "legacy", "key", "userId")
	log.Error(ctx, "refresh", "status", 503)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=hydrate", "key=currentAccount",
		"level=INFO", "msg=login", "user=alice",
		"level=WARN", "msg=legacy", "key=userId",
		"level=ERROR", "msg=refresh", "status=503",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("request_id", "r-1").Info(context.Background(), "gateway call", "path", "/api/accounts")

	out := buf.String()
	for _, want := range []string{"request_id=r-1", "path=/api/accounts", "msg=\"gateway call\""} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestNewSlogLoggerFor(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewSlogLoggerFor(&buf, "warn", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	log.Info(context.Background(), "dropped")
	log.Warn(context.Background(), "kept", "key", "userId")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info entry below warn level was written:\n%s", out)
	}
	if !strings.Contains(out, `"msg":"kept"`) || !strings.Contains(out, `"key":"userId"`) {
		t.Fatalf("expected json warn entry, got:\n%s", out)
	}

	if _, err := NewSlogLoggerFor(&buf, "loud", "text"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
