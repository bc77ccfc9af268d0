package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithRequestID(ctx, "req-123")
	ctx = log.WithProductID(ctx, "prod-9")

	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte(`"request_id":"req-123"`)) {
		t.Fatalf("expected request_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"product_id":"prod-9"`)) {
		t.Fatalf("expected product_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"stack"`)) {
		t.Fatalf("expected stack trace on error; entry=%s", buf.String())
	}
}

func TestLoggerWarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf, WarnStack: true})
	log.Warn(context.Background(), "warny")
	if !bytes.Contains(buf.Bytes(), []byte(`"stack"`)) {
		t.Fatalf("expected stack when warn stack enabled")
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: zerolog.WarnLevel, Output: buf})
	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %s", buf.String())
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected default info level, got %v", lvl)
	}
	if lvl := ParseLevel("invalid"); lvl != zerolog.InfoLevel {
		t.Fatalf("invalid level should fallback to info, got %v", lvl)
	}
	if lvl := ParseLevel(" WARN "); lvl != zerolog.WarnLevel {
		t.Fatalf("expected warn, got %v", lvl)
	}
}

func TestLoggerStampsEnvAndWarnErr(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "api", Env: "dev", Output: buf})

	log.WarnErr(log.WithFields(context.Background(), map[string]any{"cache": "offers"}), "cache read failed", errors.New("conn refused"))

	for _, want := range []string{`"env":"dev"`, `"service":"api"`, `"cache":"offers"`, `"error":"conn refused"`, `"level":"warn"`} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Fatalf("expected %s in entry=%s", want, buf.String())
		}
	}
}

func TestLoggerPrintfWritesGormLines(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Output: buf})

	log.Printf("%s [%.3fms] %s\n", "SLOW SQL", 250.0, "SELECT 1")

	if !bytes.Contains(buf.Bytes(), []byte(`"component":"gorm"`)) || !bytes.Contains(buf.Bytes(), []byte("SLOW SQL [250.000ms] SELECT 1")) {
		t.Fatalf("unexpected gorm entry=%s", buf.String())
	}
}

func TestContextFieldsDoNotLeakBetweenScopes(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Output: buf})

	base := context.Background()
	_ = log.WithProductID(base, "prod-1")
	log.Info(base, "plain")

	if bytes.Contains(buf.Bytes(), []byte("prod-1")) {
		t.Fatalf("parent context picked up child field: %s", buf.String())
	}
}
