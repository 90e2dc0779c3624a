package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/Samuel-soita/project-tracker-backend/internal/reqctx"
)

func TestContextHandler_AddsRequestAndUserID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := reqctx.WithUserID(reqctx.WithRequestID(context.Background(), "req-1"), "user-1")
	logger.InfoContext(ctx, "hello")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["request_id"] != "req-1" {
		t.Errorf("expected request_id req-1, got %v", rec["request_id"])
	}
	if rec["user_id"] != "user-1" {
		t.Errorf("expected user_id user-1, got %v", rec["user_id"])
	}
}

func TestContextHandler_NoValues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	logger.InfoContext(context.Background(), "hello")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := rec["request_id"]; ok {
		t.Error("did not expect request_id")
	}
}

func TestNew_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	New("production", slog.LevelInfo, &buf).Info("hello", "k", "v")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON output, got %q", buf.String())
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	New("production", slog.LevelWarn, &buf).Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered, got %q", buf.String())
	}
}

func TestNew_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	New("production", slog.LevelInfo, &buf).Info("login", "token", "eyJhbGciOi", "Password", "hunter2", "email", "a@b.c")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["token"] != redacted || rec["Password"] != redacted {
		t.Errorf("credentials leaked: %v", rec)
	}
	if rec["email"] != "a@b.c" {
		t.Errorf("email = %v, want untouched", rec["email"])
	}
}
