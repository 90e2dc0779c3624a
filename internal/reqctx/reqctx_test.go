package reqctx

import (
	"context"
	"testing"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestID(ctx); got != "req-1" {
		t.Errorf("expected req-1, got %q", got)
	}
}

func TestRequestID_Absent(t *testing.T) {
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestUserID_IndependentOfRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "user-1")

	if got := UserID(ctx); got != "user-1" {
		t.Errorf("expected user-1, got %q", got)
	}
	if got := RequestID(ctx); got != "req-1" {
		t.Errorf("expected req-1, got %q", got)
	}
}

func TestNewRequestID_Unique(t *testing.T) {
	if NewRequestID() == NewRequestID() {
		t.Error("expected distinct ids")
	}
}
