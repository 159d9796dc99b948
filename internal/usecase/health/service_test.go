package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockChecker struct {
	err error
}

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{})

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("expected status %q, got %q", Healthy, report.Status)
	}
	if report.Checks["vector_store"] != CheckOK {
		t.Errorf("expected vector_store ok, got %q", report.Checks["vector_store"])
	}
	if report.Checks["embedding"] != CheckOK {
		t.Errorf("expected embedding ok, got %q", report.Checks["embedding"])
	}
}

func TestCheck_StoreDownIsUnhealthy(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("connection refused")}, &mockChecker{})

	report := svc.Check(context.Background())
	if report.Status != Unhealthy {
		t.Errorf("expected status %q, got %q", Unhealthy, report.Status)
	}
	if report.Checks["vector_store"] != CheckError {
		t.Errorf("expected vector_store error, got %q", report.Checks["vector_store"])
	}
}

func TestCheck_EmbeddingDownIsDegraded(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{err: errors.New("401 unauthorized")})

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("expected status %q, got %q", Degraded, report.Status)
	}
}

func TestCheck_BothDownIsUnhealthy(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("down")}, &mockChecker{err: errors.New("down")})

	report := svc.Check(context.Background())
	if report.Status != Unhealthy {
		t.Errorf("expected status %q, got %q", Unhealthy, report.Status)
	}
}

func TestCheck_NilEmbeddingSkipped(t *testing.T) {
	svc := New(&mockPinger{}, nil)

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("expected status %q, got %q", Healthy, report.Status)
	}
	if _, ok := report.Checks["embedding"]; ok {
		t.Error("expected no embedding check when checker is nil")
	}
}
