package telemetry

import (
	"context"
	"testing"

	"github.com/flemzord/tgwire/internal/config"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	t.Parallel()

	p, err := Setup(context.Background(), config.TelemetryConfig{}, "test")
	if err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	if p != nil {
		t.Errorf("Setup() = %v, want nil provider when no endpoint configured", p)
	}
}

func TestSetup_WithEndpoint(t *testing.T) {
	t.Parallel()

	cfg := config.TelemetryConfig{OTLPEndpoint: "127.0.0.1:4318", Insecure: true}
	p, err := Setup(context.Background(), cfg, "test")
	if err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	if p == nil {
		t.Fatal("Setup() = nil, want provider")
	}
	if p.TracerProvider() == nil {
		t.Error("TracerProvider() = nil")
	}

	// No spans were recorded; shutdown must flush cleanly without a
	// collector being reachable.
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error: %v", err)
	}
}
