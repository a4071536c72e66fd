package phoenix

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"guidecraft/pkg/settings"
)

func TestSetup_DisabledWithoutKey(t *testing.T) {
	var buf bytes.Buffer
	shutdown, ok := Setup(context.Background(), settings.PhoenixSettings{
		CollectorEndpoint: settings.DefaultPhoenixEndpoint,
		ProjectName:       settings.DefaultPhoenixProject,
	}, &buf)

	if ok {
		t.Error("Setup reported enabled without an API key")
	}
	if !strings.Contains(buf.String(), "tracing disabled") {
		t.Errorf("missing disabled notice: %q", buf.String())
	}

	// The no-op shutdown must be callable.
	shutdown(context.Background())
}

func TestTracer_NoopWithoutSetup(t *testing.T) {
	tracer := Tracer()
	_, span := tracer.Start(context.Background(), "write_section")
	span.End()
}
