package logx

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("Unmarshal(%q) error = %v", buf.String(), err)
	}
	return line
}

func TestBuildTagsService(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := build(&buf, &Config{Service: "shopping-assistant"})

	l.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line written at info level: %s", buf.String())
	}

	l.Info().Str("session_id", "s1").Msg("turn handled")
	line := decodeLine(t, &buf)
	if line["service"] != "shopping-assistant" || line["session_id"] != "s1" {
		t.Fatalf("line = %v", line)
	}
	if _, ok := line["caller"]; ok {
		t.Fatalf("caller set outside debug: %v", line)
	}
}

func TestBuildDebugAddsCaller(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := build(&buf, &Config{Debug: true})

	l.Debug().Msg("visible")
	line := decodeLine(t, &buf)
	if caller, _ := line["caller"].(string); !strings.Contains(caller, "logger_test.go") {
		t.Fatalf("caller = %v", line["caller"])
	}
	if _, ok := line["service"]; ok {
		t.Fatalf("service set without a name: %v", line)
	}
}

// Not parallel: swaps the global logger.
func TestComponentFollowsGlobal(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	log.Logger = build(&buf, &Config{Service: "svc"})

	Component("orchestrator").Info().Msg("ready")
	line := decodeLine(t, &buf)
	if line["component"] != "orchestrator" || line["service"] != "svc" {
		t.Fatalf("line = %v", line)
	}
}
