package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("ledger imported")

	if !strings.Contains(buf.String(), "ledger imported") {
		t.Errorf("output = %q, want message", buf.String())
	}
}

func TestNewLevel(t *testing.T) {
	if got := NewLevel("warn").GetLevel(); got != zerolog.WarnLevel {
		t.Errorf("level = %v, want warn", got)
	}
	if got := NewLevel("nonsense").GetLevel(); got != zerolog.InfoLevel {
		t.Errorf("level = %v, want info", got)
	}
	if got := NewLevel("").GetLevel(); got != zerolog.InfoLevel {
		t.Errorf("level = %v, want info", got)
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("sweep")

	if buf.Len() == 0 {
		t.Error("expected output from the context logger")
	}
}

func TestFromContextDefault(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() == zerolog.Disabled {
		t.Error("default logger should be enabled")
	}
}

func TestWithFieldsAndForUser(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithFields(NewWithWriter(buf), map[string]any{"action": "LOCKED_BUDGET"})
	log = ForUser(log, "alice")
	log.Info().Msg("guardian")

	out := buf.String()
	for _, want := range []string{`"action":"LOCKED_BUDGET"`, `"user_id":"alice"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output = %s, missing %s", out, want)
		}
	}
}
