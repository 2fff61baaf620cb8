package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := log
	log = zerolog.New(&buf)
	defer func() { log = prev }()

	Component("requests").Info().Str("request_id", "r1").Msg("request accepted")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}
	if entry["component"] != "requests" || entry["request_id"] != "r1" {
		t.Errorf("unexpected entry %v", entry)
	}
	if entry["level"] != "info" || entry["message"] != "request accepted" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestInit_DefaultsToInfo(t *testing.T) {
	prev := log
	defer func() { log = prev }()

	Init("not-a-level")
	if got := log.GetLevel(); got != zerolog.InfoLevel {
		t.Errorf("level = %v, expected info", got)
	}
	Init("debug")
	if got := log.GetLevel(); got != zerolog.DebugLevel {
		t.Errorf("level = %v, expected debug", got)
	}
}
