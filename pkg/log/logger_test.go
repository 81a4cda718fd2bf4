package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type recordingLogger struct {
	msgs   []string
	fields [][]Field
}

func (r *recordingLogger) record(msg string, fields []Field) {
	r.msgs = append(r.msgs, msg)
	r.fields = append(r.fields, fields)
}

func (r *recordingLogger) Debug(msg string, fields ...Field) { r.record(msg, fields) }
func (r *recordingLogger) Info(msg string, fields ...Field)  { r.record(msg, fields) }
func (r *recordingLogger) Warn(msg string, fields ...Field)  { r.record(msg, fields) }
func (r *recordingLogger) Error(msg string, fields ...Field) { r.record(msg, fields) }

func TestWith_PrependsFields(t *testing.T) {
	rec := &recordingLogger{}
	l := With(rec, String("run_id", "abc"))

	l.Info("hello", Int("n", 1))

	if len(rec.fields) != 1 {
		t.Fatalf("got %d messages, want 1", len(rec.fields))
	}
	got := rec.fields[0]
	if len(got) != 2 || got[0].Key != "run_id" || got[1].Key != "n" {
		t.Errorf("fields = %+v, want run_id then n", got)
	}
}

func TestWith_NoFieldsReturnsSameLogger(t *testing.T) {
	rec := &recordingLogger{}
	if With(rec) != Logger(rec) {
		t.Error("With without fields should return the original logger")
	}
}

func TestZerologAdapter_WritesFieldsAndRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapterWithLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	l.Debug("hidden")
	l.Warn("visible", String("stage", "Launching"), Err(errors.New("boom")), Bool("proxy", true))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message written at info level: %s", out)
	}
	for _, want := range []string{`"stage":"Launching"`, `"error":"boom"`, `"proxy":true`, `"message":"visible"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewZerologAdapter_ConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapter(&buf, zerolog.WarnLevel)

	l.Info("quiet")
	l.Error("loud", String("server", "default"))

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info message written at warn level: %s", out)
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, "server=") {
		t.Errorf("console output missing message or field: %s", out)
	}
	if got := l.Logger().GetLevel(); got != zerolog.WarnLevel {
		t.Errorf("Logger().GetLevel() = %v, want warn", got)
	}
}
