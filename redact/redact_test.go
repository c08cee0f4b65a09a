package redact

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	tests := []struct {
		name      string
		fields    []string
		message   string
		separator string
		want      string
	}{
		{
			name:      "SingleField",
			fields:    []string{"password"},
			message:   "name=bob;password=hunter2;",
			separator: ";",
			want:      "name=bob;password=***;",
		},
		{
			name:      "MultipleFields",
			fields:    []string{"email", "ssn"},
			message:   "email=bob@example.com;ssn=123-45-6789;last_login=today;",
			separator: ";",
			want:      "email=***;ssn=***;last_login=today;",
		},
		{
			name:      "AllPIIFields",
			fields:    PIIFields,
			message:   "name=Ann;email=a@b.c;phone=555-0100;ssn=000;password=pw;ip=10.0.0.1;",
			separator: ";",
			want:      "name=***;email=***;phone=***;ssn=***;password=***;ip=10.0.0.1;",
		},
		{
			name:      "AlternateSeparator",
			fields:    []string{"password"},
			message:   "user=bob&password=pw&role=admin",
			separator: "&",
			want:      "user=bob&password=***&role=admin",
		},
		{
			name:      "NoMatch",
			fields:    []string{"password"},
			message:   "status=ok;",
			separator: ";",
			want:      "status=ok;",
		},
		{
			name:      "NoFields",
			fields:    nil,
			message:   "password=pw;",
			separator: ";",
			want:      "password=pw;",
		},
		{
			name:      "EmptySeparator",
			fields:    []string{"password"},
			message:   "password=pw;",
			separator: "",
			want:      "password=pw;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(tt.fields, "***", tt.message, tt.separator)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandler_RedactsAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil), PIIFields))

	logger.Info("user logged in", "email", "bob@example.com", "ip", "10.0.0.1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "***", entry["email"])
	assert.Equal(t, "10.0.0.1", entry["ip"])
}

func TestHandler_RedactsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil), PIIFields))

	logger.Info("rejected record name=bob;ssn=123-45-6789;")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "rejected record name=***;ssn=***;", entry["msg"])
}

func TestHandler_WithAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil), PIIFields))

	logger.With("password", "hunter2").WithGroup("req").Info("ok", "phone", "555-0100")

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "555-0100")
	assert.Equal(t, 2, strings.Count(out, "***"))
}

func TestHandler_Enabled(t *testing.T) {
	h := NewHandler(slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}), PIIFields)

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}
